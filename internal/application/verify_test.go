package application

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"transkey/internal/domain"
	"transkey/internal/format"
	"transkey/internal/registry"
)

type verifyFixture struct {
	tbl    *registry.Table
	keys   *KeyToString
	source *StaticSource[string]
	a, b   domain.EnumKey
	price  domain.ClassKey
}

func newVerifyFixture(t *testing.T) verifyFixture {
	t.Helper()
	tbl := registry.New()
	fam := tbl.Enum("verify", "Label", domain.ArrayOf[string]())
	f := verifyFixture{
		tbl:   tbl,
		keys:  NewKeyToString(tbl),
		a:     fam.Key("A"),
		b:     fam.Key("B"),
		price: registry.ClassOf[Money](tbl),
	}
	f.source = NewStaticSource[string](f.keys, "fixture")

	amount := format.ByTranslatable[string](format.Property("Amount"))
	require.NoError(t, f.source.Add(language.English, f.a, format.NewTemplate("a {0}")))
	require.NoError(t, f.source.Add(language.English, f.b, format.NewTemplate("b {0}")))
	require.NoError(t, f.source.Add(language.English, f.price, amount))
	require.NoError(t, f.source.Add(language.French, f.a, format.NewTemplate("a {0}")))
	require.NoError(t, f.source.Add(language.French, f.price, format.NewTemplate("{0} EUR")))
	return f
}

var bothLocales = []language.Tag{language.English, language.French}

func TestVerify_Completeness(t *testing.T) {
	f := newVerifyFixture(t)
	v := NewVerifier[string](f.keys, f.source)

	report, err := v.Verify(f.tbl, "", bothLocales)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Checked)
	assert.False(t, report.OK())
	require.Len(t, report.Findings, 2)

	missing := report.Missing()
	require.Len(t, missing, 1)
	assert.Equal(t, language.French, missing[0].Locale)
	assert.Equal(t, f.b, missing[0].Key)
	assert.Equal(t, "verify.Label.b", missing[0].KeyString)

	mismatches := report.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, language.French, mismatches[0].Locale)
	assert.Equal(t, f.price, mismatches[0].Key)
	assert.Equal(t, reflect.TypeFor[Money]().PkgPath()+".Money", mismatches[0].KeyString)
	assert.Equal(t, "*format.Template", mismatches[0].Formatter)
	assert.Equal(t, domain.ValueOf[Money](), mismatches[0].ArgType)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify.Label.b")
}

func TestVerify_FindingsSorted(t *testing.T) {
	f := newVerifyFixture(t)
	v := NewVerifier[string](f.keys, NewStaticSource[string](f.keys, "empty"))

	report, err := v.VerifyKeys([]domain.TranslationKey{f.b, f.a}, []language.Tag{language.French, language.English})
	require.NoError(t, err)
	require.Len(t, report.Findings, 4)

	var got []string
	for _, finding := range report.Findings {
		got = append(got, finding.KeyString+"@"+finding.Locale.String())
	}
	assert.Equal(t, []string{
		"verify.Label.a@en",
		"verify.Label.a@fr",
		"verify.Label.b@en",
		"verify.Label.b@fr",
	}, got)
}

func TestVerify_ParallelMatchesSequential(t *testing.T) {
	f := newVerifyFixture(t)
	locales := []language.Tag{language.English, language.French, language.German, language.Spanish}

	seq, err := NewVerifier[string](f.keys, f.source).Verify(f.tbl, "", locales)
	require.NoError(t, err)
	par, err := NewVerifier[string](f.keys, f.source, WithParallelism(8)).Verify(f.tbl, "", locales)
	require.NoError(t, err)

	assert.Equal(t, seq, par)
}

type failingDiscovery struct{ err error }

func (d failingDiscovery) Discover(string) ([]domain.TranslationKey, error) { return nil, d.err }

func TestVerify_DiscoveryFailure(t *testing.T) {
	keys := NewKeyToString(types)
	cause := &domain.DiscoveryError{Type: "broken.Labels", Err: errors.New("values unavailable")}

	report, err := NewVerifier[string](keys, NewStaticSource[string](keys, "empty")).Verify(failingDiscovery{cause}, "broken", bothLocales)
	assert.Nil(t, report)

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "broken.Labels", de.Type)
}

func TestVerify_EmptyFamilyDoesNotBlockOthers(t *testing.T) {
	tbl := registry.New()
	ok := tbl.Enum("app", "Labels", domain.VoidArg).Key("OK")
	tbl.Enum("app", "Unused", domain.VoidArg)
	keys := NewKeyToString(tbl)
	source := NewStaticSource[string](keys, "labels")
	require.NoError(t, source.Add(language.English, ok, format.NewConst("ok")))

	report, err := NewVerifier[string](keys, source).Verify(tbl, "app", []language.Tag{language.English})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.True(t, report.OK())
}

func TestVerify_WrapsForeignDiscoveryErrors(t *testing.T) {
	boom := errors.New("scan failed")
	keys := NewKeyToString(types)

	_, err := NewVerifier[string](keys, NewStaticSource[string](keys, "empty")).Verify(failingDiscovery{boom}, "app", bothLocales)
	assert.True(t, errors.Is(err, domain.ErrDiscovery))
	assert.True(t, errors.Is(err, boom))

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "app", de.Type)
}

func TestVerify_SkipsOpaqueKeys(t *testing.T) {
	f := newVerifyFixture(t)
	v := NewVerifier[string](f.keys, f.source)

	report, err := v.VerifyKeys([]domain.TranslationKey{domain.OpaqueKey{Name: "x"}, f.a}, bothLocales)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
}

func TestVerify_BrokenKeyAborts(t *testing.T) {
	f := newVerifyFixture(t)
	v := NewVerifier[string](f.keys, f.source, WithParallelism(2))

	_, err := v.VerifyKeys([]domain.TranslationKey{f.a, domain.NewEnumKey(f.a.Owner(), "GONE", domain.VoidArg)}, bothLocales)
	assert.True(t, errors.Is(err, domain.ErrBrokenDiscriminant))
}

func TestVerify_ComposedSource(t *testing.T) {
	keys := NewKeyToString(types)
	src := NewComposedSource(keys, messages, format.FromMessage)

	report, err := NewVerifier[string](keys, src).VerifyKeys(
		[]domain.TranslationKey{greetingKey, farewellKey, userKey}, []language.Tag{language.English})
	require.NoError(t, err)
	assert.True(t, report.OK(), "findings: %v", report.Err())

	report, err = NewVerifier[string](keys, src).VerifyKeys([]domain.TranslationKey{userKey}, []language.Tag{language.French})
	require.NoError(t, err)
	require.Len(t, report.Missing(), 1)
	assert.Equal(t, "people.User", report.Missing()[0].KeyString)
}

func TestCells(t *testing.T) {
	f := newVerifyFixture(t)
	cells, err := NewVerifier[string](f.keys, f.source).Cells([]domain.TranslationKey{f.a, f.b}, bothLocales)
	require.NoError(t, err)
	require.Len(t, cells, 4)

	assert.Equal(t, language.English, cells[0].Locale)
	assert.Equal(t, f.a, cells[0].Key)
	assert.True(t, cells[0].Found)
	assert.Equal(t, language.French, cells[3].Locale)
	assert.Equal(t, f.b, cells[3].Key)
	assert.False(t, cells[3].Found)
	assert.Nil(t, cells[3].Formatter)
}
