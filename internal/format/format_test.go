package format

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"transkey/internal/domain"
)

type person struct {
	First string
	Last  string
	age   int
}

func (p person) Full() string { return p.First + " " + p.Last }

func (p *person) Initials() string { return p.First[:1] + p.Last[:1] }

type badge struct{ Label string }

func (b badge) TranslationKey() domain.TranslationKey { return domain.OpaqueKey{Name: "badge"} }

// recorder is a Translation that echoes what it was asked to translate.
type recorder struct {
	keys []domain.TranslationKey
	args []domain.Arg
}

func (r *recorder) Translate(locale language.Tag, key domain.TranslationKey, arg domain.Arg) (string, error) {
	r.keys = append(r.keys, key)
	r.args = append(r.args, arg)
	return fmt.Sprintf("%v@%s", key, locale), nil
}

func (r *recorder) TranslateValue(locale language.Tag, v any) (string, error) {
	return fmt.Sprintf("value(%v)@%s", v, locale), nil
}

var ada = person{First: "Ada", Last: "Lovelace"}

func TestConst(t *testing.T) {
	c := NewConst("fixed")
	out, err := c.Format(domain.Many(1, 2), language.English, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)

	for _, at := range []domain.ArgType{domain.VoidArg, domain.ValueOf[int](), domain.ArrayOf[string](), domain.AnyOf(domain.ShapeIterable)} {
		assert.True(t, c.Accepts(at), at.String())
	}
}

func TestProperty(t *testing.T) {
	v, err := Property("First").Get(domain.One(ada))
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	v, err = Property("Full").Get(domain.One(ada))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", v)

	v, err = Property("Initials").Get(domain.One(&ada))
	require.NoError(t, err)
	assert.Equal(t, "AL", v)

	_, err = Property("age").Get(domain.One(ada))
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	_, err = Property("First").Get(domain.Many(ada))
	var shapeErr *domain.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, domain.ShapeArray, shapeErr.Got)
}

func TestProperty_Accepts(t *testing.T) {
	tests := []struct {
		prop string
		at   domain.ArgType
		want bool
	}{
		{"First", domain.ValueOf[person](), true},
		{"First", domain.ValueOf[*person](), true},
		{"Full", domain.ValueOf[person](), true},
		{"Initials", domain.ValueOf[*person](), true},
		{"Initials", domain.ValueOf[person](), false},
		{"age", domain.ValueOf[person](), false},
		{"First", domain.ValueOf[int](), false},
		{"First", domain.ArrayOf[person](), false},
		{"First", domain.AnyOf(domain.ShapeValue), false},
		{"String", domain.ValueOf[fmt.Stringer](), true},
	}
	for _, tt := range tests {
		t.Run(tt.prop+"/"+tt.at.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Property(tt.prop).Accepts(tt.at))
		})
	}
}

func TestFunc(t *testing.T) {
	g := Func(func(p person) int { return len(p.Last) })

	v, err := g.Get(domain.One(ada))
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	_, err = g.Get(domain.One("not a person"))
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	assert.True(t, g.Accepts(domain.ValueOf[person]()))
	assert.False(t, g.Accepts(domain.ValueOf[string]()))
	assert.True(t, Func(func(s fmt.Stringer) string { return s.String() }).Accepts(domain.ValueOf[language.Tag]()))
}

func TestSelf(t *testing.T) {
	v, err := Self().Get(domain.One(3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.True(t, Self().Accepts(domain.AnyOf(domain.ShapeValue)))
	assert.False(t, Self().Accepts(domain.VoidArg))
}

func TestByKey(t *testing.T) {
	key := domain.NewEnumKey(0, "NAME", domain.ArrayOf[string]())
	f := ByKey[string](Func(func(p person) []string { return []string{p.First, p.Last} }), key)

	rec := &recorder{}
	out, err := f.Format(domain.One(ada), language.French, rec)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%v@fr", key), out)
	require.Len(t, rec.args, 1)
	vs, _ := rec.args[0].Values()
	assert.Equal(t, []any{"Ada", "Lovelace"}, vs)

	assert.True(t, f.Accepts(domain.ValueOf[person]()))
	assert.False(t, f.Accepts(domain.ValueOf[int]()))
}

func TestByKey_ShapeMismatchFails(t *testing.T) {
	key := domain.NewEnumKey(0, "NAME", domain.ArrayOf[string]())
	f := ByKey[string](Property("First"), key)

	_, err := f.Format(domain.One(ada), language.English, &recorder{})
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))
}

func TestByTranslatable(t *testing.T) {
	f := ByTranslatable[string](Property("Label"))
	out, err := f.Format(domain.One(badge{Label: "gold"}), language.German, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "value(gold)@de", out)
}

func TestCollecting_Order(t *testing.T) {
	f := Concat(NewConst("a"), NewConst("b"), NewConst("c"))
	out, err := f.Format(domain.NoArg(), language.English, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "abc", out)

	j := Joining(", ", ByTranslatable[string](Property("First")), NewConst("!"))
	out, err = j.Format(domain.One(ada), language.English, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "value(Ada)@en, !", out)

	sum := Collect[int](func(xs []int) int {
		total := 0
		for _, x := range xs {
			total = total*10 + x
		}
		return total
	}, NewConst(1), NewConst(2), NewConst(3))
	n, err := sum.Format(domain.NoArg(), language.English, nil)
	require.NoError(t, err)
	assert.Equal(t, 123, n)
}

func TestCollecting_AcceptsIntersection(t *testing.T) {
	f := Concat(NewConst("a"), ByTranslatable[string](Property("First")))

	assert.True(t, f.Accepts(domain.ValueOf[person]()))
	assert.False(t, f.Accepts(domain.VoidArg))
	assert.True(t, Concat().Accepts(domain.VoidArg))
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		arg     domain.Arg
		want    string
	}{
		{"positional", "{1}, {0}", domain.Many("Ada", "Lovelace"), "Lovelace, Ada"},
		{"repeated", "{0}{0}", domain.Many("x"), "xx"},
		{"iterable", "{0}-{1}", domain.Seq(slices.Values([]any{"a", "b"})), "a-b"},
		{"unknown index", "{0} {3}", domain.Many("a"), "a {3}"},
		{"quoted placeholder", "'{0}' is {0}", domain.Many("x"), "{0} is x"},
		{"escaped quote", "it''s {0}", domain.Many("x"), "it's x"},
		{"not a placeholder", "{name} {}", domain.Many("x"), "{name} {}"},
		{"no placeholders", "plain", domain.NoArg(), "plain"},
		{"grouped number", "{0} items", domain.Many(1500), "1,500 items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewTemplate(tt.pattern).Format(tt.arg, language.English, &recorder{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTemplate_TranslatesNestedValues(t *testing.T) {
	req := domain.NewRequest(domain.OpaqueKey{Name: "k"}, domain.NoArg())
	out, err := NewTemplate("{0} / {1}").Format(domain.Many(badge{Label: "gold"}, req), language.French, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("value(%v)@fr / value(%v)@fr", badge{Label: "gold"}, req), out)
}

func TestTemplate_ShapeErrors(t *testing.T) {
	tpl := NewTemplate("Hello {0}")

	_, err := tpl.Format(domain.NoArg(), language.English, &recorder{})
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	_, err = tpl.Format(domain.One("Ada"), language.English, &recorder{})
	var shapeErr *domain.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, domain.ShapeValue, shapeErr.Got)
}

func TestTemplate_Accepts(t *testing.T) {
	withArgs := NewTemplate("Hello {0}")
	noArgs := NewTemplate("Hello")

	assert.Equal(t, 1, withArgs.Placeholders())
	assert.True(t, withArgs.Accepts(domain.ArrayOf[string]()))
	assert.True(t, withArgs.Accepts(domain.AnyOf(domain.ShapeIterable)))
	assert.False(t, withArgs.Accepts(domain.VoidArg))
	assert.False(t, withArgs.Accepts(domain.ValueOf[string]()))
	assert.True(t, noArgs.Accepts(domain.VoidArg))
}

func TestNamed(t *testing.T) {
	n := NewNamed("Hello {{.First}} {{.Last}}")

	out, err := n.Format(domain.One(ada), language.English, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada Lovelace", out)

	out, err = n.Format(domain.One(map[string]any{"First": "Grace", "Last": "Hopper"}), language.French, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello Grace Hopper", out)

	_, err = n.Format(domain.Many("a"), language.English, nil)
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	assert.True(t, n.Accepts(domain.ValueOf[person]()))
	assert.True(t, n.Accepts(domain.ValueOf[*person]()))
	assert.True(t, n.Accepts(domain.ValueOf[map[string]any]()))
	assert.False(t, n.Accepts(domain.ValueOf[int]()))
	assert.False(t, n.Accepts(domain.VoidArg))
	assert.True(t, NewNamed("static").Accepts(domain.VoidArg))
}

func TestNamed_RejectsUnresolvedFields(t *testing.T) {
	n := NewNamed("Hello {{.First}}")

	out, err := n.Format(domain.NoArg(), language.English, nil)
	assert.Empty(t, out)
	var se *domain.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.ShapeVoid, se.Got)

	out, err = n.Format(domain.One(map[string]any{"Other": 1}), language.English, nil)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	_, err = n.Format(domain.One(struct{ Other int }{1}), language.English, nil)
	assert.True(t, errors.Is(err, domain.ErrArgumentShape))

	out, err = NewNamed("static").Format(domain.NoArg(), language.English, nil)
	require.NoError(t, err)
	assert.Equal(t, "static", out)
}

func TestFromMessage(t *testing.T) {
	f, err := FromMessage("Hi {{.First}}", language.English)
	require.NoError(t, err)
	assert.IsType(t, &Named{}, f)

	f, err = FromMessage("Hi {0}", language.English)
	require.NoError(t, err)
	assert.IsType(t, &Template{}, f)
}
