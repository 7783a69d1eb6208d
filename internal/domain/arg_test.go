package domain

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArg_Shapes(t *testing.T) {
	assert.Equal(t, ShapeVoid, NoArg().Shape())
	assert.Equal(t, ShapeVoid, Arg{}.Shape())
	assert.Equal(t, ShapeValue, One(3).Shape())
	assert.Equal(t, ShapeArray, Many("a", "b").Shape())
	assert.Equal(t, ShapeIterable, Seq(slices.Values([]any{1})).Shape())
}

func TestArg_ManyCopiesInput(t *testing.T) {
	in := []any{"a", "b"}
	a := Many(in...)
	in[0] = "z"

	vs, ok := a.Values()
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, vs)
}

func TestArg_ValueAndValues(t *testing.T) {
	v, ok := One("x").Value()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Many("x").Value()
	assert.False(t, ok)

	_, ok = One("x").Values()
	assert.False(t, ok)

	vs, ok := Seq(slices.Values([]any{1, 2, 3})).Values()
	require.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, vs)
}

func TestArgAs(t *testing.T) {
	a, err := ArgAs(ArrayOf[string](), []string{"Ada", "Lovelace"})
	require.NoError(t, err)
	vs, _ := a.Values()
	assert.Equal(t, []any{"Ada", "Lovelace"}, vs)

	a, err = ArgAs(IterableOf[int](), [2]int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, ShapeIterable, a.Shape())
	vs, _ = a.Values()
	assert.Equal(t, []any{4, 5}, vs)

	a, err = ArgAs(ValueOf[int](), 7)
	require.NoError(t, err)
	v, _ := a.Value()
	assert.Equal(t, 7, v)

	a, err = ArgAs(VoidArg, "ignored")
	require.NoError(t, err)
	assert.Equal(t, ShapeVoid, a.Shape())

	a, err = ArgAs(ArrayOf[string](), Many("kept"))
	require.NoError(t, err)
	vs, _ = a.Values()
	assert.Equal(t, []any{"kept"}, vs)
}

func TestArgAs_RejectsScalarForArray(t *testing.T) {
	_, err := ArgAs(ArrayOf[string](), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArgumentShape))

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, ShapeValue, shapeErr.Got)
}

func TestArgAs_NilIsVoid(t *testing.T) {
	_, err := ArgAs(ArrayOf[string](), nil)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, ShapeVoid, shapeErr.Got)
}

func TestArgType_String(t *testing.T) {
	assert.Equal(t, "void", VoidArg.String())
	assert.Equal(t, "array(string)", ArrayOf[string]().String())
	assert.Equal(t, "iterable", AnyOf(ShapeIterable).String())
}

func TestParseShape(t *testing.T) {
	for _, s := range []Shape{ShapeVoid, ShapeValue, ShapeArray, ShapeIterable} {
		got, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseShape("tuple")
	assert.Error(t, err)
}
