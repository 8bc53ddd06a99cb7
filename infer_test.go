package apla_test

import (
	"apla"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func untyped(name string) *apla.VariableSymbol {
	return apla.NewVariableSymbol(apla.Mutable, name, apla.Type{}, false)
}

func TestInferAndCheck(t *testing.T) {
	typ, err := apla.InferAndCheck(apla.Resolved{Type: apla.Numeric}, apla.Named("c_int"), apla.Span{})
	require.NoError(t, err)
	assert.Equal(t, apla.Named("c_int"), typ)

	_, err = apla.InferAndCheck(apla.Resolved{Type: apla.Text}, apla.Named("c_int"), apla.Span{})
	assert.Equal(t, []apla.ErrorKind{apla.TypeMismatch}, errorKinds(err))

	_, err = apla.InferAndCheck(apla.Resolved{}, apla.Numeric, apla.Span{})
	assert.Equal(t, []apla.ErrorKind{apla.UninferableType}, errorKinds(err))
}

func TestInferAndCheck_AssignsUntypedVariable(t *testing.T) {
	x := untyped("x")
	typ, err := apla.InferAndCheck(apla.Resolved{Symbol: x}, apla.Text, apla.Span{})
	require.NoError(t, err)
	assert.Equal(t, apla.Text, typ)
	assert.Equal(t, apla.Text, x.Type)

	_, err = apla.InferAndCheck(apla.Resolved{Symbol: x}, apla.Numeric, apla.Span{})
	assert.Equal(t, []apla.ErrorKind{apla.TypeMismatch}, errorKinds(err))
}

func TestInferAndCheck2(t *testing.T) {
	a, b := untyped("a"), untyped("b")
	_, err := apla.InferAndCheck2(apla.Resolved{Symbol: a}, apla.Resolved{Symbol: b}, apla.Span{})
	assert.Equal(t, []apla.ErrorKind{apla.UninferableType}, errorKinds(err))

	typ, err := apla.InferAndCheck2(apla.Resolved{Symbol: a}, apla.Resolved{Type: apla.Numeric}, apla.Span{})
	require.NoError(t, err)
	assert.Equal(t, apla.Numeric, typ)
	assert.Equal(t, apla.Numeric, a.Type)

	typ, err = apla.InferAndCheck2(apla.Resolved{Symbol: a}, apla.Resolved{Symbol: b}, apla.Span{})
	require.NoError(t, err)
	assert.Equal(t, apla.Numeric, typ)
	assert.Equal(t, apla.Numeric, b.Type)

	c := apla.NewVariableSymbol(apla.Mutable, "c", apla.Named("c_int"), true)
	typ, err = apla.InferAndCheck2(apla.Resolved{Symbol: c}, apla.Resolved{Type: apla.Numeric}, apla.Span{})
	require.NoError(t, err)
	assert.Equal(t, apla.Numeric, typ)
}
