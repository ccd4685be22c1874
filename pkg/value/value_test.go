package value_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/value"
)

var noSpan ids.PackageSpan

func TestIntAddWraps(t *testing.T) {
	lhs := value.Int(math.MaxInt64)
	rhs := value.Int(1)
	got, err := value.Add(lhs, rhs, noSpan)
	require.NoError(t, err)
	assert.Equal(t, value.Int(math.MinInt64), got)
}

func TestBigIntAddNeverOverflows(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	lhs := value.NewBigInt(huge)
	rhs := value.NewBigInt(big.NewInt(1))
	got, err := value.Add(lhs, rhs, noSpan)
	require.NoError(t, err)
	want := new(big.Int).Add(huge, big.NewInt(1))
	assert.Equal(t, 0, got.(value.BigInt).V.Cmp(want))
}

func TestIntDivByZero(t *testing.T) {
	_, err := value.Div(value.Int(1), value.Int(0), noSpan)
	require.Error(t, err)
	assert.Equal(t, "Qsc.Eval.DivZero: division by zero", err.Error())
}

func TestBigIntDivByZero(t *testing.T) {
	_, err := value.Div(value.NewBigInt(big.NewInt(1)), value.NewBigInt(big.NewInt(0)), noSpan)
	require.Error(t, err)
}

func TestDoubleDivByZeroDoesNotError(t *testing.T) {
	got, err := value.Div(value.Double(1.0), value.Double(0.0), noSpan)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(got.(value.Double)), 1))
}

func TestExpNegativeExponentErrors(t *testing.T) {
	_, err := value.Exp(value.Int(2), value.Int(-1), noSpan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Qsc.Eval.InvalidNegativeInt")
}

func TestExpOverflowErrors(t *testing.T) {
	_, err := value.Exp(value.Int(2), value.Int(63), noSpan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Qsc.Eval.IntTooLarge")
}

func TestShiftByNegativeCountFlipsDirection(t *testing.T) {
	left, err := value.Shl(value.Int(8), value.Int(-2), noSpan)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), left)

	right, err := value.Shr(value.Int(2), value.Int(-2), noSpan)
	require.NoError(t, err)
	assert.Equal(t, value.Int(8), right)
}

func TestDoubleEqualityIsBitwiseNotEpsilon(t *testing.T) {
	nan := value.Double(math.NaN())
	assert.False(t, value.Equal(nan, nan))
	assert.True(t, value.Equal(value.Double(1.0), value.Double(1.0)))
}

func TestAdjointTwiceIsIdentity(t *testing.T) {
	f := ids.FunctorApp{}
	twice := f.Adj().Adj()
	assert.Equal(t, f, twice)
}

func TestControlledNTimesIncrementsByN(t *testing.T) {
	f := ids.FunctorApp{}
	for i := 0; i < 3; i++ {
		f = f.Ctl()
	}
	assert.Equal(t, uint8(3), f.Controlled)
}

func TestArrayShareClearsUniqueOwnership(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2)})
	assert.True(t, a.IsUniquelyOwned())

	shared := a.Share()
	assert.False(t, shared.IsUniquelyOwned())
	assert.True(t, a.IsUniquelyOwned() == false, "sharing flips the same backing handle")
}

func TestArrayUpdateRoundTrip(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	items := append([]value.Value{}, a.Items()...)
	items[1] = value.Int(9)
	updated := value.NewArray(items)
	assert.True(t, value.Equal(updated.Items()[1], value.Int(9)))

	roundTrip := append([]value.Value{}, updated.Items()...)
	roundTrip[1] = value.Int(2)
	restored := value.NewArray(roundTrip)
	assert.True(t, value.Equal(restored, a))
}
