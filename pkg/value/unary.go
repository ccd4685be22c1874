package value

import (
	"math/big"

	"github.com/qcore-lang/qcore/pkg/ids"
)

// Neg implements unary negation: wraps on Int, exact on BigInt/Double.
func Neg(v Value, span ids.PackageSpan) (Value, error) {
	switch x := v.(type) {
	case BigInt:
		return NewBigInt(new(big.Int).Neg(x.V)), nil
	case Double:
		return -x, nil
	case Int:
		return Int(-uint64(x)), nil
	default:
		return nil, typeMismatch("Neg", span)
	}
}

// NotB implements bitwise complement on Int/BigInt.
func NotB(v Value, span ids.PackageSpan) (Value, error) {
	switch x := v.(type) {
	case Int:
		return ^x, nil
	case BigInt:
		return NewBigInt(new(big.Int).Not(x.V)), nil
	default:
		return nil, typeMismatch("NotB", span)
	}
}

// NotL implements logical negation on Bool.
func NotL(v Value, span ids.PackageSpan) (Value, error) {
	if b, ok := v.(Bool); ok {
		return !b, nil
	}
	return nil, typeMismatch("NotL", span)
}

// Pos is the identity on any numeric value.
func Pos(v Value, span ids.PackageSpan) (Value, error) {
	switch v.(type) {
	case BigInt, Double, Int:
		return v, nil
	default:
		return nil, typeMismatch("Pos", span)
	}
}
