package value

// Equal implements structural equality: elementwise for
// Array/Tuple, bitwise-numeric for Double (so NaN != NaN, no epsilon
// tolerance), and tag-mismatch is simply false rather than a TypeMismatch —
// `==`/`!=` in the source language are well-typed for any two values of the
// same static type, and the compiler never emits them for mismatched types.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Unit:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case BigInt:
		return av.V.Cmp(b.(BigInt).V) == 0
	case Double:
		return av == b.(Double)
	case String:
		return av == b.(String)
	case PauliValue:
		return av.P == b.(PauliValue).P
	case ResultValue:
		return av.R == b.(ResultValue).R
	case QubitValue:
		return av.Q == b.(QubitValue).Q
	case Range:
		bv := b.(Range)
		return optEqual(av.Start, bv.Start) && av.Step == bv.Step && optEqual(av.End, bv.End)
	case Array:
		bv := b.(Array)
		ai, bi := av.PeekItems(), bv.PeekItems()
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !Equal(ai[i], bi[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bv := b.(Tuple)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Global:
		bv := b.(Global)
		return av.Item == bv.Item && av.Functor == bv.Functor
	case Closure:
		// Closures compare by identity of callee+functor+captured values;
		// two closures over the same callable with equal captures compare
		// equal, matching value-level equality for everything else here.
		bv := b.(Closure)
		if av.Item != bv.Item || av.Functor != bv.Functor || len(av.Captured) != len(bv.Captured) {
			return false
		}
		for i := range av.Captured {
			if !Equal(av.Captured[i], bv.Captured[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func optEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
