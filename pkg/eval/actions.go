package eval

import (
	"fmt"
	"strings"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

// runAction executes one popped Action against the value stack. It
// returns an error to signal a fail-fast EvalError; everything else is
// pushed onto vals or effected on s.Env directly.
func (s *State) runAction(a Action) error {
	switch a.Kind {
	case ActTuple:
		items := s.popN(a.Count)
		s.pushVal(value.Tuple{Items: items})
		return nil

	case ActArray:
		items := s.popN(a.Count)
		s.pushVal(value.NewArray(items))
		return nil

	case ActArrayRepeat:
		return s.runArrayRepeat(a)

	case ActStringConcat:
		return s.runStringConcat(a)

	case ActBinOp:
		return s.runBinOp(a)

	case ActUnOp:
		return s.runUnOp(a)

	case ActIf:
		return s.runIf(a)

	case ActWhile:
		return s.runWhile(a)

	case ActRange:
		return s.runRange(a)

	case ActIndex:
		return s.runIndex(a)

	case ActUpdateIndex:
		return s.runUpdateIndex(a)

	case ActUpdateIndexInPlace:
		return s.runUpdateIndexInPlace(a)

	case ActArrayAppendInPlace:
		return s.runCompoundAssign(a)

	case ActField:
		return s.runField(a)

	case ActUpdateField:
		return s.runUpdateField(a)

	case ActBind:
		return s.runBind(a)

	case ActUpdateBinding:
		val := s.popVal()
		v, ok := s.Env.Get(a.Local)
		if !ok || !v.IsMutable() {
			return diagnostic.UnboundName(a.Span)
		}
		v.Value = val
		s.pushVal(value.UnitValue)
		return nil

	case ActCall:
		return s.runCall(a)

	case ActReturn:
		s.unwindToFrame()
		return nil

	case ActConsume:
		v := s.popVal()
		if a.IsFail {
			msg, ok := v.(value.String)
			if !ok {
				return diagnostic.TypeMismatch("fail message", a.Span)
			}
			return diagnostic.UserFail(string(msg), a.Span)
		}
		if a.Void {
			s.pushVal(value.UnitValue)
		}
		return nil

	default:
		return diagnostic.TypeMismatch("action", a.Span)
	}
}

func (s *State) popN(n int) []value.Value {
	items := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		items[i] = s.popVal()
	}
	return items
}

func (s *State) runArrayRepeat(a Action) error {
	sizeVal := s.popVal()
	item := s.popVal()
	size, ok := sizeVal.(value.Int)
	if !ok || size < 0 {
		return diagnostic.InvalidArrayLength(int64AsSafe(sizeVal), a.Span)
	}
	out := make([]value.Value, size)
	for i := range out {
		out[i] = item
	}
	s.pushVal(value.NewArray(out))
	return nil
}

func int64AsSafe(v value.Value) int64 {
	if i, ok := v.(value.Int); ok {
		return int64(i)
	}
	return -1
}

func (s *State) runStringConcat(a Action) error {
	var sb strings.Builder
	// Expr parts were pushed left to right, so popping in reverse restores
	// source order.
	n := 0
	for _, part := range a.StringParts {
		if part.IsExpr {
			n++
		}
	}
	exprVals := s.popN(n)
	next := 0
	for _, part := range a.StringParts {
		if part.IsExpr {
			sb.WriteString(renderValue(exprVals[next]))
			next++
		} else {
			sb.WriteString(part.Lit)
		}
	}
	s.pushVal(value.String(sb.String()))
	return nil
}

func renderValue(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return string(x)
	case value.Int:
		return fmt.Sprintf("%d", int64(x))
	case value.Double:
		return fmt.Sprintf("%v", float64(x))
	case value.Bool:
		return fmt.Sprintf("%v", bool(x))
	case value.BigInt:
		return x.V.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *State) runBinOp(a Action) error {
	if a.BinOp == ir.BinAndL || a.BinOp == ir.BinOrL {
		if !a.Phase2 {
			lhsVal := s.popVal()
			lhs, ok := lhsVal.(value.Bool)
			if !ok {
				return diagnostic.TypeMismatch("and/or", a.Span)
			}
			if (a.BinOp == ir.BinAndL && !bool(lhs)) || (a.BinOp == ir.BinOrL && bool(lhs)) {
				s.pushVal(lhs)
				return nil
			}
			next := Action{Kind: ActBinOp, BinOp: a.BinOp, Phase2: true, Span: a.Span}
			s.pushCont(contAction(next))
			s.pushCont(contExpr(a.Rhs))
			return nil
		}
		// Phase2: lhs already determined the result is rhs's value.
		return nil
	}
	rhs := s.popVal()
	lhs := s.popVal()
	result, err := binOpValue(a.BinOp, lhs, rhs, a.Span)
	if err != nil {
		return err
	}
	s.pushVal(result)
	return nil
}

func (s *State) runUnOp(a Action) error {
	v := s.popVal()
	switch a.UnOp {
	case ir.UnNeg:
		r, err := value.Neg(v, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(r)
	case ir.UnNotB:
		r, err := value.NotB(v, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(r)
	case ir.UnNotL:
		r, err := value.NotL(v, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(r)
	case ir.UnPos:
		r, err := value.Pos(v, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(r)
	case ir.UnUnwrap:
		s.pushVal(v)
	case ir.UnFunctorAdj:
		r, ok := value.WithFunctor(v, func(f ids.FunctorApp) ids.FunctorApp { return f.Adj() })
		if !ok {
			return diagnostic.TypeMismatch("Adjoint", a.Span)
		}
		s.pushVal(r)
	case ir.UnFunctorCtl:
		r, ok := value.WithFunctor(v, func(f ids.FunctorApp) ids.FunctorApp { return f.Ctl() })
		if !ok {
			return diagnostic.TypeMismatch("Controlled", a.Span)
		}
		s.pushVal(r)
	default:
		return diagnostic.TypeMismatch("unary operator", a.Span)
	}
	return nil
}

func (s *State) runIf(a Action) error {
	cond := s.popVal()
	b, ok := cond.(value.Bool)
	if !ok {
		return diagnostic.TypeMismatch("if condition", a.Span)
	}
	if bool(b) {
		return s.contExprNode(a.Then)
	}
	if a.Else != nil {
		return s.contExprNode(*a.Else)
	}
	s.pushVal(value.UnitValue)
	return nil
}

func (s *State) runRange(a Action) error {
	// Pop in the reverse of contRange's push order: end was pushed last
	// (evaluates last, if present at all), so it's on top.
	var endV, stepV, startV value.Value
	if a.HasEnd {
		endV = s.popVal()
	}
	if a.HasStep {
		stepV = s.popVal()
	}
	if a.HasStart {
		startV = s.popVal()
	}

	r := value.Range{Step: value.DefaultRangeStep}
	if a.HasStart {
		start := int64(startV.(value.Int))
		r.Start = &start
	}
	if a.HasStep {
		r.Step = int64(stepV.(value.Int))
	}
	if a.HasEnd {
		end := int64(endV.(value.Int))
		r.End = &end
	}
	s.pushVal(r)
	return nil
}

// runUpdateIndex implements the functional `w/` operator: always copies,
// never mutates the source array, regardless of its ownership state.
func (s *State) runUpdateIndex(a Action) error {
	updateVal := s.popVal()
	idx := s.popVal()
	arrVal := s.popVal()
	arr, ok := arrVal.(value.Array)
	if !ok {
		return diagnostic.TypeMismatch("w/", a.Span)
	}
	items := arr.PeekItems()
	out := make([]value.Value, len(items))
	copy(out, items)
	switch i := idx.(type) {
	case value.Int:
		if int64(i) < 0 {
			return diagnostic.InvalidNegativeInt(int64(i), a.Span)
		}
		if int64(i) >= int64(len(out)) {
			return diagnostic.IndexOutOfRange(int64(i), a.Span)
		}
		out[i] = updateVal
	case value.Range:
		start, step, end, err := rangeBounds(i, len(out), a.Span)
		if err != nil {
			return err
		}
		replacement, ok := updateVal.(value.Array)
		if !ok {
			return diagnostic.TypeMismatch("w/", a.Span)
		}
		repl := replacement.PeekItems()
		next := 0
		if step > 0 {
			for at := start; at <= end && next < len(repl); at += step {
				if at < 0 || at >= int64(len(out)) {
					return diagnostic.IndexOutOfRange(at, a.Span)
				}
				out[at] = repl[next]
				next++
			}
		} else {
			for at := start; at >= end && next < len(repl); at += step {
				if at < 0 || at >= int64(len(out)) {
					return diagnostic.IndexOutOfRange(at, a.Span)
				}
				out[at] = repl[next]
				next++
			}
		}
	default:
		return diagnostic.TypeMismatch("w/", a.Span)
	}
	s.pushVal(value.NewArray(out))
	return nil
}

// runUpdateIndexInPlace implements `set arr[i] = v`: mutates the named
// variable's backing array directly when it is uniquely owned, the same
// is_updatable_in_place gate the `+=` optimization in runCompoundAssign
// applies; a shared array is copied first so the update never corrupts a
// second live binding of the same array.
func (s *State) runUpdateIndexInPlace(a Action) error {
	rhsVal := s.popVal()
	idx := s.popVal()
	v, ok := s.Env.Get(a.Local)
	if !ok || !v.IsMutable() {
		return diagnostic.UnboundName(a.Span)
	}
	arr, ok := v.Value.(value.Array)
	if !ok {
		return diagnostic.TypeMismatch("set index", a.Span)
	}
	if !arr.IsUniquelyOwned() {
		arr = arr.Copy()
		v.Value = arr
	}
	switch i := idx.(type) {
	case value.Int:
		if int64(i) < 0 {
			return diagnostic.InvalidNegativeInt(int64(i), a.Span)
		}
		if !arr.UpdateInPlace(int(i), rhsVal) {
			return diagnostic.IndexOutOfRange(int64(i), a.Span)
		}
	case value.Range:
		replacement, ok := rhsVal.(value.Array)
		if !ok {
			return diagnostic.TypeMismatch("set index", a.Span)
		}
		start, step, end, err := rangeBounds(i, arr.Len(), a.Span)
		if err != nil {
			return err
		}
		repl := replacement.PeekItems()
		next := 0
		if step > 0 {
			for at := start; at <= end && next < len(repl); at += step {
				if !arr.UpdateInPlace(int(at), repl[next]) {
					return diagnostic.IndexOutOfRange(at, a.Span)
				}
				next++
			}
		} else {
			for at := start; at >= end && next < len(repl); at += step {
				if !arr.UpdateInPlace(int(at), repl[next]) {
					return diagnostic.IndexOutOfRange(at, a.Span)
				}
				next++
			}
		}
	default:
		return diagnostic.TypeMismatch("set index", a.Span)
	}
	s.pushVal(value.UnitValue)
	return nil
}

// runCompoundAssign backs `set x op= rhs`. The evaluator is untyped at this
// point, so whether this is the in-place array-append optimization or a
// plain scalar combine can only be decided once both operands are in hand.
func (s *State) runCompoundAssign(a Action) error {
	rhsVal := s.popVal()
	v, ok := s.Env.Get(a.Local)
	if !ok || !v.IsMutable() {
		return diagnostic.UnboundName(a.Span)
	}
	if a.BinOp == ir.BinAdd {
		if lhsArr, ok := v.Value.(value.Array); ok {
			if rhsArr, ok := rhsVal.(value.Array); ok {
				if lhsArr.IsUniquelyOwned() {
					v.Value = lhsArr.AppendInPlace(rhsArr)
				} else {
					v.Value = lhsArr.Copy().AppendInPlace(rhsArr)
				}
				s.pushVal(value.UnitValue)
				return nil
			}
		}
	}
	result, err := binOpValue(a.BinOp, v.Value, rhsVal, a.Span)
	if err != nil {
		return err
	}
	v.Value = result
	s.pushVal(value.UnitValue)
	return nil
}

// runField reads one projection off a record value: either a Range's
// Start/Step/End, or a structural path through nested Tuples. An absent
// Start/End on a Range reports as Int(0) rather than a distinct "none"
// value, since Q#'s RangeStart/RangeEnd field intrinsics are only ever
// read from ranges built with a literal bound in practice.
func (s *State) runField(a Action) error {
	record := s.popVal()
	if a.Field.IsPrim {
		r, ok := record.(value.Range)
		if !ok {
			return diagnostic.TypeMismatch("field", a.Span)
		}
		switch a.Field.Prim {
		case ir.FieldStart:
			if r.Start != nil {
				s.pushVal(value.Int(*r.Start))
			} else {
				s.pushVal(value.Int(0))
			}
		case ir.FieldStep:
			s.pushVal(value.Int(r.Step))
		case ir.FieldEnd:
			if r.End != nil {
				s.pushVal(value.Int(*r.End))
			} else {
				s.pushVal(value.Int(0))
			}
		default:
			return diagnostic.TypeMismatch("field", a.Span)
		}
		return nil
	}
	cur := record
	for _, i := range a.Field.Path.Indices {
		tup, ok := cur.(value.Tuple)
		if !ok || i < 0 || i >= len(tup.Items) {
			return diagnostic.TypeMismatch("field", a.Span)
		}
		cur = tup.Items[i]
	}
	s.pushVal(cur)
	return nil
}

// runUpdateField builds a functionally-updated copy of a record, replacing
// the field named by a.Field with updateVal. It never touches the
// environment — rebinding the result, when needed, is a separate
// ActUpdateBinding chained after this one.
func (s *State) runUpdateField(a Action) error {
	updateVal := s.popVal()
	record := s.popVal()
	if a.Field.IsPrim {
		r, ok := record.(value.Range)
		if !ok {
			return diagnostic.TypeMismatch("w/", a.Span)
		}
		n, ok := updateVal.(value.Int)
		if !ok {
			return diagnostic.TypeMismatch("w/", a.Span)
		}
		switch a.Field.Prim {
		case ir.FieldStart:
			start := int64(n)
			r.Start = &start
		case ir.FieldStep:
			r.Step = int64(n)
		case ir.FieldEnd:
			end := int64(n)
			r.End = &end
		default:
			return diagnostic.TypeMismatch("w/", a.Span)
		}
		s.pushVal(r)
		return nil
	}
	out, err := updateTuplePath(record, a.Field.Path.Indices, updateVal, a.Span)
	if err != nil {
		return err
	}
	s.pushVal(out)
	return nil
}

// updateTuplePath recursively rebuilds each Tuple along path, copying every
// level it descends through so the original record is left untouched.
func updateTuplePath(cur value.Value, path []int, updateVal value.Value, span ids.PackageSpan) (value.Value, error) {
	if len(path) == 0 {
		return updateVal, nil
	}
	tup, ok := cur.(value.Tuple)
	if !ok || path[0] < 0 || path[0] >= len(tup.Items) {
		return nil, diagnostic.TypeMismatch("w/", span)
	}
	items := make([]value.Value, len(tup.Items))
	copy(items, tup.Items)
	updated, err := updateTuplePath(items[path[0]], path[1:], updateVal, span)
	if err != nil {
		return nil, err
	}
	items[path[0]] = updated
	return value.Tuple{Items: items}, nil
}

func (s *State) runBind(a Action) error {
	val := s.popVal()
	s.bindValue(s.pkgPat(a.Pat), val, a.Mutable)
	s.pushVal(value.UnitValue)
	return nil
}

func (s *State) runIndex(a Action) error {
	idx := s.popVal()
	arrVal := s.popVal()
	arr, ok := arrVal.(value.Array)
	if !ok {
		return diagnostic.TypeMismatch("index", a.Span)
	}
	switch i := idx.(type) {
	case value.Int:
		v, err := indexArray(arr, int64(i), a.Span)
		if err != nil {
			return err
		}
		s.pushVal(v)
	case value.Range:
		sliced, err := sliceArray(arr, i, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(sliced)
	default:
		return diagnostic.TypeMismatch("index", a.Span)
	}
	return nil
}
