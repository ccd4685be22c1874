package eval

import (
	"math/rand"

	"github.com/qcore-lang/qcore/pkg/diagnostic"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

// runCall implements the call contract: resolve the callee to an item,
// prepend any captured closure arguments ahead of the call-site args, then
// either shortcut to the UDT identity constructor, dispatch straight to the
// Backend for an intrinsic, or push a fresh frame and schedule the matching
// specialization's body block.
func (s *State) runCall(a Action) error {
	args := s.popVal()
	callee := s.popVal()

	item, functor, captured, ok := value.AsCallable(callee)
	if !ok {
		return diagnostic.TypeMismatch("call", a.Span)
	}

	finalArgs := args
	if len(captured) > 0 {
		items := append([]value.Value{}, captured...)
		items = append(items, argItems(args)...)
		finalArgs = value.Tuple{Items: items}
	}

	global, ok := s.Store.GetGlobal(item)
	if !ok {
		return diagnostic.UnboundName(a.Span)
	}

	// A UDT's "call" is just its identity constructor — the value of
	// calling it is its argument tuple, unchanged.
	if global.Kind == ir.GlobalUdt {
		s.pushVal(finalArgs)
		return nil
	}

	callable := global.Callable
	if callable.IsIntrinsic {
		result, err := s.runIntrinsic(callable.Name, functor, finalArgs, a.Span)
		if err != nil {
			return err
		}
		s.pushVal(result)
		return nil
	}

	spec := ids.SpecFromFunctorApp(functor)
	decl := specDeclFor(callable, spec)

	var controls []value.Value
	callArgs := finalArgs
	if functor.Controlled > 0 {
		var err error
		controls, callArgs, err = peelControls(finalArgs, functor.Controlled, a.Span)
		if err != nil {
			return err
		}
	}

	s.pushFrame(Frame{Item: item, Functor: functor, Span: a.Span})
	s.Env.PushScope(s.CallDepth())

	if functor.Controlled > 0 && decl.CtlPattern != nil {
		s.bindValue(s.pkgPat(*decl.CtlPattern), value.NewArray(controls), false)
	}
	s.bindValue(s.pkgPat(decl.Input), callArgs, false)

	s.pushCont(contFrame())
	s.pushCont(contScope())
	return s.contBlockExpr(decl.Block)
}

// peelControls strips count layers of the (controls, rest) 2-tuple a
// Controlled call's argument is wrapped in, one layer per Controlled
// application composed onto the callee, concatenating every layer's control
// array into one before the remaining argument is bound against the
// specialization's own input pattern.
func peelControls(args value.Value, count uint8, span ids.PackageSpan) (controls []value.Value, rest value.Value, err error) {
	rest = args
	for i := uint8(0); i < count; i++ {
		tup, ok := rest.(value.Tuple)
		if !ok || len(tup.Items) != 2 {
			return nil, nil, diagnostic.TypeMismatch("Controlled", span)
		}
		ctrlArr, ok := tup.Items[0].(value.Array)
		if !ok {
			return nil, nil, diagnostic.TypeMismatch("Controlled", span)
		}
		controls = append(controls, ctrlArr.PeekItems()...)
		rest = tup.Items[1]
	}
	return controls, rest, nil
}

// specDeclFor picks the specialization body a call through the given Spec
// should run. Selecting one a declaration never provided is a compiler bug
// (the resolver/typeck stages are responsible for rejecting that program
// before it ever reaches here), so this falls back to Body defensively
// rather than indexing a nil pointer.
func specDeclFor(c *ir.Callable, spec ids.Spec) ir.SpecDecl {
	switch spec {
	case ids.SpecAdj:
		if c.Spec.Adj != nil {
			return *c.Spec.Adj
		}
	case ids.SpecCtl:
		if c.Spec.Ctl != nil {
			return *c.Spec.Ctl
		}
	case ids.SpecCtlAdj:
		if c.Spec.CtlAdj != nil {
			return *c.Spec.CtlAdj
		}
	}
	return c.Spec.Body
}

// argItems flattens a call's argument value into a positional slice: a
// Tuple unpacks, Unit (the call-with-no-arguments case) contributes nothing,
// anything else is a single positional argument.
func argItems(v value.Value) []value.Value {
	switch t := v.(type) {
	case value.Tuple:
		return t.Items
	case value.Unit:
		return nil
	default:
		return []value.Value{v}
	}
}

func asQubit(v value.Value, span ids.PackageSpan) (value.Qubit, error) {
	q, ok := v.(value.QubitValue)
	if !ok {
		return 0, diagnostic.TypeMismatch("Qubit", span)
	}
	return q.Q, nil
}

func asDouble(v value.Value, span ids.PackageSpan) (float64, error) {
	d, ok := v.(value.Double)
	if !ok {
		return 0, diagnostic.TypeMismatch("Double", span)
	}
	return float64(d), nil
}

func asInt(v value.Value, span ids.PackageSpan) (int64, error) {
	i, ok := v.(value.Int)
	if !ok {
		return 0, diagnostic.TypeMismatch("Int", span)
	}
	return int64(i), nil
}

// runIntrinsic dispatches one of the fixed primitive operations a Backend
// implements. Named by the same operation names the standard library's
// intrinsic declarations use, since that is the only thing distinguishing
// one intrinsic callable from another once it reaches the evaluator.
func (s *State) runIntrinsic(name string, functor ids.FunctorApp, args value.Value, span ids.PackageSpan) (value.Value, error) {
	items := argItems(args)
	if functor.Controlled > 0 {
		return s.runControlledIntrinsic(name, items, span)
	}

	switch name {
	case "Allocate":
		return value.QubitValue{Q: s.Back.Allocate()}, nil
	case "Release":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		if err := s.Back.Release(q); err != nil {
			return nil, err
		}
		return value.UnitValue, nil
	case "Reset":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		s.Back.Reset(q)
		return value.UnitValue, nil
	case "X", "Y", "Z", "H":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		switch name {
		case "X":
			s.Back.X(q)
		case "Y":
			s.Back.Y(q)
		case "Z":
			s.Back.Z(q)
		case "H":
			s.Back.H(q)
		}
		return value.UnitValue, nil
	case "S":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		if functor.Adjoint {
			s.Back.SAdj(q)
		} else {
			s.Back.S(q)
		}
		return value.UnitValue, nil
	case "T":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		if functor.Adjoint {
			s.Back.TAdj(q)
		} else {
			s.Back.T(q)
		}
		return value.UnitValue, nil
	case "CNOT":
		ctrl, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		target, err := asQubit(items[1], span)
		if err != nil {
			return nil, err
		}
		s.Back.CNOT(ctrl, target)
		return value.UnitValue, nil
	case "CCNOT":
		c1, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		c2, err := asQubit(items[1], span)
		if err != nil {
			return nil, err
		}
		t, err := asQubit(items[2], span)
		if err != nil {
			return nil, err
		}
		s.Back.CCNOT(c1, c2, t)
		return value.UnitValue, nil
	case "Rx", "Ry", "Rz":
		theta, err := asDouble(items[0], span)
		if err != nil {
			return nil, err
		}
		q, err := asQubit(items[1], span)
		if err != nil {
			return nil, err
		}
		switch name {
		case "Rx":
			err = s.Back.Rx(theta, q)
		case "Ry":
			err = s.Back.Ry(theta, q)
		case "Rz":
			err = s.Back.Rz(theta, q)
		}
		if err != nil {
			return nil, err
		}
		return value.UnitValue, nil
	case "M":
		q, err := asQubit(items[0], span)
		if err != nil {
			return nil, err
		}
		return value.ResultValue{R: s.Back.M(q)}, nil
	case "DumpMachine":
		qs := make([]value.Qubit, len(items))
		for i, it := range items {
			q, err := asQubit(it, span)
			if err != nil {
				return nil, err
			}
			qs[i] = q
		}
		if err := s.Back.DumpMachine(s.Out, qs); err != nil {
			return nil, err
		}
		return value.UnitValue, nil
	case "CheckQubitUniqueness":
		qs := make([]value.Qubit, len(items))
		for i, it := range items {
			q, err := asQubit(it, span)
			if err != nil {
				return nil, err
			}
			qs[i] = q
		}
		if err := s.Back.CheckQubitUniqueness(qs); err != nil {
			return nil, err
		}
		return value.UnitValue, nil
	case "Message":
		str, ok := items[0].(value.String)
		if !ok {
			return nil, diagnostic.TypeMismatch("Message", span)
		}
		if err := s.Out.Message(string(str)); err != nil {
			return nil, err
		}
		return value.UnitValue, nil
	case "DrawRandomInt":
		lo, err := asInt(items[0], span)
		if err != nil {
			return nil, err
		}
		hi, err := asInt(items[1], span)
		if err != nil {
			return nil, err
		}
		var result int64
		s.withRng(func(r *rand.Rand) { result = s.Back.DrawRandomInt(r, lo, hi) })
		return value.Int(result), nil
	case "DrawRandomDouble":
		lo, err := asDouble(items[0], span)
		if err != nil {
			return nil, err
		}
		hi, err := asDouble(items[1], span)
		if err != nil {
			return nil, err
		}
		var result float64
		s.withRng(func(r *rand.Rand) { result = s.Back.DrawRandomDouble(r, lo, hi) })
		return value.Double(result), nil
	default:
		return nil, diagnostic.UnknownIntrinsic(name, span)
	}
}

// runControlledIntrinsic handles the one Controlled-functor case the sample
// Backend actually simulates: Controlled X with one or two controls maps to
// the dedicated CNOT/CCNOT gates rather than a generic n-control primitive.
func (s *State) runControlledIntrinsic(name string, items []value.Value, span ids.PackageSpan) (value.Value, error) {
	if name != "X" {
		return nil, diagnostic.IntrinsicFail("Controlled "+name, "only Controlled X is supported", span)
	}
	if len(items) < 2 {
		return nil, diagnostic.TypeMismatch("Controlled X", span)
	}
	ctrlArr, ok := items[0].(value.Array)
	if !ok {
		return nil, diagnostic.TypeMismatch("Controlled X", span)
	}
	target, err := asQubit(items[1], span)
	if err != nil {
		return nil, err
	}
	ctrls := ctrlArr.PeekItems()
	switch len(ctrls) {
	case 1:
		c, err := asQubit(ctrls[0], span)
		if err != nil {
			return nil, err
		}
		s.Back.CNOT(c, target)
	case 2:
		c1, err := asQubit(ctrls[0], span)
		if err != nil {
			return nil, err
		}
		c2, err := asQubit(ctrls[1], span)
		if err != nil {
			return nil, err
		}
		s.Back.CCNOT(c1, c2, target)
	default:
		return nil, diagnostic.IntrinsicFail("Controlled X", "more than two controls", span)
	}
	return value.UnitValue, nil
}

// runWhile re-posts itself after the loop body runs as long as the
// condition still holds, so the loop never recurses through Go's own call
// stack no matter how many iterations it takes.
func (s *State) runWhile(a Action) error {
	cond := s.popVal()
	b, ok := cond.(value.Bool)
	if !ok {
		return diagnostic.TypeMismatch("while condition", a.Span)
	}
	if !bool(b) {
		s.pushVal(value.UnitValue)
		return nil
	}
	next := Action{Kind: ActWhile, Cond: a.Cond, BodyBlock: a.BodyBlock, Span: a.Span}
	s.pushCont(contAction(next))
	s.pushCont(contExpr(a.Cond))
	s.pushCont(contAction(Action{Kind: ActConsume, Span: a.Span}))
	return s.contBlockExpr(a.BodyBlock)
}

// unwindToFrame implements `return`: discard every pending continuation
// until the enclosing call's ContFrame sentinel is consumed, leaving every
// env scope opened since the call began along the way. The value already on
// top of vals when this runs is the call's result.
func (s *State) unwindToFrame() {
	for {
		c, ok := s.popCont()
		if !ok {
			return
		}
		switch c.Kind {
		case ContScope:
			s.Env.LeaveScope()
		case ContFrame:
			s.leaveFrame()
			return
		}
	}
}
