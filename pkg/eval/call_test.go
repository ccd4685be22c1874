package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

// declareDouble registers a one-parameter callable at item 1000 whose body
// returns its argument doubled, for tests exercising ordinary call dispatch.
func (f *fixture) declareDouble() ids.LocalItemId {
	item := ids.LocalItemId(1000)
	x := f.localVar()
	inputPat := f.bindPat(x, "x")
	body := f.binOp(ir.BinMul, f.varExpr(x), f.litInt(2))
	block := f.block(f.exprStmt(body))
	f.defineGlobal(item, &ir.Global{
		Kind: ir.GlobalCallable,
		Callable: &ir.Callable{
			Name:  "Double",
			Input: inputPat,
			Spec:  ir.SpecImpl{Body: ir.SpecDecl{Input: inputPat, Block: block}},
		},
	})
	return item
}

func TestEvalCallDeclaredCallable(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareDouble()

	callee := f.globalExpr(item)
	entry := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: callee, Args: f.litInt(21)})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), got)
}

func TestEvalCallUdtIsIdentityConstructor(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := ids.LocalItemId(2000)
	f.defineGlobal(item, &ir.Global{Kind: ir.GlobalUdt})

	callee := f.globalExpr(item)
	args := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{f.litInt(1), f.litInt(2)}})
	entry := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: callee, Args: args})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Tuple{Items: []value.Value{value.Int(1), value.Int(2)}}, got)
}

// declareReturnEarly registers a callable whose body returns immediately
// from its first statement, to exercise unwindToFrame discarding the callee's
// pending continuations and leaving its scopes on the way back to the
// caller's ContFrame.
func (f *fixture) declareReturnEarly() ids.LocalItemId {
	item := ids.LocalItemId(3000)
	x := f.localVar()
	inputPat := f.bindPat(x, "x")
	ret := f.expr(ir.Expr{Kind: ir.ExprReturn, ReturnValue: f.binOp(ir.BinAdd, f.varExpr(x), f.litInt(1))})
	block := f.block(f.exprStmt(ret))
	f.defineGlobal(item, &ir.Global{
		Kind: ir.GlobalCallable,
		Callable: &ir.Callable{
			Name:  "ReturnEarly",
			Input: inputPat,
			Spec:  ir.SpecImpl{Body: ir.SpecDecl{Input: inputPat, Block: block}},
		},
	})
	return item
}

func TestEvalReturnUnwindsToCaller(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareReturnEarly()

	callee := f.globalExpr(item)
	entry := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: callee, Args: f.litInt(9)})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(10), got)
}

// declareAdjointAware registers a callable whose body and adjoint
// specializations return distinguishable constants, so a call through an
// Adjoint-composed reference can be checked against the right one.
func (f *fixture) declareAdjointAware() ids.LocalItemId {
	item := ids.LocalItemId(4000)
	unitPat := f.pat(ir.Pat{Kind: ir.PatDiscard})
	bodyBlock := f.block(f.exprStmt(f.litInt(1)))
	adjBlock := f.block(f.exprStmt(f.litInt(-1)))
	f.defineGlobal(item, &ir.Global{
		Kind: ir.GlobalCallable,
		Callable: &ir.Callable{
			Name:  "Adjointable",
			Input: unitPat,
			Spec: ir.SpecImpl{
				Body: ir.SpecDecl{Input: unitPat, Block: bodyBlock},
				Adj:  &ir.SpecDecl{Input: unitPat, Block: adjBlock},
			},
		},
	})
	return item
}

func TestEvalCallDispatchesToAdjointSpecialization(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareAdjointAware()

	plainCallee := f.globalExpr(item)
	adjCallee := f.expr(ir.Expr{Kind: ir.ExprUnOp, UnOp: ir.UnFunctorAdj, Value: f.globalExpr(item)})
	unitArgs := f.expr(ir.Expr{Kind: ir.ExprTuple})

	plainCall := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: plainCallee, Args: unitArgs})
	got, err := s.Eval(f.pkg, plainCall)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)

	adjCall := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: adjCallee, Args: unitArgs})
	got2, err := s.Eval(f.pkg, adjCall)
	require.NoError(t, err)
	assert.Equal(t, value.Int(-1), got2)
}

// declareIntrinsic registers an intrinsic-named global the way the lowering
// pass would for a standard-library declaration, so calling it dispatches
// straight to the Backend rather than scheduling a body block.
func (f *fixture) declareIntrinsic(name string) ids.LocalItemId {
	item := ids.LocalItemId(uint32(5000 + len(name)))
	f.defineGlobal(item, &ir.Global{
		Kind:     ir.GlobalCallable,
		Callable: &ir.Callable{Name: name, IsIntrinsic: true},
	})
	return item
}

func TestEvalCallIntrinsicDispatchesToBackend(t *testing.T) {
	f := newFixture()
	s, be, _ := f.sparseState()
	allocate := f.declareIntrinsic("Allocate")
	h := f.declareIntrinsic("H")

	unitArgs := f.expr(ir.Expr{Kind: ir.ExprTuple})
	allocCall := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(allocate), Args: unitArgs})

	q := f.localVar()
	letQ := f.letStmt(q, "q", allocCall, false)
	hCall := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(h), Args: f.varExpr(q)})
	entry := f.blockExpr(f.block(letQ, f.exprStmt(hCall)))

	_, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"H"}, be.GateLog())
}

func TestEvalCallIntrinsicMessageUsesReceiver(t *testing.T) {
	f := newFixture()
	s, _, rec := f.sparseState()
	message := f.declareIntrinsic("Message")

	call := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(message), Args: f.litStr("hello")})
	_, err := s.Eval(f.pkg, call)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, rec.Messages())
}

// declareControllable registers a callable with a distinct Ctl specialization
// that binds its own control-qubit pattern, so a Controlled call through a
// user-defined (non-intrinsic) callable can be checked to peel the control
// array off the argument rather than threading it straight into Input.
func (f *fixture) declareControllable() ids.LocalItemId {
	item := ids.LocalItemId(7000)
	target := f.localVar()
	bodyInput := f.bindPat(target, "target")
	bodyBlock := f.block(f.exprStmt(f.varExpr(target)))

	ctrls := f.localVar()
	ctlTarget := f.localVar()
	ctlPattern := f.bindPat(ctrls, "ctrls")
	ctlInput := f.bindPat(ctlTarget, "t")
	firstCtrl := f.expr(ir.Expr{Kind: ir.ExprIndex, IndexArray: f.varExpr(ctrls), IndexIndex: f.litInt(0)})
	result := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{firstCtrl, f.varExpr(ctlTarget)}})
	ctlBlock := f.block(f.exprStmt(result))

	f.defineGlobal(item, &ir.Global{
		Kind: ir.GlobalCallable,
		Callable: &ir.Callable{
			Name:  "Flip",
			Input: bodyInput,
			Spec: ir.SpecImpl{
				Body: ir.SpecDecl{Input: bodyInput, Block: bodyBlock},
				Ctl:  &ir.SpecDecl{Input: ctlInput, Block: ctlBlock, CtlPattern: &ctlPattern},
			},
		},
	})
	return item
}

func TestEvalCallControlledUserDefinedPeelsControlArray(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareControllable()

	controlledCallee := f.expr(ir.Expr{Kind: ir.ExprUnOp, UnOp: ir.UnFunctorCtl, Value: f.globalExpr(item)})
	ctrlArr := f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(7)}})
	args := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{ctrlArr, f.litInt(9)}})
	call := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: controlledCallee, Args: args})

	got, err := s.Eval(f.pkg, call)
	require.NoError(t, err)
	assert.Equal(t, value.Tuple{Items: []value.Value{value.Int(7), value.Int(9)}}, got)
}

func TestEvalCallControlledXDispatchesToCNOT(t *testing.T) {
	f := newFixture()
	s, be, _ := f.sparseState()
	allocate := f.declareIntrinsic("Allocate")
	x := f.declareIntrinsic("X")

	unitArgs := f.expr(ir.Expr{Kind: ir.ExprTuple})
	allocCtrl := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(allocate), Args: unitArgs})
	allocTarget := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(allocate), Args: unitArgs})

	ctrl := f.localVar()
	target := f.localVar()
	letCtrl := f.letStmt(ctrl, "ctrl", allocCtrl, false)
	letTarget := f.letStmt(target, "target", allocTarget, false)

	ctrlArr := f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.varExpr(ctrl)}})
	args := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{ctrlArr, f.varExpr(target)}})
	controlledCallee := f.expr(ir.Expr{Kind: ir.ExprUnOp, UnOp: ir.UnFunctorCtl, Value: f.globalExpr(x)})
	controlledCall := f.expr(ir.Expr{Kind: ir.ExprCall, Callee: controlledCallee, Args: args})

	entry := f.blockExpr(f.block(letCtrl, letTarget, f.exprStmt(controlledCall)))
	_, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"CNOT"}, be.GateLog())
}
