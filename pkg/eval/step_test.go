package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/eval"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
)

// declareIdentityCall registers a callable whose body is a single visible
// statement, so stepping in reaches a statement one call frame deeper.
func (f *fixture) declareIdentityCall() ids.LocalItemId {
	item := ids.LocalItemId(6000)
	x := f.localVar()
	inputPat := f.bindPat(x, "x")
	visible := f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: f.varExpr(x), Span: ids.Span{Lo: 10, Hi: 11}})
	block := f.block(visible)
	f.defineGlobal(item, &ir.Global{
		Kind: ir.GlobalCallable,
		Callable: &ir.Callable{
			Name:  "Identity",
			Input: inputPat,
			Spec:  ir.SpecImpl{Body: ir.SpecDecl{Input: inputPat, Block: block}},
		},
	})
	return item
}

func TestStepInStopsAtFirstVisibleStatement(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	s1 := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Expr: f.litInt(1), Span: ids.Span{Lo: 1, Hi: 2}})
	s2 := f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: f.litInt(2), Span: ids.Span{Lo: 3, Hi: 4}})
	entry := f.blockExpr(f.block(s1, s2))

	s.Prime(f.pkg, entry)
	res, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	require.False(t, res.Done)
	assert.Equal(t, ids.Span{Lo: 1, Hi: 2}, res.Span.Span)

	res2, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	require.False(t, res2.Done)
	assert.Equal(t, ids.Span{Lo: 3, Hi: 4}, res2.Span.Span)

	res3, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	assert.True(t, res3.Done)
}

func TestStepInDescendsIntoCallFrame(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareIdentityCall()

	callSite := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Span: ids.Span{Lo: 20, Hi: 21},
		Expr: f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(item), Args: f.litInt(7)})})
	entry := f.blockExpr(f.block(callSite))

	s.Prime(f.pkg, entry)
	outer, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	require.False(t, outer.Done)
	assert.Equal(t, ids.Span{Lo: 20, Hi: 21}, outer.Span.Span)

	inner, err := s.Step(eval.StepIn, outer.Depth)
	require.NoError(t, err)
	require.False(t, inner.Done)
	assert.Equal(t, ids.Span{Lo: 10, Hi: 11}, inner.Span.Span)
	assert.Greater(t, inner.Depth, outer.Depth)
}

func TestStepNextSkipsOverNestedCall(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareIdentityCall()

	callSite := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Span: ids.Span{Lo: 20, Hi: 21},
		Expr: f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(item), Args: f.litInt(7)})})
	after := f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: f.litInt(3), Span: ids.Span{Lo: 30, Hi: 31}})
	entry := f.blockExpr(f.block(callSite, after))

	s.Prime(f.pkg, entry)
	outer, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	require.False(t, outer.Done)
	assert.Equal(t, ids.Span{Lo: 20, Hi: 21}, outer.Span.Span)

	next, err := s.Step(eval.StepNext, outer.Depth)
	require.NoError(t, err)
	require.False(t, next.Done)
	assert.Equal(t, ids.Span{Lo: 30, Hi: 31}, next.Span.Span, "StepNext must skip the callee's own visible statement")
}

func TestStepOutRunsUntilShallowerThanStart(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	item := f.declareIdentityCall()

	callSite := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Span: ids.Span{Lo: 20, Hi: 21},
		Expr: f.expr(ir.Expr{Kind: ir.ExprCall, Callee: f.globalExpr(item), Args: f.litInt(7)})})
	after := f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: f.litInt(3), Span: ids.Span{Lo: 30, Hi: 31}})
	entry := f.blockExpr(f.block(callSite, after))

	s.Prime(f.pkg, entry)
	outer, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	inner, err := s.Step(eval.StepIn, outer.Depth)
	require.NoError(t, err)
	require.Less(t, outer.Depth, inner.Depth)

	out, err := s.Step(eval.StepOut, inner.Depth)
	require.NoError(t, err)
	require.False(t, out.Done)
	assert.Equal(t, ids.Span{Lo: 30, Hi: 31}, out.Span.Span)
	assert.Less(t, out.Depth, inner.Depth)
}

func TestStepContinueRunsToCompletion(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	s1 := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Expr: f.litInt(1), Span: ids.Span{Lo: 1, Hi: 2}})
	entry := f.blockExpr(f.block(s1))

	s.Prime(f.pkg, entry)
	res, err := s.Step(eval.StepContinue, 0)
	require.NoError(t, err)
	assert.True(t, res.Done)
}

func TestStepSkipsCompilerGeneratedStatements(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	generated := f.stmt(ir.Stmt{Kind: ir.StmtSemi, Expr: f.litInt(1)})
	visible := f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: f.litInt(2), Span: ids.Span{Lo: 5, Hi: 6}})
	entry := f.blockExpr(f.block(generated, visible))

	s.Prime(f.pkg, entry)
	res, err := s.Step(eval.StepIn, 0)
	require.NoError(t, err)
	require.False(t, res.Done)
	assert.Equal(t, ids.Span{Lo: 5, Hi: 6}, res.Span.Span, "a statement with an empty span is never a stopping point")
}
