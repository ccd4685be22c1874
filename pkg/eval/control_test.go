package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

func TestEvalBinOpArithmetic(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	entry := f.binOp(ir.BinAdd, f.litInt(2), f.litInt(3))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), got)
}

func TestEvalAndLShortCircuitsWithoutEvaluatingRhs(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	// rhs is a reference to an unbound local: if && evaluated it anyway,
	// this would fail with UnboundName instead of short-circuiting to false.
	rhs := f.varExpr(ids.LocalVarId(777))
	entry := f.binOp(ir.BinAndL, f.litBool(false), rhs)

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), got)
}

func TestEvalAndLEvaluatesRhsWhenLhsTrue(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	entry := f.binOp(ir.BinAndL, f.litBool(true), f.litBool(false))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), got)
}

func TestEvalOrLShortCircuitsWithoutEvaluatingRhs(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	rhs := f.varExpr(ids.LocalVarId(777))
	entry := f.binOp(ir.BinOrL, f.litBool(true), rhs)

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), got)
}

func TestEvalIfTakesThenBranch(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	thenE := f.litInt(1)
	elseE := f.litInt(2)
	entry := f.expr(ir.Expr{Kind: ir.ExprIf, Cond: f.litBool(true), Then: thenE, Else: &elseE})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)
}

func TestEvalIfTakesElseBranch(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	thenE := f.litInt(1)
	elseE := f.litInt(2)
	entry := f.expr(ir.Expr{Kind: ir.ExprIf, Cond: f.litBool(false), Then: thenE, Else: &elseE})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), got)
}

func TestEvalIfWithNoElseIsUnit(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	entry := f.expr(ir.Expr{Kind: ir.ExprIf, Cond: f.litBool(false), Then: f.litInt(1)})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.UnitValue, got)
}

// TestEvalWhileCountsToZero builds: mutable i = 3; while i != 0 { set i = i - 1; }
// and checks it terminates with i rebound to 0, exercising runWhile's
// re-posting of itself across multiple iterations.
func TestEvalWhileCountsToZero(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	i := f.localVar()
	letI := f.letStmt(i, "i", f.litInt(3), true)

	cond := f.binOp(ir.BinNeq, f.varExpr(i), f.litInt(0))
	decrement := f.binOp(ir.BinSub, f.varExpr(i), f.litInt(1))
	assign := f.expr(ir.Expr{Kind: ir.ExprAssign, AssignLhs: f.varExpr(i), AssignRhs: decrement})
	bodyBlock := f.block(f.semiStmt(assign))
	whileExpr := f.expr(ir.Expr{Kind: ir.ExprWhile, Cond: cond, Then: f.blockExpr(bodyBlock)})

	readI := f.exprStmt(f.varExpr(i))
	entry := f.blockExpr(f.block(letI, f.semiStmt(whileExpr), readI))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), got)
}

func TestEvalRangeWithAllBounds(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	start, step, end := f.litInt(0), f.litInt(2), f.litInt(10)
	entry := f.expr(ir.Expr{Kind: ir.ExprRange, RangeStart: &start, RangeStep: &step, RangeEnd: &end})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	r := got.(value.Range)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, int64(0), *r.Start)
	assert.Equal(t, int64(2), r.Step)
	assert.Equal(t, int64(10), *r.End)
}

// TestEvalRangeOmittedStep exercises contRange/runRange with the step bound
// omitted while start and end are both present — the ordering this module
// previously got wrong when a middle bound was missing.
func TestEvalRangeOmittedStep(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	start, end := f.litInt(5), f.litInt(20)
	entry := f.expr(ir.Expr{Kind: ir.ExprRange, RangeStart: &start, RangeEnd: &end})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	r := got.(value.Range)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, int64(5), *r.Start)
	assert.Equal(t, value.DefaultRangeStep, r.Step)
	assert.Equal(t, int64(20), *r.End)
}

func TestEvalRangeAllBoundsOmitted(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	entry := f.expr(ir.Expr{Kind: ir.ExprRange})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	r := got.(value.Range)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)
	assert.Equal(t, value.DefaultRangeStep, r.Step)
}
