package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/value"
)

func TestEvalLetThenSetRebindsValue(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	i := f.localVar()
	letI := f.letStmt(i, "i", f.litInt(1), true)
	assign := f.expr(ir.Expr{Kind: ir.ExprAssign, AssignLhs: f.varExpr(i), AssignRhs: f.litInt(9)})
	setStmt := f.semiStmt(assign)
	readI := f.exprStmt(f.varExpr(i))
	entry := f.blockExpr(f.block(letI, setStmt, readI))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(9), got)
}

func TestEvalSetRejectsImmutableBinding(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	i := f.localVar()
	letI := f.letStmt(i, "i", f.litInt(1), false)
	assign := f.expr(ir.Expr{Kind: ir.ExprAssign, AssignLhs: f.varExpr(i), AssignRhs: f.litInt(9)})
	entry := f.blockExpr(f.block(letI, f.exprStmt(assign)))

	_, err := s.Eval(f.pkg, entry)
	require.Error(t, err)
}

func TestEvalCompoundAssignArrayAppend(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	arr := f.localVar()
	letArr := f.letStmt(arr, "arr", f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(1), f.litInt(2)}}), true)
	more := f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(3)}})
	assignOp := f.expr(ir.Expr{Kind: ir.ExprAssignOp, AssignLhs: f.varExpr(arr), AssignRhs: more, AssignOp: ir.BinAdd})
	readArr := f.exprStmt(f.varExpr(arr))
	entry := f.blockExpr(f.block(letArr, f.semiStmt(assignOp), readArr))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	arrVal := got.(value.Array)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2), value.Int(3)}, arrVal.Items())
}

func TestEvalCompoundAssignScalarFallback(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	n := f.localVar()
	letN := f.letStmt(n, "n", f.litInt(10), true)
	assignOp := f.expr(ir.Expr{Kind: ir.ExprAssignOp, AssignLhs: f.varExpr(n), AssignRhs: f.litInt(5), AssignOp: ir.BinSub})
	readN := f.exprStmt(f.varExpr(n))
	entry := f.blockExpr(f.block(letN, f.semiStmt(assignOp), readN))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), got)
}

func TestEvalIndex(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	arr := f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(10), f.litInt(20), f.litInt(30)}})
	entry := f.expr(ir.Expr{Kind: ir.ExprIndex, IndexArray: arr, IndexIndex: f.litInt(1)})

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	assert.Equal(t, value.Int(20), got)
}

func TestEvalIndexOutOfRange(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	arr := f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(10)}})
	entry := f.expr(ir.Expr{Kind: ir.ExprIndex, IndexArray: arr, IndexIndex: f.litInt(5)})

	_, err := s.Eval(f.pkg, entry)
	require.Error(t, err)
}

func TestEvalFunctionalUpdateIndexCopiesArray(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	original := f.localVar()
	letArr := f.letStmt(original, "arr", f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(1), f.litInt(2), f.litInt(3)}}), false)
	updated := f.expr(ir.Expr{Kind: ir.ExprUpdateIndex, IndexArray: f.varExpr(original), IndexIndex: f.litInt(1), IndexValue: f.litInt(99)})
	tup := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{updated, f.varExpr(original)}})
	entry := f.blockExpr(f.block(letArr, f.exprStmt(tup)))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	pair := got.(value.Tuple)
	newArr := pair.Items[0].(value.Array)
	origArr := pair.Items[1].(value.Array)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(99), value.Int(3)}, newArr.Items())
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2), value.Int(3)}, origArr.Items(), "w/ must not mutate the source array")
}

func TestEvalSetIndexInPlaceMutatesNamedVariable(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	arr := f.localVar()
	letArr := f.letStmt(arr, "arr", f.expr(ir.Expr{Kind: ir.ExprArray, Items: []ids.ExprId{f.litInt(1), f.litInt(2)}}), true)
	setIdx := f.expr(ir.Expr{Kind: ir.ExprAssignIndex, AssignLhs: f.varExpr(arr), AssignIndex: f.litInt(0), AssignRhs: f.litInt(42)})
	readArr := f.exprStmt(f.varExpr(arr))
	entry := f.blockExpr(f.block(letArr, f.semiStmt(setIdx), readArr))

	got, err := s.Eval(f.pkg, entry)
	require.NoError(t, err)
	arrVal := got.(value.Array)
	assert.Equal(t, []value.Value{value.Int(42), value.Int(2)}, arrVal.Items())
}

func TestEvalFieldAndUpdateFieldOnTuplePath(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	rec := f.expr(ir.Expr{Kind: ir.ExprTuple, Items: []ids.ExprId{f.litInt(1), f.litInt(2)}})
	field := ir.Field{Path: ir.FieldPath{Indices: []int{1}}}
	readField := f.expr(ir.Expr{Kind: ir.ExprField, FieldRecord: rec, FieldOf: field})

	got, err := s.Eval(f.pkg, readField)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), got)

	updateField := f.expr(ir.Expr{Kind: ir.ExprUpdateField, FieldRecord: rec, FieldOf: field, UpdateValue: f.litInt(77)})
	got2, err := s.Eval(f.pkg, updateField)
	require.NoError(t, err)
	tup := got2.(value.Tuple)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(77)}, tup.Items)
}

func TestEvalRangePrimFieldRead(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()

	start, end := f.litInt(0), f.litInt(10)
	rangeExpr := f.expr(ir.Expr{Kind: ir.ExprRange, RangeStart: &start, RangeEnd: &end})
	readStart := f.expr(ir.Expr{Kind: ir.ExprField, FieldRecord: rangeExpr, FieldOf: ir.Field{IsPrim: true, Prim: ir.FieldStart}})

	got, err := s.Eval(f.pkg, readStart)
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), got)
}

func TestEvalFailRaisesUserFail(t *testing.T) {
	f := newFixture()
	s, _, _ := f.sparseState()
	entry := f.expr(ir.Expr{Kind: ir.ExprFail, FailMessage: f.litStr("boom")})

	_, err := s.Eval(f.pkg, entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
