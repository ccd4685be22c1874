package eval_test

import (
	"github.com/qcore-lang/qcore/pkg/backend"
	"github.com/qcore-lang/qcore/pkg/eval"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/store"
)

// fixture builds a tiny IR program directly against a store.Memory, one node
// at a time, standing in for the parser/lowering pipeline this module never
// implements.
type fixture struct {
	store *store.Memory
	pkg   ids.PackageId
	next  uint32
}

func newFixture() *fixture {
	return &fixture{store: store.NewMemory(), pkg: 1}
}

func (f *fixture) id() uint32 {
	f.next++
	return f.next
}

func (f *fixture) state(be backend.Backend, out backend.Receiver) *eval.State {
	return eval.NewState(f.store, be, out, 42)
}

func (f *fixture) sparseState() (*eval.State, *backend.Sparse, *backend.Recorder) {
	be := backend.NewSparse()
	rec := backend.NewRecorder(nil)
	return f.state(be, rec), be, rec
}

func (f *fixture) expr(e ir.Expr) ids.ExprId {
	e.ID = ids.ExprId(f.id())
	f.store.DefineExpr(f.pkg, &e)
	return e.ID
}

func (f *fixture) stmt(s ir.Stmt) ids.StmtId {
	s.ID = ids.StmtId(f.id())
	f.store.DefineStmt(f.pkg, &s)
	return s.ID
}

func (f *fixture) block(stmts ...ids.StmtId) ids.BlockId {
	b := &ir.Block{ID: ids.BlockId(f.id()), Stmts: stmts}
	f.store.DefineBlock(f.pkg, b)
	return b.ID
}

func (f *fixture) pat(p ir.Pat) ids.PatId {
	p.ID = ids.PatId(f.id())
	f.store.DefinePat(f.pkg, &p)
	return p.ID
}

func (f *fixture) localVar() ids.LocalVarId {
	return ids.LocalVarId(f.id())
}

func (f *fixture) bindPat(local ids.LocalVarId, name string) ids.PatId {
	return f.pat(ir.Pat{Kind: ir.PatBind, Bind: ir.PatVariable{ID: local, Name: name}})
}

func (f *fixture) litInt(n int64) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitInt, Int: n}})
}

func (f *fixture) litBool(b bool) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitBool, Bool: b}})
}

func (f *fixture) litDouble(d float64) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitDouble, Double: d}})
}

func (f *fixture) litStr(s string) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprString, StringParts: []ir.StringComponent{{Lit: s}}})
}

func (f *fixture) varExpr(local ids.LocalVarId) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprVar, Var: ir.Res{IsLocal: true, Local: local}})
}

func (f *fixture) globalExpr(item ids.LocalItemId) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprVar, Var: ir.Res{IsLocal: false, Item: ids.ItemId{Item: item}}})
}

func (f *fixture) binOp(op ir.BinOp, lhs, rhs ids.ExprId) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprBinOp, Op: op, Lhs: lhs, Rhs: rhs})
}

func (f *fixture) blockExpr(b ids.BlockId) ids.ExprId {
	return f.expr(ir.Expr{Kind: ir.ExprBlock, Block: b})
}

func (f *fixture) letStmt(local ids.LocalVarId, name string, value ids.ExprId, mutable bool) ids.StmtId {
	mut := ir.LocalImmutable
	if mutable {
		mut = ir.LocalMutable
	}
	return f.stmt(ir.Stmt{Kind: ir.StmtLocal, Pat: f.bindPat(local, name), Value: value, Mutability: mut})
}

func (f *fixture) exprStmt(e ids.ExprId) ids.StmtId {
	return f.stmt(ir.Stmt{Kind: ir.StmtExpr, Expr: e})
}

func (f *fixture) semiStmt(e ids.ExprId) ids.StmtId {
	return f.stmt(ir.Stmt{Kind: ir.StmtSemi, Expr: e})
}

func (f *fixture) defineGlobal(item ids.LocalItemId, g *ir.Global) {
	f.store.DefineGlobal(f.pkg, item, g)
}
