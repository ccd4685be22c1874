// Package store provides an in-memory PackageStoreLookup: parallel maps from
// node id to IR node, one set of maps per package, populated directly by
// whatever builds a program (tests, the demo CLI's IR loader) since parsing
// and lowering are out of scope here.
//
// Grounded on pkg/compiler.SymbolTable: a map-backed table with
// a Define-style insertion method, generalized from "name -> Symbol" to
// "NodeId -> IR node" and from a single scope chain to one table per package.
package store

import (
	"fmt"

	"github.com/qcore-lang/qcore/pkg/backend"
	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
)

type packageTables struct {
	exprs   map[ids.ExprId]*ir.Expr
	stmts   map[ids.StmtId]*ir.Stmt
	blocks  map[ids.BlockId]*ir.Block
	pats    map[ids.PatId]*ir.Pat
	globals map[ids.LocalItemId]*ir.Global
}

func newPackageTables() *packageTables {
	return &packageTables{
		exprs:   make(map[ids.ExprId]*ir.Expr),
		stmts:   make(map[ids.StmtId]*ir.Stmt),
		blocks:  make(map[ids.BlockId]*ir.Block),
		pats:    make(map[ids.PatId]*ir.Pat),
		globals: make(map[ids.LocalItemId]*ir.Global),
	}
}

// Memory is an in-memory PackageStoreLookup implementation.
type Memory struct {
	packages map[ids.PackageId]*packageTables
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{packages: make(map[ids.PackageId]*packageTables)}
}

func (m *Memory) table(pkg ids.PackageId) *packageTables {
	t, ok := m.packages[pkg]
	if !ok {
		t = newPackageTables()
		m.packages[pkg] = t
	}
	return t
}

// DefineExpr inserts expr under (pkg, expr.ID).
func (m *Memory) DefineExpr(pkg ids.PackageId, expr *ir.Expr) {
	m.table(pkg).exprs[expr.ID] = expr
}

// DefineStmt inserts stmt under (pkg, stmt.ID).
func (m *Memory) DefineStmt(pkg ids.PackageId, stmt *ir.Stmt) {
	m.table(pkg).stmts[stmt.ID] = stmt
}

// DefineBlock inserts block under (pkg, block.ID).
func (m *Memory) DefineBlock(pkg ids.PackageId, block *ir.Block) {
	m.table(pkg).blocks[block.ID] = block
}

// DefinePat inserts pat under (pkg, pat.ID).
func (m *Memory) DefinePat(pkg ids.PackageId, pat *ir.Pat) {
	m.table(pkg).pats[pat.ID] = pat
}

// DefineGlobal inserts global under (pkg, item).
func (m *Memory) DefineGlobal(pkg ids.PackageId, item ids.LocalItemId, global *ir.Global) {
	m.table(pkg).globals[item] = global
}

func (m *Memory) GetExpr(id ids.PackageExpr) *ir.Expr {
	e, ok := m.table(id.Package).exprs[id.Expr]
	if !ok {
		panic(fmt.Sprintf("store: expr %d not found in package %d", id.Expr, id.Package))
	}
	return e
}

func (m *Memory) GetStmt(id ids.PackageStmt) *ir.Stmt {
	s, ok := m.table(id.Package).stmts[id.Stmt]
	if !ok {
		panic(fmt.Sprintf("store: stmt %d not found in package %d", id.Stmt, id.Package))
	}
	return s
}

func (m *Memory) GetBlock(id ids.PackageBlock) *ir.Block {
	b, ok := m.table(id.Package).blocks[id.Block]
	if !ok {
		panic(fmt.Sprintf("store: block %d not found in package %d", id.Block, id.Package))
	}
	return b
}

func (m *Memory) GetPat(id ids.PackagePat) *ir.Pat {
	p, ok := m.table(id.Package).pats[id.Pat]
	if !ok {
		panic(fmt.Sprintf("store: pat %d not found in package %d", id.Pat, id.Package))
	}
	return p
}

func (m *Memory) GetGlobal(id ids.StoreItemId) (*ir.Global, bool) {
	g, ok := m.table(id.Package).globals[id.Item]
	return g, ok
}

var _ backend.PackageStoreLookup = (*Memory)(nil)
