// Package loader parses the demo CLI's hand-authored JSON program format
// into IR nodes registered in a store.Memory, standing in for the
// parser/lowering pipeline this module doesn't implement. The format is
// deliberately tiny: one JSON object per expression/statement with a "kind"
// discriminant, mirroring the shape pkg/eval's own tests build IR nodes in
// by hand.
package loader

import (
	"encoding/json"
	"fmt"

	"github.com/qcore-lang/qcore/pkg/ids"
	"github.com/qcore-lang/qcore/pkg/ir"
	"github.com/qcore-lang/qcore/pkg/store"
)

// Program is the top-level JSON document: a set of named global callables
// (plain user-defined functions or intrinsics dispatching to a Backend) plus
// one entry expression to evaluate.
type Program struct {
	Globals map[string]json.RawMessage `json:"globals"`
	Entry   json.RawMessage            `json:"entry"`
}

// Expr is the JSON shape of one expression node; which fields are read
// depends on Kind, the same "one struct, Kind-gated fields" pattern ir.Expr
// itself uses.
type Expr struct {
	Kind string `json:"kind"`

	Int    *int64   `json:"int,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	Double *float64 `json:"double,omitempty"`
	Str    *string  `json:"string,omitempty"`

	Name string `json:"name,omitempty"` // var, global, call-by-name

	Op  string `json:"op,omitempty"`
	Lhs *Expr  `json:"lhs,omitempty"`
	Rhs *Expr  `json:"rhs,omitempty"`

	Value *Expr `json:"value,omitempty"` // unop operand, return value, fail message

	Items []*Expr `json:"items,omitempty"` // tuple, array

	Cond *Expr `json:"cond,omitempty"`
	Then *Expr `json:"then,omitempty"`
	Else *Expr `json:"else,omitempty"`

	Block []*Stmt `json:"block,omitempty"`

	Callee *Expr `json:"callee,omitempty"`
	Args   *Expr `json:"args,omitempty"`

	Array *Expr `json:"array,omitempty"`
	Index *Expr `json:"index,omitempty"`

	Start *Expr `json:"start,omitempty"`
	Step  *Expr `json:"step,omitempty"`
	End   *Expr `json:"end,omitempty"`

	Target *Expr `json:"target,omitempty"` // assign/assign_op target
}

// Stmt is the JSON shape of one block statement.
type Stmt struct {
	Kind  string `json:"kind"`  // let, mutable, expr, semi
	Name  string `json:"name"`  // let/mutable
	Value *Expr  `json:"value"` // let/mutable/expr/semi
}

// GlobalDecl is the JSON shape of one top-level callable.
type GlobalDecl struct {
	Intrinsic bool    `json:"intrinsic"`
	Input     string  `json:"input"` // parameter name, empty for a Unit-input callable
	Body      []*Stmt `json:"body"`
	Adjoint   []*Stmt `json:"adjoint,omitempty"`
}

// Loader builds IR into a store.Memory for one package, assigning a fresh
// id to every node and a LocalVarId to every distinct name it sees.
type Loader struct {
	store *store.Memory
	pkg   ids.PackageId
	next  uint32
	names map[string]ids.LocalVarId
	items map[string]ids.LocalItemId
}

// New creates a Loader writing into st under pkg.
func New(st *store.Memory, pkg ids.PackageId) *Loader {
	return &Loader{store: st, pkg: pkg, names: make(map[string]ids.LocalVarId), items: make(map[string]ids.LocalItemId)}
}

func (l *Loader) id() uint32 {
	l.next++
	return l.next
}

func (l *Loader) localVar(name string) ids.LocalVarId {
	if v, ok := l.names[name]; ok {
		return v
	}
	v := ids.LocalVarId(l.id())
	l.names[name] = v
	return v
}

func (l *Loader) itemFor(name string) ids.LocalItemId {
	if it, ok := l.items[name]; ok {
		return it
	}
	it := ids.LocalItemId(l.id())
	l.items[name] = it
	return it
}

// Load parses prog, registers every global, and returns the entry
// expression's id ready to pass to eval.State.Eval.
func (l *Loader) Load(prog *Program) (ids.ExprId, error) {
	for name, raw := range prog.Globals {
		var decl GlobalDecl
		if err := json.Unmarshal(raw, &decl); err != nil {
			return 0, fmt.Errorf("global %q: %w", name, err)
		}
		if err := l.loadGlobal(name, &decl); err != nil {
			return 0, fmt.Errorf("global %q: %w", name, err)
		}
	}

	var entry Expr
	if err := json.Unmarshal(prog.Entry, &entry); err != nil {
		return 0, fmt.Errorf("entry: %w", err)
	}
	return l.expr(&entry)
}

func (l *Loader) loadGlobal(name string, decl *GlobalDecl) error {
	item := l.itemFor(name)
	if decl.Intrinsic {
		l.store.DefineGlobal(l.pkg, item, &ir.Global{
			Kind:     ir.GlobalCallable,
			Callable: &ir.Callable{Name: name, IsIntrinsic: true},
		})
		return nil
	}

	inputPat, err := l.inputPat(decl.Input)
	if err != nil {
		return err
	}
	body, err := l.block(decl.Body)
	if err != nil {
		return err
	}
	spec := ir.SpecImpl{Body: ir.SpecDecl{Input: inputPat, Block: body}}
	if decl.Adjoint != nil {
		adjBlock, err := l.block(decl.Adjoint)
		if err != nil {
			return err
		}
		spec.Adj = &ir.SpecDecl{Input: inputPat, Block: adjBlock}
	}
	l.store.DefineGlobal(l.pkg, item, &ir.Global{
		Kind:     ir.GlobalCallable,
		Callable: &ir.Callable{Name: name, Input: inputPat, Spec: spec},
	})
	return nil
}

func (l *Loader) inputPat(name string) (ids.PatId, error) {
	var p ir.Pat
	if name == "" {
		p = ir.Pat{Kind: ir.PatDiscard}
	} else {
		p = ir.Pat{Kind: ir.PatBind, Bind: ir.PatVariable{ID: l.localVar(name), Name: name}}
	}
	p.ID = ids.PatId(l.id())
	l.store.DefinePat(l.pkg, &p)
	return p.ID, nil
}

func (l *Loader) block(stmts []*Stmt) (ids.BlockId, error) {
	stmtIDs := make([]ids.StmtId, 0, len(stmts))
	for _, s := range stmts {
		id, err := l.stmt(s)
		if err != nil {
			return 0, err
		}
		stmtIDs = append(stmtIDs, id)
	}
	b := &ir.Block{ID: ids.BlockId(l.id()), Stmts: stmtIDs}
	l.store.DefineBlock(l.pkg, b)
	return b.ID, nil
}

func (l *Loader) stmt(s *Stmt) (ids.StmtId, error) {
	switch s.Kind {
	case "let", "mutable":
		valID, err := l.expr(s.Value)
		if err != nil {
			return 0, err
		}
		pat := ir.Pat{ID: ids.PatId(l.id()), Kind: ir.PatBind,
			Bind: ir.PatVariable{ID: l.localVar(s.Name), Name: s.Name}}
		l.store.DefinePat(l.pkg, &pat)
		mut := ir.LocalImmutable
		if s.Kind == "mutable" {
			mut = ir.LocalMutable
		}
		st := &ir.Stmt{ID: ids.StmtId(l.id()), Kind: ir.StmtLocal, Pat: pat.ID, Value: valID, Mutability: mut}
		l.store.DefineStmt(l.pkg, st)
		return st.ID, nil
	case "expr", "semi":
		valID, err := l.expr(s.Value)
		if err != nil {
			return 0, err
		}
		kind := ir.StmtExpr
		if s.Kind == "semi" {
			kind = ir.StmtSemi
		}
		st := &ir.Stmt{ID: ids.StmtId(l.id()), Kind: kind, Expr: valID}
		l.store.DefineStmt(l.pkg, st)
		return st.ID, nil
	default:
		return 0, fmt.Errorf("unknown statement kind %q", s.Kind)
	}
}

func (l *Loader) expr(e *Expr) (ids.ExprId, error) {
	node, err := l.exprNode(e)
	if err != nil {
		return 0, err
	}
	node.ID = ids.ExprId(l.id())
	l.store.DefineExpr(l.pkg, &node)
	return node.ID, nil
}

func (l *Loader) maybeExpr(e *Expr) (*ids.ExprId, error) {
	if e == nil {
		return nil, nil
	}
	id, err := l.expr(e)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

var binOps = map[string]ir.BinOp{
	"add": ir.BinAdd, "and_b": ir.BinAndB, "and_l": ir.BinAndL, "div": ir.BinDiv,
	"eq": ir.BinEq, "exp": ir.BinExp, "gt": ir.BinGt, "gte": ir.BinGte,
	"lt": ir.BinLt, "lte": ir.BinLte, "mod": ir.BinMod, "mul": ir.BinMul,
	"neq": ir.BinNeq, "or_b": ir.BinOrB, "or_l": ir.BinOrL, "shl": ir.BinShl,
	"shr": ir.BinShr, "sub": ir.BinSub, "xor_b": ir.BinXorB,
}

var unOps = map[string]ir.UnOp{
	"adj": ir.UnFunctorAdj, "ctl": ir.UnFunctorCtl, "neg": ir.UnNeg,
	"not_b": ir.UnNotB, "not_l": ir.UnNotL, "pos": ir.UnPos, "unwrap": ir.UnUnwrap,
}

func (l *Loader) exprNode(e *Expr) (ir.Expr, error) {
	switch e.Kind {
	case "int":
		return ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitInt, Int: *e.Int}}, nil
	case "bool":
		return ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitBool, Bool: *e.Bool}}, nil
	case "double":
		return ir.Expr{Kind: ir.ExprLit, Lit: ir.Lit{Kind: ir.LitDouble, Double: *e.Double}}, nil
	case "string":
		return ir.Expr{Kind: ir.ExprString, StringParts: []ir.StringComponent{{Lit: *e.Str}}}, nil
	case "var":
		return ir.Expr{Kind: ir.ExprVar, Var: ir.Res{IsLocal: true, Local: l.localVar(e.Name)}}, nil
	case "global":
		return ir.Expr{Kind: ir.ExprVar, Var: ir.Res{IsLocal: false, Item: ids.ItemId{Item: l.itemFor(e.Name)}}}, nil
	case "binop":
		op, ok := binOps[e.Op]
		if !ok {
			return ir.Expr{}, fmt.Errorf("unknown binop %q", e.Op)
		}
		lhs, err := l.expr(e.Lhs)
		if err != nil {
			return ir.Expr{}, err
		}
		rhs, err := l.expr(e.Rhs)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprBinOp, Op: op, Lhs: lhs, Rhs: rhs}, nil
	case "unop":
		op, ok := unOps[e.Op]
		if !ok {
			return ir.Expr{}, fmt.Errorf("unknown unop %q", e.Op)
		}
		v, err := l.expr(e.Value)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprUnOp, UnOp: op, Value: v}, nil
	case "tuple", "array":
		items := make([]ids.ExprId, 0, len(e.Items))
		for _, it := range e.Items {
			id, err := l.expr(it)
			if err != nil {
				return ir.Expr{}, err
			}
			items = append(items, id)
		}
		kind := ir.ExprTuple
		if e.Kind == "array" {
			kind = ir.ExprArray
		}
		return ir.Expr{Kind: kind, Items: items}, nil
	case "if":
		cond, err := l.expr(e.Cond)
		if err != nil {
			return ir.Expr{}, err
		}
		then, err := l.expr(e.Then)
		if err != nil {
			return ir.Expr{}, err
		}
		elseID, err := l.maybeExpr(e.Else)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprIf, Cond: cond, Then: then, Else: elseID}, nil
	case "block":
		b, err := l.block(e.Block)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprBlock, Block: b}, nil
	case "call":
		callee, err := l.expr(e.Callee)
		if err != nil {
			return ir.Expr{}, err
		}
		args, err := l.expr(e.Args)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprCall, Callee: callee, Args: args}, nil
	case "return":
		v, err := l.expr(e.Value)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprReturn, ReturnValue: v}, nil
	case "fail":
		v, err := l.expr(e.Value)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprFail, FailMessage: v}, nil
	case "while":
		cond, err := l.expr(e.Cond)
		if err != nil {
			return ir.Expr{}, err
		}
		body, err := l.block(e.Block)
		if err != nil {
			return ir.Expr{}, err
		}
		bodyExpr := ir.Expr{ID: ids.ExprId(l.id()), Kind: ir.ExprBlock, Block: body}
		l.store.DefineExpr(l.pkg, &bodyExpr)
		return ir.Expr{Kind: ir.ExprWhile, Cond: cond, Then: bodyExpr.ID}, nil
	case "range":
		start, err := l.maybeExpr(e.Start)
		if err != nil {
			return ir.Expr{}, err
		}
		step, err := l.maybeExpr(e.Step)
		if err != nil {
			return ir.Expr{}, err
		}
		end, err := l.maybeExpr(e.End)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprRange, RangeStart: start, RangeStep: step, RangeEnd: end}, nil
	case "index":
		arr, err := l.expr(e.Array)
		if err != nil {
			return ir.Expr{}, err
		}
		idx, err := l.expr(e.Index)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprIndex, IndexArray: arr, IndexIndex: idx}, nil
	case "assign", "assign_op":
		lhs, err := l.expr(e.Target)
		if err != nil {
			return ir.Expr{}, err
		}
		rhs, err := l.expr(e.Rhs)
		if err != nil {
			return ir.Expr{}, err
		}
		if e.Kind == "assign" {
			return ir.Expr{Kind: ir.ExprAssign, AssignLhs: lhs, AssignRhs: rhs}, nil
		}
		op, ok := binOps[e.Op]
		if !ok {
			return ir.Expr{}, fmt.Errorf("unknown assign_op %q", e.Op)
		}
		return ir.Expr{Kind: ir.ExprAssignOp, AssignLhs: lhs, AssignRhs: rhs, AssignOp: op}, nil
	default:
		return ir.Expr{}, fmt.Errorf("unknown expression kind %q", e.Kind)
	}
}
