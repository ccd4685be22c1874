package eval

import "github.com/qcore-lang/qcore/pkg/ids"

// ContKind discriminates what one entry of the continuation stack resumes:
// an expression or statement still to be lowered into actions, a pending
// Action waiting for its operands on the value stack, or a sentinel marking
// a call-frame or env-scope boundary to unwind to.
type ContKind int

const (
	ContExpr ContKind = iota
	ContStmt
	ContAction
	ContFrame
	ContScope
)

// Cont is one continuation-stack entry. Only the field matching Kind
// is populated.
type Cont struct {
	Kind   ContKind
	Expr   ids.ExprId
	Stmt   ids.StmtId
	Action Action
}

func contExpr(id ids.ExprId) Cont { return Cont{Kind: ContExpr, Expr: id} }
func contStmt(id ids.StmtId) Cont { return Cont{Kind: ContStmt, Stmt: id} }
func contAction(a Action) Cont    { return Cont{Kind: ContAction, Action: a} }

// contFrame and contScope are sentinels: pushed with no payload, popped by
// Return's unwind loop and by block exit respectively.
func contFrame() Cont { return Cont{Kind: ContFrame} }
func contScope() Cont { return Cont{Kind: ContScope} }
