package ir

// Fold returns a new program with constant expressions folded and dead
// branches pruned. It runs after semantic analysis, on a tree already
// known to type-check, so it never needs to re-derive types: only the
// shapes of literals and operators matter here.
func Fold(p *Program) *Program {
	out := &Program{Funcs: make([]*FunDef, len(p.Funcs))}
	for i, fn := range p.Funcs {
		out.Funcs[i] = foldFunDef(fn)
	}
	return out
}

func foldFunDef(fn *FunDef) *FunDef {
	return &FunDef{
		Ret:  fn.Ret,
		Name: fn.Name,
		Args: fn.Args,
		Body: foldStmts(fn.Body),
		Pos:  fn.Pos,
	}
}

func foldStmts(stmts []Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, foldStmt(s))
	}
	return out
}

func foldStmt(s Stmt) Stmt {
	switch n := s.(type) {
	case *DeclStmt:
		items := make([]Item, len(n.Items))
		for i, it := range n.Items {
			items[i] = foldItem(it)
		}
		return &DeclStmt{Type: n.Type, Items: items, Pos: n.Pos}
	case *AssignStmt:
		return &AssignStmt{Name: n.Name, Expr: foldExpr(n.Expr), Pos: n.Pos}
	case *RetStmt:
		return &RetStmt{Expr: foldExpr(n.Expr), Pos: n.Pos}
	case *IfStmt:
		cond := foldExpr(n.Cond)
		then := foldStmt(n.Then)
		if b, ok := cond.(*BoolLit); ok {
			if b.Value {
				return then
			}
			return &EmptyStmt{Pos: n.Pos}
		}
		return &IfStmt{Cond: cond, Then: then, Pos: n.Pos}
	case *IfElseStmt:
		cond := foldExpr(n.Cond)
		then := foldStmt(n.Then)
		els := foldStmt(n.Else)
		if b, ok := cond.(*BoolLit); ok {
			if b.Value {
				return then
			}
			return els
		}
		return &IfElseStmt{Cond: cond, Then: then, Else: els, Pos: n.Pos}
	case *WhileStmt:
		cond := foldExpr(n.Cond)
		body := foldStmt(n.Body)
		if b, ok := cond.(*BoolLit); ok && !b.Value {
			return &EmptyStmt{Pos: n.Pos}
		}
		return &WhileStmt{Cond: cond, Body: body, Pos: n.Pos}
	case *ExprStmt:
		return &ExprStmt{Expr: foldExpr(n.Expr), Pos: n.Pos}
	case *BlockStmt:
		return &BlockStmt{Stmts: foldStmts(n.Stmts), Pos: n.Pos}
	default:
		return s
	}
}

func foldItem(it Item) Item {
	if init, ok := it.(*InitItem); ok {
		return &InitItem{Name: init.Name, Expr: foldExpr(init.Expr), Pos: init.Pos}
	}
	return it
}

func foldExpr(e Expr) Expr {
	switch n := e.(type) {
	case *NegExpr:
		inner := foldExpr(n.Expr)
		if lit, ok := inner.(*IntLit); ok {
			return &IntLit{Value: -lit.Value, Pos: n.Pos}
		}
		return &NegExpr{Expr: inner, Pos: n.Pos}
	case *NotExpr:
		inner := foldExpr(n.Expr)
		if lit, ok := inner.(*BoolLit); ok {
			return &BoolLit{Value: !lit.Value, Pos: n.Pos}
		}
		return &NotExpr{Expr: inner, Pos: n.Pos}
	case *AppExpr:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = foldExpr(a)
		}
		return &AppExpr{Name: n.Name, Args: args, Pos: n.Pos}
	case *PredefExpr:
		if n.Arg == nil {
			return n
		}
		return &PredefExpr{Kind: n.Kind, Arg: foldExpr(n.Arg), Pos: n.Pos}
	case *OpExpr:
		return foldOp(n)
	default:
		return e
	}
}

func foldOp(n *OpExpr) Expr {
	left := foldExpr(n.Left)
	right := foldExpr(n.Right)

	if b, ok := left.(*BoolLit); ok {
		switch {
		case n.Op == OpAnd && !b.Value:
			return &BoolLit{Value: false, Pos: n.Pos}
		case n.Op == OpOr && b.Value:
			return &BoolLit{Value: true, Pos: n.Pos}
		}
	}
	if b, ok := right.(*BoolLit); ok {
		switch {
		case n.Op == OpAnd && !b.Value && isPure(left):
			return &BoolLit{Value: false, Pos: n.Pos}
		case n.Op == OpOr && b.Value && isPure(left):
			return &BoolLit{Value: true, Pos: n.Pos}
		}
	}

	if li, ok := left.(*IntLit); ok {
		if ri, ok := right.(*IntLit); ok {
			if folded, ok := foldIntOp(n.Op, li.Value, ri.Value, n.Pos); ok {
				return folded
			}
		}
		switch n.Op {
		case OpMul:
			if li.Value == 0 && isPure(right) {
				return &IntLit{Value: 0, Pos: n.Pos}
			}
		}
	}
	if ri, ok := right.(*IntLit); ok {
		switch n.Op {
		case OpMul:
			if ri.Value == 0 && isPure(left) {
				return &IntLit{Value: 0, Pos: n.Pos}
			}
		case OpDiv:
			if ri.Value == 1 {
				return left
			}
		}
	}

	if lb, ok := left.(*BoolLit); ok {
		if rb, ok := right.(*BoolLit); ok {
			switch n.Op {
			case OpEQ:
				return &BoolLit{Value: lb.Value == rb.Value, Pos: n.Pos}
			case OpNEQ:
				return &BoolLit{Value: lb.Value != rb.Value, Pos: n.Pos}
			case OpAnd:
				return &BoolLit{Value: lb.Value && rb.Value, Pos: n.Pos}
			case OpOr:
				return &BoolLit{Value: lb.Value || rb.Value, Pos: n.Pos}
			}
		}
	}

	return &OpExpr{Left: left, Op: n.Op, Right: right, Pos: n.Pos}
}

// foldIntOp evaluates a binary operator over two integer literals. Division
// and modulo by a literal zero are deliberately left unfolded: the fold
// happens at compile time but the divide-by-zero trap belongs to the
// generated program's runtime behaviour, not the optimizer's.
func foldIntOp(op BinOp, l, r int32, pos Pos) (Expr, bool) {
	switch op {
	case OpAdd:
		return &IntLit{Value: l + r, Pos: pos}, true
	case OpSub:
		return &IntLit{Value: l - r, Pos: pos}, true
	case OpMul:
		return &IntLit{Value: l * r, Pos: pos}, true
	case OpDiv:
		if r == 0 {
			return nil, false
		}
		return &IntLit{Value: l / r, Pos: pos}, true
	case OpMod:
		if r == 0 {
			return nil, false
		}
		return &IntLit{Value: l % r, Pos: pos}, true
	case OpLT:
		return &BoolLit{Value: l < r, Pos: pos}, true
	case OpLE:
		return &BoolLit{Value: l <= r, Pos: pos}, true
	case OpGT:
		return &BoolLit{Value: l > r, Pos: pos}, true
	case OpGE:
		return &BoolLit{Value: l >= r, Pos: pos}, true
	case OpEQ:
		return &BoolLit{Value: l == r, Pos: pos}, true
	case OpNEQ:
		return &BoolLit{Value: l != r, Pos: pos}, true
	}
	return nil, false
}

// isPure reports whether evaluating e can be skipped without changing
// program behaviour -- no side effects (calls, predef I/O) anywhere in it.
// Used to guard algebraic identities like x*0 -> 0, which would otherwise
// drop a call's side effects on the floor.
func isPure(e Expr) bool {
	switch n := e.(type) {
	case *VarExpr, *IntLit, *BoolLit, *StringLit:
		return true
	case *NegExpr:
		return isPure(n.Expr)
	case *NotExpr:
		return isPure(n.Expr)
	case *OpExpr:
		return isPure(n.Left) && isPure(n.Right)
	default:
		return false
	}
}
