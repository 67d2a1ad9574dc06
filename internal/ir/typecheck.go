package ir

import "fmt"

// Check runs the two-pass type checker over the whole program: pass A
// collects every function signature into the global scope (so mutually
// recursive calls resolve regardless of declaration order), pass B checks
// every function body against those signatures, and a final check
// requires that `main` exists with signature `int()`.
func Check(p *Program) error {
	global := NewTypeContext()

	// Pass A: signature collection.
	for _, fn := range p.Funcs {
		if err := global.Add(fn.Pos, fn.Name, fn.Signature()); err != nil {
			return err
		}
	}

	// Pass B: body checking.
	for _, fn := range p.Funcs {
		if err := checkFunDef(global, fn); err != nil {
			return err
		}
	}

	return checkMainExists(global)
}

func checkMainExists(global *TypeContext) error {
	t, err := global.Get(Pos{}, "main")
	if err != nil {
		return errMissingMain()
	}
	want := Func(Int, nil)
	if !t.Equal(want) {
		return errInvalidMainType(Pos{})
	}
	return nil
}

func checkFunDef(global *TypeContext, fn *FunDef) error {
	ctx := global.NewFunctionScope(fn.Ret)
	for _, a := range fn.Args {
		if a.Type.Kind == KindVoid {
			return errVoidArgument(a.Pos)
		}
		if err := ctx.Add(a.Pos, a.Name, a.Type); err != nil {
			return err
		}
	}
	for _, s := range fn.Body {
		if err := checkStmt(ctx, s); err != nil {
			if te, ok := err.(*TypeError); ok {
				te.Stack = append(te.Stack, fmt.Sprintf("function %s", fn.Name))
				return te
			}
			return err
		}
	}
	return nil
}

func checkStmt(ctx *TypeContext, s Stmt) error {
	switch n := s.(type) {
	case *EmptyStmt:
		return nil
	case *ExprStmt:
		_, err := checkExpr(ctx, n.Expr)
		return wrapStmtErr(err, n)
	case *AssignStmt:
		return checkAssign(ctx, n)
	case *DeclStmt:
		return checkDecl(ctx, n)
	case *IncStmt:
		t, err := ctx.Get(n.Pos, n.Name)
		if err != nil {
			return wrapStmtErr(err, n)
		}
		if t.Kind != KindInt {
			return wrapStmtErr(errIncompatible(n.Pos, t, Int), n)
		}
		return nil
	case *DecStmt:
		t, err := ctx.Get(n.Pos, n.Name)
		if err != nil {
			return wrapStmtErr(err, n)
		}
		if t.Kind != KindInt {
			return wrapStmtErr(errIncompatible(n.Pos, t, Int), n)
		}
		return nil
	case *IfStmt:
		if err := expectExpr(ctx, n.Cond, Bool); err != nil {
			return wrapStmtErr(err, n)
		}
		return wrapStmtErr(checkStmt(ctx.NewScope(), n.Then), n)
	case *IfElseStmt:
		if err := expectExpr(ctx, n.Cond, Bool); err != nil {
			return wrapStmtErr(err, n)
		}
		if err := checkStmt(ctx.NewScope(), n.Then); err != nil {
			return wrapStmtErr(err, n)
		}
		return wrapStmtErr(checkStmt(ctx.NewScope(), n.Else), n)
	case *WhileStmt:
		if err := expectExpr(ctx, n.Cond, Bool); err != nil {
			return wrapStmtErr(err, n)
		}
		return wrapStmtErr(checkStmt(ctx.NewScope(), n.Body), n)
	case *RetStmt:
		if ctx.ReturnType.Kind == KindVoid {
			return wrapStmtErr(errVoidReturnValue(n.Pos), n)
		}
		return wrapStmtErr(expectExpr(ctx, n.Expr, ctx.ReturnType), n)
	case *VRetStmt:
		if ctx.ReturnType.Kind != KindVoid {
			return wrapStmtErr(errIncompatible(n.Pos, Void, ctx.ReturnType), n)
		}
		return nil
	case *BlockStmt:
		child := ctx.NewScope()
		for _, c := range n.Stmts {
			if err := checkStmt(child, c); err != nil {
				return wrapStmtErr(err, n)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown statement node %T", s)
}

func wrapStmtErr(err error, s Stmt) error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TypeError); ok {
		return te.WithinStmt(s)
	}
	return err
}

func checkAssign(ctx *TypeContext, n *AssignStmt) error {
	want, err := ctx.Get(n.Pos, n.Name)
	if err != nil {
		return wrapStmtErr(err, n)
	}
	got, err := checkExpr(ctx, n.Expr)
	if err != nil {
		return wrapStmtErr(err, n)
	}
	if !got.Equal(want) || !isAssignable(want) {
		return wrapStmtErr(errIncompatible(n.Pos, got, want), n)
	}
	return nil
}

func isAssignable(t Type) bool {
	return t.Kind == KindInt || t.Kind == KindString || t.Kind == KindBool
}

func checkDecl(ctx *TypeContext, n *DeclStmt) error {
	if n.Type.Kind == KindVoid {
		return wrapStmtErr(errVoidDeclaration(n.Pos), n)
	}
	for _, item := range n.Items {
		switch it := item.(type) {
		case *NoInitItem:
			if err := ctx.Add(it.Pos, it.Name, n.Type); err != nil {
				return wrapStmtErr(err, n)
			}
		case *InitItem:
			if err := expectExpr(ctx, it.Expr, n.Type); err != nil {
				return wrapStmtErr(err, n)
			}
			if err := ctx.Add(it.Pos, it.Name, n.Type); err != nil {
				return wrapStmtErr(err, n)
			}
		}
	}
	return nil
}

func expectExpr(ctx *TypeContext, e Expr, want Type) error {
	got, err := checkExpr(ctx, e)
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return errIncompatible(e.Position(), got, want)
	}
	return nil
}

func checkExpr(ctx *TypeContext, e Expr) (Type, error) {
	switch n := e.(type) {
	case *VarExpr:
		return ctx.Get(n.Pos, n.Name)
	case *IntLit:
		return Int, nil
	case *BoolLit:
		return Bool, nil
	case *StringLit:
		return String, nil
	case *NegExpr:
		if err := expectExpr(ctx, n.Expr, Int); err != nil {
			return Type{}, wrapExprErr(err, n)
		}
		return Int, nil
	case *NotExpr:
		if err := expectExpr(ctx, n.Expr, Bool); err != nil {
			return Type{}, wrapExprErr(err, n)
		}
		return Bool, nil
	case *PredefExpr:
		return checkPredef(ctx, n)
	case *AppExpr:
		return checkApp(ctx, n)
	case *OpExpr:
		return checkOp(ctx, n)
	}
	return Type{}, fmt.Errorf("unknown expression node %T", e)
}

func wrapExprErr(err error, e Expr) error {
	if te, ok := err.(*TypeError); ok {
		return te.WithinExpr(e)
	}
	return err
}

func checkPredef(ctx *TypeContext, n *PredefExpr) (Type, error) {
	switch n.Kind {
	case PrintInt:
		if err := expectExpr(ctx, n.Arg, Int); err != nil {
			return Type{}, wrapExprErr(err, n)
		}
		return Void, nil
	case PrintString:
		if err := expectExpr(ctx, n.Arg, String); err != nil {
			return Type{}, wrapExprErr(err, n)
		}
		return Void, nil
	case ReadInt:
		return Int, nil
	case ReadString:
		return String, nil
	case ErrorCall:
		return Void, nil
	}
	return Type{}, fmt.Errorf("unknown predef kind %d", n.Kind)
}

func checkApp(ctx *TypeContext, n *AppExpr) (Type, error) {
	t, err := ctx.Get(n.Pos, n.Name)
	if err != nil {
		return Type{}, wrapExprErr(err, n)
	}
	if t.Kind != KindFunc {
		return Type{}, wrapExprErr(errNotAFunction(n.Pos, n.Name), n)
	}
	if len(n.Args) != len(t.Params) {
		return Type{}, wrapExprErr(errInvalidArgCount(n.Pos, n.Name, len(n.Args), len(t.Params)), n)
	}
	for i, arg := range n.Args {
		got, err := checkExpr(ctx, arg)
		if err != nil {
			return Type{}, wrapExprErr(err, n)
		}
		if !got.Equal(t.Params[i]) {
			return Type{}, wrapExprErr(errInvalidArgType(n.Pos, n.Name, i, got, t.Params[i]), n)
		}
	}
	return *t.Ret, nil
}

func checkOp(ctx *TypeContext, n *OpExpr) (Type, error) {
	lhs, err := checkExpr(ctx, n.Left)
	if err != nil {
		return Type{}, wrapExprErr(err, n)
	}
	rhs, err := checkExpr(ctx, n.Right)
	if err != nil {
		return Type{}, wrapExprErr(err, n)
	}
	switch n.Op {
	case OpSub, OpMul, OpDiv, OpMod:
		if lhs.Kind != KindInt || rhs.Kind != KindInt {
			return Type{}, wrapExprErr(errOpNotDefined(n.Pos, lhs, rhs), n)
		}
		return Int, nil
	case OpLT, OpLE, OpGT, OpGE:
		if lhs.Kind != KindInt || rhs.Kind != KindInt {
			return Type{}, wrapExprErr(errOpNotDefined(n.Pos, lhs, rhs), n)
		}
		return Bool, nil
	case OpAdd:
		if lhs.Kind != rhs.Kind || (lhs.Kind != KindInt && lhs.Kind != KindString) {
			return Type{}, wrapExprErr(errOpNotDefined(n.Pos, lhs, rhs), n)
		}
		return lhs, nil
	case OpAnd, OpOr:
		if lhs.Kind != KindBool || rhs.Kind != KindBool {
			return Type{}, wrapExprErr(errOpNotDefined(n.Pos, lhs, rhs), n)
		}
		return Bool, nil
	case OpEQ, OpNEQ:
		if lhs.Kind != rhs.Kind || (lhs.Kind != KindInt && lhs.Kind != KindString && lhs.Kind != KindBool) {
			return Type{}, wrapExprErr(errOpNotDefined(n.Pos, lhs, rhs), n)
		}
		return Bool, nil
	}
	return Type{}, fmt.Errorf("unknown operator %d", n.Op)
}
