// Package llvm hand-emits textual LLVM IR from a checked, folded AST. It
// does not touch the LLVM C API or any CGO binding: every line is built
// with fmt.Sprintf and appended to an ordered buffer, in the spirit of the
// line-oriented text emitters the rest of this compiler's ancestry used
// for other backends. Register and label names are assigned by two
// module-global monotone counters so the output is trivially SSA-valid
// without a renaming pass.
package llvm

import (
	"fmt"
	"strings"

	"lattec/internal/ir"
	"lattec/internal/util"
)

// scope is a snapshot of the local name tables, pushed on entry to a
// nested block and popped on exit so that bindings never leak upward.
type scope struct {
	addr map[string]string
	typ  map[string]ir.Type
}

// Context owns everything the emitter accumulates for one module: the
// output buffer, the symbol/constant tables, and the register/label
// counters. Per spec, no two emitter operations may interleave -- there
// is exactly one Context per Generate call and it is never shared across
// goroutines.
type Context struct {
	regs   *util.Counter
	labels *util.Counter

	addr map[string]string
	typ  map[string]ir.Type
	sig  map[string]ir.Type // function name -> Func(ret, params), fixed for the module

	consts     map[string]string // string value -> constant name (without '@')
	constOrder []string

	scopes *util.Stack // saved name tables, one frame per nested block/if/while

	lastLabel string // most recently opened basic block, for phi incoming edges

	lines  []string
	header []string

	funcIdx int
}

// Generate walks a checked, folded program and returns the full textual
// LLVM IR module.
func Generate(p *ir.Program) (string, error) {
	ctx := &Context{
		regs:   util.NewCounter("v"),
		labels: util.NewCounter("L"),
		sig:    make(map[string]ir.Type),
		consts: make(map[string]string),
		scopes: &util.Stack{},
	}
	ctx.emitRuntimeDeclares()
	for _, fn := range p.Funcs {
		ctx.sig[fn.Name] = fn.Signature()
	}

	var bodies []string
	for _, fn := range p.Funcs {
		body, err := ctx.genFunDef(fn)
		if err != nil {
			return "", err
		}
		bodies = append(bodies, body)
	}

	var sb strings.Builder
	for _, l := range ctx.header {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for i, b := range bodies {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b)
	}
	return sb.String(), nil
}

func (ctx *Context) emitRuntimeDeclares() {
	ctx.header = append(ctx.header,
		"declare void @printInt(i32)",
		"declare void @printString(i8*)",
		"declare void @error()",
		"declare i32 @readInt()",
		"declare i8* @readString()",
		"declare i8* @concatStrings(i8*, i8*)",
		"declare i1 @streq(i8*, i8*)",
	)
}

func llvmType(t ir.Type) string {
	switch t.Kind {
	case ir.KindInt:
		return "i32"
	case ir.KindBool:
		return "i1"
	case ir.KindString:
		return "i8*"
	case ir.KindVoid:
		return "void"
	}
	return "?"
}

// Val is an emitted expression's value: either a literal constant or a
// register holding the computed result, always paired with its type so
// callers can format a typed operand without re-deriving it.
type Val struct {
	Typ  ir.Type
	Text string
}

func (v Val) operand() string { return fmt.Sprintf("%s %s", llvmType(v.Typ), v.Text) }

func (ctx *Context) emit(format string, args ...interface{}) {
	ctx.lines = append(ctx.lines, fmt.Sprintf(format, args...))
}

// openLabel emits a label definition and records it as the last opened
// block, the bookkeeping the short-circuit phi lowering depends on.
func (ctx *Context) openLabel(name string) {
	ctx.emit("%s:", name)
	ctx.lastLabel = name
}

// newLabel allocates a fresh label name. Labels share the module-global
// monotone counter used for %LN but, unlike virtual registers, are
// referenced both bare (as a definition, "L3:") and with a leading '%'
// (as a branch target, "label %L3"), so the counter's own "%L3" form is
// trimmed here and the '%' is added back at each branch site.
func (ctx *Context) newLabel() string {
	return strings.TrimPrefix(ctx.labels.Next(), "%")
}

// pushScope saves the current name tables on ctx.scopes so a nested
// block/if/while body can bind names of its own without leaking them to
// its enclosing scope; popScope restores the most recently saved frame.
func (ctx *Context) pushScope() {
	snap := scope{addr: make(map[string]string, len(ctx.addr)), typ: make(map[string]ir.Type, len(ctx.typ))}
	for k, v := range ctx.addr {
		snap.addr[k] = v
	}
	for k, v := range ctx.typ {
		snap.typ[k] = v
	}
	ctx.scopes.Push(snap)
}

func (ctx *Context) popScope() {
	snap := ctx.scopes.Pop().(scope)
	ctx.addr = snap.addr
	ctx.typ = snap.typ
}

func (ctx *Context) genFunDef(fn *ir.FunDef) (string, error) {
	ctx.funcIdx++
	idx := ctx.funcIdx
	ctx.lines = nil
	ctx.addr = make(map[string]string)
	ctx.typ = make(map[string]ir.Type)

	epilogue := fmt.Sprintf("FR%d", idx)
	var retSlot string
	if fn.Ret.Kind != ir.KindVoid {
		retSlot = fmt.Sprintf("%%ra%d", idx)
	}

	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = fmt.Sprintf("%s %%arg%d", llvmType(a.Type), i)
	}
	ctx.emit("define %s @%s(%s) {", llvmType(fn.Ret), fn.Name, strings.Join(params, ", "))
	ctx.openLabel("entry")

	if retSlot != "" {
		ctx.emit("  %s = alloca %s", retSlot, llvmType(fn.Ret))
	}
	for i, a := range fn.Args {
		addr := ctx.regs.Next()
		ctx.emit("  %s = alloca %s", addr, llvmType(a.Type))
		ctx.emit("  store %s %%arg%d, %s* %s", llvmType(a.Type), i, llvmType(a.Type), addr)
		ctx.addr[a.Name] = addr
		ctx.typ[a.Name] = a.Type
	}

	for _, s := range fn.Body {
		if err := ctx.genStmt(s, epilogue, retSlot, fn.Ret); err != nil {
			return "", err
		}
	}
	ctx.emit("  br label %%%s", epilogue)

	ctx.openLabel(epilogue)
	if retSlot != "" {
		rv := fmt.Sprintf("%%rv%d", idx)
		ctx.emit("  %s = load %s, %s* %s", rv, llvmType(fn.Ret), llvmType(fn.Ret), retSlot)
		ctx.emit("  ret %s %s", llvmType(fn.Ret), rv)
	} else {
		ctx.emit("  ret void")
	}
	ctx.emit("}")

	return strings.Join(ctx.lines, "\n") + "\n", nil
}

func (ctx *Context) genStmt(s ir.Stmt, epilogue, retSlot string, retType ir.Type) error {
	switch n := s.(type) {
	case *ir.EmptyStmt:
		return nil
	case *ir.DeclStmt:
		return ctx.genDecl(n)
	case *ir.AssignStmt:
		v, err := ctx.genExpr(n.Expr)
		if err != nil {
			return err
		}
		addr := ctx.addr[n.Name]
		t := ctx.typ[n.Name]
		ctx.emit("  store %s %s, %s* %s", llvmType(t), v.Text, llvmType(t), addr)
		return nil
	case *ir.IncStmt:
		return ctx.genIncDec(n.Name, "add")
	case *ir.DecStmt:
		return ctx.genIncDec(n.Name, "sub")
	case *ir.RetStmt:
		v, err := ctx.genExpr(n.Expr)
		if err != nil {
			return err
		}
		ctx.emit("  store %s %s, %s* %s", llvmType(retType), v.Text, llvmType(retType), retSlot)
		ctx.emit("  br label %%%s", epilogue)
		return nil
	case *ir.VRetStmt:
		ctx.emit("  br label %%%s", epilogue)
		return nil
	case *ir.IfStmt:
		return ctx.genIf(n, epilogue, retSlot, retType)
	case *ir.IfElseStmt:
		return ctx.genIfElse(n, epilogue, retSlot, retType)
	case *ir.WhileStmt:
		return ctx.genWhile(n, epilogue, retSlot, retType)
	case *ir.ExprStmt:
		_, err := ctx.genExpr(n.Expr)
		return err
	case *ir.BlockStmt:
		ctx.pushScope()
		for _, c := range n.Stmts {
			if err := ctx.genStmt(c, epilogue, retSlot, retType); err != nil {
				return err
			}
		}
		ctx.popScope()
		return nil
	}
	return fmt.Errorf("llvm: unknown statement %T", s)
}

func (ctx *Context) genIncDec(name, op string) error {
	addr := ctx.addr[name]
	old := ctx.regs.Next()
	ctx.emit("  %s = load i32, i32* %s", old, addr)
	next := ctx.regs.Next()
	ctx.emit("  %s = %s i32 %s, 1", next, op, old)
	ctx.emit("  store i32 %s, i32* %s", next, addr)
	return nil
}

func (ctx *Context) genDecl(n *ir.DeclStmt) error {
	for _, item := range n.Items {
		addr := ctx.regs.Next()
		ctx.emit("  %s = alloca %s", addr, llvmType(n.Type))
		switch it := item.(type) {
		case *ir.NoInitItem:
			def := ctx.defaultValue(n.Type)
			ctx.emit("  store %s %s, %s* %s", llvmType(n.Type), def.Text, llvmType(n.Type), addr)
			ctx.addr[it.Name] = addr
			ctx.typ[it.Name] = n.Type
		case *ir.InitItem:
			// bind the name before evaluating so a self-referential
			// initializer sees a declared (if not yet stored) slot --
			// matches how Decl's scope-extension is specified.
			ctx.addr[it.Name] = addr
			ctx.typ[it.Name] = n.Type
			v, err := ctx.genExpr(it.Expr)
			if err != nil {
				return err
			}
			ctx.emit("  store %s %s, %s* %s", llvmType(n.Type), v.Text, llvmType(n.Type), addr)
		}
	}
	return nil
}

func (ctx *Context) defaultValue(t ir.Type) Val {
	switch t.Kind {
	case ir.KindInt:
		return Val{Typ: t, Text: "0"}
	case ir.KindBool:
		return Val{Typ: t, Text: "0"}
	case ir.KindString:
		return ctx.internString("")
	}
	return Val{Typ: t, Text: "0"}
}

func (ctx *Context) genIf(n *ir.IfStmt, epilogue, retSlot string, retType ir.Type) error {
	cond, err := ctx.genExpr(n.Cond)
	if err != nil {
		return err
	}
	thenL := ctx.newLabel()
	endL := ctx.newLabel()
	ctx.emit("  br i1 %s, label %%%s, label %%%s", cond.Text, thenL, endL)
	ctx.openLabel(thenL)
	ctx.pushScope()
	if err := ctx.genStmt(n.Then, epilogue, retSlot, retType); err != nil {
		return err
	}
	ctx.popScope()
	ctx.emit("  br label %%%s", endL)
	ctx.openLabel(endL)
	return nil
}

func (ctx *Context) genIfElse(n *ir.IfElseStmt, epilogue, retSlot string, retType ir.Type) error {
	cond, err := ctx.genExpr(n.Cond)
	if err != nil {
		return err
	}
	thenL := ctx.newLabel()
	elseL := ctx.newLabel()
	endL := ctx.newLabel()
	ctx.emit("  br i1 %s, label %%%s, label %%%s", cond.Text, thenL, elseL)

	ctx.openLabel(thenL)
	ctx.pushScope()
	if err := ctx.genStmt(n.Then, epilogue, retSlot, retType); err != nil {
		return err
	}
	ctx.popScope()
	ctx.emit("  br label %%%s", endL)

	ctx.openLabel(elseL)
	ctx.pushScope()
	if err := ctx.genStmt(n.Else, epilogue, retSlot, retType); err != nil {
		return err
	}
	ctx.popScope()
	ctx.emit("  br label %%%s", endL)

	ctx.openLabel(endL)
	return nil
}

func (ctx *Context) genWhile(n *ir.WhileStmt, epilogue, retSlot string, retType ir.Type) error {
	condL := ctx.newLabel()
	bodyL := ctx.newLabel()
	endL := ctx.newLabel()

	ctx.emit("  br label %%%s", condL)
	ctx.openLabel(condL)
	cond, err := ctx.genExpr(n.Cond)
	if err != nil {
		return err
	}
	ctx.emit("  br i1 %s, label %%%s, label %%%s", cond.Text, bodyL, endL)

	ctx.openLabel(bodyL)
	ctx.pushScope()
	if err := ctx.genStmt(n.Body, epilogue, retSlot, retType); err != nil {
		return err
	}
	ctx.popScope()
	ctx.emit("  br label %%%s", condL)

	ctx.openLabel(endL)
	return nil
}

func (ctx *Context) genExpr(e ir.Expr) (Val, error) {
	switch n := e.(type) {
	case *ir.VarExpr:
		addr := ctx.addr[n.Name]
		t := ctx.typ[n.Name]
		v := ctx.regs.Next()
		ctx.emit("  %s = load %s, %s* %s", v, llvmType(t), llvmType(t), addr)
		return Val{Typ: t, Text: v}, nil
	case *ir.IntLit:
		return Val{Typ: ir.Int, Text: fmt.Sprintf("%d", n.Value)}, nil
	case *ir.BoolLit:
		if n.Value {
			return Val{Typ: ir.Bool, Text: "1"}, nil
		}
		return Val{Typ: ir.Bool, Text: "0"}, nil
	case *ir.StringLit:
		return ctx.internString(n.Value), nil
	case *ir.NegExpr:
		v, err := ctx.genExpr(n.Expr)
		if err != nil {
			return Val{}, err
		}
		r := ctx.regs.Next()
		ctx.emit("  %s = sub i32 0, %s", r, v.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case *ir.NotExpr:
		v, err := ctx.genExpr(n.Expr)
		if err != nil {
			return Val{}, err
		}
		r := ctx.regs.Next()
		ctx.emit("  %s = xor i1 %s, 1", r, v.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case *ir.PredefExpr:
		return ctx.genPredef(n)
	case *ir.AppExpr:
		return ctx.genApp(n)
	case *ir.OpExpr:
		return ctx.genOp(n)
	}
	return Val{}, fmt.Errorf("llvm: unknown expression %T", e)
}

func (ctx *Context) internString(s string) Val {
	name, ok := ctx.consts[s]
	if !ok {
		name = fmt.Sprintf(".str%d", len(ctx.constOrder))
		ctx.consts[s] = name
		ctx.constOrder = append(ctx.constOrder, s)
		bytes := len(s) + 1
		ctx.header = append(ctx.header,
			fmt.Sprintf("@%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"", name, bytes, escapeLLVMString(s)))
	}
	r := ctx.regs.Next()
	ctx.emit("  %s = getelementptr inbounds [%d x i8], [%d x i8]* @%s, i32 0, i32 0", r, len(s)+1, len(s)+1, name)
	return Val{Typ: ir.String, Text: r}
}

func escapeLLVMString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 || c > 0x7e {
			fmt.Fprintf(&sb, "\\%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func (ctx *Context) genPredef(n *ir.PredefExpr) (Val, error) {
	switch n.Kind {
	case ir.PrintInt:
		v, err := ctx.genExpr(n.Arg)
		if err != nil {
			return Val{}, err
		}
		ctx.emit("  call void @printInt(i32 %s)", v.Text)
		return Val{Typ: ir.Void}, nil
	case ir.PrintString:
		v, err := ctx.genExpr(n.Arg)
		if err != nil {
			return Val{}, err
		}
		ctx.emit("  call void @printString(i8* %s)", v.Text)
		return Val{Typ: ir.Void}, nil
	case ir.ReadInt:
		r := ctx.regs.Next()
		ctx.emit("  %s = call i32 @readInt()", r)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.ReadString:
		r := ctx.regs.Next()
		ctx.emit("  %s = call i8* @readString()", r)
		return Val{Typ: ir.String, Text: r}, nil
	case ir.ErrorCall:
		ctx.emit("  call void @error()")
		return Val{Typ: ir.Void}, nil
	}
	return Val{}, fmt.Errorf("llvm: unknown predef kind %d", n.Kind)
}

func (ctx *Context) genApp(n *ir.AppExpr) (Val, error) {
	sig := ctx.sig[n.Name]
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := ctx.genExpr(a)
		if err != nil {
			return Val{}, err
		}
		args[i] = v.operand()
	}
	ret := *sig.Ret
	if ret.Kind == ir.KindVoid {
		ctx.emit("  call void @%s(%s)", n.Name, strings.Join(args, ", "))
		return Val{Typ: ir.Void}, nil
	}
	r := ctx.regs.Next()
	ctx.emit("  %s = call %s @%s(%s)", r, llvmType(ret), n.Name, strings.Join(args, ", "))
	return Val{Typ: ret, Text: r}, nil
}

func (ctx *Context) genOp(n *ir.OpExpr) (Val, error) {
	switch n.Op {
	case ir.OpAnd:
		return ctx.genShortCircuit(n, true)
	case ir.OpOr:
		return ctx.genShortCircuit(n, false)
	}

	lhs, err := ctx.genExpr(n.Left)
	if err != nil {
		return Val{}, err
	}
	rhs, err := ctx.genExpr(n.Right)
	if err != nil {
		return Val{}, err
	}

	if lhs.Typ.Kind == ir.KindString {
		return ctx.genStringOp(n.Op, lhs, rhs)
	}

	r := ctx.regs.Next()
	switch n.Op {
	case ir.OpAdd:
		ctx.emit("  %s = add i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.OpSub:
		ctx.emit("  %s = sub i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.OpMul:
		ctx.emit("  %s = mul i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.OpDiv:
		ctx.emit("  %s = sdiv i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.OpMod:
		ctx.emit("  %s = srem i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Int, Text: r}, nil
	case ir.OpLT:
		ctx.emit("  %s = icmp slt i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case ir.OpLE:
		ctx.emit("  %s = icmp sle i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case ir.OpGT:
		ctx.emit("  %s = icmp sgt i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case ir.OpGE:
		ctx.emit("  %s = icmp sge i32 %s, %s", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case ir.OpEQ:
		return ctx.genScalarEq(lhs, rhs, r, "eq")
	case ir.OpNEQ:
		return ctx.genScalarEq(lhs, rhs, r, "ne")
	}
	return Val{}, fmt.Errorf("llvm: unknown operator %d", n.Op)
}

func (ctx *Context) genScalarEq(lhs, rhs Val, r, pred string) (Val, error) {
	t := llvmType(lhs.Typ)
	ctx.emit("  %s = icmp %s %s %s, %s", r, pred, t, lhs.Text, rhs.Text)
	return Val{Typ: ir.Bool, Text: r}, nil
}

func (ctx *Context) genStringOp(op ir.BinOp, lhs, rhs Val) (Val, error) {
	r := ctx.regs.Next()
	switch op {
	case ir.OpAdd:
		ctx.emit("  %s = call i8* @concatStrings(i8* %s, i8* %s)", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.String, Text: r}, nil
	case ir.OpEQ:
		ctx.emit("  %s = call i1 @streq(i8* %s, i8* %s)", r, lhs.Text, rhs.Text)
		return Val{Typ: ir.Bool, Text: r}, nil
	case ir.OpNEQ:
		eq := ctx.regs.Next()
		ctx.emit("  %s = call i1 @streq(i8* %s, i8* %s)", eq, lhs.Text, rhs.Text)
		ctx.emit("  %s = xor i1 %s, 1", r, eq)
		return Val{Typ: ir.Bool, Text: r}, nil
	}
	return Val{}, fmt.Errorf("llvm: operator %s not defined for string", op)
}

// genShortCircuit lowers && (isAnd=true) and || (isAnd=false) using phi,
// tracking the block the rhs actually finished in rather than the block it
// started in -- the rhs may itself open new basic blocks (e.g. if it is
// itself a nested &&/||, or a call with its own control flow), so only
// ctx.lastLabel after evaluating it is trustworthy as the phi edge.
func (ctx *Context) genShortCircuit(n *ir.OpExpr, isAnd bool) (Val, error) {
	lhs, err := ctx.genExpr(n.Left)
	if err != nil {
		return Val{}, err
	}
	lhsFinish := ctx.lastLabel

	rhsL := ctx.newLabel()
	endL := ctx.newLabel()
	if isAnd {
		ctx.emit("  br i1 %s, label %%%s, label %%%s", lhs.Text, rhsL, endL)
	} else {
		ctx.emit("  br i1 %s, label %%%s, label %%%s", lhs.Text, endL, rhsL)
	}

	ctx.openLabel(rhsL)
	rhs, err := ctx.genExpr(n.Right)
	if err != nil {
		return Val{}, err
	}
	rhsFinish := ctx.lastLabel
	ctx.emit("  br label %%%s", endL)

	ctx.openLabel(endL)
	r := ctx.regs.Next()
	shortValue := "0"
	if !isAnd {
		shortValue = "1"
	}
	ctx.emit("  %s = phi i1 [ %s, %%%s ], [ %s, %%%s ]", r, shortValue, lhsFinish, rhs.Text, rhsFinish)
	return Val{Typ: ir.Bool, Text: r}, nil
}

