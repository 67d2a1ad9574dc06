package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintProgram renders p back into source text. It drives the parse ->
// print -> re-parse round-trip test; its building blocks PrintStmt and
// PrintExpr also build the breadcrumb trail in type errors (spec.md calls
// for "the pretty-printed stmt/expr").
func PrintProgram(p *Program) string {
	var sb strings.Builder
	for i, fn := range p.Funcs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(printFunDef(fn))
	}
	return sb.String()
}

func printFunDef(fn *FunDef) string {
	var sb strings.Builder
	sb.WriteString(fn.Ret.String())
	sb.WriteString(" ")
	sb.WriteString(fn.Name)
	sb.WriteString("(")
	for i, a := range fn.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Type.String())
		sb.WriteString(" ")
		sb.WriteString(a.Name)
	}
	sb.WriteString(") {\n")
	for _, s := range fn.Body {
		sb.WriteString(indent(PrintStmt(s)))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString("  ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}

// printBranch renders a statement used as an if/while body. A block keeps
// its own braces; anything else is printed bare so re-parsing it doesn't
// introduce a BlockStmt wrapper absent from the original tree.
func printBranch(s Stmt) string {
	if _, ok := s.(*BlockStmt); ok {
		return " " + PrintStmt(s)
	}
	return "\n" + indent(PrintStmt(s))
}

// PrintStmt renders a single statement, terminated with a newline.
func PrintStmt(s Stmt) string {
	switch n := s.(type) {
	case *EmptyStmt:
		return ";\n"
	case *DeclStmt:
		items := make([]string, len(n.Items))
		for i, it := range n.Items {
			items[i] = printItem(it)
		}
		return fmt.Sprintf("%s %s;\n", n.Type.String(), strings.Join(items, ", "))
	case *AssignStmt:
		return fmt.Sprintf("%s = %s;\n", n.Name, PrintExpr(n.Expr))
	case *IncStmt:
		return fmt.Sprintf("%s++;\n", n.Name)
	case *DecStmt:
		return fmt.Sprintf("%s--;\n", n.Name)
	case *RetStmt:
		return fmt.Sprintf("return %s;\n", PrintExpr(n.Expr))
	case *VRetStmt:
		return "return;\n"
	case *IfStmt:
		return fmt.Sprintf("if (%s)%s", PrintExpr(n.Cond), printBranch(n.Then))
	case *IfElseStmt:
		return fmt.Sprintf("if (%s)%selse%s", PrintExpr(n.Cond), printBranch(n.Then), printBranch(n.Else))
	case *WhileStmt:
		return fmt.Sprintf("while (%s)%s", PrintExpr(n.Cond), printBranch(n.Body))
	case *ExprStmt:
		return fmt.Sprintf("%s;\n", PrintExpr(n.Expr))
	case *BlockStmt:
		var sb strings.Builder
		sb.WriteString("{\n")
		for _, c := range n.Stmts {
			sb.WriteString(indent(PrintStmt(c)))
		}
		sb.WriteString("}\n")
		return sb.String()
	}
	return "?;\n"
}

func printItem(it Item) string {
	switch n := it.(type) {
	case *NoInitItem:
		return n.Name
	case *InitItem:
		return fmt.Sprintf("%s = %s", n.Name, PrintExpr(n.Expr))
	}
	return "?"
}

// PrintExpr renders a single expression with no trailing newline.
func PrintExpr(e Expr) string {
	switch n := e.(type) {
	case *VarExpr:
		return n.Name
	case *IntLit:
		return strconv.FormatInt(int64(n.Value), 10)
	case *BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *StringLit:
		return strconv.Quote(n.Value)
	case *AppExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = PrintExpr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	case *NegExpr:
		return fmt.Sprintf("-(%s)", PrintExpr(n.Expr))
	case *NotExpr:
		return fmt.Sprintf("!(%s)", PrintExpr(n.Expr))
	case *PredefExpr:
		return printPredef(n)
	case *OpExpr:
		return fmt.Sprintf("(%s %s %s)", PrintExpr(n.Left), n.Op.String(), PrintExpr(n.Right))
	}
	return "?"
}

func printPredef(n *PredefExpr) string {
	switch n.Kind {
	case PrintInt:
		return fmt.Sprintf("printInt(%s)", PrintExpr(n.Arg))
	case PrintString:
		return fmt.Sprintf("printString(%s)", PrintExpr(n.Arg))
	case ReadInt:
		return "readInt()"
	case ReadString:
		return "readString()"
	case ErrorCall:
		return "error()"
	}
	return "?"
}
