// Package codegen lowers an analyzed ast.Program to Intel-syntax x86-64
// assembly text. The Generator retraces the AST in the exact order the
// analyzer walked it, pulling the matching scope.Node off a per-depth
// cursor stack so the two trees stay in lock-step without ever needing to
// store a scope pointer on the AST itself.
package codegen

import (
	"fmt"
	"strings"

	"tinycc.dev/compiler/pkg/analyzer"
	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/scope"
	"tinycc.dev/compiler/pkg/token"
)

// ----------------------------------------------------------------------------
// Translation tables

// This section gathers the lookup tables the generator leans on so the
// per-node lowering code reads as a table probe instead of a cascade of
// if/else chains.
//	- 'argRegisters': the System-V integer argument registers, in order
//	- 'binaryOps': arithmetic opcodes for '+', '-' and '*' ('/' is lowered
//	  separately, as 'cqo; idiv rbx')
//	- 'setccMnemonics': the SETcc suffix for each comparison token.Type

var (
	argRegisters = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

	binaryOps = map[token.Type]string{
		token.Plus:  "add rax, rbx",
		token.Minus: "sub rax, rbx",
		token.Star:  "imul rax, rbx",
	}

	setccMnemonics = map[token.Type]string{
		token.EqualEqual:       "sete",
		token.NotEqual:         "setne",
		token.LessThan:         "setl",
		token.LessThanEqual:    "setle",
		token.GreaterThan:      "setg",
		token.GreaterThanEqual: "setge",
	}
)

// Generator holds the mutable state of one lowering pass: the growing
// assembly text, the scope cursor stack, and the label counter.
type Generator struct {
	out          strings.Builder
	scopeStack   []*scope.Node // currentScope equivalent; top of stack is "current"
	childCursors []int         // one index per stack level, mirroring C++'s childScopeIndexes
	labelCounter int
}

// Generate lowers program to assembly text using the scope information in
// result, or returns the first error encountered (an unknown AST node type
// or a scope lookup miss — both indicate the analyser was skipped or
// disagrees with this program, which should never happen in the driver's
// own pipeline).
func Generate(program *ast.Program, result *analyzer.Result) (string, error) {
	g := &Generator{}

	g.writeln(".intel_syntax noprefix")
	g.writeln(".section .text")
	g.writeln("    .globl _start")
	g.writeln("")
	g.writeln("_start:")
	g.writeln("    call main")
	g.writeln("    mov rdi, rax")
	g.writeln("    mov rax, 60")
	g.writeln("    syscall")
	g.writeln("")

	for _, fn := range program.Functions {
		root, ok := result.Scopes[fn]
		if !ok {
			return "", fmt.Errorf("codegen: no analyzed scope for function %q", fn.Name)
		}
		if err := g.visitFunction(fn, root); err != nil {
			return "", err
		}
	}
	return g.out.String(), nil
}

func (g *Generator) visitFunction(fn *ast.Function, root *scope.Node) error {
	g.writeln(".globl " + fn.Name)
	g.writeln(fn.Name + ":")
	g.writeln("push rbp")
	g.writeln("mov rbp, rsp")

	g.pushScope(root)
	for i, param := range fn.Params {
		offset, ok := root.Offset(param)
		if !ok {
			return fmt.Errorf("codegen: parameter %q missing from %q's scope", param, fn.Name)
		}
		g.writeln(fmt.Sprintf("mov [rbp - %d], %s", offset, argRegisters[i]))
	}

	if err := g.visitCompound(fn.Body); err != nil {
		return err
	}
	g.popScope()
	return nil
}

// visitCompound descends to the next child scope (the one the analyzer
// pushed for this exact block) and emits the frame-size adjustment before
// lowering the block's statements.
func (g *Generator) visitCompound(compound *ast.CompoundStatement) error {
	child, err := g.nextChildScope()
	if err != nil {
		return err
	}
	g.pushScope(child)

	if frameSize := child.FrameSize(); frameSize > 0 {
		g.writeln(fmt.Sprintf("sub rsp, %d", frameSize))
	}

	for _, stmt := range compound.Statements {
		if err := g.visitStatement(stmt); err != nil {
			g.popScope()
			return err
		}
	}

	g.popScope()
	return nil
}

func (g *Generator) visitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.EmptyStmt:
		return nil
	case ast.ReturnStmt:
		return g.visitReturn(s)
	case ast.VarDeclStmt:
		return g.visitVarDecl(s)
	case ast.AssignmentStmt:
		return g.visitAssignment(s)
	case ast.IfStmt:
		return g.visitIf(s)
	case ast.WhileStmt:
		return g.visitWhile(s)
	default:
		return fmt.Errorf("codegen: unknown statement type %T", stmt)
	}
}

func (g *Generator) visitReturn(stmt ast.ReturnStmt) error {
	if stmt.Value != nil {
		if err := g.visitExpression(stmt.Value); err != nil {
			return err
		}
	} else {
		g.writeln("mov rax, 0")
	}
	g.writeln("leave")
	g.writeln("ret")
	g.writeln("")
	return nil
}

func (g *Generator) visitVarDecl(stmt ast.VarDeclStmt) error {
	offset, ok := g.current().Offset(stmt.Name)
	if !ok {
		return fmt.Errorf("codegen: variable %q not found in scope", stmt.Name)
	}

	if stmt.Init != nil {
		if err := g.visitExpression(stmt.Init); err != nil {
			return err
		}
		g.writeln(fmt.Sprintf("mov [rbp - %d], rax", offset))
	} else {
		g.writeln(fmt.Sprintf("mov qword ptr [rbp - %d], 0", offset))
	}
	return nil
}

func (g *Generator) visitAssignment(stmt ast.AssignmentStmt) error {
	offset, ok := g.current().OffsetRecursive(stmt.Name)
	if !ok {
		return fmt.Errorf("codegen: variable %q not found in scope", stmt.Name)
	}
	if err := g.visitExpression(stmt.Value); err != nil {
		return err
	}
	g.writeln(fmt.Sprintf("mov [rbp - %d], rax", offset))
	return nil
}

func (g *Generator) visitIf(stmt ast.IfStmt) error {
	elseLabel := g.newLabel("else_label")
	endLabel := g.newLabel("end_label")

	if err := g.visitExpression(stmt.Condition); err != nil {
		return err
	}
	g.writeln("test rax, rax")
	g.writeln("jz " + elseLabel)

	if err := g.visitCompound(stmt.Then); err != nil {
		return err
	}
	g.writeln("jmp " + endLabel)
	g.writeln(elseLabel + ":")

	switch e := stmt.Else.(type) {
	case nil:
	case *ast.CompoundStatement:
		if err := g.visitCompound(e); err != nil {
			return err
		}
	case ast.IfStmt:
		if err := g.visitStatement(e); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codegen: unexpected else branch of type %T", e)
	}
	g.writeln(endLabel + ":")
	return nil
}

func (g *Generator) visitWhile(stmt ast.WhileStmt) error {
	startLabel := g.newLabel("while_start")
	endLabel := g.newLabel("while_end")

	g.writeln(startLabel + ":")
	if err := g.visitExpression(stmt.Condition); err != nil {
		return err
	}
	g.writeln("test rax, rax")
	g.writeln("jz " + endLabel)

	if err := g.visitCompound(stmt.Body); err != nil {
		return err
	}
	g.writeln("jmp " + startLabel)
	g.writeln(endLabel + ":")
	return nil
}

func (g *Generator) visitExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case ast.NumberLiteral:
		g.writeln(fmt.Sprintf("mov rax, %d", e.Value))
		return nil
	case ast.Identifier:
		offset, ok := g.current().OffsetRecursive(e.Name)
		if !ok {
			return fmt.Errorf("codegen: unknown identifier %q", e.Name)
		}
		g.writeln(fmt.Sprintf("mov rax, [rbp - %d]", offset))
		return nil
	case ast.BinaryExpr:
		return g.visitBinary(e)
	case ast.ComparisonExpr:
		return g.visitComparison(e)
	case ast.CallExpr:
		return g.visitCall(e)
	default:
		return fmt.Errorf("codegen: unknown expression type %T", expr)
	}
}

func (g *Generator) visitBinary(expr ast.BinaryExpr) error {
	if err := g.visitExpression(expr.Left); err != nil {
		return err
	}
	g.writeln("push rax")

	if err := g.visitExpression(expr.Right); err != nil {
		return err
	}
	g.writeln("mov rbx, rax")
	g.writeln("pop rax")

	if expr.Op == token.Slash {
		g.writeln("cqo")
		g.writeln("idiv rbx")
		return nil
	}
	op, ok := binaryOps[expr.Op]
	if !ok {
		return fmt.Errorf("codegen: unknown binary operator %s", expr.Op)
	}
	g.writeln(op)
	return nil
}

func (g *Generator) visitComparison(expr ast.ComparisonExpr) error {
	if err := g.visitExpression(expr.Left); err != nil {
		return err
	}
	g.writeln("push rax")

	if err := g.visitExpression(expr.Right); err != nil {
		return err
	}
	g.writeln("mov rbx, rax")
	g.writeln("pop rax")

	mnemonic, ok := setccMnemonics[expr.Op]
	if !ok {
		return fmt.Errorf("codegen: unknown comparison operator %s", expr.Op)
	}
	g.writeln("cmp rax, rbx")
	g.writeln(mnemonic + " al")
	g.writeln("movzx rax, al")
	return nil
}

// visitCall evaluates the arguments left-to-right, pushing each result, and
// only then pops them into their System-V argument registers, so that a
// later argument containing a call or a division cannot overwrite a
// register an earlier argument was already placed in.
func (g *Generator) visitCall(expr ast.CallExpr) error {
	for _, arg := range expr.Args {
		if err := g.visitExpression(arg); err != nil {
			return err
		}
		g.writeln("push rax")
	}
	for i := len(expr.Args) - 1; i >= 0; i-- {
		g.writeln("pop rax")
		g.writeln(fmt.Sprintf("mov %s, rax", argRegisters[i]))
	}
	g.writeln("call " + expr.Callee)
	return nil
}

// ----------------------------------------------------------------------------
// Scope cursor stack

func (g *Generator) pushScope(n *scope.Node) {
	g.scopeStack = append(g.scopeStack, n)
	g.childCursors = append(g.childCursors, 0)
}

func (g *Generator) popScope() {
	g.scopeStack = g.scopeStack[:len(g.scopeStack)-1]
	g.childCursors = g.childCursors[:len(g.childCursors)-1]
}

func (g *Generator) current() *scope.Node {
	return g.scopeStack[len(g.scopeStack)-1]
}

// nextChildScope returns the current scope's next not-yet-visited child,
// advancing that level's cursor — the Go equivalent of
// 'currentScope->getChild(childScopeIndexes.back()++)'.
func (g *Generator) nextChildScope() (*scope.Node, error) {
	top := len(g.childCursors) - 1
	idx := g.childCursors[top]
	children := g.current().Children()
	if idx >= len(children) {
		return nil, fmt.Errorf("codegen: scope cursor out of range (index %d, %d children)", idx, len(children))
	}
	g.childCursors[top] = idx + 1
	return children[idx], nil
}

func (g *Generator) newLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, g.labelCounter)
	g.labelCounter++
	return label
}

func (g *Generator) writeln(line string) {
	g.out.WriteString(line)
	g.out.WriteByte('\n')
}
