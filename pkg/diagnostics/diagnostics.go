// Package diagnostics formats the intermediate results of a compile — token
// streams, the AST, generated assembly, and phase errors — for human
// inspection. Nothing here participates in compilation; it only describes
// what another phase already produced.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/token"
)

var (
	errorColor = color.New(color.FgRed)
	okColor    = color.New(color.FgGreen)
	headColor  = color.New(color.FgCyan)
)

// PrintTokens writes one line per token, in the shape 'Type("lexeme") [line:col]'.
func PrintTokens(w io.Writer, tokens []token.Token) {
	headColor.Fprintln(w, "-- tokens --")
	for _, t := range tokens {
		fmt.Fprintln(w, t.String())
	}
}

// PrintAST dumps program as an indented tree of function/statement/expression
// names, deep enough to see structure without reproducing the source.
func PrintAST(w io.Writer, program *ast.Program) {
	headColor.Fprintln(w, "-- ast --")
	for _, fn := range program.Functions {
		fmt.Fprintf(w, "Function %s(%s)\n", fn.Name, strings.Join(fn.Params, ", "))
		printCompound(w, fn.Body, 1)
	}
}

func printCompound(w io.Writer, compound *ast.CompoundStatement, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, stmt := range compound.Statements {
		printStatement(w, stmt, indent)
	}
}

func printStatement(w io.Writer, stmt ast.Statement, indent string) {
	switch s := stmt.(type) {
	case ast.EmptyStmt:
		fmt.Fprintf(w, "%sEmptyStmt\n", indent)
	case ast.ReturnStmt:
		fmt.Fprintf(w, "%sReturnStmt %s\n", indent, describeExpr(s.Value))
	case ast.VarDeclStmt:
		fmt.Fprintf(w, "%sVarDeclStmt %s = %s\n", indent, s.Name, describeExpr(s.Init))
	case ast.AssignmentStmt:
		fmt.Fprintf(w, "%sAssignmentStmt %s = %s\n", indent, s.Name, describeExpr(s.Value))
	case ast.IfStmt:
		fmt.Fprintf(w, "%sIfStmt %s\n", indent, describeExpr(s.Condition))
		printCompound(w, s.Then, len(indent)/2+1)
		switch e := s.Else.(type) {
		case *ast.CompoundStatement:
			fmt.Fprintf(w, "%selse\n", indent)
			printCompound(w, e, len(indent)/2+1)
		case ast.IfStmt:
			fmt.Fprintf(w, "%selse\n", indent)
			printStatement(w, e, indent)
		}
	case ast.WhileStmt:
		fmt.Fprintf(w, "%sWhileStmt %s\n", indent, describeExpr(s.Condition))
		printCompound(w, s.Body, len(indent)/2+1)
	default:
		fmt.Fprintf(w, "%s<unknown statement %T>\n", indent, stmt)
	}
}

func describeExpr(expr ast.Expression) string {
	if expr == nil {
		return "<none>"
	}
	switch e := expr.(type) {
	case ast.NumberLiteral:
		return fmt.Sprintf("%d", e.Value)
	case ast.Identifier:
		return e.Name
	case ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", describeExpr(e.Left), e.Op, describeExpr(e.Right))
	case ast.ComparisonExpr:
		return fmt.Sprintf("(%s %s %s)", describeExpr(e.Left), e.Op, describeExpr(e.Right))
	case ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = describeExpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.Callee, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("<unknown expr %T>", expr)
	}
}

// PrintAssembly writes the generated assembly text under a cyan header.
func PrintAssembly(w io.Writer, asm string) {
	headColor.Fprintln(w, "-- assembly --")
	fmt.Fprint(w, asm)
}

// PrintError writes err in red, prefixed with phase.
func PrintError(w io.Writer, phase string, err error) {
	errorColor.Fprintf(w, "%s: %v\n", phase, err)
}

// PrintExitCode writes the program's exit code, green for 0 and red
// otherwise.
func PrintExitCode(w io.Writer, code int) {
	if code == 0 {
		okColor.Fprintf(w, "exit code: %d\n", code)
		return
	}
	errorColor.Fprintf(w, "exit code: %d\n", code)
}
