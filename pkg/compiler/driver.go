// Package compiler orchestrates the four compilation phases (lex, parse,
// analyze, generate) behind a single entry point, and optionally hands the
// resulting assembly to the host toolchain to assemble, link and run.
package compiler

import (
	"fmt"
	"io"

	"tinycc.dev/compiler/pkg/analyzer"
	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/codegen"
	"tinycc.dev/compiler/pkg/diagnostics"
	"tinycc.dev/compiler/pkg/lexer"
	"tinycc.dev/compiler/pkg/parser"
)

// Driver runs the pipeline over one source buffer and retains whatever each
// phase produced, so diagnostic dumps can be requested after the fact
// without rerunning anything.
type Driver struct {
	Source string

	program  *ast.Program
	analysis *analyzer.Result
	assembly string
}

// NewDriver runs the full pipeline (parse, analyze, generate) over source.
// On error, whichever phase failed is named in the wrapped error.
func NewDriver(source string) (*Driver, error) {
	d := &Driver{Source: source}

	program, err := parser.ParseProgram(source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	d.program = program

	result, err := analyzer.Analyze(program)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	d.analysis = result

	asm, err := codegen.Generate(program, result)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	d.assembly = asm

	return d, nil
}

// Assembly returns the generated Intel-syntax x86-64 assembly text.
func (d *Driver) Assembly() string {
	return d.assembly
}

// Program returns the parsed AST, mainly for diagnostic dumps.
func (d *Driver) Program() *ast.Program {
	return d.program
}

// PrintAST writes the parsed tree to w.
func (d *Driver) PrintAST(w io.Writer) {
	diagnostics.PrintAST(w, d.program)
}

// PrintAssembly writes the generated assembly to w.
func (d *Driver) PrintAssembly(w io.Writer) {
	diagnostics.PrintAssembly(w, d.assembly)
}

// PrintTokens re-scans the source and writes its token stream to w. The
// lexer is cheap enough, and the driver avoids retaining a second copy of
// it once the parser has consumed it into an AST.
func (d *Driver) PrintTokens(w io.Writer) {
	diagnostics.PrintTokens(w, lexer.New(d.Source).Tokens())
}
