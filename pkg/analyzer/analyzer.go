// Package analyzer walks a freshly parsed ast.Program and builds the scope
// tree the generator later retraces in lock-step, while checking the
// declarations/uses invariants spec.md lays out: every function is unique,
// "main" exists and takes no arguments, every variable use resolves to a
// declaration, and every call matches a known function's arity.
package analyzer

import (
	"fmt"

	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/scope"
)

// Result is what the generator needs to retrace the analyser's walk: the
// root scope of each function, keyed by the *ast.Function itself (each
// function value is unique within one parsed Program).
type Result struct {
	Scopes map[*ast.Function]*scope.Node
}

type analyzer struct {
	arity map[string]int
	scope *scope.Node
}

// Analyze builds a Result for program, or returns the first error found.
func Analyze(program *ast.Program) (*Result, error) {
	a := &analyzer{arity: map[string]int{}}

	for _, fn := range program.Functions {
		if _, dup := a.arity[fn.Name]; dup {
			return nil, fmt.Errorf("analyze: function %q declared more than once", fn.Name)
		}
		a.arity[fn.Name] = len(fn.Params)
	}

	main, ok := a.arity["main"]
	if !ok {
		return nil, fmt.Errorf("analyze: program has no \"main\" function")
	}
	if main != 0 {
		return nil, fmt.Errorf("analyze: \"main\" must take no arguments, found %d", main)
	}

	result := &Result{Scopes: map[*ast.Function]*scope.Node{}}
	for _, fn := range program.Functions {
		root := scope.NewRoot()
		for _, param := range fn.Params {
			if _, err := root.AddVariable(param); err != nil {
				return nil, fmt.Errorf("analyze: function %q: %w", fn.Name, err)
			}
		}
		a.scope = root
		if err := a.visitCompound(fn.Body); err != nil {
			return nil, fmt.Errorf("analyze: function %q: %w", fn.Name, err)
		}
		result.Scopes[fn] = root
	}
	return result, nil
}

// visitCompound pushes a fresh child scope, visits every statement inside
// it, then restores the enclosing scope — the same push/visit/pop shape
// the generator repeats later using the scope tree this builds.
func (a *analyzer) visitCompound(compound *ast.CompoundStatement) error {
	outer := a.scope
	a.scope = outer.PushChild()
	defer func() { a.scope = outer }()

	for _, stmt := range compound.Statements {
		if err := a.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) visitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.EmptyStmt:
		return nil
	case ast.ReturnStmt:
		return a.visitExpression(s.Value)
	case ast.VarDeclStmt:
		if _, ok := a.scope.Offset(s.Name); ok {
			return fmt.Errorf("variable %q already declared in this scope", s.Name)
		}
		if _, err := a.scope.AddVariable(s.Name); err != nil {
			return err
		}
		if s.Init != nil {
			return a.visitExpression(s.Init)
		}
		return nil
	case ast.AssignmentStmt:
		if _, ok := a.scope.OffsetRecursive(s.Name); !ok {
			return fmt.Errorf("assignment to undeclared variable %q", s.Name)
		}
		return a.visitExpression(s.Value)
	case ast.IfStmt:
		if err := a.visitExpression(s.Condition); err != nil {
			return err
		}
		if err := a.visitCompound(s.Then); err != nil {
			return err
		}
		switch e := s.Else.(type) {
		case nil:
		case *ast.CompoundStatement:
			if err := a.visitCompound(e); err != nil {
				return err
			}
		case ast.IfStmt:
			if err := a.visitStatement(e); err != nil {
				return err
			}
		default:
			return fmt.Errorf("if statement: unexpected else branch of type %T", e)
		}
		return nil
	case ast.WhileStmt:
		if err := a.visitExpression(s.Condition); err != nil {
			return err
		}
		return a.visitCompound(s.Body)
	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
}

func (a *analyzer) visitExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case ast.NumberLiteral:
		return nil
	case ast.Identifier:
		if _, ok := a.scope.OffsetRecursive(e.Name); !ok {
			return fmt.Errorf("use of undeclared variable %q", e.Name)
		}
		return nil
	case ast.BinaryExpr:
		if err := a.visitExpression(e.Left); err != nil {
			return err
		}
		return a.visitExpression(e.Right)
	case ast.ComparisonExpr:
		if err := a.visitExpression(e.Left); err != nil {
			return err
		}
		return a.visitExpression(e.Right)
	case ast.CallExpr:
		arity, ok := a.arity[e.Callee]
		if !ok {
			return fmt.Errorf("call to undeclared function %q", e.Callee)
		}
		if arity != len(e.Args) {
			return fmt.Errorf("call to %q passes %d arguments, expected %d", e.Callee, len(e.Args), arity)
		}
		for _, arg := range e.Args {
			if err := a.visitExpression(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown expression type %T", expr)
	}
}
