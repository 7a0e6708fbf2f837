// Package ast defines the tree the parser builds and the analyser/generator
// walk: a Program of Functions, each a CompoundStatement of Statements, each
// carrying Expressions.
package ast

import "tinycc.dev/compiler/pkg/token"

// ----------------------------------------------------------------------------
// Program & Functions

// A Program is an ordered list of Functions; one of them must be named "main"
// and take no arguments (checked by the analyser, not represented here).
type Program struct {
	Functions []*Function
}

// A Function takes up to six int parameters and returns a single int (the
// value of its Body's ultimate executed ReturnStmt).
type Function struct {
	Name   string             // the function's identifier, unique within the Program
	Params []string           // parameter names, in declaration order (max 6, checked by the parser)
	Body   *CompoundStatement // the function's top-level block
}

// ----------------------------------------------------------------------------
// Statements

// Statement is the shared marker for every statement-level construct. We
// declare it empty and let the analyser/generator type-switch on the
// concrete variant, rather than forcing every variant to implement a common
// method.
type Statement interface{}

// A CompoundStatement is a brace-delimited block and is itself a Statement,
// so If/While bodies and nested blocks reuse the same type.
type CompoundStatement struct {
	Statements []Statement
}

type EmptyStmt struct{} // the bare ';' statement, produces no code

type ReturnStmt struct { // 'return <expr>;'
	Value Expression // the expression evaluated and left in rax before 'leave; ret'
}

type VarDeclStmt struct { // 'int <name>;' or 'int <name> = <expr>;'
	Name string     // the declared variable's identifier
	Init Expression // nil if no initialiser was given (slot is zeroed instead)
}

type AssignmentStmt struct { // '<name> = <expr>;'
	Name  string     // the target variable's identifier, resolved recursively up the scope chain
	Value Expression // the expression whose result is stored into the target's slot
}

type IfStmt struct { // 'if (<cond>) <then> [else <else>]'
	Condition Expression         // evaluated, compared against zero
	Then      *CompoundStatement // executed when Condition is non-zero
	Else      Statement          // nil, a *CompoundStatement, or a nested IfStmt value (else-if chaining)
}

type WhileStmt struct { // 'while (<cond>) <body>'
	Condition Expression         // re-evaluated before each iteration
	Body      *CompoundStatement // executed while Condition is non-zero
}

// ----------------------------------------------------------------------------
// Expressions

// Expression is the shared marker for every expression-level construct,
// mirroring Statement above.
type Expression interface{}

type NumberLiteral struct { // an integer literal, e.g. '42'
	Value int64
}

type Identifier struct { // a bare variable reference, e.g. 'x'
	Name string
}

// BinaryExpr covers '+ - * /', the four arithmetic productions of
// parseAddSubExpression/parseMultDivExpression.
type BinaryExpr struct {
	Op    token.Type // one of Plus, Minus, Star, Slash
	Left  Expression
	Right Expression
}

// ComparisonExpr covers the six comparison operators, produced only by
// parseComparisonExpression and never chained directly (the grammar is
// non-associative at this level); a comparison becomes an operand of
// another comparison only through parentheses.
type ComparisonExpr struct {
	Op    token.Type // one of EqualEqual, NotEqual, LessThan, LessThanEqual, GreaterThan, GreaterThanEqual
	Left  Expression
	Right Expression
}

// CallExpr invokes another function by name, passing up to six arguments
// through the System-V integer argument registers.
type CallExpr struct {
	Callee string
	Args   []Expression
}
