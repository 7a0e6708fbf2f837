// Package parser builds an ast.Program from a token stream via recursive
// descent with precedence climbing for expressions. It is LL(1): every
// production decides its path from the current token plus, where the
// grammar is ambiguous (a bare identifier vs. a call), one token of
// lookahead.
package parser

import (
	"fmt"

	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/lexer"
	"tinycc.dev/compiler/pkg/token"
)

// maxArgs is the number of integer argument registers the System-V AMD64
// ABI offers (rdi, rsi, rdx, rcx, r8, r9); the generator has nowhere to put
// a seventh argument, so the parser refuses it up front.
const maxArgs = 6

// Parser consumes a *lexer.Lexer one token at a time and produces an
// ast.Program, or the first error encountered.
type Parser struct {
	lex     *lexer.Lexer
	current token.Token
}

// New primes the parser with the first token of lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex, current: lex.Next()}
}

// ParseProgram parses the whole token stream and returns the resulting
// ast.Program, or the first parse error encountered.
func ParseProgram(source string) (*ast.Program, error) {
	p := New(lexer.New(source))
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for p.current.Type != token.EndOfFile {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		program.Functions = append(program.Functions, fn)
	}
	return program, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.expectAndConsume(token.KeywordInt, "parseFunction"); err != nil {
		return nil, err
	}

	name, err := p.expectIdentifier("parseFunction")
	if err != nil {
		return nil, err
	}

	if err := p.expectAndConsume(token.OpenParen, "parseFunction"); err != nil {
		return nil, err
	}

	var params []string
	if p.current.Type != token.CloseParen {
		for {
			if err := p.expectAndConsume(token.KeywordInt, "parseFunction"); err != nil {
				return nil, err
			}
			param, err := p.expectIdentifier("parseFunction")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.current.Type != token.Comma {
				break
			}
			p.consume()
		}
	}
	if len(params) > maxArgs {
		return nil, fmt.Errorf("parseFunction: function %q declares %d parameters, at most %d are supported", name, len(params), maxArgs)
	}

	if err := p.expectAndConsume(token.CloseParen, "parseFunction"); err != nil {
		return nil, err
	}

	body, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseCompoundStatement() (*ast.CompoundStatement, error) {
	if err := p.expectAndConsume(token.OpenBrace, "parseCompoundStatement"); err != nil {
		return nil, err
	}

	compound := &ast.CompoundStatement{}
	for p.current.Type != token.EndOfFile && p.current.Type != token.CloseBrace {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		compound.Statements = append(compound.Statements, stmt)
	}

	if err := p.expectAndConsume(token.CloseBrace, "parseCompoundStatement"); err != nil {
		return nil, err
	}
	return compound, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.current.Type {
	case token.Semicolon:
		p.consume()
		return ast.EmptyStmt{}, nil
	case token.KeywordReturn:
		return p.parseReturnStatement()
	case token.KeywordInt:
		return p.parseVariableDeclaration()
	case token.KeywordIf:
		return p.parseIfStatement()
	case token.KeywordWhile:
		return p.parseWhileStatement()
	case token.Identifier:
		return p.parseAssignmentStatement()
	default:
		return nil, fmt.Errorf("parseStatement: unexpected token %s", p.current)
	}
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	if err := p.expectAndConsume(token.KeywordReturn, "parseReturnStatement"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.Semicolon, "parseReturnStatement"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: expr}, nil
}

func (p *Parser) parseVariableDeclaration() (ast.Statement, error) {
	if err := p.expectAndConsume(token.KeywordInt, "parseVariableDeclaration"); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier("parseVariableDeclaration")
	if err != nil {
		return nil, err
	}

	var init ast.Expression
	if p.current.Type == token.Assign {
		p.consume()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectAndConsume(token.Semicolon, "parseVariableDeclaration"); err != nil {
		return nil, err
	}
	return ast.VarDeclStmt{Name: name, Init: init}, nil
}

func (p *Parser) parseAssignmentStatement() (ast.Statement, error) {
	name, err := p.expectIdentifier("parseAssignmentStatement")
	if err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.Assign, "parseAssignmentStatement"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.Semicolon, "parseAssignmentStatement"); err != nil {
		return nil, err
	}
	return ast.AssignmentStmt{Name: name, Value: expr}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if err := p.expectAndConsume(token.KeywordIf, "parseIfStatement"); err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.OpenParen, "parseIfStatement"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.CloseParen, "parseIfStatement"); err != nil {
		return nil, err
	}

	then, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}

	stmt := ast.IfStmt{Condition: cond, Then: then}
	if p.current.Type == token.KeywordElse {
		p.consume()
		if p.current.Type == token.KeywordIf {
			elseIf, err := p.parseIfStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlock, err := p.parseCompoundStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	if err := p.expectAndConsume(token.KeywordWhile, "parseWhileStatement"); err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.OpenParen, "parseWhileStatement"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectAndConsume(token.CloseParen, "parseWhileStatement"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: cond, Body: body}, nil
}

// parseExpression is the grammar's entry point; it delegates straight to
// the lowest-precedence production.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseComparisonExpression()
}

// parseComparisonExpression is intentionally non-associative: 'a < b < c'
// is a parse error, not (a < b) < c, matching spec.md's grammar.
func (p *Parser) parseComparisonExpression() (ast.Expression, error) {
	left, err := p.parseAddSubExpression()
	if err != nil {
		return nil, err
	}
	if p.current.IsComparison() {
		op := p.current.Type
		p.consume()
		right, err := p.parseAddSubExpression()
		if err != nil {
			return nil, err
		}
		return ast.ComparisonExpr{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAddSubExpression() (ast.Expression, error) {
	left, err := p.parseMultDivExpression()
	if err != nil {
		return nil, err
	}
	for p.current.IsAddSub() {
		op := p.current.Type
		p.consume()
		right, err := p.parseMultDivExpression()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultDivExpression() (ast.Expression, error) {
	left, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	for p.current.IsMulDiv() {
		op := p.current.Type
		p.consume()
		right, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimaryExpression() (ast.Expression, error) {
	switch {
	case p.current.Type == token.Number:
		lexeme := p.current.Lexeme
		p.consume()
		var value int64
		if _, err := fmt.Sscanf(lexeme, "%d", &value); err != nil {
			return nil, fmt.Errorf("parsePrimaryExpression: invalid number literal %q: %w", lexeme, err)
		}
		return ast.NumberLiteral{Value: value}, nil

	case p.current.Type == token.Identifier && p.lex.Peek(0).Type == token.OpenParen:
		name := p.current.Lexeme
		p.consume()
		p.consume() // '('
		var args []ast.Expression
		if p.current.Type != token.CloseParen {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.current.Type != token.Comma {
					break
				}
				p.consume()
			}
		}
		if len(args) > maxArgs {
			return nil, fmt.Errorf("parsePrimaryExpression: call to %q passes %d arguments, at most %d are supported", name, len(args), maxArgs)
		}
		if err := p.expectAndConsume(token.CloseParen, "parsePrimaryExpression"); err != nil {
			return nil, err
		}
		return ast.CallExpr{Callee: name, Args: args}, nil

	case p.current.Type == token.Identifier:
		name := p.current.Lexeme
		p.consume()
		return ast.Identifier{Name: name}, nil

	case p.current.Type == token.OpenParen:
		p.consume()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectAndConsume(token.CloseParen, "parsePrimaryExpression"); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, fmt.Errorf("parsePrimaryExpression: expected a number, identifier, or parenthesised expression, got %s", p.current)
	}
}

func (p *Parser) consume() {
	p.current = p.lex.Next()
}

func (p *Parser) expect(expected token.Type, production string) error {
	if p.current.Type != expected {
		return fmt.Errorf("%s: expected token %s, got %s", production, expected, p.current)
	}
	return nil
}

func (p *Parser) expectAndConsume(expected token.Type, production string) error {
	if err := p.expect(expected, production); err != nil {
		return err
	}
	p.consume()
	return nil
}

func (p *Parser) expectIdentifier(production string) (string, error) {
	if err := p.expect(token.Identifier, production); err != nil {
		return "", err
	}
	name := p.current.Lexeme
	p.consume()
	return name, nil
}
