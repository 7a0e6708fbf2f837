package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/ast"
	"tinycc.dev/compiler/pkg/parser"
	"tinycc.dev/compiler/pkg/token"
)

func TestParseProgram(t *testing.T) {
	t.Run("function with no params", func(t *testing.T) {
		program, err := parser.ParseProgram("int main() { return 0; }")
		require.NoError(t, err)
		require.Len(t, program.Functions, 1)

		fn := program.Functions[0]
		assert.Equal(t, "main", fn.Name)
		assert.Empty(t, fn.Params)
		require.Len(t, fn.Body.Statements, 1)
		assert.Equal(t, ast.ReturnStmt{Value: ast.NumberLiteral{Value: 0}}, fn.Body.Statements[0])
	})

	t.Run("function with parameters", func(t *testing.T) {
		program, err := parser.ParseProgram("int add(int a, int b) { return a + b; }")
		require.NoError(t, err)

		fn := program.Functions[0]
		assert.Equal(t, []string{"a", "b"}, fn.Params)
	})

	t.Run("multiplication binds tighter than addition", func(t *testing.T) {
		program, err := parser.ParseProgram("int main() { return 2 + 3 * 4; }")
		require.NoError(t, err)

		ret := program.Functions[0].Body.Statements[0].(ast.ReturnStmt)
		expr := ret.Value.(ast.BinaryExpr)
		assert.Equal(t, token.Plus, expr.Op)
		assert.Equal(t, ast.NumberLiteral{Value: 2}, expr.Left)
		assert.Equal(t, ast.BinaryExpr{Op: token.Star, Left: ast.NumberLiteral{Value: 3}, Right: ast.NumberLiteral{Value: 4}}, expr.Right)
	})

	t.Run("call vs bare identifier disambiguation", func(t *testing.T) {
		program, err := parser.ParseProgram("int main() { int x; x = f(1, 2); return x; }")
		require.NoError(t, err)

		assign := program.Functions[0].Body.Statements[1].(ast.AssignmentStmt)
		call, ok := assign.Value.(ast.CallExpr)
		require.True(t, ok)
		assert.Equal(t, "f", call.Callee)
		assert.Len(t, call.Args, 2)
	})

	t.Run("if-else and while parse into the right shapes", func(t *testing.T) {
		program, err := parser.ParseProgram(`int main() {
			if (1 < 2) { return 1; } else { return 2; }
			while (1) { return 0; }
			return 0;
		}`)
		require.NoError(t, err)

		stmts := program.Functions[0].Body.Statements
		ifStmt, ok := stmts[0].(ast.IfStmt)
		require.True(t, ok)
		_, hasElse := ifStmt.Else.(*ast.CompoundStatement)
		assert.True(t, hasElse)

		_, ok = stmts[1].(ast.WhileStmt)
		assert.True(t, ok)
	})

	t.Run("non-associative comparison is a parse error", func(t *testing.T) {
		_, err := parser.ParseProgram("int main() { return 1 < 2 < 3; }")
		require.Error(t, err)
	})

	t.Run("too many parameters is a parse error", func(t *testing.T) {
		params := "int a, int b, int c, int d, int e, int f, int g"
		_, err := parser.ParseProgram("int f(" + params + ") { return 0; }")
		require.Error(t, err)
	})

	t.Run("too many arguments is a parse error", func(t *testing.T) {
		args := strings.Repeat("1, ", 6) + "1"
		_, err := parser.ParseProgram("int main() { return f(" + args + "); }")
		require.Error(t, err)
	})

	t.Run("missing semicolon is a parse error", func(t *testing.T) {
		_, err := parser.ParseProgram("int main() { return 0 }")
		require.Error(t, err)
	})
}
