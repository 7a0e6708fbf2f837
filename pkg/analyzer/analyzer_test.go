package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/analyzer"
	"tinycc.dev/compiler/pkg/parser"
)

func analyze(t *testing.T, source string) (*analyzer.Result, error) {
	t.Helper()
	program, err := parser.ParseProgram(source)
	require.NoError(t, err)
	return analyzer.Analyze(program)
}

func TestAnalyzeValidProgram(t *testing.T) {
	_, err := analyze(t, "int main() { int x = 1; return x; }")
	assert.NoError(t, err)
}

func TestMissingMainIsAnError(t *testing.T) {
	_, err := analyze(t, "int notmain() { return 0; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")
}

func TestMainWithParametersIsAnError(t *testing.T) {
	_, err := analyze(t, "int main(int argc) { return 0; }")
	require.Error(t, err)
}

func TestDuplicateFunctionIsAnError(t *testing.T) {
	_, err := analyze(t, "int f() { return 0; } int f() { return 1; } int main() { return 0; }")
	require.Error(t, err)
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	_, err := analyze(t, "int main() { int x; int x; return 0; }")
	require.Error(t, err)
}

func TestShadowingInNestedScopeIsAllowed(t *testing.T) {
	_, err := analyze(t, "int main() { int x = 1; if (x) { int x = 2; return x; } return x; }")
	assert.NoError(t, err)
}

func TestUndeclaredVariableUseIsAnError(t *testing.T) {
	_, err := analyze(t, "int main() { return y; }")
	require.Error(t, err)
}

func TestUndeclaredVariableAssignmentIsAnError(t *testing.T) {
	_, err := analyze(t, "int main() { y = 1; return 0; }")
	require.Error(t, err)
}

func TestAssignmentResolvesToAncestorScope(t *testing.T) {
	_, err := analyze(t, "int main() { int x = 1; if (1) { x = 2; } return x; }")
	assert.NoError(t, err)
}

func TestCallToUndeclaredFunctionIsAnError(t *testing.T) {
	_, err := analyze(t, "int main() { return g(); }")
	require.Error(t, err)
}

func TestCallArityMismatchIsAnError(t *testing.T) {
	_, err := analyze(t, "int f(int a) { return a; } int main() { return f(1, 2); }")
	require.Error(t, err)
}

func TestCallArityMatchIsAccepted(t *testing.T) {
	_, err := analyze(t, "int f(int a, int b) { return a + b; } int main() { return f(1, 2); }")
	assert.NoError(t, err)
}
