package compiler_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/compiler"
)

const sampleProgram = `
int getBase() {
	return 10;
}

int getMultiplier() {
	int temp = 3;
	return temp;
}

int calculate() {
	return getBase() * getMultiplier();
}

int main() {
	int result = calculate();
	if (result > 20) {
		result = result - 5;
	}
	return result;
}
`

func TestNewDriverCompilesValidProgram(t *testing.T) {
	driver, err := compiler.NewDriver(sampleProgram)
	require.NoError(t, err)
	assert.Contains(t, driver.Assembly(), ".globl main")
	assert.Contains(t, driver.Assembly(), ".globl calculate")
}

func TestNewDriverReportsTheFailingPhase(t *testing.T) {
	_, err := compiler.NewDriver("int main() { return y; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze")
}

func TestNewDriverReportsParseErrors(t *testing.T) {
	_, err := compiler.NewDriver("int main() { return 0 }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

// TestCompileIsDeterministic guards against any hidden nondeterminism (map
// iteration order, label counters carried across calls) creeping into two
// otherwise-identical compiles of the same source.
func TestCompileIsDeterministic(t *testing.T) {
	first, err := compiler.NewDriver(sampleProgram)
	require.NoError(t, err)
	second, err := compiler.NewDriver(sampleProgram)
	require.NoError(t, err)

	if first.Assembly() == second.Assembly() {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(first.Assembly()),
		B:        difflib.SplitLines(second.Assembly()),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Fatalf("expected two compiles of the same source to produce identical assembly, got a diff:\n%s", text)
}
