package compiler_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/compiler"
)

func requireToolchain(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("as"); err != nil {
		t.Skip("host 'as' not available")
	}
	if _, err := exec.LookPath("ld"); err != nil {
		t.Skip("host 'ld' not available")
	}
}

func TestAssembleAndRunExitCode(t *testing.T) {
	requireToolchain(t)

	driver, err := compiler.NewDriver("int main() { return 43; }")
	require.NoError(t, err)

	result, err := compiler.AssembleAndRun(driver.Assembly(), compiler.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 43, result.ExitCode)
}

func TestAssembleAndRunSample26ExpectsFortyThree(t *testing.T) {
	requireToolchain(t)

	const source = `
int getBase() { return 10; }
int getMultiplier() { int temp = 3; return temp; }
int getOffset() {
	if (getBase() > 5) { return 7; } else { return 2; }
}
int calculate() { return getBase() * getMultiplier() + getOffset(); }
int finalBonus() { return 16; }
int main() {
	int result = calculate();
	if (result > 30) { result = result + finalBonus(); }
	while (result > 50) { result = result - getBase(); }
	return result;
}
`
	driver, err := compiler.NewDriver(source)
	require.NoError(t, err)

	result, err := compiler.AssembleAndRun(driver.Assembly(), compiler.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 43, result.ExitCode)
}

func TestAssembleAndRunKeepsArtifactsWhenRequested(t *testing.T) {
	requireToolchain(t)

	driver, err := compiler.NewDriver("int main() { return 0; }")
	require.NoError(t, err)

	cfg := compiler.DefaultConfig()
	cfg.Run = false
	cfg.KeepTempFiles = true
	result, err := compiler.AssembleAndRun(driver.Assembly(), cfg)
	require.NoError(t, err)
	assert.FileExists(t, result.AssemblyPath)
	assert.FileExists(t, result.ObjectPath)
	assert.FileExists(t, result.BinaryPath)
}
