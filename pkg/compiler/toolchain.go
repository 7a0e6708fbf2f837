package compiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// RunResult is what AssembleAndRun reports back after handing assembly to
// the host toolchain and, if requested, executing the result.
type RunResult struct {
	AssemblyPath string
	ObjectPath   string
	BinaryPath   string
	ExitCode     int
}

// AssembleAndRun writes asm to a uuid-named temp file, assembles it with
// 'as --64', links it with 'ld', and — when cfg.Run is set — executes the
// binary and reports its exit code. Temp artifacts are removed afterward
// unless cfg.KeepTempFiles is set.
func AssembleAndRun(asm string, cfg Config) (RunResult, error) {
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}

	id := uuid.New().String()
	result := RunResult{
		AssemblyPath: filepath.Join(workDir, "tinycc-"+id+".s"),
		ObjectPath:   filepath.Join(workDir, "tinycc-"+id+".o"),
		BinaryPath:   filepath.Join(workDir, "tinycc-"+id),
	}

	if !cfg.KeepTempFiles {
		defer cleanup(result)
	}

	if err := os.WriteFile(result.AssemblyPath, []byte(asm), 0o644); err != nil {
		return result, fmt.Errorf("write assembly: %w", err)
	}

	if !cfg.Assemble {
		return result, nil
	}

	if out, err := exec.Command("as", "--64", "-o", result.ObjectPath, result.AssemblyPath).CombinedOutput(); err != nil {
		return result, fmt.Errorf("assemble: %w: %s", err, out)
	}

	if out, err := exec.Command("ld", "-o", result.BinaryPath, result.ObjectPath).CombinedOutput(); err != nil {
		return result, fmt.Errorf("link: %w: %s", err, out)
	}

	if !cfg.Run {
		return result, nil
	}

	cmd := exec.Command(result.BinaryPath)
	runErr := cmd.Run()
	code, err := exitCode(cmd, runErr)
	if err != nil {
		return result, fmt.Errorf("run: %w", err)
	}
	result.ExitCode = code
	return result, nil
}

// exitCode extracts the Linux process exit status (mod 256, per spec) from
// a finished *exec.Cmd, going through unix.WaitStatus rather than
// ProcessState's portable ExitCode() so a future signal-based exit reports
// the right classification instead of just -1.
func exitCode(cmd *exec.Cmd, runErr error) (int, error) {
	if runErr == nil {
		ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
		if !ok {
			return cmd.ProcessState.ExitCode(), nil
		}
		return unix.WaitStatus(ws).ExitStatus(), nil
	}

	exitErr, ok := runErr.(*exec.ExitError)
	if !ok {
		return 0, runErr
	}
	ws, ok := exitErr.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return exitErr.ExitCode(), nil
	}
	status := unix.WaitStatus(ws)
	if status.Signaled() {
		return 0, fmt.Errorf("process killed by signal %s", status.Signal())
	}
	return status.ExitStatus(), nil
}

func cleanup(r RunResult) {
	os.Remove(r.AssemblyPath)
	os.Remove(r.ObjectPath)
	os.Remove(r.BinaryPath)
}
