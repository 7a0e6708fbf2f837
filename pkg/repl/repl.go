// Package repl implements an interactive read-eval-print loop: each line is
// wrapped in an implicit 'main' function, compiled, assembled, linked and
// run, and its exit code is reported.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"tinycc.dev/compiler/pkg/compiler"
	"tinycc.dev/compiler/pkg/diagnostics"
)

var (
	blueColor  = color.New(color.FgBlue)
	cyanColor  = color.New(color.FgCyan)
	greenColor = color.New(color.FgGreen)
)

// Repl holds the cosmetic configuration of one interactive session.
type Repl struct {
	Banner  string
	Version string
	Prompt  string
	Line    string
}

// New builds a Repl with sensible defaults for banner/prompt cosmetics.
func New() *Repl {
	return &Repl{
		Banner:  "tinycc",
		Version: "0.1",
		Prompt:  "tinycc >>> ",
		Line:    strings.Repeat("-", 40),
	}
}

func (r *Repl) printBanner(w io.Writer) {
	blueColor.Fprintln(w, r.Line)
	greenColor.Fprintln(w, r.Banner)
	cyanColor.Fprintf(w, "version %s: type a statement, or '.exit' to quit\n", r.Version)
	blueColor.Fprintln(w, r.Line)
}

// Start runs the loop until the user exits or EOF is reached on stdin.
func (r *Repl) Start(w io.Writer) error {
	r.printBanner(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return fmt.Errorf("repl: start readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl+D) or interrupt
			fmt.Fprintln(w, "bye")
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(w, "bye")
			return nil
		}

		r.evalLine(w, line)
	}
}

// evalLine wraps line in an implicit 'int main() { ... }', compiles it, and
// reports either the phase that failed or the program's exit code.
func (r *Repl) evalLine(w io.Writer, line string) {
	source := wrapMain(line)

	driver, err := compiler.NewDriver(source)
	if err != nil {
		diagnostics.PrintError(w, "compile", err)
		return
	}

	result, err := compiler.AssembleAndRun(driver.Assembly(), compiler.DefaultConfig())
	if err != nil {
		diagnostics.PrintError(w, "run", err)
		return
	}
	diagnostics.PrintExitCode(w, result.ExitCode)
}

func wrapMain(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, "}") {
		trimmed += ";"
	}
	return "int main() { " + trimmed + " return 0; }"
}
