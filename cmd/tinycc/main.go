package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"tinycc.dev/compiler/pkg/compiler"
	"tinycc.dev/compiler/pkg/diagnostics"
	"tinycc.dev/compiler/pkg/repl"
)

const version = "0.1"

var compileDescription = strings.ReplaceAll(`
Compiles one or more tiny-C source files to x86-64 assembly, then by default
assembles, links and runs the result and reports its exit code.
`, "\n", " ")

var compileCommand = cli.NewCommand("compile", compileDescription).
	WithArg(cli.NewArg("inputs", "The source (.c) files to be compiled").WithType(cli.TypeString)).
	WithOption(cli.NewOption("tokens", "Print the token stream before compiling").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("ast", "Print the parsed AST before compiling").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("asm", "Print the generated assembly").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("no-run", "Assemble and link but do not execute the result").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("no-assemble", "Only emit assembly; skip the host toolchain entirely").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("config", "Path to a tinycc.yaml config file").WithType(cli.TypeString)).
	WithAction(compileHandler)

func compileHandler(args []string, options map[string]string) int {
	if len(args) < 1 {
		diagnostics.PrintError(os.Stderr, "compile", fmt.Errorf("no input file provided, use --help"))
		return -1
	}

	cfg := compiler.DefaultConfig()
	if path, ok := options["config"]; ok {
		loaded, err := compiler.LoadConfig(path)
		if err != nil {
			diagnostics.PrintError(os.Stderr, "config", err)
			return -1
		}
		cfg = loaded
	}
	if _, ok := options["no-run"]; ok {
		cfg.Run = false
	}
	if _, ok := options["no-assemble"]; ok {
		cfg.Assemble = false
		cfg.Run = false
	}

	status := 0
	for _, input := range args {
		if runOne(input, options, cfg) != 0 {
			status = -1
		}
	}
	return status
}

func runOne(input string, options map[string]string, cfg compiler.Config) int {
	source, err := os.ReadFile(input)
	if err != nil {
		diagnostics.PrintError(os.Stderr, input, fmt.Errorf("unable to open input file: %w", err))
		return -1
	}

	driver, err := compiler.NewDriver(string(source))
	if err != nil {
		diagnostics.PrintError(os.Stderr, input, err)
		return -1
	}

	if _, ok := options["tokens"]; ok {
		driver.PrintTokens(os.Stdout)
	}
	if _, ok := options["ast"]; ok {
		driver.PrintAST(os.Stdout)
	}
	if _, ok := options["asm"]; ok {
		driver.PrintAssembly(os.Stdout)
	}

	if !cfg.Assemble {
		return 0
	}

	result, err := compiler.AssembleAndRun(driver.Assembly(), cfg)
	if err != nil {
		diagnostics.PrintError(os.Stderr, input, err)
		return -1
	}
	if cfg.Run {
		fmt.Printf("%s: ", input)
		diagnostics.PrintExitCode(os.Stdout, result.ExitCode)
	}
	return 0
}

var replCommand = cli.NewCommand("repl", "Starts an interactive tinycc read-eval-print loop.").
	WithAction(replHandler)

func replHandler(args []string, options map[string]string) int {
	if err := repl.New().Start(os.Stdout); err != nil {
		diagnostics.PrintError(os.Stderr, "repl", err)
		return -1
	}
	return 0
}

var versionCommand = cli.NewCommand("version", "Prints the compiler version.").
	WithAction(func(args []string, options map[string]string) int {
		fmt.Println("tinycc", version)
		return 0
	})

var app = cli.New("tinycc: a compiler for a tiny subset of C, targeting x86-64.").
	WithCommand(compileCommand).
	WithCommand(replCommand).
	WithCommand(versionCommand)

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
