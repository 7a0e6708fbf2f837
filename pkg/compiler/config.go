package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional 'tinycc.yaml' file the CLI loads (from the path
// given with --config) before compiling: it controls whether the pipeline also assembles/links/runs
// the result, and whether the intermediate artifacts survive that run.
type Config struct {
	// Assemble toggles invoking the host 'as'/'ld' toolchain on the
	// generated assembly. When false, only assembly text is produced.
	Assemble bool `yaml:"assemble"`

	// Run additionally executes the linked binary and reports its exit
	// code; meaningless when Assemble is false.
	Run bool `yaml:"run"`

	// KeepTempFiles skips cleanup of the generated .s/.o/executable files,
	// useful for inspecting a failing assemble/link step by hand.
	KeepTempFiles bool `yaml:"keep_temp_files"`

	// WorkDir is where temp artifacts are written; defaults to os.TempDir().
	WorkDir string `yaml:"work_dir"`
}

// DefaultConfig is used when no config file is loaded; no 'tinycc.yaml' is
// looked up automatically.
func DefaultConfig() Config {
	return Config{Assemble: true, Run: true}
}

// LoadConfig reads and parses a tinycc.yaml file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
