// Package config loads the compiler's optional lattec.toml, which
// configures ambient concerns (external tool paths, output styling)
// and never introduces a CLI flag of its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ColorMode mirrors the ui.Mode values but lives here so the config
// schema doesn't import the ui package.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is one of the recognized color modes.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the full lattec.toml schema.
type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Output OutputConfig `toml:"output"`
}

// PathsConfig overrides the external tools and runtime bitcode the
// driver shells out to.
type PathsConfig struct {
	LLVMAs   string `toml:"llvm_as"`
	LLVMLink string `toml:"llvm_link"`
	Runtime  string `toml:"runtime"`
}

// OutputConfig controls phase logging verbosity and OK/ERROR styling.
type OutputConfig struct {
	Verbose bool      `toml:"verbose"`
	Color   ColorMode `toml:"color"`
}

// Default returns the built-in defaults, used when lattec.toml is absent
// or omits a key.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			LLVMAs:   "llvm-as",
			LLVMLink: "llvm-link",
			Runtime:  "lib/runtime.bc",
		},
		Output: OutputConfig{
			Verbose: false,
			Color:   ColorAuto,
		},
	}
}

// Load resolves lattec.toml next to sourcePath, then in the current
// working directory, and merges any present keys over the defaults.
// A missing file is not an error.
func Load(sourcePath string) (*Config, error) {
	cfg := Default()

	candidates := []string{
		filepath.Join(filepath.Dir(sourcePath), "lattec.toml"),
		"lattec.toml",
	}

	for _, path := range candidates {
		found, err := loadConfigFile(path, cfg)
		if err != nil {
			return nil, err
		}
		if found {
			break
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

// Validate rejects a malformed color mode; everything else in the
// schema is either a free-form path or a bool, which toml decoding
// already constrains.
func (c *Config) Validate() error {
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
	if !c.Output.Color.IsValid() {
		return fmt.Errorf("invalid output.color: %q (must be %q, %q, or %q)",
			c.Output.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Paths.LLVMAs == "" {
		c.Paths.LLVMAs = "llvm-as"
	}
	if c.Paths.LLVMLink == "" {
		c.Paths.LLVMLink = "llvm-link"
	}
	if c.Paths.Runtime == "" {
		c.Paths.Runtime = "lib/runtime.bc"
	}
	return nil
}
