package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// BootstrapPolicy decides whether translated programs start with the
// bootstrap code.
type BootstrapPolicy string

const (
	AUTO   = BootstrapPolicy("auto")
	ALWAYS = BootstrapPolicy("always")
	NEVER  = BootstrapPolicy("never")
)

const maxAddress = 32767

var ErrInvalid = errors.New("invalid configuration")

var routinePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the settings shared by the command line and the optional
// YAML file.
type Config struct {
	Bootstrap    BootstrapPolicy `yaml:"bootstrap"`
	Entry        string          `yaml:"entry"`
	StackBase    int             `yaml:"stack_base"`
	VariableBase int             `yaml:"variable_base"`
	Cycles       int             `yaml:"cycles"`
	Verbose      bool            `yaml:"verbose"`
}

func Default() Config {
	return Config{
		Bootstrap:    AUTO,
		Entry:        "Sys.init",
		StackBase:    256,
		VariableBase: 16,
		Cycles:       1_000_000,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := ParseBootstrap(string(c.Bootstrap)); err != nil {
		return err
	}
	if !routinePattern.MatchString(c.Entry) {
		return fmt.Errorf("%w: entry %q is not Class.routine", ErrInvalid, c.Entry)
	}
	if c.StackBase <= 0 || c.StackBase > maxAddress {
		return fmt.Errorf("%w: stack_base %d out of range", ErrInvalid, c.StackBase)
	}
	if c.VariableBase < 0 || c.VariableBase > maxAddress {
		return fmt.Errorf("%w: variable_base %d out of range", ErrInvalid, c.VariableBase)
	}
	if c.Cycles <= 0 {
		return fmt.Errorf("%w: cycles must be positive", ErrInvalid)
	}
	return nil
}

func ParseBootstrap(value string) (BootstrapPolicy, error) {
	switch policy := BootstrapPolicy(value); policy {
	case AUTO, ALWAYS, NEVER:
		return policy, nil
	}
	return "", fmt.Errorf("%w: bootstrap %q, want auto, always or never", ErrInvalid, value)
}

// Required resolves the policy for a run. In auto mode a program is
// bootstrapped when it comes from a directory or spans several units.
func (p BootstrapPolicy) Required(units int, directory bool) bool {
	switch p {
	case ALWAYS:
		return true
	case NEVER:
		return false
	}
	return directory || units > 1
}
