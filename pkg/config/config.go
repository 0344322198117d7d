// Package config loads thermometer configuration from TOML, YAML or JSON files.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidConfig is returned when a config file does not match the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "thermometer.schema.json"

// Config holds all configuration options for thermometer.
type Config struct {
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`
	Coupling CouplingConfig `koanf:"coupling" toml:"coupling"`
	Smells   SmellsConfig   `koanf:"smells" toml:"smells"`
	Output   OutputConfig   `koanf:"output" toml:"output"`
}

// AnalysisConfig controls history mining.
type AnalysisConfig struct {
	Extension  string `koanf:"extension" toml:"extension"`
	Workers    int    `koanf:"workers" toml:"workers"`
	SkipMerges bool   `koanf:"skip_merges" toml:"skip_merges"`
	// MaxFileSize skips sources larger than this many bytes (0 = no limit).
	MaxFileSize int `koanf:"max_file_size" toml:"max_file_size"`
}

// CouplingConfig controls the coupling estimator.
type CouplingConfig struct {
	// StdlibModules are import roots that never count as external.
	StdlibModules []string `koanf:"stdlib_modules" toml:"stdlib_modules"`
}

// SmellsConfig controls the smell detector.
type SmellsConfig struct {
	GenericNames   []string        `koanf:"generic_names" toml:"generic_names"`
	CommentMarkers []string        `koanf:"comment_markers" toml:"comment_markers"`
	BlockOpeners   []string        `koanf:"block_openers" toml:"block_openers"`
	IndentWidth    int             `koanf:"indent_width" toml:"indent_width"`
	Thresholds     SmellThresholds `koanf:"thresholds" toml:"thresholds"`
}

// SmellThresholds are the per-function limits of the smell heuristics.
type SmellThresholds struct {
	ComplexityWarning  int `koanf:"complexity_warning" toml:"complexity_warning"`
	ComplexityCritical int `koanf:"complexity_critical" toml:"complexity_critical"`
	LengthWarning      int `koanf:"length_warning" toml:"length_warning"`
	LengthCritical     int `koanf:"length_critical" toml:"length_critical"`
	MaxParameters      int `koanf:"max_parameters" toml:"max_parameters"`
	NestingWarning     int `koanf:"nesting_warning" toml:"nesting_warning"`
	NestingCritical    int `koanf:"nesting_critical" toml:"nesting_critical"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Extension:  ".py",
			Workers:    1,
			SkipMerges: true,
		},
		Coupling: CouplingConfig{
			StdlibModules: []string{
				"os", "sys", "re", "json", "time", "datetime", "collections",
				"itertools", "functools", "math", "random", "logging", "unittest",
			},
		},
		Smells: SmellsConfig{
			GenericNames: []string{
				"a", "b", "c", "x", "y", "z", "i", "j", "k",
				"tmp", "temp", "data", "value", "var",
			},
			CommentMarkers: []string{"#"},
			BlockOpeners:   []string{":"},
			IndentWidth:    4,
			Thresholds: SmellThresholds{
				ComplexityWarning:  15,
				ComplexityCritical: 25,
				LengthWarning:      100,
				LengthCritical:     200,
				MaxParameters:      5,
				NestingWarning:     4,
				NestingCritical:    5,
			},
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// LoadResult is a loaded configuration and the file it came from.
// Source is empty when defaults were used.
type LoadResult struct {
	Config *Config
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path       string
	searchDirs []string
}

// WithPath loads the given file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchDirs overrides the directories searched for a config file.
func WithSearchDirs(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.searchDirs = dirs
	}
}

// configNames are the file names searched for, in order.
var configNames = []string{
	"thermometer.toml",
	"thermometer.yaml",
	"thermometer.yml",
	"thermometer.json",
	".thermometer.toml",
	".thermometer.yaml",
	".thermometer.yml",
	".thermometer.json",
}

// LoadConfig loads the explicit path when given, otherwise the first config file
// found in the search directories, otherwise the defaults. A file that exists but
// fails to parse or validate is an error.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{searchDirs: []string{".", ".thermometer"}}
	for _, opt := range opts {
		opt(&o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	if path := findConfig(o.searchDirs); path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: path}, nil
	}

	return &LoadResult{Config: DefaultConfig()}, nil
}

func findConfig(dirs []string) string {
	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Load loads configuration from a file, layered over the defaults, and
// validates it against the embedded schema.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if err := validateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return kjson.Parser()
	default:
		return toml.Parser()
	}
}

// Schema returns the embedded JSON Schema describing config files.
func Schema() []byte {
	return schemaJSON
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

// validateRaw checks a parsed document against the schema. The document is
// normalized through JSON so TOML and YAML number types validate the same way.
func validateRaw(raw map[string]any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
