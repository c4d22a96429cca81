package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Compare    CompareConfig    `json:"compare" yaml:"compare"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}

// RepositoryConfig selects the repository and how it is read.
type RepositoryConfig struct {
	Path    string `json:"path" yaml:"path"`       // Default: "."
	Backend string `json:"backend" yaml:"backend"` // "native" or "gitcli"
}

// CompareConfig holds comparison options.
type CompareConfig struct {
	Switch   bool     `json:"switch" yaml:"switch"`
	ShowSHA  bool     `json:"showSha" yaml:"showSha"`
	Legend   string   `json:"legend" yaml:"legend"` // "full", "short" or "none"
	Paths    []string `json:"paths" yaml:"paths"`
	DiffBase string   `json:"diffBase" yaml:"diffBase"` // "parent" or "traversal"
}

// OutputConfig holds report options.
type OutputConfig struct {
	Format    string `json:"format" yaml:"format"`
	Highlight bool   `json:"highlight" yaml:"highlight"`
	Summary   bool   `json:"summary" yaml:"summary"`
}

// configFileNames are probed in order in the working directory, then in $HOME.
var configFileNames = []string{".cmpbranch.json", ".cmpbranch.yaml", ".cmpbranch.yml"}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Path:    ".",
			Backend: "native",
		},
		Compare: CompareConfig{
			Legend:   "full",
			Paths:    []string{},
			DiffBase: "parent",
		},
		Output: OutputConfig{
			Format: "console",
		},
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if err := oneOf("repository.backend", c.Repository.Backend, "native", "gitcli"); err != nil {
		return err
	}
	if err := oneOf("compare.legend", c.Compare.Legend, "full", "short", "none"); err != nil {
		return err
	}
	if err := oneOf("compare.diffBase", c.Compare.DiffBase, "parent", "traversal"); err != nil {
		return err
	}
	return oneOf("output.format", c.Output.Format, "console", "json", "csv", "markdown", "ci")
}

func oneOf(key, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (expected one of %s)", key, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file, merging with defaults.
// JSON and YAML are chosen by file extension.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range configFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveConfig saves configuration to a file in the format implied by its extension.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
