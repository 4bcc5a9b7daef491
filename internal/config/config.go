// Package config holds the operator-facing settings of the extractor.
// Values come from an optional HCL file, overridden by CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// SetupError reports a missing required path or executable. Setup errors
// are fatal immediately and never retried.
type SetupError struct {
	Missing string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("required path not found: %s", e.Missing)
}

// Config is the extractor configuration.
type Config struct {
	// GamePath is the installation directory of the game.
	GamePath string `hcl:"game_path"`
	// ExeName is the authoring tool executable inside GamePath.
	ExeName string `hcl:"exe_name,optional"`
	// HdbName is the content database file inside GamePath.
	HdbName string `hcl:"hdb_name,optional"`
	// Output is the document file written at the end of a run.
	Output string `hcl:"output,optional"`
	// CacheDir holds the per-entity-kind cache stores.
	CacheDir string `hcl:"cache_dir,optional"`
	// RootLabel is the content tree's root display label.
	RootLabel string `hcl:"root_label,optional"`
	// MainWindow is the title prefix of the tool's top-level window.
	MainWindow string `hcl:"main_window,optional"`
	// MaxAttempts bounds the restart loop in tree mode.
	MaxAttempts int `hcl:"max_attempts,optional"`
}

// Default returns the configuration for a stock X-Files install.
func Default() Config {
	return Config{
		ExeName:     "vc author 4.0.exe",
		HdbName:     "XFiles.hdb",
		Output:      "tree.json",
		CacheDir:    "cache",
		RootLabel:   "X-Files",
		MainWindow:  "VC Authoring Tool -",
		MaxAttempts: 5,
	}
}

// Load reads an HCL config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.ExeName == "" {
		c.ExeName = d.ExeName
	}
	if c.HdbName == "" {
		c.HdbName = d.HdbName
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.CacheDir == "" {
		c.CacheDir = d.CacheDir
	}
	if c.RootLabel == "" {
		c.RootLabel = d.RootLabel
	}
	if c.MainWindow == "" {
		c.MainWindow = d.MainWindow
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
}

// ExePath returns the full path of the authoring tool executable.
func (c *Config) ExePath() string { return filepath.Join(c.GamePath, c.ExeName) }

// HdbPath returns the full path of the content database.
func (c *Config) HdbPath() string { return filepath.Join(c.GamePath, c.HdbName) }

// Validate checks that every required path exists.
func (c *Config) Validate() error {
	if c.GamePath == "" {
		return &SetupError{Missing: "game path (set -d or game_path)"}
	}
	for _, p := range []string{c.GamePath, c.ExePath(), c.HdbPath()} {
		if _, err := os.Stat(p); err != nil {
			return &SetupError{Missing: p}
		}
	}
	return nil
}
