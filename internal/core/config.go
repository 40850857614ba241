package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// How many parent directories to traverse before giving up the search
// for a configuration file
const maxDepth = 10

// ConfigFilename is looked up from the working directory upward.
const ConfigFilename = ".nota.toml"

// Default .nota.toml content
const DefaultConfig = `
[core]
extensions = ["md", "markdown"]

[export]
katex_stylesheet = "https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css"
assets_dir = "assets"
pages_dir = "pages"
highlight_style = "github"
`

var (
	// Lazy-load configuration and ensure a single read
	configOnce      sync.Once
	configSingleton *Config
)

// Note: Fields must be public for the toml package to unmarshal
type ConfigFile struct {
	Core   ConfigCore
	Export ConfigExport
}

type ConfigCore struct {
	Extensions []string
}

type ConfigExport struct {
	KatexStylesheet string `toml:"katex_stylesheet"`
	AssetsDir       string `toml:"assets_dir"`
	PagesDir        string `toml:"pages_dir"`
	HighlightStyle  string `toml:"highlight_style"`
}

type Config struct {
	// Directory where the configuration file was found ("" when defaults apply)
	RootDirectory string

	ConfigFile ConfigFile
}

// CurrentConfig returns the config, reading the configuration file the
// first time. A missing file is not an error: defaults apply.
func CurrentConfig() *Config {
	configOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			CurrentLogger().Fatalf("Unable to determine working directory: %v", err)
		}
		config, err := ReadConfigFromDirectory(cwd)
		if err != nil {
			CurrentLogger().Fatalf("Unable to read configuration: %v", err)
		}
		configSingleton = config
	})
	return configSingleton
}

// ReadConfigFromDirectory searches a .nota.toml file from the given
// directory upward and parses it. Defaults apply when no file is found.
func ReadConfigFromDirectory(dir string) (*Config, error) {
	config := DefaultConfigValue()

	current := dir
	for i := 0; i < maxDepth; i++ {
		candidate := filepath.Join(current, ConfigFilename)
		content, err := os.ReadFile(candidate)
		if err == nil {
			if err := toml.Unmarshal(content, &config.ConfigFile); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", candidate, err)
			}
			config.RootDirectory = current
			return config, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return config, nil
}

// DefaultConfigValue returns the compiled-in defaults.
func DefaultConfigValue() *Config {
	var file ConfigFile
	if err := toml.Unmarshal([]byte(DefaultConfig), &file); err != nil {
		// The embedded default must stay parseable
		panic(err)
	}
	return &Config{ConfigFile: file}
}

// SupportExtension tests if a file matches one of the supported extensions.
func (c *Config) SupportExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, supported := range c.ConfigFile.Core.Extensions {
		if ext == "."+supported {
			return true
		}
	}
	return false
}

// SetVerboseLevel overrides the default verbose level
func (c *Config) SetVerboseLevel(level VerboseLevel) *Config {
	CurrentLogger().SetVerboseLevel(level)
	return c
}
