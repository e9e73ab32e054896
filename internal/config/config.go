package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// EnvConfigPath names the environment variable that can point at a config file.
const EnvConfigPath = "TEXTMETRICS_CONFIG"

type Config struct {
	Input   Input   `yaml:"input"`
	Output  Output  `yaml:"output"`
	Fetch   Fetch   `yaml:"fetch"`
	Lexicon Lexicon `yaml:"lexicon"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

type Input struct {
	Path string `yaml:"path"`
}

type Output struct {
	Path    string `yaml:"path"`
	TextDir string `yaml:"text_dir"`
	DataDir string `yaml:"data_dir"`
}

type Fetch struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Extractor string        `yaml:"extractor"`
}

type Lexicon struct {
	StopWords        []string `yaml:"stop_words"`
	Positive         string   `yaml:"positive"`
	Negative         string   `yaml:"negative"`
	BuiltinStopWords string   `yaml:"builtin_stopwords"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for textmetrics.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "textmetrics")
}

// DataDir returns the XDG data directory for textmetrics.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "textmetrics")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > $TEXTMETRICS_CONFIG > ~/.config/textmetrics/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfigPath)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'textmetrics init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Input: Input{Path: "Input.xlsx"},
		Output: Output{
			Path:    "Output.xlsx",
			TextDir: "extracted_texts",
		},
		Fetch: Fetch{
			Timeout:   30 * time.Second,
			UserAgent: "textmetrics/1.0",
			Extractor: "text",
		},
		Lexicon: Lexicon{
			Positive: "MasterDictionary/positive-words.txt",
			Negative: "MasterDictionary/negative-words.txt",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Fetch.Extractor {
	case "text", "readability":
	default:
		return nil, fmt.Errorf("unknown fetch.extractor %q (want text or readability)", cfg.Fetch.Extractor)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
