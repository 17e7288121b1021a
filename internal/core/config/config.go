package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version  int            `toml:"version"`
	Projects []ProjectEntry `toml:"projects"`
	Exclude  Exclude        `toml:"exclude"`
	Watch    Watch          `toml:"watch"`
	Analysis Analysis       `toml:"analysis"`
	Output   Output         `toml:"output"`
	DB       Database       `toml:"db"`
	Metrics  Metrics        `toml:"metrics"`
	Tracing  Tracing        `toml:"tracing"`
}

type ProjectEntry struct {
	Name     string `toml:"name"`
	Root     string `toml:"root"`
	Manifest string `toml:"manifest"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescanPerSecond caps watch-triggered rescans; bursts beyond RescanBurst
	// are coalesced into the next allowed pass.
	RescanPerSecond float64 `toml:"rescan_per_second"`
	RescanBurst     int     `toml:"rescan_burst"`
}

type Analysis struct {
	// SharedRanges merges every project's configured ranges before the gap
	// computation, for suites that deploy into one identifier space.
	SharedRanges bool `toml:"shared_ranges"`
}

type Output struct {
	Markdown string `toml:"markdown"`
	TSV      string `toml:"tsv"`
	SARIF    string `toml:"sarif"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateProjects(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", ".vscode", ".alpackages", ".snapshots", "node_modules"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescanPerSecond <= 0 {
		cfg.Watch.RescanPerSecond = 2
	}
	if cfg.Watch.RescanBurst <= 0 {
		cfg.Watch.RescanBurst = 1
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "ranger.db"
	}

	for i := range cfg.Projects {
		entry := &cfg.Projects[i]
		if strings.TrimSpace(entry.Manifest) == "" && strings.TrimSpace(entry.Root) != "" {
			entry.Manifest = filepath.Join(entry.Root, "app.json")
		}
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 is supported", cfg.Version)
	}
	return nil
}

func validateProjects(cfg *Config) error {
	if len(cfg.Projects) == 0 {
		return fmt.Errorf("at least one [[projects]] entry is required")
	}

	seenNames := make(map[string]bool, len(cfg.Projects))
	for i, entry := range cfg.Projects {
		ref := fmt.Sprintf("projects[%d]", i)
		name := strings.TrimSpace(entry.Name)
		root := strings.TrimSpace(entry.Root)
		if name == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if root == "" {
			return fmt.Errorf("%s.root must not be empty", ref)
		}
		if seenNames[name] {
			return fmt.Errorf("duplicate project name %q", name)
		}
		seenNames[name] = true
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty when db.enabled=true")
	}
	return nil
}
