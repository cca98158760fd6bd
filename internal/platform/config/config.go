package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const stateDirName = ".mindflow"

type Config struct {
	DataDir    string `yaml:"-"`
	StateDir   string `yaml:"-"`
	DBPath     string `yaml:"-"`
	LogPath    string `yaml:"-"`
	ConfigPath string `yaml:"-"`

	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Generator GeneratorConfig `yaml:"generator"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type GeneratorConfig struct {
	Backend        string `yaml:"backend"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Plugin         string `yaml:"plugin"`
	ManifestPath   string `yaml:"manifest_path"`
}

// Load builds the configuration for a data directory. Values come from
// defaults, then <data>/.mindflow/config.yaml, then <data>/.env and the process
// environment.
func Load(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	stateDir := filepath.Join(dataDir, stateDirName)
	cfg := Config{
		DataDir:    dataDir,
		StateDir:   stateDir,
		DBPath:     filepath.Join(stateDir, "mindflow.db"),
		LogPath:    filepath.Join(stateDir, "mindflow.log"),
		ConfigPath: filepath.Join(stateDir, "config.yaml"),
		Log:        LogConfig{Mode: "dev"},
		Store:      StoreConfig{Backend: "sqlite", RedisPrefix: "mindflow:"},
		Generator: GeneratorConfig{
			Backend:        "gemini",
			Model:          "gemini-2.5-flash",
			BaseURL:        "https://generativelanguage.googleapis.com",
			TimeoutSeconds: 180,
			ManifestPath:   filepath.Join(stateDir, "plugins.json"),
		},
	}

	raw, err := os.ReadFile(cfg.ConfigPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", cfg.ConfigPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	env, err := godotenv.Read(filepath.Join(dataDir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(env[key])
	}
	cfg.applyEnv(lookup)

	if cfg.Generator.ManifestPath != "" && !filepath.IsAbs(cfg.Generator.ManifestPath) {
		cfg.Generator.ManifestPath = filepath.Join(dataDir, cfg.Generator.ManifestPath)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) string) {
	if v := lookup("MINDFLOW_LOG"); v != "" {
		c.Log.Mode = v
	}
	if v := lookup("MINDFLOW_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := lookup("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := lookup("MINDFLOW_GENERATOR"); v != "" {
		c.Generator.Backend = v
	}
	if v := lookup("GEMINI_API_KEY"); v != "" {
		c.Generator.APIKey = v
	} else if v := lookup("API_KEY"); v != "" && c.Generator.APIKey == "" {
		c.Generator.APIKey = v
	}
	if v := lookup("GEMINI_MODEL"); v != "" {
		c.Generator.Model = v
	}
	if v := lookup("GEMINI_BASE_URL"); v != "" {
		c.Generator.BaseURL = v
	}
	if v := lookup("MINDFLOW_GENERATOR_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Generator.TimeoutSeconds = parsed
		}
	}
	if v := lookup("MINDFLOW_PLUGIN"); v != "" {
		c.Generator.Plugin = v
	}
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case "sqlite", "file":
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store backend redis requires redis_addr or REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	switch c.Generator.Backend {
	case "gemini", "offline":
	case "plugin":
		if c.Generator.Plugin == "" {
			return fmt.Errorf("generator backend plugin requires a plugin name")
		}
	default:
		return fmt.Errorf("unknown generator backend: %s", c.Generator.Backend)
	}
	return nil
}
