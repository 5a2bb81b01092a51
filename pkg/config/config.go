package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nikogura/portfolio/pkg/locale"
	"github.com/nikogura/portfolio/pkg/preference"
	"github.com/pkg/errors"
)

// Environment variables that override the config file.
const (
	EnvDataLocation    = "PORTFOLIO_DATA_LOCATION"
	EnvDefaultLanguage = "PORTFOLIO_DEFAULT_LANGUAGE"
	EnvAddr            = "PORTFOLIO_ADDR"
	EnvRedisPassword   = "PORTFOLIO_REDIS_PASSWORD"
	EnvEnvironment     = "PORTFOLIO_ENV"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Config represents the application configuration.
type Config struct {
	Name            string           `json:"name" validate:"required"`
	DataLocation    string           `json:"data_location" validate:"required"`
	DefaultLanguage string           `json:"default_language,omitempty"`
	Languages       []string         `json:"languages,omitempty" validate:"dive,required"`
	AssetsDir       string           `json:"assets_dir,omitempty"`
	Stylesheets     []string         `json:"stylesheets,omitempty"`
	LayoutPath      string           `json:"layout_path,omitempty"`
	Environment     string           `json:"environment,omitempty"`
	Preference      PreferenceConfig `json:"preference"`
	Server          ServerConfig     `json:"server"`
	Defaults        DefaultConfig    `json:"defaults"`
}

// PreferenceConfig selects where the language preference is kept.
type PreferenceConfig struct {
	Backend string      `json:"backend,omitempty" validate:"omitempty,oneof=file redis sqlite memory"`
	Path    string      `json:"path,omitempty"`
	Key     string      `json:"key,omitempty"`
	Redis   RedisConfig `json:"redis,omitempty"`
}

// RedisConfig holds connection details for the redis preference backend.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" validate:"required_if=Enabled true"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty" validate:"gte=0,lte=15"`
	Enabled  bool   `json:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr  string `json:"addr,omitempty"`
	Watch bool   `json:"watch,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// DefaultPath returns ~/.portfolio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".portfolio", "config.json")
	return path, err
}

// Load reads configuration from file with .env and environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'portfolio init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataLocation); v != "" {
		c.DataLocation = v
	}
	if v := os.Getenv(EnvDefaultLanguage); v != "" {
		c.DefaultLanguage = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Preference.Redis.Password = v
	}
	if v := os.Getenv(EnvEnvironment); v != "" {
		c.Environment = v
	}
}

// Validate checks required configuration and fills in defaults.
func (c *Config) Validate() (err error) {
	c.Preference.Redis.Enabled = c.Preference.Backend == preference.BackendRedis

	err = validator.New().Struct(c)
	if err != nil {
		err = errors.Wrap(err, "invalid configuration")
		return err
	}

	if !IsURL(c.DataLocation) {
		_, err = os.Stat(c.DataLocation)
		if os.IsNotExist(err) {
			err = errors.Errorf("data location not found: %s", c.DataLocation)
			return err
		}
		err = nil
	}

	if c.AssetsDir != "" {
		_, err = os.Stat(c.AssetsDir)
		if os.IsNotExist(err) {
			err = errors.Errorf("assets directory not found: %s", c.AssetsDir)
			return err
		}
		err = nil
	}

	if c.DefaultLanguage == "" {
		c.DefaultLanguage = locale.DefaultLanguage
	}

	if len(c.Languages) == 0 {
		c.Languages = []string{c.DefaultLanguage}
	}

	if c.Preference.Backend == "" {
		c.Preference.Backend = preference.BackendFile
	}

	if c.Preference.Key == "" {
		c.Preference.Key = preference.DefaultKey
	}

	if c.Preference.Path == "" && (c.Preference.Backend == preference.BackendFile || c.Preference.Backend == preference.BackendSQLite) {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		name := "preferences.json"
		if c.Preference.Backend == preference.BackendSQLite {
			name = "preferences.db"
		}
		c.Preference.Path = filepath.Join(homeDir, ".portfolio", name)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./public"
	}

	return err
}

// PreferenceOptions converts the preference section for preference.Open.
func (c *Config) PreferenceOptions() (opts preference.Options) {
	opts = preference.Options{
		Backend:       c.Preference.Backend,
		Key:           c.Preference.Key,
		Path:          c.Preference.Path,
		RedisAddr:     c.Preference.Redis.Addr,
		RedisPassword: c.Preference.Redis.Password,
		RedisDB:       c.Preference.Redis.DB,
	}
	return opts
}

// IsURL reports whether location is an http(s) base URL rather than a directory.
func IsURL(location string) (ok bool) {
	ok = strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
	return ok
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		Name:            "your-name",
		DataLocation:    filepath.Join(dir, "data"),
		DefaultLanguage: locale.DefaultLanguage,
		Languages:       []string{"en", "pt", "es"},
		Preference: PreferenceConfig{
			Backend: preference.BackendFile,
			Path:    filepath.Join(dir, "preferences.json"),
			Key:     preference.DefaultKey,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Defaults: DefaultConfig{
			OutputDir: "./public",
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
