package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/vcfind/internal/helpers"
	"github.com/quantmind-br/vcfind/internal/paths"
	"github.com/quantmind-br/vcfind/internal/security"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	ProgramFilesX86 string `mapstructure:"program_files_x86"`
	VSWhere         string `mapstructure:"vswhere"`
	DataDir         string `mapstructure:"data_dir"`
	DBFile          string `mapstructure:"db_file"`
	LogFile         string `mapstructure:"log_file"`
}

// HistoryConfig controls the discovery run history
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Resolver builds the path resolver described by the configuration
func (c *Config) Resolver() *paths.Resolver {
	return paths.NewResolver(c.Paths.ProgramFilesX86, c.Paths.VSWhere)
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Add config paths
	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "vcfind"))
	}
	v.AddConfigPath(".")

	return load(v, helpers.OSEnvironment{})
}

// LoadFile loads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, helpers.OSEnvironment{})
}

func load(v *viper.Viper, env helpers.Environment) (*Config, error) {
	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("toml")

	// Set defaults
	setDefaults(v, env)

	// Environment variable overrides
	v.SetEnvPrefix("VCFIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Paths.ProgramFilesX86 = expandPath(cfg.Paths.ProgramFilesX86)
	cfg.Paths.VSWhere = expandPath(cfg.Paths.VSWhere)
	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	for key, path := range map[string]string{
		"paths.program_files_x86": cfg.Paths.ProgramFilesX86,
		"paths.vswhere":           cfg.Paths.VSWhere,
		"paths.data_dir":          cfg.Paths.DataDir,
		"paths.db_file":           cfg.Paths.DBFile,
		"paths.log_file":          cfg.Paths.LogFile,
	} {
		if err := security.ValidateConfigPath(key, path); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper, env helpers.Environment) {
	dataDir := defaultDataDir(env)

	v.SetDefault("paths.program_files_x86", paths.DetectProgramFilesX86(env))
	v.SetDefault("paths.vswhere", "")
	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.db_file", filepath.Join(dataDir, "history.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "vcfind.log"))

	v.SetDefault("history.enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")
}

// defaultDataDir prefers %LOCALAPPDATA%, then ~/.local/share
func defaultDataDir(env helpers.Environment) string {
	if local, ok := env.LookupEnv("LOCALAPPDATA"); ok && local != "" {
		return filepath.Join(local, "vcfind")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir, _ = env.LookupEnv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".local", "share", "vcfind")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}
