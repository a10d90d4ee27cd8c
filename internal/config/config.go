// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Loadmaster's configuration from (in order of
// precedence) command-line flags, environment variables, and a YAML config
// file. A local .env file is folded into the environment first so the
// database DSN can live next to the data like the rest of the pipeline
// expects.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		DSN  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Load struct {
		BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	} `mapstructure:"load" yaml:"load"`
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// Defaults returns the default configuration values keyed for viper.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":   "mysql",
		"database.dsn":    "",
		"load.batch_size": 500,
		"debug":           false,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Loadmaster")
		default: // Linux, macOS, etc.
			configDir = "/etc/loadmaster"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "loadmaster")
	}

	return filepath.Join(configDir, "loadmaster.yaml"), nil
}

// Path returns the config file location for the user or system scope.
func Path(system bool) (string, error) {
	return getConfigPath(system)
}

// Load resolves the configuration for a command invocation. configFile, when
// non-empty, pins the config file explicitly and takes precedence over the
// standard search locations.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	// A .env next to the working directory feeds the environment; missing
	// files are fine.
	_ = godotenv.Load()

	v.SetConfigName("loadmaster")
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("loadmaster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// WriteConfigFile writes the configuration as YAML to the user or system
// config location, creating the directory when needed.
func WriteConfigFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
