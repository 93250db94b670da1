// Package config provides configuration management for the Fastbreak application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// ${VAR} placeholders resolve against the process environment
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing config file is not an error; defaults and environment
// variables carry the run.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FASTBREAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fastbreak")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("model.k_factor", 20.0)
	v.SetDefault("model.home_advantage_points", 4.0)
	v.SetDefault("model.initial_rating", 1500.0)
	v.SetDefault("model.mean_reversion", 0.25)
	v.SetDefault("model.form_weight", 1.0)

	v.SetDefault("screening.min_edge_threshold", 0.02)
	v.SetDefault("screening.critical_edge", 0.15)
	v.SetDefault("screening.high_edge", 0.10)
	v.SetDefault("screening.moderate_edge", 0.05)
	v.SetDefault("screening.high_discount", 0.3)
	v.SetDefault("screening.moderate_discount", 0.5)
	v.SetDefault("screening.vig_method", "proportional")

	v.SetDefault("staking.kelly_fraction", 0.25)
	v.SetDefault("staking.max_bet_pct", 0.05)
	v.SetDefault("staking.max_event_exposure_pct", 0.10)
	v.SetDefault("staking.max_bets_per_day", 10)
	v.SetDefault("staking.min_stake", 1.0)

	v.SetDefault("backtest.initial_bankroll", 10000.0)
	v.SetDefault("backtest.monte_carlo_trials", 10000)
	v.SetDefault("backtest.output_path", "output/backtest")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.schedule", "0 4 * * *")
}

// ReloadFromEnv replaces the configuration from the path named by
// FASTBREAK_CONFIG_PATH, when set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv("FASTBREAK_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}
