package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
app:
  name: fastbreak
  environment: development
  log_level: info
model:
  k_factor: 20
  home_advantage_points: 4
  initial_rating: 1500
  mean_reversion: 0.25
screening:
  min_edge_threshold: 0.02
  critical_edge: 0.15
  high_edge: 0.10
  moderate_edge: 0.05
  high_discount: 0.3
  moderate_discount: 0.5
  vig_method: proportional
staking:
  kelly_fraction: 0.25
  max_bet_pct: 0.05
  max_event_exposure_pct: 0.10
  max_bets_per_day: 10
  min_stake: 1
backtest:
  start_date: "2023-10-24"
  end_date: "2024-04-14"
  initial_bankroll: 10000
  output_path: output/backtest
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "fastbreak", cfg.App.Name)
	assert.Equal(t, 20.0, cfg.Model.KFactor)
	assert.Equal(t, 0.25, cfg.Staking.KellyFraction)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialBankroll)
	require.NoError(t, Validate(cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("FASTBREAK_TEST_DB_PASSWORD", "hunter2")

	yaml := validYAML + `
database:
  enabled: true
  host: localhost
  port: 5432
  name: fastbreak
  user: app
  password: ${FASTBREAK_TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 5
`
	cfg, err := Load(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "fastbreak", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.25, cfg.Staking.KellyFraction)
	assert.Equal(t, 0.05, cfg.Staking.MaxBetPct)
	assert.Equal(t, 0.15, cfg.Screening.CriticalEdge)
	assert.Equal(t, 10000, cfg.Backtest.MonteCarloTrials)
}

func TestValidate_RejectsBadEnvironment(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.App.Environment = "qa"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsBadVigMethod(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Screening.VigMethod = "median"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsInvertedDateRange(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Backtest.StartDate = "2024-04-14"
	cfg.Backtest.EndDate = "2023-10-24"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsNonNestedTiers(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Screening.ModerateEdge = 0.12
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsBetCapAboveEventCap(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Staking.MaxBetPct = 0.20
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsKellyFractionAboveOne(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Staking.KellyFraction = 1.5
	assert.Error(t, Validate(cfg))
}

func TestValidate_ProductionRequiresSSL(t *testing.T) {
	yaml := validYAML + `
database:
  enabled: true
  host: db.internal
  port: 5432
  name: fastbreak
  user: app
  password: secret
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 5
`
	cfg, err := Load(writeConfig(t, yaml))
	require.NoError(t, err)

	cfg.App.Environment = "production"
	assert.Error(t, Validate(cfg))

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}
