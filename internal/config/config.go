// Package config provides configuration management for the Fastbreak application.
package config

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	StatsAPI  StatsAPIConfig  `mapstructure:"stats_api"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Screening ScreeningConfig `mapstructure:"screening" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration.
// The database is optional; runs without a DSN keep the ledger in memory.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// StatsAPIConfig represents the upstream stats provider configuration
type StatsAPIConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey            string `mapstructure:"api_key"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryAttempts     int    `mapstructure:"retry_attempts" validate:"omitempty,gte=0"`
	RequestsPerSecond int    `mapstructure:"requests_per_second" validate:"omitempty,gt=0"`
	CacheTTLSeconds   int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
}

// ModelConfig represents rating model parameters
type ModelConfig struct {
	KFactor             float64 `mapstructure:"k_factor" validate:"required,gt=0"`
	HomeAdvantagePoints float64 `mapstructure:"home_advantage_points" validate:"gte=0"`
	InitialRating       float64 `mapstructure:"initial_rating" validate:"required,gt=0"`
	MeanReversion       float64 `mapstructure:"mean_reversion" validate:"gte=0,lte=1"`
	Enhanced            bool    `mapstructure:"enhanced"`
	FormWeight          float64 `mapstructure:"form_weight" validate:"gte=0,lte=2"`
}

// ScreeningConfig represents opportunity screening thresholds
type ScreeningConfig struct {
	MinEdgeThreshold float64 `mapstructure:"min_edge_threshold" validate:"gte=0,lte=1"`
	MinEVThreshold   float64 `mapstructure:"min_ev_threshold" validate:"gte=0"`
	CriticalEdge     float64 `mapstructure:"critical_edge" validate:"required,gt=0,lte=1"`
	HighEdge         float64 `mapstructure:"high_edge" validate:"required,gt=0,lte=1"`
	ModerateEdge     float64 `mapstructure:"moderate_edge" validate:"required,gt=0,lte=1"`
	HighDiscount     float64 `mapstructure:"high_discount" validate:"gte=0,lte=1"`
	ModerateDiscount float64 `mapstructure:"moderate_discount" validate:"gte=0,lte=1"`
	VigMethod        string  `mapstructure:"vig_method" validate:"omitempty,vigmethod"`
}

// StakingConfig represents stake sizing and exposure limits
type StakingConfig struct {
	KellyFraction       float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxBetPct           float64 `mapstructure:"max_bet_pct" validate:"required,gt=0,lte=1"`
	MaxEventExposurePct float64 `mapstructure:"max_event_exposure_pct" validate:"gte=0,lte=1"`
	MaxBetsPerDay       int     `mapstructure:"max_bets_per_day" validate:"gte=0"`
	MinStake            float64 `mapstructure:"min_stake" validate:"gte=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate        string  `mapstructure:"start_date" validate:"required,dateonly"`
	EndDate          string  `mapstructure:"end_date" validate:"required,dateonly"`
	InitialBankroll  float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	MonteCarloTrials int     `mapstructure:"monte_carlo_trials" validate:"omitempty,gt=0"`
	MonteCarloSeed   int64   `mapstructure:"monte_carlo_seed"`
	GamesFile        string  `mapstructure:"games_file"`
	OutputPath       string  `mapstructure:"output_path" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SchedulerConfig represents the nightly autorun schedule
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SecretsConfig represents the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
