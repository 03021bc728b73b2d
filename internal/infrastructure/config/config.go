package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/sync"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Sync     SyncConfig
	Params   ParamsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// BranchID identifies the branch this installation serves
	BranchID string
	// StationID identifies the point-of-sale terminal
	StationID string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres (default) or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	Path            string // sqlite database file
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// SyncConfig holds branch synchronization configuration
type SyncConfig struct {
	// Side is SHOP or OFFICE
	Side string
	// PeerURL is the HTTP endpoint of the other end of the link
	PeerURL string
	// Interval is the pause between synchronization cycles
	Interval time.Duration
	// ApplyAttempts bounds delivery retries before a batch is quarantined
	ApplyAttempts int
	// RetryInterval seeds the backoff between delivery attempts
	RetryInterval time.Duration
	// Policies overrides the replication policy of individual tables,
	// keyed by table name
	Policies map[string]string
}

// ParamsConfig holds the installation parameters consulted by the domain
type ParamsConfig struct {
	CurrencyPrecision             int32
	DailyPenaltyPct               float64
	AllowHigherSalePrice          bool
	CreatePaymentsOnStockDecrease bool
	SyncBatchSize                 int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with RETAIL_ prefix (e.g., RETAIL_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:      v.GetString("app.name"),
			Env:       v.GetString("app.env"),
			Port:      v.GetString("app.port"),
			BranchID:  v.GetString("app.branch_id"),
			StationID: v.GetString("app.station_id"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			Path:            v.GetString("database.path"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Sync: SyncConfig{
			Side:          v.GetString("sync.side"),
			PeerURL:       v.GetString("sync.peer_url"),
			Interval:      v.GetDuration("sync.interval"),
			ApplyAttempts: v.GetInt("sync.apply_attempts"),
			RetryInterval: v.GetDuration("sync.retry_interval"),
			Policies:      v.GetStringMapString("sync.synchronization_policies"),
		},
		Params: ParamsConfig{
			CurrencyPrecision:             v.GetInt32("params.currency_precision"),
			DailyPenaltyPct:               v.GetFloat64("params.daily_penalty_pct"),
			AllowHigherSalePrice:          v.GetBool("params.allow_higher_sale_price"),
			CreatePaymentsOnStockDecrease: v.GetBool("params.create_payments_on_stock_decrease"),
			SyncBatchSize:                 v.GetInt("params.sync_batch_size"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "retailcore-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "retailcore.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "retailcore"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Sync.Side == "" {
		cfg.Sync.Side = string(sync.SideShop)
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = time.Minute
	}
	if cfg.Sync.ApplyAttempts == 0 {
		cfg.Sync.ApplyAttempts = 3
	}
	if cfg.Sync.RetryInterval == 0 {
		cfg.Sync.RetryInterval = time.Second
	}
	defaults := shared.DefaultParameters()
	if cfg.Params.CurrencyPrecision == 0 {
		cfg.Params.CurrencyPrecision = defaults.CurrencyPrecision
	}
	if cfg.Params.SyncBatchSize == 0 {
		cfg.Params.SyncBatchSize = defaults.SyncBatchSize
	}
}

func (c *Config) validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	side := sync.Side(c.Sync.Side)
	if side != sync.SideShop && side != sync.SideOffice {
		return fmt.Errorf("sync.side must be %s or %s, got %q", sync.SideShop, sync.SideOffice, c.Sync.Side)
	}
	for table, policy := range c.Sync.Policies {
		if !sync.Policy(strings.ToUpper(policy)).IsValid() {
			return fmt.Errorf("sync.synchronization_policies: unknown policy %q for table %s", policy, table)
		}
	}
	if c.Params.CurrencyPrecision < 0 || c.Params.CurrencyPrecision > 6 {
		return fmt.Errorf("params.currency_precision must be between 0 and 6, got %d", c.Params.CurrencyPrecision)
	}
	if c.Params.DailyPenaltyPct < 0 {
		return fmt.Errorf("params.daily_penalty_pct cannot be negative")
	}
	if c.Params.SyncBatchSize < 1 {
		return fmt.Errorf("params.sync_batch_size must be positive, got %d", c.Params.SyncBatchSize)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Parameters converts the configured values into the domain parameter set
func (c *ParamsConfig) Parameters() shared.Parameters {
	return shared.Parameters{
		CurrencyPrecision:             c.CurrencyPrecision,
		DailyPenaltyPct:               decimal.NewFromFloat(c.DailyPenaltyPct),
		AllowHigherSalePrice:          c.AllowHigherSalePrice,
		CreatePaymentsOnStockDecrease: c.CreatePaymentsOnStockDecrease,
		SyncBatchSize:                 c.SyncBatchSize,
	}
}

// SyncSide returns the configured replication side
func (c *SyncConfig) SyncSide() sync.Side {
	return sync.Side(c.Side)
}
