package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendList     = "list"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Store    StoreConfig    `mapstructure:"store"`
	List     ListConfig     `mapstructure:"list"`
	KPI      KPIConfig      `mapstructure:"kpi"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	LockRetries int           `mapstructure:"lock_retries"`
	LockBackoff time.Duration `mapstructure:"lock_backoff"`
}

// StoreConfig selects where daily records are read from and summaries are
// written to.
type StoreConfig struct {
	Backend         string `mapstructure:"backend"`
	SummaryListName string `mapstructure:"summary_list_name"`
	DailyListName   string `mapstructure:"daily_list_name"`
}

type ListConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

type KPIConfig struct {
	UseWorkingDays bool `mapstructure:"use_working_days"`
	RowsPerDay     int  `mapstructure:"rows_per_day"`
	OnlyChanged    bool `mapstructure:"only_changed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration with precedence env > file > defaults. A .env
// file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "30s")
	v.SetDefault("redis.lock_retries", 10)
	v.SetDefault("redis.lock_backoff", "100ms")

	v.SetDefault("store.backend", BackendPostgres)
	v.SetDefault("store.summary_list_name", "MonthlySummaries")
	v.SetDefault("store.daily_list_name", "DailyRecords")

	v.SetDefault("list.base_url", "")
	v.SetDefault("list.token", "")
	v.SetDefault("list.timeout", "30s")
	v.SetDefault("list.page_size", 5000)

	v.SetDefault("kpi.use_working_days", true)
	v.SetDefault("kpi.rows_per_day", 19)
	v.SetDefault("kpi.only_changed", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("KPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.KPI.RowsPerDay <= 0 {
		return fmt.Errorf("config: kpi.rows_per_day must be positive")
	}
	if c.Store.SummaryListName == "" {
		return fmt.Errorf("config: store.summary_list_name is required")
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("config: db.dsn is required for the %s backend", BackendPostgres)
		}
	case BackendList:
		if c.List.BaseURL == "" {
			return fmt.Errorf("config: list.base_url is required for the %s backend", BackendList)
		}
		if c.Store.DailyListName == "" {
			return fmt.Errorf("config: store.daily_list_name is required for the %s backend", BackendList)
		}
	default:
		return fmt.Errorf("config: unknown store.backend %q", c.Store.Backend)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	return nil
}
