package config

import (
	"errors"
	"strings"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `mapstructure:"app_env"`
	Port   string `mapstructure:"port"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBPort     string `mapstructure:"db_port"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	DBPath     string `mapstructure:"db_path"`
	DBRetries  int    `mapstructure:"db_retries"`

	RedisAddr string        `mapstructure:"redis_addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	KafkaBroker        string        `mapstructure:"kafka_broker"`
	KafkaGroupID       string        `mapstructure:"kafka_group_id"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	OutboxBatchSize    int           `mapstructure:"outbox_batch_size"`

	JWTSecret      string  `mapstructure:"jwt_secret"`
	CORSOrigins    string  `mapstructure:"cors_origins"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	SeedFile string `mapstructure:"seed_file"`
}

var defaults = map[string]any{
	"app_env":              "development",
	"port":                 "3000",
	"read_timeout":         5 * time.Second,
	"write_timeout":        10 * time.Second,
	"idle_timeout":         60 * time.Second,
	"db_driver":            "postgres",
	"db_host":              "localhost",
	"db_user":              "postgres",
	"db_password":          "",
	"db_name":              "leave",
	"db_port":              "5432",
	"db_sslmode":           "disable",
	"db_path":              "leave.db",
	"db_retries":           5,
	"redis_addr":           "localhost:6379",
	"cache_ttl":            5 * time.Minute,
	"kafka_broker":         "localhost:9092",
	"kafka_group_id":       "leave-consumer",
	"outbox_poll_interval": 2 * time.Second,
	"outbox_batch_size":    50,
	"jwt_secret":           "",
	"cors_origins":         "*",
	"rate_limit_rps":       10.0,
	"rate_limit_burst":     20,
	"seed_file":            "seed/leave.yaml",
}

// Load reads .env (if present), then the optional file named by CONFIG_FILE,
// then the environment. Environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return errors.New("config: DB_DRIVER must be postgres or sqlite")
	}
	if c.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NewLogger returns a JSON production logger or a console development logger.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func (c *Config) DB() connection.DBConfig {
	return connection.DBConfig{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		Port:     c.DBPort,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
