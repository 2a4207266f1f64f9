package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	PinLimits PinLimitsConfig `yaml:"pin_limits"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Port    int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type MetricsConfig struct {
	Port int `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN" env-required:"true"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr" env:"REDIS_ADDR"`
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"membership_events"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"8h"`
}

type PinLimitsConfig struct {
	MaxAttempts     int           `yaml:"max_attempts" env-default:"5"`
	AttemptWindow   time.Duration `yaml:"attempt_window" env-default:"5m"`
	LockoutDuration time.Duration `yaml:"lockout_duration" env-default:"15m"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env-default:"30m"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env-default:"20"`
	Burst int     `yaml:"burst" env-default:"40"`
}

// MustLoad reads the config file named by CONFIG_PATH and panics on any
// problem; the service cannot run half-configured.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		panic("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exist: " + path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
