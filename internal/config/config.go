// Package config loads server settings from the environment or a YAML
// file and validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		DB      DB      `yaml:"db"      env-prefix:"DB_"`
		HTTP    HTTP    `yaml:"http"    env-prefix:"HTTP_"`
		Metrics Metrics `yaml:"metrics" env-prefix:"METRICS_"`
		Log     Log     `yaml:"log"     env-prefix:"LOG_"`
		Kafka   Kafka   `yaml:"kafka"   env-prefix:"KAFKA_"`
	}

	DB struct {
		Path string `yaml:"path" env:"PATH" env-default:"oglasnik.db" validate:"required"`
	}

	HTTP struct {
		Addr              string        `yaml:"addr"                env:"ADDR"                env-default:":8080" validate:"required"`
		ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        env-default:"10s"   validate:"gte=10ms,lte=5m"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" env-default:"5s"    validate:"gte=10ms,lte=1m"`
		WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       env-default:"30s"   validate:"gte=10ms,lte=5m"`
		IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"IDLE_TIMEOUT"        env-default:"60s"   validate:"gte=10ms,lte=10m"`
		ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SHUTDOWN_TIMEOUT"    env-default:"10s"   validate:"gte=10ms,lte=1m"`
	}

	// Metrics is served on its own listener; an empty Addr disables it.
	Metrics struct {
		Addr string `yaml:"addr" env:"ADDR"`
	}

	// Log configures the optional rotating log file. An empty Path logs to
	// stdout and stderr only.
	Log struct {
		Path       string `yaml:"path"        env:"PATH"`
		MaxSize    int    `yaml:"max_size"    env:"MAX_SIZE"    env-default:"100" validate:"min=1,max=1000"`
		MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS" env-default:"3"   validate:"min=0,max=50"`
		MaxAge     int    `yaml:"max_age"     env:"MAX_AGE"     env-default:"28"  validate:"min=1,max=365"`
	}

	// Kafka enables lifecycle event publishing when Brokers is set.
	Kafka struct {
		Brokers      []string      `yaml:"brokers"       env:"BROKERS"       env-separator:","                  validate:"dive,hostname_port"`
		Topic        string        `yaml:"topic"         env:"TOPIC"         env-default:"listing-events"       validate:"required_with=Brokers"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"5s"                   validate:"gte=100ms,lte=1m"`
	}
)

// Load reads the file at path when it is not empty and the environment
// otherwise. Environment variables override values from the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("checking config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint and reports all violations at
// once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v must satisfy '%s'", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Usage describes every environment variable the config understands.
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}
