package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	OTLP   OTLPConfig
	Log    LogConfig
	Store  StoreConfig
}

type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	Host            string        `validate:"required"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	// DurationMsMetric adds the millisecond request duration histogram
	DurationMsMetric bool
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string `validate:"required_if=Enabled true"`
	ServiceName string `validate:"required"`
	Environment string `validate:"required"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type StoreConfig struct {
	SeedDemoData bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:             v.GetString("SERVER_HOST"),
			Port:             v.GetString("SERVER_PORT"),
			ReadTimeout:      v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:     v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout:  v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			DurationMsMetric: v.GetBool("HTTP_DURATION_MS_METRIC"),
		},
		OTLP: OTLPConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Store: StoreConfig{
			SeedDemoData: v.GetBool("STORE_SEED_DEMO_DATA"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("HTTP_DURATION_MS_METRIC", false)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_NAME", "products-api")
	v.SetDefault("OTEL_ENVIRONMENT", "development")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORE_SEED_DEMO_DATA", true)
}
