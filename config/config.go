package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config for the whole application
type Config struct {
	App         AppConfig
	API         APIConfig
	Kafka       KafkaConfig
	MonteCarlo  MonteCarloConfig
	Sensitivity SensitivityConfig
	Forecasts   ForecastConfig
}

// General application configuration
type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
}

// Configuration for the API server
type APIConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Configuration for result publishing
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	StrategyTopic   string
	RiskMetricTopic string
	BatchTimeout    time.Duration
}

// Configuration for the Monte Carlo engine
type MonteCarloConfig struct {
	Simulations int
	Workers     int
	Seed        int64
}

// Configuration for sensitivity diagnostics
type SensitivityConfig struct {
	Shock         float64
	Perturbations int
}

// Configuration for the forecast input file
type ForecastConfig struct {
	Path string
}

// Load reads the configuration from file and environment variables.
// A missing config file is fine; defaults cover every key.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("LNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "cargo-engine")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.log_level", "info")

	// API defaults
	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.read_timeout", "10s")
	viper.SetDefault("api.write_timeout", "30s")
	viper.SetDefault("api.shutdown_timeout", "30s")

	// Kafka defaults
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.strategy_topic", "cargo.strategies")
	viper.SetDefault("kafka.risk_metric_topic", "cargo.risk.metrics")
	viper.SetDefault("kafka.batch_timeout", "100ms")

	// Monte Carlo defaults
	viper.SetDefault("montecarlo.simulations", 5000)
	viper.SetDefault("montecarlo.workers", 4)
	viper.SetDefault("montecarlo.seed", 0)

	// Sensitivity defaults
	viper.SetDefault("sensitivity.shock", 0.20)
	viper.SetDefault("sensitivity.perturbations", 50)

	// Forecast input defaults
	viper.SetDefault("forecasts.path", "./config/forecasts.json")
}
