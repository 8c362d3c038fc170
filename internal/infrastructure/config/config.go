package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "portaria/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Credential sharedConfig.CredentialConfig `mapstructure:"credential"`
	Admission  sharedConfig.AdmissionConfig  `mapstructure:"admission"`
	Sweep      sharedConfig.SweepConfig      `mapstructure:"sweep"`
	Enrollment sharedConfig.EnrollmentConfig `mapstructure:"enrollment"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PORTARIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "portaria_dev")
	viper.SetDefault("database.path", "portaria.db")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Credential issuance policy defaults
	viper.SetDefault("credential.max_window_hours", 48)
	viper.SetDefault("credential.min_entries", 1)
	viper.SetDefault("credential.max_entries", 50)
	viper.SetDefault("credential.code_length", 6)
	viper.SetDefault("credential.code_retry_limit", 10)

	// Admission defaults
	viper.SetDefault("admission.timeout_seconds", 2)
	viper.SetDefault("admission.rate_limit_per_min", 120)

	// Expiration sweep defaults
	viper.SetDefault("sweep.interval_seconds", 60)
	viper.SetDefault("sweep.batch_size", 100)

	// Biometric enrollment collaborator defaults
	viper.SetDefault("enrollment.base_url", "http://localhost:9090")
	viper.SetDefault("enrollment.timeout_seconds", 10)
}
