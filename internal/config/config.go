/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables (with
 * an optional .env file), providing a centralized way to manage settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the wallet-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	WalletEventExchange   string `mapstructure:"WALLET_EVENT_EXCHANGE"`
	AdminAPIKey           string `mapstructure:"ADMIN_API_KEY"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	JWTTTLMinutes         int    `mapstructure:"JWT_TTL_MINUTES"`
	AdminFee              int64  `mapstructure:"ADMIN_FEE"`
	UploadDir             string `mapstructure:"UPLOAD_DIR"`
	UploadMaxBytes        int64  `mapstructure:"UPLOAD_MAX_BYTES"`
	PendingReviewSchedule string `mapstructure:"PENDING_REVIEW_SCHEDULE"`
	SeedDemoData          bool   `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig reads configuration from environment variables from the given
// path. It uses Viper to automatically bind environment variables to the
// Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("WALLET_EVENT_EXCHANGE", "byfort.events")
	viper.SetDefault("JWT_TTL_MINUTES", 1440)
	viper.SetDefault("ADMIN_FEE", 1200)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("PENDING_REVIEW_SCHEDULE", "@every 1h")
	viper.SetDefault("SEED_DEMO_DATA", true)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("WALLET_EVENT_EXCHANGE")
	_ = viper.BindEnv("ADMIN_API_KEY")
	_ = viper.BindEnv("JWT_SECRET", "JWT_SECRET", "SESSION_JWT_SECRET")
	_ = viper.BindEnv("JWT_TTL_MINUTES")
	_ = viper.BindEnv("ADMIN_FEE")
	_ = viper.BindEnv("UPLOAD_DIR")
	_ = viper.BindEnv("UPLOAD_MAX_BYTES")
	_ = viper.BindEnv("PENDING_REVIEW_SCHEDULE")
	_ = viper.BindEnv("SEED_DEMO_DATA")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Platform-provided PORT wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.JWTSecret = strings.TrimSpace(config.JWTSecret)
	if config.JWTSecret == "" {
		config.JWTSecret = strings.TrimSpace(os.Getenv("SESSION_JWT_SECRET"))
	}
	config.AdminAPIKey = strings.TrimSpace(config.AdminAPIKey)
	config.DatabaseURL = strings.TrimSpace(config.DatabaseURL)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)

	if config.AdminFee <= 0 {
		log.Printf("level=warn component=config msg=\"invalid admin fee configured; using default\" admin_fee=%d", config.AdminFee)
		config.AdminFee = 1200
	}
	if config.JWTTTLMinutes <= 0 {
		config.JWTTTLMinutes = 1440
	}
	if config.UploadMaxBytes <= 0 {
		config.UploadMaxBytes = 5 * 1024 * 1024
	}
	if strings.TrimSpace(config.UploadDir) == "" {
		config.UploadDir = "uploads"
	}

	return
}
