// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"tracemap/internal/models"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Discovery
	DiscoveryRadiusKm float64 `mapstructure:"DISCOVERY_RADIUS_KM"`
	ExpiryPolicy      string  `mapstructure:"EXPIRY_POLICY"`

	// Object storage (S3-compatible, e.g. Cloudflare R2)
	UploadBucket    string `mapstructure:"UPLOAD_BUCKET"`
	UploadEndpoint  string `mapstructure:"UPLOAD_ENDPOINT"`
	UploadRegion    string `mapstructure:"UPLOAD_REGION"`
	UploadAccessKey string `mapstructure:"UPLOAD_ACCESS_KEY"`
	UploadSecretKey string `mapstructure:"UPLOAD_SECRET_KEY"`
	UploadPublicURL string `mapstructure:"UPLOAD_PUBLIC_URL"`

	// Tracing
	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config.
	// The config file may not exist yet, so the error is ignored.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			log.Printf("No profile-specific config 'config.%s.yml' found, using base config and environment", env)
		}
	}

	viper.SetDefault("PORT", "8480")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "tracemap")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DISCOVERY_RADIUS_KM", 500.0)
	viper.SetDefault("EXPIRY_POLICY", string(models.ExpiryHideAny))
	viper.SetDefault("UPLOAD_BUCKET", "")
	viper.SetDefault("UPLOAD_ENDPOINT", "")
	viper.SetDefault("UPLOAD_REGION", "auto")
	viper.SetDefault("UPLOAD_ACCESS_KEY", "")
	viper.SetDefault("UPLOAD_SECRET_KEY", "")
	viper.SetDefault("UPLOAD_PUBLIC_URL", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DiscoveryRadiusKm <= 0 {
		return errors.New("DISCOVERY_RADIUS_KM must be positive")
	}
	switch models.ExpiryPolicy(c.ExpiryPolicy) {
	case models.ExpiryHideAny, models.ExpiryHideAfter:
	default:
		return fmt.Errorf("EXPIRY_POLICY must be %q or %q", models.ExpiryHideAny, models.ExpiryHideAfter)
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}

// ExpiryPolicyValue returns the configured expiry policy as its typed form.
func (c *Config) ExpiryPolicyValue() models.ExpiryPolicy {
	return models.ExpiryPolicy(c.ExpiryPolicy)
}
