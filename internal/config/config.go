package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port           string `mapstructure:"PORT"`
	GinMode        string `mapstructure:"GIN_MODE"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	PublicDir      string `mapstructure:"PUBLIC_DIR"`
	ProfilePath    string `mapstructure:"PROFILE_PATH"`
	OTelEndpoint   string `mapstructure:"OTEL_ENDPOINT"`
	AdminUsername  string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword  string `mapstructure:"ADMIN_PASSWORD"`
}

// DevJWTSecret is the signing key used when JWT_SECRET is unset. Release mode
// refuses to start with it.
const DevJWTSecret = "dev-secret-change-me"

// AppConfig is the configuration loaded at startup.
var AppConfig *Config

var keys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET",
	"PUBLIC_DIR", "PROFILE_PATH", "OTEL_ENDPOINT", "ADMIN_USERNAME", "ADMIN_PASSWORD",
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:           "8080",
		GinMode:        "release",
		LogLevel:       "INFO",
		DatabaseDriver: "sqlite",
		DatabaseURL:    "portfolio.db",
		JWTSecret:      DevJWTSecret,
		PublicDir:      "public",
		ProfilePath:    "profile.yaml",
		AdminUsername:  "admin",
	}
}

// LoadConfig loads the configuration from a .env file and environment variables
// and stores it in AppConfig.
func LoadConfig() error {
	cfg, err := Load(".")
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load reads dir/.env (optional) overlaid by the process environment.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	def := Defaults()
	v.SetDefault("PORT", def.Port)
	v.SetDefault("GIN_MODE", def.GinMode)
	v.SetDefault("LOG_LEVEL", def.LogLevel)
	v.SetDefault("DATABASE_DRIVER", def.DatabaseDriver)
	v.SetDefault("DATABASE_URL", def.DatabaseURL)
	v.SetDefault("JWT_SECRET", def.JWTSecret)
	v.SetDefault("PUBLIC_DIR", def.PublicDir)
	v.SetDefault("PROFILE_PATH", def.ProfilePath)
	v.SetDefault("ADMIN_USERNAME", def.AdminUsername)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		slog.Debug(".env file not found, loading from environment variables")
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

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseDriver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.GinMode == "release" && c.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
