package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	TokenTTL        time.Duration
	AdminUsername   string
	AdminPassword   string
	CORSOrigins     string
	StatsCacheTTL   time.Duration
	SubmitRateMax   int
	SubmitRateEvery time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ROLLCALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Roll-Call Ledger API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("stats.cache_ttl", "30s")
	v.SetDefault("submit.rate_max", 20)
	v.SetDefault("submit.rate_window", "1s")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	statsTTL, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("submit.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        tokenTTL,
		AdminUsername:   v.GetString("admin.username"),
		AdminPassword:   v.GetString("admin.password"),
		CORSOrigins:     v.GetString("cors.allow_origins"),
		StatsCacheTTL:   statsTTL,
		SubmitRateMax:   v.GetInt("submit.rate_max"),
		SubmitRateEvery: rateWindow,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("admin password must be provided")
	}

	if cfg.SubmitRateMax <= 0 {
		cfg.SubmitRateMax = 20
	}

	return cfg, nil
}
