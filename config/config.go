package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup. Secrets come from the
// environment (optionally via .env), the rest from app.yaml.
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	JWTTTL       time.Duration
	CORSOrigins  []string
	DefaultLimit int
	MaxLimit     int
	RateLimit    int
	RateWindow   time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.db_name", "notalone")
	viper.SetDefault("app.jwt_ttl_hours", 24)
	viper.SetDefault("app.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	viper.SetDefault("pagination.default_limit", 10)
	viper.SetDefault("pagination.max_limit", 100)
	viper.SetDefault("ratelimit.requests", 60)
	viper.SetDefault("ratelimit.window_seconds", 60)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Port:         viper.GetString("app.port"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		DBName:       viper.GetString("app.db_name"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTTTL:       time.Duration(viper.GetInt("app.jwt_ttl_hours")) * time.Hour,
		CORSOrigins:  viper.GetStringSlice("app.cors_origins"),
		DefaultLimit: viper.GetInt("pagination.default_limit"),
		MaxLimit:     viper.GetInt("pagination.max_limit"),
		RateLimit:    viper.GetInt("ratelimit.requests"),
		RateWindow:   time.Duration(viper.GetInt("ratelimit.window_seconds")) * time.Second,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI must be set")
	}

	return cfg, nil
}
