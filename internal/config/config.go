package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Environment string
	ServerPort  string

	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string

	JWTSecret string
	JWTExpiry time.Duration

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// Request limits
	RequestTimeout        time.Duration
	MaxBodyBytes          int64
	MaxConcurrentRequests int64

	LogLevel           string
	RequestLogPath     string
	CORSAllowedOrigins []string
}

// IsProduction reports whether ENVIRONMENT is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	// .env is optional, containers pass variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment only")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("server_port", ":8000")
	v.SetDefault("database_driver", "postgres")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiry", "1440m")
	v.SetDefault("rate_limit_max_requests", 100)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("max_concurrent_requests", 256)
	v.SetDefault("log_level", "info")
	v.SetDefault("request_log_path", "logs/requests.log")
	v.SetDefault("cors_allowed_origins", "*")

	cfg := &Config{
		Environment:    v.GetString("environment"),
		ServerPort:     v.GetString("server_port"),
		DatabaseDriver: strings.ToLower(v.GetString("database_driver")),
		DatabaseURL:    v.GetString("database_url"),
		RedisURL:       v.GetString("redis_url"),
		JWTSecret:      v.GetString("jwt_secret"),

		JWTExpiry:             getDuration(v, "jwt_expiry"),
		RateLimitMaxRequests:  v.GetInt("rate_limit_max_requests"),
		RateLimitWindow:       getDuration(v, "rate_limit_window"),
		RequestTimeout:        getDuration(v, "request_timeout"),
		MaxBodyBytes:          v.GetInt64("max_body_bytes"),
		MaxConcurrentRequests: v.GetInt64("max_concurrent_requests"),

		LogLevel:           v.GetString("log_level"),
		RequestLogPath:     v.GetString("request_log_path"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

// getDuration parses a duration key, falling back to its registered default
func getDuration(v *viper.Viper, key string) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		def := defaultDurations[key]
		log.Printf("Invalid %s value %q, using default: %s", strings.ToUpper(key), v.GetString(key), def)
		return def
	}
	return d
}

var defaultDurations = map[string]time.Duration{
	"jwt_expiry":        1440 * time.Minute,
	"rate_limit_window": time.Minute,
	"request_timeout":   10 * time.Second,
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
