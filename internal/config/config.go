package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth modes
const (
	AuthModeAuth0 = "auth0"
	AuthModeLocal = "local"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	PublicURL   string
	CORSOrigins []string
	Env         string
	LogLevel    string

	Auth      AuthConfig
	RateLimit RateLimitConfig

	// S3 Storage
	S3 S3Config
}

// AuthConfig selects and configures the token validator
type AuthConfig struct {
	Mode string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Local HS256 tokens
	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string
}

// RateLimitConfig configures per-caller write throttling
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // MinIO/LocalStack in local dev
}

// Enabled reports whether attachment storage is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

func init() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("AUTH_MODE", AuthModeAuth0)
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("JWT_ISSUER", "huddle")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("S3_REGION", "us-east-1")
}

// Load reads configuration from the environment, a .env file, and any
// command-line flags bound to viper.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL: viper.GetString("DATABASE_URL"),
		Port:        viper.GetString("PORT"),
		PublicURL:   viper.GetString("PUBLIC_URL"),
		CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		Env:         viper.GetString("ENV"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		Auth: AuthConfig{
			Mode:          strings.ToLower(viper.GetString("AUTH_MODE")),
			Auth0Domain:   viper.GetString("AUTH0_DOMAIN"),
			Auth0Audience: viper.GetString("AUTH0_AUDIENCE"),
			JWTSecret:     viper.GetString("JWT_SECRET"),
			JWTTTL:        viper.GetDuration("JWT_TTL"),
			JWTIssuer:     viper.GetString("JWT_ISSUER"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     viper.GetInt("RATE_LIMIT_BURST"),
		},
		S3: S3Config{
			Region:          viper.GetString("S3_REGION"),
			Bucket:          viper.GetString("S3_BUCKET"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        viper.GetString("S3_ENDPOINT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadLocalAuth reads only the settings needed to mint local tokens
func LoadLocalAuth() (*AuthConfig, error) {
	_ = godotenv.Load()
	viper.AutomaticEnv()

	auth := &AuthConfig{
		Mode:      AuthModeLocal,
		JWTSecret: viper.GetString("JWT_SECRET"),
		JWTTTL:    viper.GetDuration("JWT_TTL"),
		JWTIssuer: viper.GetString("JWT_ISSUER"),
	}
	if len(auth.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return auth, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.Auth.Mode {
	case AuthModeAuth0:
		if c.Auth.Auth0Domain == "" {
			return fmt.Errorf("AUTH0_DOMAIN is required")
		}
		if c.Auth.Auth0Audience == "" {
			return fmt.Errorf("AUTH0_AUDIENCE is required")
		}
	case AuthModeLocal:
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q", AuthModeAuth0, AuthModeLocal)
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
