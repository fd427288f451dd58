package config

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

// Enabled reports whether resume uploads can be served.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type Config struct {
	DB_URL      string
	StoreDriver string
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	Environment string
	LogLevel    string
	FrontendURL string

	RedisURL        string
	SessionDenylist string // memory, redis or off
	AuthRateLimit   string // ulule/limiter format, e.g. "20-M"

	CorsConfig cors.Options
	R2         R2Config
	Google     GoogleConfig
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the env file (ENV_FILE or .env) if present and builds the config
// from the process environment.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("TOKEN_TTL", 24*time.Hour)

	ttl := v.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cfg := Config{
		DB_URL:      getEnv("DB_URL", ""),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		TokenTTL:    ttl,
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		RedisURL:        getEnv("REDIS_URL", ""),
		SessionDenylist: getEnv("SESSION_DENYLIST", ""),
		AuthRateLimit:   getEnv("AUTH_RATE_LIMIT", "20-M"),

		CorsConfig: CorsConfig(splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		},
	}

	if cfg.SessionDenylist == "" {
		cfg.SessionDenylist = "memory"
		if cfg.RedisURL != "" {
			cfg.SessionDenylist = "redis"
		}
	}
	return cfg
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
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

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
}
