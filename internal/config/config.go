package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AssetsMinio      = "minio"
	AssetsCloudinary = "cloudinary"
)

type AppConfig struct {
	Port        string
	LogLevel    string
	Store       string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	AssetBackend string
	Minio        MinioConfig
	Cloudinary   CloudinaryConfig

	RedisAddr           string
	RedisPassword       string
	AuthRateLimitPerMin int
	CORSOrigins         []string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Load reads configuration from the environment, after loading .env if
// present.
func Load() (AppConfig, error) {
	_ = godotenv.Load() // load .env if present
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function and reports every
// missing or malformed value at once.
func FromEnv(getenv func(string) string) (AppConfig, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	var errs []error
	require := func(key string) string {
		v := get(key, "")
		if v == "" {
			errs = append(errs, fmt.Errorf("missing required env: %s", key))
		}
		return v
	}

	cfg := AppConfig{
		Port:          get("PORT", "8080"),
		LogLevel:      get("LOG_LEVEL", "info"),
		Store:         strings.ToLower(get("STORE", StorePostgres)),
		JWTSecret:     require("JWT_SECRET"),
		AssetBackend:  strings.ToLower(get("ASSET_BACKEND", AssetsMinio)),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		CORSOrigins:   splitList(get("CORS_ORIGINS", "http://localhost:5173")),
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("invalid TOKEN_TTL %q", get("TOKEN_TTL", "")))
	}
	cfg.TokenTTL = ttl

	limit, err := strconv.Atoi(get("AUTH_RATE_LIMIT_PER_MINUTE", "20"))
	if err != nil || limit < 0 {
		errs = append(errs, fmt.Errorf("invalid AUTH_RATE_LIMIT_PER_MINUTE %q", get("AUTH_RATE_LIMIT_PER_MINUTE", "")))
	}
	cfg.AuthRateLimitPerMin = limit

	switch cfg.Store {
	case StorePostgres:
		cfg.DatabaseURL = require("DATABASE_URL")
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q", cfg.Store))
	}

	switch cfg.AssetBackend {
	case AssetsMinio:
		useSSL, err := strconv.ParseBool(get("MINIO_USE_SSL", "false"))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid MINIO_USE_SSL %q", get("MINIO_USE_SSL", "")))
		}
		cfg.Minio = MinioConfig{
			Endpoint:  require("MINIO_ENDPOINT"),
			AccessKey: require("MINIO_ACCESS_KEY"),
			SecretKey: require("MINIO_SECRET_KEY"),
			Bucket:    get("MINIO_BUCKET", "employee-images"),
			UseSSL:    useSSL,
			PublicURL: get("ASSET_PUBLIC_URL", ""),
		}
	case AssetsCloudinary:
		cfg.Cloudinary = CloudinaryConfig{
			CloudName: require("CLOUDINARY_CLOUD_NAME"),
			APIKey:    require("CLOUDINARY_API_KEY"),
			APISecret: require("CLOUDINARY_API_SECRET"),
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ASSET_BACKEND %q", cfg.AssetBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DatabaseURL returns DATABASE_URL alone, for commands that only touch the
// database.
func DatabaseURL() (string, error) {
	_ = godotenv.Load()
	v := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v == "" {
		return "", errors.New("missing required env: DATABASE_URL")
	}
	return v, nil
}
