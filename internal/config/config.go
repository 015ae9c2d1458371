package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	devJWTSecret          = "dev-secret-change-in-production"
	defaultUploadMaxBytes = 5 << 20
)

var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseDSN string
	JWTSecret   string
	SessionTTL  time.Duration
	BcryptCost  int
	Upload      UploadConfig
}

// UploadConfig selects and configures the featured image store.
type UploadConfig struct {
	Backend      string // "local" or "minio"
	Dir          string
	PublicPrefix string
	MaxBytes     int64

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/estatehub?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		SessionTTL:  getDuration("SESSION_TTL", 8*time.Hour),
		BcryptCost:  getInt("BCRYPT_COST", bcrypt.DefaultCost),
		Upload: UploadConfig{
			Backend:        getEnv("UPLOAD_BACKEND", "local"),
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			PublicPrefix:   getEnv("UPLOAD_PUBLIC_PREFIX", "uploads"),
			MaxBytes:       int64(getInt("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)),
			MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinIOBucket:    getEnv("MINIO_BUCKET", "estatehub"),
			MinIOUseSSL:    getBool("MINIO_USE_SSL", false),
		},
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrInsecureSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = defaultUploadMaxBytes
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
