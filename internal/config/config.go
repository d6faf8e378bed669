package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	CORSOrigins       []string
	MigrationsDir     string
	RequestTimeoutSec int
	// Pool Postgres
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	// Limite do upload de planilha (bytes)
	MaxUploadBytes int64
	// URL pública do app (QR de confirmação no romaneio)
	AppPublicURL string
}

func Load() *Config {
	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	cors := getEnv("CORS_ORIGINS", "http://localhost:5173")
	var origins []string
	for _, o := range strings.Split(cors, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CORSOrigins:       origins,
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 0),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 0),
		DBMaxConnLifetime: time.Duration(getEnvInt("DB_MAX_CONN_LIFETIME_MIN", 0)) * time.Minute,
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		AppPublicURL:      getEnv("APP_PUBLIC_URL", "http://localhost:5173"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
