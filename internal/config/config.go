// Package config loads environment-driven settings. Services receive a
// built App value; nothing reads the environment after startup.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// App is the assembled runtime configuration.
type App struct {
	Port            string
	DatabaseDSN     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	SigningKey      string
	StripeSecretKey string
	DefaultCurrency string
	DebitFeeGross   bool

	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
}

// Load builds the App config from the environment.
func Load() App {
	return App{
		Port:            GetEnv("PORT", "3000"),
		DatabaseDSN:     GetEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=centime port=5432 sslmode=disable"),
		RedisAddr:       GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   GetEnv("REDIS_PASSWORD", ""),
		RedisDB:         GetIntEnv("REDIS_DB", 0),
		JWTSecret:       GetEnv("JWT_SECRET", "dev-secret"),
		SigningKey:      GetEnv("LEDGER_SIGNING_KEY", "dev-ledger-signing-key"),
		StripeSecretKey: GetEnv("STRIPE_SECRET_KEY", ""),
		DefaultCurrency: GetEnv("DEFAULT_CURRENCY", "USD"),
		DebitFeeGross:   GetEnv("DEBIT_FEE_POLICY", "principal") == "gross",

		DBMaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		DBConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
	}
}
