// Package config loads application configuration from environment
// variables. Database credentials can alternatively come from AWS
// Secrets Manager (see secrets.go), matching how the production RDS
// instance is provisioned.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Durations are expressed in the unit the
// variable name states (minutes or days).
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBSecretName   string        // AWS Secrets Manager secret holding DB credentials (optional)
	AWSRegion      string        // region for the Secrets Manager lookup
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token time-to-live in minutes
	RefreshTTLDays int           // refresh token time-to-live in days
	BcryptCost     int           // bcrypt cost for password hashing
	SlotBuffer     time.Duration // turnover margin applied around each reservation
}

// Load reads configuration from environment variables. Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message. When DB_SECRET_NAME is set, DB_USER
// and DB_PASS are resolved through Secrets Manager instead of the
// environment.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBHost:         must("DB_HOST"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         must("DB_NAME"),
		DBSecretName:   os.Getenv("DB_SECRET_NAME"),
		AWSRegion:      getenv("AWS_REGION", "sa-east-1"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 12),
		SlotBuffer:     time.Duration(envInt("SLOT_BUFFER_MINUTES", 15)) * time.Minute,
	}
	if cfg.DBSecretName != "" {
		creds, err := FetchDBCredentials(cfg.DBSecretName, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("fetch db credentials from secrets manager: %v", err)
		}
		cfg.DBUser = creds.Username
		cfg.DBPass = creds.Password
	} else {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
