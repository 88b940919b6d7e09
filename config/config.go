package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DBPath         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	CORSOrigins     string
	CORSHeaders     string
	RateLimitMax    int
	RateLimitWindow time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:           GetEnv("PORT", "3000"),
		Env:            GetEnv("ENV", "development"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		DBPath:         GetEnv("DB_PATH", "./data/users.db"),
		DBMaxOpenConns: GetEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: GetEnvInt("DB_MAX_IDLE_CONNS", 5),

		CORSOrigins:     GetEnv("CORS_ORIGINS", "*"),
		CORSHeaders:     GetEnv("CORS_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Request-ID"),
		RateLimitMax:    GetEnvInt("RATE_LIMIT_MAX", 200),
		RateLimitWindow: GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		ReadTimeout:  GetEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: GetEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  GetEnvDuration("IDLE_TIMEOUT", 30*time.Second),
		BodyLimit:    GetEnvInt("BODY_LIMIT", 64*1024),
	}

	if AppConfig.DBMaxOpenConns < 1 {
		log.Fatal("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if AppConfig.RateLimitMax < 0 {
		log.Fatal("RATE_LIMIT_MAX must not be negative")
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// GetEnvDuration parses values like "30s" or "1m"
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
