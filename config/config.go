package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	AccessExpiryMin  int
	RefreshExpiryMin int
	CacheTTLSeconds  int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	BaseURL      string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	RateLimitMax       int
	RateLimitWindowSec int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBURL: mustGetEnv("DB_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:        mustGetEnv("SECRET_KEY_JWT"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		CacheTTLSeconds:  getEnvAsInt("USER_CACHE_TTL", 300),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@contacts.app"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "avatars"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		RateLimitMax:       getEnvAsInt("RATE_LIMIT_MAX", 1),
		RateLimitWindowSec: getEnvAsInt("RATE_LIMIT_WINDOW", 20),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
