// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// SMTP is optional: when host or user is empty the email channel is
	// skipped (soft skip, not an error).
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPFromName string

	// DB
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	// Auth
	ServiceExpectedToken string

	// R2 Storage (member photos)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string

	// CORS
	AllowedOrigins string

	// Digest delivery targets
	DigestRecipientEmail string // secretariat inbox for the birthday digest
	WhatsAppRecipient    string // digits-only number for the wa.me link

	// Scheduling
	Timezone     string // IANA identifier for all date math
	DigestHour   int    // daily jobs fire at DigestHour:DigestMinute local time
	DigestMinute int
}

func Load() *Config {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load() // optional .env for local
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	smtpPort := getEnvInt("SMTP_PORT", 587)

	cfg := &Config{
		ServerPort:   port,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Secretaria da Igreja"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    getEnv("DB_PASS", "postgres"),
		DBName:    getEnv("DB_NAME", "community_db"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		ServiceExpectedToken: getEnv("SERVICE_TOKEN", "your-secret-service-token"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),

		DigestRecipientEmail: os.Getenv("DIGEST_RECIPIENT_EMAIL"),
		WhatsAppRecipient:    os.Getenv("WHATSAPP_RECIPIENT"),

		Timezone:     getEnv("TIMEZONE", "America/Sao_Paulo"),
		DigestHour:   getEnvInt("DIGEST_HOUR", 8),
		DigestMinute: getEnvInt("DIGEST_MINUTE", 0),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Fatalf("❌ Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	return cfg
}

// Location resolves the configured timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SMTPConfigured reports whether the email channel can be attempted.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPFrom != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, s, fallback)
		return fallback
	}
	return v
}
