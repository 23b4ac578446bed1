package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	SessionSecret string
	Port          string
	Env           string
	BaseURL       string

	LogDir      string
	ReportsDir  string
	MessagesDir string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	MailMode     string

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	UnconfirmedUserTTL time.Duration
	NewsletterMinAge   time.Duration

	CronCleanUnconfirmed string
	CronNewsletter       string
	CronActivityReport   string
}

// LoadConfig loads configuration from the environment, reading .env when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	unconfirmedTTL, err := time.ParseDuration(getEnv("UNCONFIRMED_USER_TTL", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid UNCONFIRMED_USER_TTL: %w", err)
	}
	newsletterAge, err := time.ParseDuration(getEnv("NEWSLETTER_MIN_AGE", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid NEWSLETTER_MIN_AGE: %w", err)
	}

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "bookstore"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: getEnv("SESSION_SECRET", "bookstore-session-secret"),
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		BaseURL:       getEnv("BASE_URL", "http://127.0.0.1:8080"),

		LogDir:      getEnv("LOG_DIR", "logs"),
		ReportsDir:  getEnv("REPORTS_DIR", "reports"),
		MessagesDir: getEnv("MESSAGES_DIR", "messages"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@bookstore.example.com"),
		MailMode:     getEnv("MAIL_MODE", "log"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		UnconfirmedUserTTL: unconfirmedTTL,
		NewsletterMinAge:   newsletterAge,

		CronCleanUnconfirmed: getEnv("CRON_CLEAN_UNCONFIRMED", "0 * * * *"),
		CronNewsletter:       getEnv("CRON_NEWSLETTER", "0 18 * * 4"),
		CronActivityReport:   getEnv("CRON_ACTIVITY_REPORT", "59 23 * * 0"),
	}

	if config.Env == "production" && config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return config, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// JobSchedules maps job names to their cron expressions
func (c *Config) JobSchedules() map[string]string {
	return map[string]string{
		"clean_unconfirmed_users": c.CronCleanUnconfirmed,
		"send_newsletter":         c.CronNewsletter,
		"activity_report":         c.CronActivityReport,
	}
}
