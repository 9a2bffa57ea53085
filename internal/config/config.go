package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	ServerPort string
	AppEnv     string
	CORSOrigin string

	// SessionSecret signs the session cookie.
	SessionSecret string
	SessionMaxAge int // seconds

	// FrontendURL is the base of the links sent in password reset e-mails.
	FrontendURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	LogLevel    string
	WorkerCount int
}

// IsProduction reports whether secure cookies and JSON logs should be used.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		logrus.Info("No .env file found or error loading it, relying on environment variables")
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 60 * 60 * 24 * 365 * 10 // 10 years
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || smtpPort <= 0 {
		smtpPort = 587
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 2
	}

	appEnv := getEnv("APP_ENV", "development")
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		if appEnv == "production" {
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		logrus.Warn("SESSION_SECRET not set, using an insecure development secret")
		sessionSecret = "lireddit-dev-secret"
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "lireddit"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		ServerPort: getEnv("SERVER_PORT", "4000"),
		AppEnv:     appEnv,
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		SessionSecret: sessionSecret,
		SessionMaxAge: sessionMaxAge,

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "lireddit <no-reply@lireddit.local>"),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		WorkerCount: workerCount,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
