package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Session configuration
	SESSION_SECRET string
	// OAuth (Microsoft Entra ID) configuration
	ENABLE_OAUTH        bool
	ENTRA_TENANT_ID     string
	ENTRA_CLIENT_ID     string
	ENTRA_CLIENT_SECRET string
	ENTRA_REDIRECT_URI  string
	// SMTP configuration for OTP delivery
	SMTP_HOST string
	SMTP_PORT int
	SMTP_USER string
	SMTP_PASS string
	SMTP_FROM string
	// OTP settings
	OTP_EXPIRY_MINUTES int
	// Redis Configuration
	REDIS_URL string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	smtpPort := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		smtpPort = p
	}

	otpExpiry := 10
	if m, err := strconv.Atoi(os.Getenv("OTP_EXPIRY_MINUTES")); err == nil && m > 0 {
		otpExpiry = m
	}

	enableOAuth, _ := strconv.ParseBool(os.Getenv("ENABLE_OAUTH"))

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// Sessions
		SESSION_SECRET: os.Getenv("SESSION_SECRET"),
		// OAuth
		ENABLE_OAUTH:        enableOAuth,
		ENTRA_TENANT_ID:     os.Getenv("ENTRA_TENANT_ID"),
		ENTRA_CLIENT_ID:     os.Getenv("ENTRA_CLIENT_ID"),
		ENTRA_CLIENT_SECRET: os.Getenv("ENTRA_CLIENT_SECRET"),
		ENTRA_REDIRECT_URI:  os.Getenv("ENTRA_REDIRECT_URI"),
		// SMTP
		SMTP_HOST: os.Getenv("SMTP_HOST"),
		SMTP_PORT: smtpPort,
		SMTP_USER: os.Getenv("SMTP_USER"),
		SMTP_PASS: os.Getenv("SMTP_PASS"),
		SMTP_FROM: os.Getenv("SMTP_FROM"),
		// OTP
		OTP_EXPIRY_MINUTES: otpExpiry,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
	}

	return envVariables, nil
}
