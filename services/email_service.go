package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/nkk09/Cmps271/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates a new email service instance from env config
func NewEmailService(cfg *config.EnviornmentVariable) *EmailService {
	from := cfg.SMTP_FROM
	if from == "" {
		from = "noreply@aub.edu.lb"
	}

	return &EmailService{
		host:     cfg.SMTP_HOST,
		port:     cfg.SMTP_PORT,
		username: cfg.SMTP_USER,
		password: cfg.SMTP_PASS,
		from:     from,
	}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.host != "" && e.port != 0
}

// SendOTPEmail delivers a one-time code. The code is always logged first so
// it remains recoverable from server logs when SMTP is down or unconfigured.
func (e *EmailService) SendOTPEmail(toEmail string, code string, expiryMinutes int) error {
	log.Printf("OTP code for %s: %s (expires in %d min)", toEmail, code, expiryMinutes)

	if !e.IsConfigured() {
		log.Printf("SMTP not configured; OTP code logged above for %s", toEmail)
		return fmt.Errorf("SMTP not configured")
	}

	subject := "Your AUB Reviews OTP"
	body := fmt.Sprintf(
		"Your one-time code is:\r\n\r\n  %s\r\n\r\n"+
			"It expires in %d minutes. Do not share this code with anyone.\r\n",
		code, expiryMinutes,
	)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		e.from, toEmail, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	var auth smtp.Auth
	if e.username != "" && e.password != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.host)
	}

	if err := smtp.SendMail(addr, auth, e.from, []string{toEmail}, msg); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", toEmail, err)
		return err
	}

	log.Printf("OTP email sent successfully to %s", toEmail)
	return nil
}
