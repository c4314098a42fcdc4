package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/lumora-app/lumora-backend/internal/config"
	"github.com/lumora-app/lumora-backend/internal/models"
)

// Mailer sends account emails. The SMTP implementation is swapped for a fake
// in tests.
type Mailer interface {
	SendVerificationEmail(user *models.User, token string) error
	SendPasswordResetEmail(user *models.User, token string) error
}

// SMTPMailer sends mail through a plain SMTP relay. The verification link
// points at this backend (the handler redirects to the frontend afterwards);
// the reset link points at the frontend's reset page.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string

	backendURL  string
	frontendURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		from:        cfg.SMTPFrom,
		backendURL:  strings.TrimRight(cfg.Host, "/"),
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}
}

func (m *SMTPMailer) SendVerificationEmail(user *models.User, token string) error {
	link := m.backendURL + "/api/auth/verify-email/" + token
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWelcome to Lumora! Please confirm your email address by opening the link below:\r\n\r\n%s\r\n\r\nIf you did not create an account, you can ignore this email.\r\n",
		user.FirstName, link)
	return m.send(user.Email, "Verify your email address", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(user *models.User, token string) error {
	link := m.frontendURL + "/auth/reset-password?token=" + token
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nA password reset was requested for your account. Open the link below to choose a new password:\r\n\r\n%s\r\n\r\nThe link expires in one hour. If you did not request a reset, you can ignore this email.\r\n",
		user.FirstName, link)
	return m.send(user.Email, "Reset your password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}
