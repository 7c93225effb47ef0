package notification

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
)

// Sender delivers account emails.
type Sender interface {
	SendConfirmationEmail(ctx context.Context, to, confirmURL string) error
}

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// ConfirmationMessage renders the registration confirmation email.
func ConfirmationMessage(to, confirmURL string) Message {
	return Message{
		Subject: "Successfully signed up",
		Text: fmt.Sprintf("Hi %s! You have successfully signed up to the blog.\n"+
			"Please confirm your email by opening the following link: %s\n"+
			"This link will expire in 24 hours.\n", to, confirmURL),
		HTML: fmt.Sprintf(`<html><body>
		<h2>Confirm Your Email Address</h2>
		<p>Hi %s! You have successfully signed up to the blog.</p>
		<p><a href="%s">Click here to confirm your email</a></p>
		<p>Or copy this link to your browser: %s</p>
		<p>This link will expire in 24 hours.</p>
	</body></html>`, html.EscapeString(to), html.EscapeString(confirmURL), html.EscapeString(confirmURL)),
	}
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService sends email over SMTP.
type EmailService struct {
	config   EmailConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, sendMail: smtp.SendMail}
}

func (s *EmailService) SendConfirmationEmail(_ context.Context, to, confirmURL string) error {
	return s.sendEmail(to, ConfirmationMessage(to, confirmURL))
}

func (s *EmailService) sendEmail(to string, m Message) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, m.Subject, m.HTML)

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := s.sendMail(addr, auth, s.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}
