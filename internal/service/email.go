package service

import (
	"context"
	"fmt"

	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

type message struct {
	to      string
	toName  string
	subject string
	body    string
}

// NewEmailService builds the configured email sender.
func NewEmailService(cfg config.EmailConfig) (EmailService, error) {
	var send func(ctx context.Context, m message) error
	switch cfg.Provider {
	case "sendgrid":
		send = sendgridSender(cfg)
	case "smtp":
		send = smtpSender(cfg)
	case "log", "":
		send = logSender
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
	return &emailService{send: send}, nil
}

type emailService struct {
	send func(ctx context.Context, m message) error
}

func (s *emailService) SendRecoveryLink(ctx context.Context, to, link string, kind RecoveryKind) error {
	m := message{to: to}
	switch kind {
	case RecoveryActivation:
		m.subject = "Your registration has been approved"
		m.body = fmt.Sprintf("Hello,\n\nYour journal directory registration has been approved. "+
			"Please set your password using the link below:\n\n%s\n\n"+
			"If you did not register, you can ignore this email.\n\nThe Journal Directory Team", link)
	default:
		m.subject = "Reset your password"
		m.body = fmt.Sprintf("Hello,\n\nWe received a request to reset your password. "+
			"Use the link below to choose a new one:\n\n%s\n\n"+
			"If you did not ask for this, you can ignore this email.\n\nThe Journal Directory Team", link)
	}
	return s.send(ctx, m)
}

func (s *emailService) SendRegistrationReceived(ctx context.Context, to, name string) error {
	return s.send(ctx, message{
		to:      to,
		toName:  name,
		subject: "We received your registration",
		body: fmt.Sprintf("Hello %s,\n\nThank you for registering. An administrator will review your "+
			"application within 1-3 business days. You will receive another email once it is approved.\n\n"+
			"The Journal Directory Team", name),
	})
}

func (s *emailService) SendRejectionNotice(ctx context.Context, to, name, reason string) error {
	return s.send(ctx, message{
		to:      to,
		toName:  name,
		subject: "Update on your registration",
		body: fmt.Sprintf("Hello %s,\n\nAfter review, we are unable to approve your registration.\n\nReason: %s\n\n"+
			"The Journal Directory Team", name, reason),
	})
}

func sendgridSender(cfg config.EmailConfig) func(context.Context, message) error {
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	from := mail.NewEmail(cfg.FromName, cfg.From)
	return func(ctx context.Context, m message) error {
		logger.ExternalServiceCall("sendgrid", "Send", "to", m.to, "subject", m.subject)
		msg := mail.NewSingleEmail(from, m.subject, mail.NewEmail(m.toName, m.to), m.body, "")
		response, err := client.SendWithContext(ctx, msg)
		if err != nil {
			logger.ExternalServiceResult("sendgrid", "Send", err)
			return fmt.Errorf("failed to send email: %w", err)
		}
		if response.StatusCode >= 400 {
			err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
			logger.ExternalServiceResult("sendgrid", "Send", err)
			return err
		}
		logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
		return nil
	}
}

func smtpSender(cfg config.EmailConfig) func(context.Context, message) error {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return func(_ context.Context, m message) error {
		msg := gomail.NewMessage()
		msg.SetAddressHeader("From", cfg.From, cfg.FromName)
		msg.SetHeader("To", m.to)
		msg.SetHeader("Subject", m.subject)
		msg.SetBody("text/plain", m.body)

		logger.ExternalServiceCall("smtp", "DialAndSend", "to", m.to, "subject", m.subject)
		if err := dialer.DialAndSend(msg); err != nil {
			logger.ExternalServiceResult("smtp", "DialAndSend", err)
			return fmt.Errorf("failed to send email via smtp: %w", err)
		}
		logger.ExternalServiceResult("smtp", "DialAndSend", nil)
		return nil
	}
}

// logSender writes emails to the log instead of delivering them.
func logSender(_ context.Context, m message) error {
	logger.Info("Email (log provider)", "to", m.to, "subject", m.subject, "body", m.body)
	return nil
}
