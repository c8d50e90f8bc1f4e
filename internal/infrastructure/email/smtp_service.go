package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

// CooperativeStatusData is the payload for signup/approval notifications.
type CooperativeStatusData struct {
	Email           string `json:"email"`
	CooperativeName string `json:"cooperative_name"`
}

// ResetPasswordData is the payload for password reset emails.
type ResetPasswordData struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
}

type EmailService interface {
	SendCooperativePendingEmail(ctx context.Context, data CooperativeStatusData) error
	SendCooperativeApprovedEmail(ctx context.Context, data CooperativeStatusData) error
	SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendCooperativePendingEmail(ctx context.Context, data CooperativeStatusData) error {
	subject := "Harvest registration received"
	body := fmt.Sprintf(`Hello %s,

Your cooperative account has been registered and is pending approval by an
administrator. You will receive another email once your account is approved.`,
		data.CooperativeName)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendCooperativeApprovedEmail(ctx context.Context, data CooperativeStatusData) error {
	subject := "Harvest account approved"
	body := fmt.Sprintf(`Hello %s,

Your cooperative account has been approved. You can now log in and start
registering farmers.`, data.CooperativeName)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error {
	subject := "Harvest password reset"
	body := fmt.Sprintf(`Hello %s,

Use the following token to reset your password:
%s

The token is valid for %s. If you did not request a reset, ignore this email.`,
		data.FullName, data.Token, data.ExpiresIn)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		log.Error().
			Err(err).
			Str("to", to).
			Str("smtp_addr", s.smtpAddr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
