package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"harvest-backend/internal/infrastructure/email"
)

// CooperativeStatusHandler sends pending/approved notifications.
type CooperativeStatusHandler struct {
	emailService email.EmailService
}

func NewCooperativeStatusHandler(emailService email.EmailService) *CooperativeStatusHandler {
	return &CooperativeStatusHandler{emailService: emailService}
}

func (h *CooperativeStatusHandler) ProcessPending(ctx context.Context, task *asynq.Task) error {
	var payload email.CooperativeStatusData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendCooperativePendingEmail(ctx, payload); err != nil {
		return fmt.Errorf("send pending email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Pending-approval email sent")
	return nil
}

func (h *CooperativeStatusHandler) ProcessApproved(ctx context.Context, task *asynq.Task) error {
	var payload email.CooperativeStatusData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendCooperativeApprovedEmail(ctx, payload); err != nil {
		return fmt.Errorf("send approved email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Approval email sent")
	return nil
}

// ResetPasswordEmailHandler sends password reset tokens.
type ResetPasswordEmailHandler struct {
	emailService email.EmailService
}

func NewResetPasswordEmailHandler(emailService email.EmailService) *ResetPasswordEmailHandler {
	return &ResetPasswordEmailHandler{emailService: emailService}
}

func (h *ResetPasswordEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.ResetPasswordData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendResetPasswordEmail(ctx, payload); err != nil {
		return fmt.Errorf("send reset password email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Reset password email sent")
	return nil
}
