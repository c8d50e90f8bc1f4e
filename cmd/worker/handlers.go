package main

import (
	"github.com/hibiken/asynq"

	userJob "harvest-backend/internal/domains/user/job"
	"harvest-backend/internal/infrastructure/email"
	emailJob "harvest-backend/internal/infrastructure/email/job"
	"harvest-backend/internal/shared"
	"harvest-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	cooperativeStatus *emailJob.CooperativeStatusHandler
	resetPassword     *emailJob.ResetPasswordEmailHandler
	cleanup           *userJob.CleanupExpiredTokenHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(
		c.Config.Email.SMTPHost,
		c.Config.Email.SMTPPort,
		c.Config.Email.From,
	)

	return &HandlerRegistry{
		cooperativeStatus: emailJob.NewCooperativeStatusHandler(emailSvc),
		resetPassword:     emailJob.NewResetPasswordEmailHandler(emailSvc),
		cleanup:           userJob.NewCleanupExpiredTokenHandler(c.UserRepo),
	}
}

func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendPendingEmail, r.cooperativeStatus.ProcessPending)
	mux.HandleFunc(shared.TypeSendApprovalEmail, r.cooperativeStatus.ProcessApproved)
	mux.HandleFunc(shared.TypeSendResetPasswordEmail, r.resetPassword.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupExpiredTokens, r.cleanup.ProcessTask)
}
