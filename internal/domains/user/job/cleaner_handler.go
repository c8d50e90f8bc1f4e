package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"harvest-backend/internal/domains/user"
	"harvest-backend/pkg/logger"
)

type CleanupExpiredTokensPayload struct {
	Date time.Time `json:"date,omitempty"`
}

// CleanupExpiredTokenHandler clears stale password reset tokens on a
// schedule so a leaked token stops working even if the row is never touched
// again.
type CleanupExpiredTokenHandler struct {
	userRepo user.Repository
}

func NewCleanupExpiredTokenHandler(userRepo user.Repository) *CleanupExpiredTokenHandler {
	return &CleanupExpiredTokenHandler{userRepo: userRepo}
}

func (h *CleanupExpiredTokenHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload CleanupExpiredTokensPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("cleanup payload unmarshal failed", err)
		return err
	}

	cutoff := time.Now()
	if !payload.Date.IsZero() {
		cutoff = payload.Date
	}

	deleted, err := h.userRepo.DeleteExpiredResetTokens(ctx, cutoff)
	if err != nil {
		logger.Error("cleanup of expired reset tokens failed", err)
		return err
	}

	log.Info().
		Time("cutoff", cutoff).
		Int("reset_tokens_cleared", deleted).
		Msg("Cleaned up expired reset tokens")
	return nil
}
