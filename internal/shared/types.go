package shared

// Asynq task type names.
const (
	TypeSendApprovalEmail      = "email:cooperative_approved"
	TypeSendPendingEmail       = "email:cooperative_pending"
	TypeSendResetPasswordEmail = "email:reset_password"
	TypeCleanupExpiredTokens   = "user:cleanup_expired_tokens"
)
