package service

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/infrastructure/email"
	"harvest-backend/internal/shared"
	"harvest-backend/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs; tests swap in
// a recorder.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type cooperativeService struct {
	repo  cooperative.Repository
	tasks TaskEnqueuer
}

func NewCooperativeService(repo cooperative.Repository, tasks TaskEnqueuer) cooperative.Service {
	return &cooperativeService{repo: repo, tasks: tasks}
}

func (s *cooperativeService) ListPending(ctx context.Context) ([]cooperative.PendingAccount, error) {
	return s.repo.ListPending(ctx)
}

func (s *cooperativeService) Approve(ctx context.Context, cooperativeID int64) (*cooperative.PendingAccount, error) {
	account, err := s.repo.Approve(ctx, cooperativeID)
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(shared.TypeSendApprovalEmail, account)
	return account, nil
}

func (s *cooperativeService) Reject(ctx context.Context, cooperativeID int64) error {
	account, err := s.repo.Reject(ctx, cooperativeID)
	if err != nil {
		return err
	}

	logger.Info("cooperative rejected", map[string]interface{}{
		"cooperative_id": account.ID,
		"email":          account.Email,
	})
	return nil
}

// enqueueStatusEmail is best-effort: the approval has already committed, a
// lost email must not fail the request.
func (s *cooperativeService) enqueueStatusEmail(taskType string, account *cooperative.PendingAccount) {
	payload := email.CooperativeStatusData{
		Email:           account.Email,
		CooperativeName: account.Name,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal status email payload", err)
		return
	}
	if _, err := s.tasks.Enqueue(asynq.NewTask(taskType, b)); err != nil {
		logger.Error("failed to enqueue status email", err)
	}
}
