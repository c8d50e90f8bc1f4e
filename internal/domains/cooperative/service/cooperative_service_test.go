package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/infrastructure/email"
	"harvest-backend/internal/shared"
)

type stubRepo struct {
	pending  []cooperative.PendingAccount
	approved map[int64]bool
	rejected []int64
}

func (r *stubRepo) FindByID(context.Context, int64) (*cooperative.Cooperative, error) {
	return nil, cooperative.ErrCooperativeNotFound
}

func (r *stubRepo) ExistsByName(context.Context, string) (bool, error) { return false, nil }

func (r *stubRepo) ListPending(context.Context) ([]cooperative.PendingAccount, error) {
	return r.pending, nil
}

func (r *stubRepo) find(id int64) *cooperative.PendingAccount {
	for i := range r.pending {
		if r.pending[i].ID == id {
			return &r.pending[i]
		}
	}
	return nil
}

func (r *stubRepo) Approve(_ context.Context, id int64) (*cooperative.PendingAccount, error) {
	account := r.find(id)
	if account == nil {
		return nil, cooperative.ErrCooperativeNotFound
	}
	if r.approved[id] {
		return nil, cooperative.ErrAlreadyApproved
	}
	r.approved[id] = true
	return account, nil
}

func (r *stubRepo) Reject(_ context.Context, id int64) (*cooperative.PendingAccount, error) {
	account := r.find(id)
	if account == nil {
		return nil, cooperative.ErrCooperativeNotFound
	}
	r.rejected = append(r.rejected, id)
	return account, nil
}

type taskRecorder struct {
	tasks []*asynq.Task
}

func (r *taskRecorder) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestService() (cooperative.Service, *stubRepo, *taskRecorder) {
	repo := &stubRepo{
		pending: []cooperative.PendingAccount{
			{
				Cooperative: cooperative.Cooperative{ID: 3, Name: "Littoral Growers", Region: "Douala, Littoral"},
				UserID:      11,
				Email:       "admin@littoral-growers.cm",
				FullName:    "Littoral Growers Admin",
			},
		},
		approved: make(map[int64]bool),
	}
	recorder := &taskRecorder{}
	return NewCooperativeService(repo, recorder), repo, recorder
}

func TestApprove(t *testing.T) {
	svc, repo, recorder := newTestService()
	ctx := context.Background()

	account, err := svc.Approve(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Littoral Growers", account.Name)
	assert.True(t, repo.approved[3])

	require.Len(t, recorder.tasks, 1)
	assert.Equal(t, shared.TypeSendApprovalEmail, recorder.tasks[0].Type())

	var payload email.CooperativeStatusData
	require.NoError(t, json.Unmarshal(recorder.tasks[0].Payload(), &payload))
	assert.Equal(t, "admin@littoral-growers.cm", payload.Email)
	assert.Equal(t, "Littoral Growers", payload.CooperativeName)
}

func TestApprove_AlreadyApproved(t *testing.T) {
	svc, _, recorder := newTestService()
	ctx := context.Background()

	_, err := svc.Approve(ctx, 3)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 3)
	assert.ErrorIs(t, err, cooperative.ErrAlreadyApproved)
	assert.Len(t, recorder.tasks, 1, "a repeated approval sends no second email")
}

func TestApprove_NotFound(t *testing.T) {
	svc, _, recorder := newTestService()

	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, cooperative.ErrCooperativeNotFound)
	assert.Empty(t, recorder.tasks)
}

func TestReject(t *testing.T) {
	svc, repo, recorder := newTestService()

	require.NoError(t, svc.Reject(context.Background(), 3))
	assert.Equal(t, []int64{3}, repo.rejected)
	assert.Empty(t, recorder.tasks, "rejection sends no email")
}

func TestListPending(t *testing.T) {
	svc, _, _ := newTestService()

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)
}
