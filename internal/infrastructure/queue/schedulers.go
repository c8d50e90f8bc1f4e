package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"harvest-backend/internal/config"
	"harvest-backend/internal/domains/user/job"
	"harvest-backend/internal/shared"
	"harvest-backend/pkg/logger"
)

// Scheduler registers recurring background jobs with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterCleanupJobs wires every scheduled job.
func (s *Scheduler) RegisterCleanupJobs() error {
	return s.registerCleanupExpiredTokensJob()
}

func (s *Scheduler) registerCleanupExpiredTokensJob() error {
	payload, err := json.Marshal(job.CleanupExpiredTokensPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupExpiredTokens, payload)
	entryID, err := s.scheduler.Register(s.jobConfig.CleanupTokensCron, task)
	if err != nil {
		logger.Error("failed to register token cleanup job", err)
		return err
	}

	logger.Info("registered token cleanup job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     s.jobConfig.CleanupTokensCron,
	})
	return nil
}

// Run blocks until the scheduler is shut down.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
