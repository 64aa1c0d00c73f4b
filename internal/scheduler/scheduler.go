// Package scheduler runs the application's recurring maintenance jobs.
package scheduler

import (
	"context"

	"bloghub/internal/middleware"
	"bloghub/internal/service"

	"github.com/robfig/cron/v3"
)

// cleanupSchedule runs once a day at 03:00.
const cleanupSchedule = "0 3 * * *"

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron  *cron.Cron
	users *service.UserService
}

// New builds a Scheduler with the unverified-account cleanup job registered.
func New(users *service.UserService) (*Scheduler, error) {
	s := &Scheduler{
		cron:  cron.New(),
		users: users,
	}
	if _, err := s.cron.AddFunc(cleanupSchedule, s.runCleanup); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runCleanup() {
	deleted, err := s.users.DeleteUnverified(context.Background())
	if err != nil {
		middleware.Logger.Error("unverified account cleanup failed", "error", err)
		return
	}
	middleware.Logger.Info("unverified account cleanup finished", "deleted", deleted)
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
