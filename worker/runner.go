package worker

import (
	"context"
	"fmt"

	"agrihire-backend/models"
	"agrihire-backend/utils/logger"
)

// Service wraps the maintenance worker for the server process.
type Service struct {
	worker *Worker
	logger logger.Logger
}

// NewService creates a new worker service
func NewService(cfg *models.Config, jobs ExpirySweeper, tokens TokenCleaner, log logger.Logger) (*Service, error) {
	w, err := NewWorker(cfg, jobs, tokens, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create maintenance worker: %w", err)
	}
	return &Service{worker: w, logger: log}, nil
}

// StartInBackground starts the scheduler. Jobs run on cron goroutines.
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting maintenance worker service in background")
	return s.worker.Start()
}

// Stop stops the maintenance worker service
func (s *Service) Stop() error {
	s.logger.Info("Stopping maintenance worker service")
	return s.worker.Stop()
}

// SweepNow runs the expiry sweep outside the schedule.
func (s *Service) SweepNow(ctx context.Context) (int64, error) {
	return s.worker.RunSweep(ctx)
}

// GetHealthStatus returns a health status for monitoring
func (s *Service) GetHealthStatus() map[string]interface{} {
	status, ok := s.worker.Status()
	if !ok {
		return map[string]interface{}{
			"healthy":        true,
			"worker_running": s.worker.IsRunning(),
			"status":         "idle",
		}
	}

	return map[string]interface{}{
		"healthy":        status.Status != StatusFailed,
		"worker_running": s.worker.IsRunning(),
		"status":         string(status.Status),
		"environment":    status.Environment,
		"start_time":     status.StartTime,
		"duration":       status.Duration.String(),
		"deactivated":    status.Deactivated,
		"runs":           status.Runs,
		"failures":       status.Failures,
		"error_message":  status.ErrorMessage,
	}
}
