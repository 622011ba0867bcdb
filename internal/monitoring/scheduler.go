package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const syncTimeout = 30 * time.Second

// Scheduler periodically resyncs the roster so edits made by other clients
// show up without a manual refresh.
type Scheduler struct {
	users    services.UserServiceProvider
	eventSvc services.EventServiceProvider
	cron     *cron.Cron
}

// NewScheduler creates a scheduler running the sync on spec, a robfig/cron
// expression such as "@every 1m" or "*/5 * * * *".
func NewScheduler(spec string, users services.UserServiceProvider, eventSvc services.EventServiceProvider) (*Scheduler, error) {
	s := &Scheduler{
		users:    users,
		eventSvc: eventSvc,
		cron:     cron.New(),
	}
	if _, err := s.cron.AddFunc(spec, s.SyncRoster); err != nil {
		return nil, fmt.Errorf("invalid roster sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	log.Info().Msg("Starting roster sync scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped roster sync scheduler.")
}

// SyncRoster refetches the user list once. A failure keeps the previous
// roster and is recorded as a roster.sync event.
func (s *Scheduler) SyncRoster() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	users, err := s.users.RefreshRoster(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to sync roster")
		msg := fmt.Sprintf("Roster sync failed: %v", err)
		if err := s.eventSvc.CreateEvent("roster.sync", services.EventLevelError, msg, nil); err != nil {
			log.Error().Err(err).Msg("Scheduler: Failed to record sync failure")
		}
		return
	}
	log.Debug().Int("users", len(users)).Msg("Scheduler: Roster synced")
}
