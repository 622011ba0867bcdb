package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/isdelr/meetyou-web/internal/roster"
	"github.com/rs/zerolog/log"
)

// InterestServiceProvider defines the interface for interest services.
type InterestServiceProvider interface {
	AddInterest(ctx context.Context, userID int64, name string) error
	UpdateInterest(ctx context.Context, userID, interestID int64, name string) error
	RemoveInterest(ctx context.Context, userID int64, name string) error
}

// InterestService sends interest changes to the API and then refetches the
// roster, since the API normalises names and shares interests between users.
type InterestService struct {
	api          MeetYouAPI
	roster       *roster.Roster
	eventService EventServiceProvider
}

// NewInterestService creates a new InterestService.
func NewInterestService(api MeetYouAPI, roster *roster.Roster, eventService EventServiceProvider) *InterestService {
	return &InterestService{
		api:          api,
		roster:       roster,
		eventService: eventService,
	}
}

// AddInterest attaches an interest to a user.
func (s *InterestService) AddInterest(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if userID <= 0 || name == "" {
		return fmt.Errorf("%w: select a user and enter an interest", ErrInvalidInput)
	}

	if err := s.api.AddInterest(ctx, userID, name); err != nil {
		record(s.eventService, "interest.add", EventLevelError, fmt.Sprintf("Failed to add interest '%s': %v", name, err), &userID)
		return fmt.Errorf("failed to add interest: %w", err)
	}

	record(s.eventService, "interest.add", EventLevelInfo, fmt.Sprintf("Interest '%s' added.", name), &userID)
	s.refresh(ctx)
	return nil
}

// UpdateInterest renames one of a user's interests.
func (s *InterestService) UpdateInterest(ctx context.Context, userID, interestID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: interest cannot be empty", ErrInvalidInput)
	}

	if _, err := s.api.UpdateInterest(ctx, userID, interestID, name); err != nil {
		record(s.eventService, "interest.update", EventLevelError, fmt.Sprintf("Failed to rename interest %d: %v", interestID, err), &userID)
		return fmt.Errorf("failed to update interest: %w", err)
	}

	record(s.eventService, "interest.update", EventLevelInfo, fmt.Sprintf("Interest %d renamed to '%s'.", interestID, name), &userID)
	s.refresh(ctx)
	return nil
}

// RemoveInterest detaches an interest from a user by name.
func (s *InterestService) RemoveInterest(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: interest cannot be empty", ErrInvalidInput)
	}

	if err := s.api.RemoveInterest(ctx, userID, name); err != nil {
		record(s.eventService, "interest.remove", EventLevelError, fmt.Sprintf("Failed to remove interest '%s': %v", name, err), &userID)
		return fmt.Errorf("failed to remove interest: %w", err)
	}

	record(s.eventService, "interest.remove", EventLevelInfo, fmt.Sprintf("Interest '%s' removed.", name), &userID)
	s.refresh(ctx)
	return nil
}

// refresh refetches the roster after a successful change. A failed refetch
// leaves the old roster and is not reported to the caller.
func (s *InterestService) refresh(ctx context.Context) {
	if _, err := refreshRoster(ctx, s.api, s.roster); err != nil {
		log.Error().Err(err).Msg("Failed to refresh roster after interest change")
	}
}
