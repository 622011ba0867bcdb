package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/isdelr/meetyou-web/internal/roster"
	"github.com/rs/zerolog/log"
)

// ErrInvalidInput is returned when a form value fails local validation.
var ErrInvalidInput = errors.New("invalid input")

// Search modes supported by the search page.
const (
	SearchSingle = "single" // users having the one interest
	SearchAll    = "all"    // users having every listed interest
	SearchAny    = "any"    // users having at least one listed interest
)

// MeetYouAPI is the subset of the REST client the services depend on.
type MeetYouAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	SearchByInterest(ctx context.Context, interestType string) ([]models.User, error)
	SearchByAllInterests(ctx context.Context, interestTypes []string) ([]models.User, error)
	SearchByAnyInterest(ctx context.Context, interestTypes []string) ([]models.User, error)
	AddInterest(ctx context.Context, userID int64, interestName string) error
	UpdateInterest(ctx context.Context, userID, interestID int64, interestType string) (models.Interest, error)
	RemoveInterest(ctx context.Context, userID int64, interestName string) error
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	ListUsers(ctx context.Context, refresh bool) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	Search(ctx context.Context, query, mode string) ([]models.User, error)
	RefreshRoster(ctx context.Context) ([]models.User, error)
}

// UserService keeps the roster in step with user mutations sent to the API.
type UserService struct {
	api          MeetYouAPI
	roster       *roster.Roster
	eventService EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(api MeetYouAPI, roster *roster.Roster, eventService EventServiceProvider) *UserService {
	return &UserService{
		api:          api,
		roster:       roster,
		eventService: eventService,
	}
}

// ListUsers returns the roster, fetching it first when it was never loaded
// or when refresh is set.
func (s *UserService) ListUsers(ctx context.Context, refresh bool) ([]models.User, error) {
	if !refresh {
		if users, loaded := s.roster.Snapshot(); loaded {
			return users, nil
		}
	}
	return s.RefreshRoster(ctx)
}

// RefreshRoster refetches every user and replaces the roster. On failure
// the previous roster is kept.
func (s *UserService) RefreshRoster(ctx context.Context) ([]models.User, error) {
	return refreshRoster(ctx, s.api, s.roster)
}

// GetUser returns a user from the roster, refetching once if it is missing.
func (s *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	if user, ok := s.roster.Find(id); ok {
		return user, nil
	}
	if _, err := s.RefreshRoster(ctx); err != nil {
		return models.User{}, err
	}
	if user, ok := s.roster.Find(id); ok {
		return user, nil
	}
	return models.User{}, fmt.Errorf("user with ID %d not found", id)
}

// CreateUser submits a new user and adds the stored record to the roster.
// The roster keeps the API's order, so the user goes to the end.
func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	if err := validateUserInput(in); err != nil {
		return models.User{}, err
	}

	user, err := s.api.CreateUser(ctx, in)
	if err != nil {
		record(s.eventService, "user.create", EventLevelError, fmt.Sprintf("Failed to create user '%s': %v", in.Email, err), nil)
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.roster.Add(user)

	record(s.eventService, "user.create", EventLevelInfo, fmt.Sprintf("User '%s' created.", user.Name), &user.ID)
	return user, nil
}

// UpdateUser replaces a user's fields. The roster entry becomes the previous
// record overlaid with the submitted values and then the server's response.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	if err := validateUserInput(in); err != nil {
		return models.User{}, err
	}

	resp, err := s.api.UpdateUser(ctx, id, in)
	if err != nil {
		record(s.eventService, "user.update", EventLevelError, fmt.Sprintf("Failed to update user %d: %v", id, err), &id)
		return models.User{}, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	prev, ok := s.roster.Find(id)
	if !ok {
		prev = models.User{ID: id}
	}
	updated := prev.Merge(in, resp)
	if !s.roster.Replace(updated) {
		log.Debug().Int64("user_id", id).Msg("Updated user was not in the roster")
	}

	record(s.eventService, "user.update", EventLevelInfo, fmt.Sprintf("User '%s' updated.", updated.Name), &id)
	return updated, nil
}

// DeleteUser removes a user from the API and the roster.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		record(s.eventService, "user.delete", EventLevelError, fmt.Sprintf("Failed to delete user %d: %v", id, err), &id)
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	s.roster.Remove(id)
	record(s.eventService, "user.delete", EventLevelInfo, fmt.Sprintf("User %d deleted.", id), &id)
	return nil
}

// Search filters users by interest. A blank query returns every user.
func (s *UserService) Search(ctx context.Context, query, mode string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListUsers(ctx, false)
	}

	switch ParseSearchMode(mode) {
	case SearchAll:
		terms := SplitInterests(query)
		if len(terms) == 0 {
			return s.ListUsers(ctx, false)
		}
		return s.api.SearchByAllInterests(ctx, terms)
	case SearchAny:
		terms := SplitInterests(query)
		if len(terms) == 0 {
			return s.ListUsers(ctx, false)
		}
		return s.api.SearchByAnyInterest(ctx, terms)
	default:
		return s.api.SearchByInterest(ctx, query)
	}
}

// ParseSearchMode maps a form value to a search mode, defaulting to single.
func ParseSearchMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case SearchAll:
		return SearchAll
	case SearchAny:
		return SearchAny
	default:
		return SearchSingle
	}
}

// SplitInterests splits a comma separated query into trimmed, non-empty terms.
func SplitInterests(query string) []string {
	var terms []string
	for _, part := range strings.Split(query, ",") {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

func validateUserInput(in models.UserInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return nil
}

func refreshRoster(ctx context.Context, api MeetYouAPI, r *roster.Roster) ([]models.User, error) {
	users, err := api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	r.Reset(users)
	out, _ := r.Snapshot()
	return out, nil
}
