package services

import (
	"context"
	"sync"

	"github.com/isdelr/meetyou-web/internal/models"
)

// fakeAPI is an in-memory MeetYou API.
type fakeAPI struct {
	mu     sync.Mutex
	users  []models.User
	nextID int64
	err    error // returned by every call when set

	calls        []string
	lastTerms    []string
	updateAnswer *models.User // overrides the UpdateUser response when set
}

func newFakeAPI(users ...models.User) *fakeAPI {
	return &fakeAPI{users: users, nextID: 100}
}

func (f *fakeAPI) note(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := f.note("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User{}, f.users...), nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	if err := f.note("create"); err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := models.User{ID: f.nextID, Name: in.Name, Email: in.Email}
	if in.Birth != nil {
		u.Birth = *in.Birth
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	if err := f.note("update"); err != nil {
		return models.User{}, err
	}
	if f.updateAnswer != nil {
		return *f.updateAnswer, nil
	}
	return models.User{}, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id int64) error {
	if err := f.note("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) SearchByInterest(ctx context.Context, interestType string) ([]models.User, error) {
	f.lastTerms = []string{interestType}
	return nil, f.note("by-interest")
}

func (f *fakeAPI) SearchByAllInterests(ctx context.Context, interestTypes []string) ([]models.User, error) {
	f.lastTerms = interestTypes
	return nil, f.note("by-all-interests")
}

func (f *fakeAPI) SearchByAnyInterest(ctx context.Context, interestTypes []string) ([]models.User, error) {
	f.lastTerms = interestTypes
	return nil, f.note("by-any-interest")
}

func (f *fakeAPI) AddInterest(ctx context.Context, userID int64, interestName string) error {
	if err := f.note("add-interest"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Interests = append(f.users[i].Interests, models.Interest{ID: int64(len(f.users[i].Interests) + 1), InterestType: interestName})
		}
	}
	return nil
}

func (f *fakeAPI) UpdateInterest(ctx context.Context, userID, interestID int64, interestType string) (models.Interest, error) {
	return models.Interest{ID: interestID, InterestType: interestType}, f.note("update-interest")
}

func (f *fakeAPI) RemoveInterest(ctx context.Context, userID int64, interestName string) error {
	return f.note("remove-interest")
}

// fakeEvents collects recorded events.
type fakeEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (f *fakeEvents) CreateEvent(eventType, level, message string, userID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, models.Event{Type: eventType, Level: level, Message: message, UserID: userID})
	return nil
}

func (f *fakeEvents) GetRecentEvents(limit int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, nil
}
