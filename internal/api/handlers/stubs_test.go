package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

// stubUsers is an in-memory UserServiceProvider.
type stubUsers struct {
	users []models.User
	err   error // returned by mutations when set

	searched  []string // query, mode of the last search
	created   []models.UserInput
	updated   map[int64]models.UserInput
	deleted   []int64
	refreshed bool
}

func newStubUsers(users ...models.User) *stubUsers {
	return &stubUsers{users: users, updated: make(map[int64]models.UserInput)}
}

func (s *stubUsers) ListUsers(ctx context.Context, refresh bool) ([]models.User, error) {
	s.refreshed = s.refreshed || refresh
	return s.users, nil
}

func (s *stubUsers) GetUser(ctx context.Context, id int64) (models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errors.New("not found")
}

func (s *stubUsers) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	s.created = append(s.created, in)
	user := models.User{ID: 99, Name: in.Name, Email: in.Email}
	s.users = append(s.users, user)
	return user, nil
}

func (s *stubUsers) UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	s.updated[id] = in
	return models.User{ID: id, Name: in.Name, Email: in.Email}, nil
}

func (s *stubUsers) DeleteUser(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUsers) Search(ctx context.Context, query, mode string) ([]models.User, error) {
	s.searched = []string{query, mode}
	return s.users, nil
}

func (s *stubUsers) RefreshRoster(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}

// stubInterests records interest calls.
type stubInterests struct {
	err   error
	calls []string
}

func (s *stubInterests) AddInterest(ctx context.Context, userID int64, name string) error {
	if strings.TrimSpace(name) == "" || userID <= 0 {
		return services.ErrInvalidInput
	}
	s.calls = append(s.calls, "add:"+name)
	return s.err
}

func (s *stubInterests) UpdateInterest(ctx context.Context, userID, interestID int64, name string) error {
	s.calls = append(s.calls, "update:"+name)
	return s.err
}

func (s *stubInterests) RemoveInterest(ctx context.Context, userID int64, name string) error {
	s.calls = append(s.calls, "remove:"+name)
	return s.err
}

type testServer struct {
	router    *chi.Mux
	users     *stubUsers
	interests *stubInterests
	notices   *notice.Manager
}

// newTestServer wires the page and form handlers the way the app router does.
func newTestServer(t *testing.T, users *stubUsers) *testServer {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	ts := &testServer{
		users:     users,
		interests: &stubInterests{},
		notices:   notice.NewManager("test-secret", false),
	}
	pages := NewPageHandler(users, renderer)
	userHandler := NewUserHandler(users, pages, ts.notices)
	interestHandler := NewInterestHandler(ts.interests, pages, ts.notices)

	r := chi.NewRouter()
	r.Use(ts.notices.Middleware())
	r.Get("/", pages.Index)
	r.Get("/search", pages.Search)
	r.Post("/users", userHandler.Create)
	r.Post("/users/{id}", userHandler.Update)
	r.Post("/users/{id}/delete", userHandler.Delete)
	r.Post("/users/{id}/interests/delete", interestHandler.Remove)
	r.Post("/users/{id}/interests/{interestId}", interestHandler.Update)
	r.Post("/interests", interestHandler.Add)
	ts.router = r
	return ts
}

func (ts *testServer) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// noticeCookie returns the notice cookie set by a response.
func noticeCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "notice" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no notice cookie set")
	return nil
}
