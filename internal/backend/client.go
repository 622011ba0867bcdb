package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/meetyou-web/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client wraps the MeetYou REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the API rooted at baseURL (for example
// http://localhost:8080/api). A zero timeout disables the per-request limit.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListUsers returns every user with their interests.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// CreateUser submits a new user and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/users", nil, in, &user)
	return user, err
}

// UpdateUser replaces a user's fields. The API may answer with an empty
// body, in which case the returned User is zero.
func (c *Client) UpdateUser(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPut, userPath(id), nil, in, &user)
	return user, err
}

// DeleteUser removes a user by ID.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

// SearchByInterest returns users that have the given interest.
func (c *Client) SearchByInterest(ctx context.Context, interestType string) ([]models.User, error) {
	q := url.Values{}
	q.Set("interestType", interestType)
	return c.search(ctx, "/users/by-interest", q)
}

// SearchByAllInterests returns users that have every one of the interests.
func (c *Client) SearchByAllInterests(ctx context.Context, interestTypes []string) ([]models.User, error) {
	return c.search(ctx, "/users/by-all-interests", repeated("interestTypes", interestTypes))
}

// SearchByAnyInterest returns users that have at least one of the interests.
func (c *Client) SearchByAnyInterest(ctx context.Context, interestTypes []string) ([]models.User, error) {
	return c.search(ctx, "/users/by-any-interest", repeated("interestTypes", interestTypes))
}

// AddInterest attaches an interest to a user.
func (c *Client) AddInterest(ctx context.Context, userID int64, interestName string) error {
	q := url.Values{}
	q.Set("interestName", interestName)
	return c.do(ctx, http.MethodPost, userPath(userID)+"/interests", q, nil, nil)
}

// UpdateInterest renames one of a user's interests.
func (c *Client) UpdateInterest(ctx context.Context, userID, interestID int64, interestType string) (models.Interest, error) {
	var interest models.Interest
	path := userPath(userID) + "/interests/" + strconv.FormatInt(interestID, 10)
	err := c.do(ctx, http.MethodPut, path, nil, models.InterestInput{InterestType: interestType}, &interest)
	return interest, err
}

// RemoveInterest detaches an interest from a user by name.
func (c *Client) RemoveInterest(ctx context.Context, userID int64, interestName string) error {
	q := url.Values{}
	q.Set("interestName", interestName)
	return c.do(ctx, http.MethodDelete, userPath(userID)+"/interests", q, nil, nil)
}

// Ping checks that the API answers the user listing.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/users", nil, nil, nil)
}

func (c *Client) search(ctx context.Context, path string, q url.Values) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, path, q, nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// do sends one request. body is encoded as JSON when non-nil; out is
// decoded from the response when non-nil and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// repeated encodes a list as key=a&key=b.
func repeated(key string, values []string) url.Values {
	q := url.Values{}
	for _, v := range values {
		q.Add(key, v)
	}
	return q
}

func nonNil(users []models.User) []models.User {
	if users == nil {
		return []models.User{}
	}
	return users
}
