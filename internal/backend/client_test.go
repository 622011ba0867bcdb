package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
}

// newTestAPI starts a fake API that records the last request and answers
// with the given status and body.
func newTestAPI(t *testing.T, status int, body string) (*Client, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*last = recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(data)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", time.Second), last
}

func TestClient_ListUsers(t *testing.T) {
	c, last := newTestAPI(t, http.StatusOK, `[{"id":1,"name":"Anna","email":"a@x.io","birth":"2000-01-02","age":25,"interests":[{"id":3,"interestType":"Chess"}]}]`)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "GET", last.method)
	assert.Equal(t, "/api/users", last.path)
	assert.Equal(t, "Anna", users[0].Name)
	assert.Equal(t, 25, *users[0].Age)
	assert.Equal(t, "Chess", users[0].Interests[0].InterestType)
}

func TestClient_ListUsers_NullBody(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusOK, `null`)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestClient_CreateUser(t *testing.T) {
	c, last := newTestAPI(t, http.StatusCreated, `{"id":9,"name":"Anna","email":"a@x.io","birth":"2000-01-02"}`)

	t.Run("sends birth date", func(t *testing.T) {
		user, err := c.CreateUser(context.Background(), models.NewUserInput("Anna", "a@x.io", "2000-01-02"))
		require.NoError(t, err)
		assert.Equal(t, int64(9), user.ID)
		assert.Equal(t, "POST", last.method)
		assert.Equal(t, "/api/users", last.path)
		assert.JSONEq(t, `{"name":"Anna","email":"a@x.io","birth":"2000-01-02"}`, last.body)
	})

	t.Run("sends null birth when empty", func(t *testing.T) {
		_, err := c.CreateUser(context.Background(), models.NewUserInput("Anna", "a@x.io", ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Anna","email":"a@x.io","birth":null}`, last.body)
	})
}

func TestClient_UpdateUser_EmptyBody(t *testing.T) {
	c, last := newTestAPI(t, http.StatusOK, ``)

	user, err := c.UpdateUser(context.Background(), 4, models.NewUserInput(" Bob ", "b@x.io", ""))
	require.NoError(t, err)
	assert.Equal(t, models.User{}, user)
	assert.Equal(t, "PUT", last.method)
	assert.Equal(t, "/api/users/4", last.path)
	assert.JSONEq(t, `{"name":"Bob","email":"b@x.io","birth":null}`, last.body)
}

func TestClient_DeleteUser(t *testing.T) {
	c, last := newTestAPI(t, http.StatusNoContent, ``)

	require.NoError(t, c.DeleteUser(context.Background(), 12))
	assert.Equal(t, "DELETE", last.method)
	assert.Equal(t, "/api/users/12", last.path)
}

func TestClient_Search(t *testing.T) {
	c, last := newTestAPI(t, http.StatusOK, `[]`)
	ctx := context.Background()

	t.Run("single interest", func(t *testing.T) {
		_, err := c.SearchByInterest(ctx, "Music")
		require.NoError(t, err)
		assert.Equal(t, "/api/users/by-interest", last.path)
		assert.Equal(t, "interestType=Music", last.query)
	})

	t.Run("all interests repeat the key", func(t *testing.T) {
		_, err := c.SearchByAllInterests(ctx, []string{"Music", "Chess"})
		require.NoError(t, err)
		assert.Equal(t, "/api/users/by-all-interests", last.path)
		assert.Equal(t, "interestTypes=Music&interestTypes=Chess", last.query)
	})

	t.Run("any interest repeat the key", func(t *testing.T) {
		_, err := c.SearchByAnyInterest(ctx, []string{"Running", "Books"})
		require.NoError(t, err)
		assert.Equal(t, "/api/users/by-any-interest", last.path)
		assert.Equal(t, "interestTypes=Running&interestTypes=Books", last.query)
	})
}

func TestClient_Interests(t *testing.T) {
	ctx := context.Background()

	t.Run("add uses query and no body", func(t *testing.T) {
		c, last := newTestAPI(t, http.StatusOK, ``)
		require.NoError(t, c.AddInterest(ctx, 3, "Board games"))
		assert.Equal(t, "POST", last.method)
		assert.Equal(t, "/api/users/3/interests", last.path)
		assert.Equal(t, "interestName=Board+games", last.query)
		assert.Empty(t, last.body)
	})

	t.Run("update sends interestType body", func(t *testing.T) {
		c, last := newTestAPI(t, http.StatusOK, `{"id":5,"interestType":"Jazz"}`)
		interest, err := c.UpdateInterest(ctx, 3, 5, "Jazz")
		require.NoError(t, err)
		assert.Equal(t, "PUT", last.method)
		assert.Equal(t, "/api/users/3/interests/5", last.path)
		assert.JSONEq(t, `{"interestType":"Jazz"}`, last.body)
		assert.Equal(t, "Jazz", interest.InterestType)
	})

	t.Run("remove by name", func(t *testing.T) {
		c, last := newTestAPI(t, http.StatusOK, ``)
		require.NoError(t, c.RemoveInterest(ctx, 3, "Jazz"))
		assert.Equal(t, "DELETE", last.method)
		assert.Equal(t, "/api/users/3/interests", last.path)
		assert.Equal(t, "interestName=Jazz", last.query)
	})
}

func TestClient_Errors(t *testing.T) {
	t.Run("server message is kept", func(t *testing.T) {
		c, _ := newTestAPI(t, http.StatusBadRequest, `{"status":400,"message":"Email already in use"}`)
		_, err := c.CreateUser(context.Background(), models.NewUserInput("A", "a@x.io", ""))
		require.Error(t, err)

		msg, ok := ServerMessage(err)
		assert.True(t, ok)
		assert.Equal(t, "Email already in use", msg)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	t.Run("no message", func(t *testing.T) {
		c, _ := newTestAPI(t, http.StatusNotFound, `not json`)
		err := c.DeleteUser(context.Background(), 1)
		require.Error(t, err)
		_, ok := ServerMessage(err)
		assert.False(t, ok)
		assert.True(t, IsNotFound(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		c := New("http://127.0.0.1:1/api", 200*time.Millisecond)
		err := c.Ping(context.Background())
		require.Error(t, err)
		_, ok := ServerMessage(err)
		assert.False(t, ok)
	})

	t.Run("bad json on success", func(t *testing.T) {
		c, _ := newTestAPI(t, http.StatusOK, `{`)
		_, err := c.ListUsers(context.Background())
		assert.Error(t, err)
	})
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 409, Message: "Interest already exists"}
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "Interest already exists")

	data, _ := json.Marshal(map[string]string{"message": "  spaced  "})
	assert.Equal(t, "spaced", newAPIError(400, data).Message)
}
