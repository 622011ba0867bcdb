package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvents struct {
	limit int
	err   error
}

func (s *stubEvents) CreateEvent(eventType, level, message string, userID *int64) error {
	return nil
}

func (s *stubEvents) GetRecentEvents(limit int) ([]models.Event, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []models.Event{{ID: "e1", Type: "user.create", Level: "info", Message: "User 'Anna' created."}}, nil
}

func TestEventHandler_GetRecent(t *testing.T) {
	tests := []struct {
		query string
		limit int
	}{
		{"", defaultEventLimit},
		{"?limit=5", 5},
		{"?limit=-1", defaultEventLimit},
		{"?limit=abc", defaultEventLimit},
		{"?limit=100000", maxEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			events := &stubEvents{}
			rec := httptest.NewRecorder()
			NewEventHandler(events).GetRecent(rec, httptest.NewRequest(http.MethodGet, "/activity"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.limit, events.limit)

			var got []models.Event
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.Len(t, got, 1)
			assert.Equal(t, "user.create", got[0].Type)
		})
	}
}

func TestEventHandler_GetRecentError(t *testing.T) {
	rec := httptest.NewRecorder()
	NewEventHandler(&stubEvents{err: errors.New("disk I/O error")}).GetRecent(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
