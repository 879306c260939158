package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotswapper/internal/delivery/http/helpers"
	"slotswapper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr       error
	listErr         error
	listResult      []*domain.Event
	updateErr       error
	updateResult    *domain.Event
	deleteErr       error
	lastCreateEvent *domain.Event
	lastEventID     string
	lastOwnerID     string
	lastPatch       domain.EventPatch
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreateEvent = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "ev-new"
	return nil
}

func (f *fakeEventService) ListMyEvents(_ context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastOwnerID = ownerID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID, ownerID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastOwnerID = ownerID
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID, ownerID string) error {
	f.lastEventID = eventID
	f.lastOwnerID = ownerID
	return f.deleteErr
}

func TestEventController_CreateEvent(t *testing.T) {
	validBody := `{"title":"standup","start_time":"2026-03-02T09:00:00Z","end_time":"2026-03-02T10:00:00Z","status":"SWAPPABLE"}`

	tests := []struct {
		name        string
		body        string
		userID      string
		serviceErr  error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       validBody,
			userID:     "user-1",
			wantStatus: http.StatusCreated,
		},
		{
			name:        "missing title",
			body:        `{"start_time":"2026-03-02T09:00:00Z","end_time":"2026-03-02T10:00:00Z"}`,
			userID:      "user-1",
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "end before start",
			body:        `{"title":"standup","start_time":"2026-03-02T10:00:00Z","end_time":"2026-03-02T09:00:00Z"}`,
			userID:      "user-1",
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "bad status value",
			body:        `{"title":"standup","start_time":"2026-03-02T09:00:00Z","end_time":"2026-03-02T10:00:00Z","status":"FREE"}`,
			userID:      "user-1",
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unauthenticated",
			body:        validBody,
			userID:      "",
			wantStatus:  http.StatusUnauthorized,
			wantErrCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:        "service rejects swap pending",
			body:        validBody,
			userID:      "user-1",
			serviceErr:  domain.ErrConflictState,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{createErr: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)

			req := authedRequest(http.MethodPost, "http://test/api/events", []byte(tt.body), tt.userID)
			rr := httptest.NewRecorder()
			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			require.NotNil(t, svc.lastCreateEvent)
			assert.Equal(t, "user-1", svc.lastCreateEvent.OwnerID)
			assert.Equal(t, domain.StatusSwappable, svc.lastCreateEvent.Status)
		})
	}
}

func TestEventController_ListMyEvents(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	event := domain.NewEvent("user-1", "standup", "", now, now.Add(time.Hour), domain.StatusBusy, now, now)
	event.ID = "ev-1"

	svc := &fakeEventService{listResult: []*domain.Event{event}}
	ctrl := NewEventController(testLogger, svc)

	req := authedRequest(http.MethodGet, "http://test/api/events", nil, "user-1")
	rr := httptest.NewRecorder()
	ctrl.ListMyEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", svc.lastOwnerID)

	var envelope EventListSuccessResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "ev-1", envelope.Data[0].ID)
}

func TestEventController_UpdateEvent(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	updated := domain.NewEvent("user-1", "retro", "", now, now.Add(time.Hour), domain.StatusSwappable, now, now)
	updated.ID = "ev-1"

	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       `{"title":"retro","status":"SWAPPABLE"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "empty title rejected",
			body:        `{"title":""}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "someone else's event looks missing",
			body:        `{"title":"retro"}`,
			serviceErr:  domain.ErrForbidden,
			wantStatus:  http.StatusNotFound,
			wantErrCode: helpers.ErrCodeNotFound,
		},
		{
			name:        "missing event",
			body:        `{"title":"retro"}`,
			serviceErr:  domain.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantErrCode: helpers.ErrCodeNotFound,
		},
		{
			name:        "frozen by pending swap",
			body:        `{"title":"retro"}`,
			serviceErr:  domain.ErrConflictState,
			wantStatus:  http.StatusConflict,
			wantErrCode: helpers.ErrCodeConflict,
		},
		{
			name:        "invalid range",
			body:        `{"end_time":"2026-03-02T08:00:00Z"}`,
			serviceErr:  domain.ErrInvalidRange,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unexpected error",
			body:        `{"title":"retro"}`,
			serviceErr:  errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantErrCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{updateErr: tt.serviceErr, updateResult: updated}
			ctrl := NewEventController(testLogger, svc)

			req := authedRequest(http.MethodPatch, "http://test/api/events/ev-1", []byte(tt.body), "user-1")
			req.SetPathValue("eventID", "ev-1")
			rr := httptest.NewRecorder()
			ctrl.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, "ev-1", svc.lastEventID)
			assert.Equal(t, "user-1", svc.lastOwnerID)
			require.NotNil(t, svc.lastPatch.Title)
			assert.Equal(t, "retro", *svc.lastPatch.Title)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantErrCode string
	}{
		{"success", nil, http.StatusOK, ""},
		{"not found", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"forbidden masked as not found", domain.ErrForbidden, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"frozen by pending swap", domain.ErrConflictState, http.StatusConflict, helpers.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{deleteErr: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)

			req := authedRequest(http.MethodDelete, "http://test/api/events/ev-1", nil, "user-1")
			req.SetPathValue("eventID", "ev-1")
			rr := httptest.NewRecorder()
			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, "ev-1", svc.lastEventID)
		})
	}
}
