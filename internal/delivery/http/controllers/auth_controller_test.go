package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"slotswapper/internal/delivery/http/helpers"
	"slotswapper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	registerErr  error
	loginErr     error
	token        string
	user         *domain.User
	lastUsername string
	lastEmail    string
	lastPassword string
}

func (f *fakeUserService) Register(_ context.Context, username, email, password, firstName, lastName string) (string, *domain.User, error) {
	f.lastUsername = username
	f.lastEmail = email
	f.lastPassword = password
	if f.registerErr != nil {
		return "", nil, f.registerErr
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) Login(_ context.Context, usernameOrEmail, password string) (string, *domain.User, error) {
	f.lastUsername = usernameOrEmail
	f.lastPassword = password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, domain.ErrNotFound
}

func TestAuthController_Register(t *testing.T) {
	validBody := `{"username":"alice","email":"alice@example.com","password":"s3cret","first_name":"Alice","last_name":"Anders"}`

	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:        "short username",
			body:        `{"username":"al","email":"alice@example.com","password":"s3cret","first_name":"A","last_name":"B"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "bad email",
			body:        `{"username":"alice","email":"not-an-email","password":"s3cret","first_name":"A","last_name":"B"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "short password",
			body:        `{"username":"alice","email":"alice@example.com","password":"123","first_name":"A","last_name":"B"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "duplicate user",
			body:        validBody,
			serviceErr:  domain.ErrDuplicateUser,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUserService{
				registerErr: tt.serviceErr,
				token:       "tok-1",
				user:        &domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"},
			}
			ctrl := NewAuthController(testLogger, svc)

			req := authedRequest(http.MethodPost, "http://test/auth/register", []byte(tt.body), "")
			rr := httptest.NewRecorder()
			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErrCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			var envelope AuthSuccessResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.Nil(t, envelope.Error)
			assert.Equal(t, "tok-1", envelope.Data.Token)
			require.NotNil(t, envelope.Data.User)
			assert.Equal(t, "alice", envelope.Data.User.Username)
			assert.Equal(t, "alice", svc.lastUsername)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"s3cret"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing password",
			body:        `{"username":"alice"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "bad credentials",
			body:        `{"username":"alice","password":"wrong"}`,
			serviceErr:  domain.ErrInvalidCredentials,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUserService{
				loginErr: tt.serviceErr,
				token:    "tok-1",
				user:     &domain.User{ID: "user-1", Username: "alice"},
			}
			ctrl := NewAuthController(testLogger, svc)

			req := authedRequest(http.MethodPost, "http://test/auth/login", []byte(tt.body), "")
			rr := httptest.NewRecorder()
			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErrCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			var envelope AuthSuccessResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.Nil(t, envelope.Error)
			assert.Equal(t, "tok-1", envelope.Data.Token)
			assert.Equal(t, "alice", svc.lastUsername)
			assert.Equal(t, "s3cret", svc.lastPassword)
		})
	}
}
