package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handler "github.com/chaikhana/backend/internal/handler/http"
	"github.com/chaikhana/backend/internal/profile"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) SignUp(ctx context.Context, input profile.SignUpInput) (*profile.Profile, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*profile.Profile), args.String(1), args.Error(2)
}

func (m *MockProfileService) SignIn(ctx context.Context, email, password string) (*profile.Profile, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*profile.Profile), args.String(1), args.Error(2)
}

func (m *MockProfileService) GetSession(ctx context.Context, token string) (*profile.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateContact(ctx context.Context, id uuid.UUID, phone, address string) error {
	args := m.Called(ctx, id, phone, address)
	return args.Error(0)
}

func adminChain(profiles profile.Service) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return handler.Auth(profiles)(handler.RequireAdmin(ok))
}

func TestRequireAdmin(t *testing.T) {
	adminProfile := &profile.Profile{
		ID:   uuid.Must(uuid.NewV4()),
		Name: "Админ",
		Role: profile.RoleAdmin,
	}
	userProfile := &profile.Profile{
		ID:   uuid.Must(uuid.NewV4()),
		Name: "Тимур",
		Role: profile.RoleUser,
	}

	tests := []struct {
		name     string
		token    string
		session  *profile.Profile
		err      error
		wantCode int
	}{
		{
			name:     "admin_token",
			token:    "admin-token",
			session:  adminProfile,
			wantCode: http.StatusOK,
		},
		{
			name:     "regular_user_token",
			token:    "user-token",
			session:  userProfile,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "no_token",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "rejected_token_degrades_to_guest",
			token:    "expired-token",
			err:      profile.ErrInvalidToken,
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProfileService)
			if tt.token != "" {
				if tt.err != nil {
					mockService.On("GetSession", mock.Anything, tt.token).Return(nil, tt.err).Once()
				} else {
					mockService.On("GetSession", mock.Anything, tt.token).Return(tt.session, nil).Once()
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			adminChain(mockService).ServeHTTP(rr, req)

			require.Equal(t, tt.wantCode, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuth_TokenFromCookie(t *testing.T) {
	userProfile := &profile.Profile{
		ID:   uuid.Must(uuid.NewV4()),
		Name: "Тимур",
		Role: profile.RoleUser,
	}

	mockService := new(MockProfileService)
	mockService.On("GetSession", mock.Anything, "cookie-token").Return(userProfile, nil).Once()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := handler.Auth(mockService)(handler.RequireAuth(ok))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
	rr := httptest.NewRecorder()

	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestSessionID_ReusesExistingCookie(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: testSessionID})
	rr := httptest.NewRecorder()

	handler.SessionID(inner).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Empty(t, rr.Result().Cookies(), "an existing session cookie must not be reissued")
}
