package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/util"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func authTestHandler(t *testing.T, userRepo *mockUserRepo, wantUserID string) http.Handler {
	m := NewAuthMiddleware(userRepo)
	return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		assert.NotNil(t, user)
		assert.Equal(t, wantUserID, user.ID)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("accepts a bearer token and stores the user in context", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByTokenHash", mock.Anything, util.HashToken("valid-token")).
			Return(&model.User{ID: "user-1"}, nil)

		req := httptest.NewRequest("GET", "/api/qrcodes", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		authTestHandler(t, userRepo, "user-1").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("accepts a token from the query string", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByTokenHash", mock.Anything, util.HashToken("valid-token")).
			Return(&model.User{ID: "user-1"}, nil)

		req := httptest.NewRequest("GET", "/api/qrcodes?token=valid-token", nil)
		rec := httptest.NewRecorder()

		authTestHandler(t, userRepo, "user-1").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		m := NewAuthMiddleware(new(mockUserRepo))
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest("GET", "/api/qrcodes", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, nil)

		m := NewAuthMiddleware(userRepo)
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest("GET", "/api/qrcodes", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("database failure is a 500, not a 401", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		m := NewAuthMiddleware(userRepo)
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest("GET", "/api/qrcodes", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetUser(t *testing.T) {
	assert.Nil(t, GetUser(context.Background()))
}
