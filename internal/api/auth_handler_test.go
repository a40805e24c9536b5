package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/service/auth"
	"github.com/notecards-app/notecards-api/internal/store"
)

// mockUserStore is a mock implementation of the UserStore interface
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockJWTService is a mock implementation of the JWTService interface
type mockJWTService struct {
	generateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	validateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	generateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	validateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return m.generateTokenFn(ctx, userID)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.validateTokenFn(ctx, tokenString)
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return m.generateRefreshTokenFn(ctx, userID)
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.validateRefreshTokenFn(ctx, tokenString)
}

// mockPasswordHasher is a mock implementation of the PasswordHasher interface
type mockPasswordHasher struct {
	hashFn func(password string) (string, error)
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	return m.hashFn(password)
}

// mockPasswordVerifier is a mock implementation of the PasswordVerifier interface
type mockPasswordVerifier struct {
	compareFn func(hashedPassword, password string) error
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	return m.compareFn(hashedPassword, password)
}

func happyJWTService() *mockJWTService {
	return &mockJWTService{
		generateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
			return "access-token", nil
		},
		generateRefreshTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
			return "refresh-token", nil
		},
	}
}

func postJSON(t *testing.T, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success returns token pair", func(t *testing.T) {
		var storedUser *domain.User
		userStore := &mockUserStore{
			createFn: func(ctx context.Context, user *domain.User) error {
				storedUser = user
				return nil
			},
		}
		hasher := &mockPasswordHasher{
			hashFn: func(password string) (string, error) {
				return "hashed:" + password, nil
			},
		}
		handler := NewAuthHandler(userStore, happyJWTService(), hasher, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Password: "correct-horse-battery",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "refresh-token", resp.RefreshToken)

		require.NotNil(t, storedUser)
		assert.Equal(t, "user@example.com", storedUser.Email)
		assert.Equal(t, "hashed:correct-horse-battery", storedUser.HashedPassword)
		assert.Empty(t, storedUser.Password, "plaintext password must not reach the store")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		userStore := &mockUserStore{
			createFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		hasher := &mockPasswordHasher{
			hashFn: func(password string) (string, error) { return "hashed", nil },
		}
		handler := NewAuthHandler(userStore, happyJWTService(), hasher, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Password: "correct-horse-battery",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserStore{}, happyJWTService(), &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Password: "short",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserStore{}, happyJWTService(), &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Password: "correct-horse-battery",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{
		ID:             userID,
		Email:          "user@example.com",
		HashedPassword: "stored-hash",
	}

	t.Run("success returns token pair", func(t *testing.T) {
		userStore := &mockUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				assert.Equal(t, "user@example.com", email)
				return user, nil
			},
		}
		verifier := &mockPasswordVerifier{
			compareFn: func(hashedPassword, password string) error {
				assert.Equal(t, "stored-hash", hashedPassword)
				return nil
			},
		}
		handler := NewAuthHandler(userStore, happyJWTService(), &mockPasswordHasher{}, verifier)

		req := postJSON(t, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "correct-horse-battery",
		})
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "access-token", resp.AccessToken)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		unknownStore := &mockUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}
		knownStore := &mockUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return user, nil
			},
		}
		rejectingVerifier := &mockPasswordVerifier{
			compareFn: func(hashedPassword, password string) error {
				return errors.New("mismatched hash and password")
			},
		}

		responses := make([]*httptest.ResponseRecorder, 0, 2)
		for _, userStore := range []*mockUserStore{unknownStore, knownStore} {
			handler := NewAuthHandler(userStore, happyJWTService(), &mockPasswordHasher{}, rejectingVerifier)
			req := postJSON(t, "/api/auth/login", LoginRequest{
				Email:    "user@example.com",
				Password: "wrong-password-here",
			})
			rec := httptest.NewRecorder()
			handler.Login(rec, req)
			responses = append(responses, rec)
		}

		assert.Equal(t, http.StatusUnauthorized, responses[0].Code)
		assert.Equal(t, http.StatusUnauthorized, responses[1].Code)
		assert.Equal(t, responses[0].Body.String(), responses[1].Body.String())
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserStore{}, happyJWTService(), &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("valid refresh token returns new pair", func(t *testing.T) {
		jwtService := happyJWTService()
		jwtService.validateRefreshTokenFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			assert.Equal(t, "old-refresh-token", tokenString)
			return &auth.Claims{UserID: userID, TokenType: "refresh"}, nil
		}
		handler := NewAuthHandler(&mockUserStore{}, jwtService, &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "old-refresh-token"})
		rec := httptest.NewRecorder()
		handler.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "refresh-token", resp.RefreshToken)
	})

	t.Run("expired refresh token returns 401", func(t *testing.T) {
		jwtService := happyJWTService()
		jwtService.validateRefreshTokenFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			return nil, auth.ErrExpiredRefreshToken
		}
		handler := NewAuthHandler(&mockUserStore{}, jwtService, &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "stale"})
		rec := httptest.NewRecorder()
		handler.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token in place of refresh token returns 401", func(t *testing.T) {
		jwtService := happyJWTService()
		jwtService.validateRefreshTokenFn = func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			return nil, auth.ErrWrongTokenType
		}
		handler := NewAuthHandler(&mockUserStore{}, jwtService, &mockPasswordHasher{}, &mockPasswordVerifier{})

		req := postJSON(t, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "access-token"})
		rec := httptest.NewRecorder()
		handler.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
