package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appidentity "github.com/JakfarS/invoice-request-mceasy/internal/application/identity"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/identity"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/auth"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	userRepo *MockUserRepository
	router   *gin.Engine
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo: new(MockUserRepository),
	}

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
	svc := appidentity.NewAuthService(f.userRepo, jwtService, zap.NewNop())
	h := NewAuthHandler(svc)

	f.router = gin.New()
	authGroup := f.router.Group("/api/v1/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
	}
	return f
}

func authTestUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("approver", "correct-horse-battery", "Approver One")
	require.NoError(t, err)
	return u
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture()
	u := authTestUser(t)

	f.userRepo.On("FindByUsername", mock.Anything, "approver").Return(u, nil)
	f.userRepo.On("Save", mock.Anything, u).Return(nil)

	body, _ := json.Marshal(gin.H{"username": "approver", "password": "correct-horse-battery"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token.AccessToken)
	assert.NotEmpty(t, resp.Data.Token.RefreshToken)
	assert.Equal(t, "Bearer", resp.Data.Token.TokenType)
	assert.Equal(t, "approver", resp.Data.User.Username)
	assert.Equal(t, "Approver One", resp.Data.User.DisplayName)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	u := authTestUser(t)

	f.userRepo.On("FindByUsername", mock.Anything, "approver").Return(u, nil)

	body, _ := json.Marshal(gin.H{"username": "approver", "password": "wrong"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid username or password", resp.Error.Message)
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture()

	f.userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

	body, _ := json.Marshal(gin.H{"username": "ghost", "password": "whatever-works"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	// Same response as a wrong password so the endpoint does not leak
	// which usernames exist.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	f := newAuthFixture()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"approver"}`)))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.userRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	f := newAuthFixture()
	u := authTestUser(t)

	f.userRepo.On("FindByUsername", mock.Anything, "approver").Return(u, nil)
	f.userRepo.On("FindByID", mock.Anything, u.ID).Return(u, nil)
	f.userRepo.On("Save", mock.Anything, u).Return(nil)

	loginBody, _ := json.Marshal(gin.H{"username": "approver", "password": "correct-horse-battery"})
	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var loginResp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &loginResp))

	body, _ := json.Marshal(gin.H{"refresh_token": loginResp.Data.Token.RefreshToken})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token.AccessToken)
	assert.Equal(t, "approver", resp.Data.User.Username)
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	f := newAuthFixture()

	body, _ := json.Marshal(gin.H{"refresh_token": "not-a-token"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
