package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/user"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &user.RefreshToken{}))

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "test-access"
	cfg.JWT.AccessTokenExpiryMinutes = 15
	cfg.JWT.RefreshTokenSecret = "test-refresh"
	cfg.JWT.RefreshTokenExpiryDays = 7

	r := gin.New()
	api := r.Group("/api")
	RegisterAuthRoutes(api, db, cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAccount(t *testing.T, r *gin.Engine) AuthResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:     "jane@example.com",
		Username:  "jane_gg",
		Password:  "password123",
		FirstName: "Jane",
		LastName:  "Doe",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	r := newAuthTestRouter(t)

	resp := registerAccount(t, r)
	assert.Equal(t, "jane_gg", resp.User.Username)

	// Duplicate email.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:    "jane@example.com",
		Username: "different",
		Password: "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login by email, then by username.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		LoginIdentifier: "jane@example.com",
		Password:        "password123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		LoginIdentifier: "jane_gg",
		Password:        "password123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		LoginIdentifier: "jane_gg",
		Password:        "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe_RequiresToken(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := registerAccount(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "jane@example.com", me.Email)
}

func TestRefreshToken_Rotates(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := registerAccount(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/auth/refresh-token", RefreshTokenRequest{
		RefreshToken: resp.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rotated AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rotated))
	require.NotEmpty(t, rotated.RefreshToken)

	// The consumed token is revoked and cannot be replayed.
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh-token", RefreshTokenRequest{
		RefreshToken: resp.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword_EndsSessions(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := registerAccount(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		OldPassword:     "wrong",
		NewPassword:     "newpassword456",
		PasswordConfirm: "newpassword456",
	}, resp.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		OldPassword:     "password123",
		NewPassword:     "newpassword456",
		PasswordConfirm: "newpassword456",
	}, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	// Old refresh token died with the password change.
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh-token", RefreshTokenRequest{
		RefreshToken: resp.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		LoginIdentifier: "jane_gg",
		Password:        "newpassword456",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
