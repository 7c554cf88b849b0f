package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/user"
	"github.com/nextup-gg/nextup/pkg/responses"
	"github.com/nextup-gg/nextup/pkg/token"
	"github.com/nextup-gg/nextup/pkg/utils"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

func (ac *AuthController) generateAndSaveTokens(userID uint) (string, string, error) {
	accessToken, err := token.GenerateJWT(userID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(userID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &user.RefreshToken{
		UserID:    userID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}
	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// @Summary      Register a new account
// @Description  Create an account with email, username and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "Registration details"
// @Success      201   {object} AuthResponse
// @Failure      400   {object} responses.ErrorResponse
// @Failure      409   {object} responses.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := ac.repo.GetUserByEmail(req.Email); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusConflict, "An account with this email already exists")
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusConflict, "An account with this username already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	newUser := &user.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := ac.repo.CreateUser(newUser); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(newUser.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(newUser),
	})
}

// @Summary      Log in
// @Description  Authenticate with email/username and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200  {object} AuthResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByEmail(req.LoginIdentifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Unauthorized(c, "Invalid credentials")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(u),
	})
}

// @Summary      Refresh tokens
// @Description  Exchange a valid refresh token for a new token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body  RefreshTokenRequest  true  "Refresh token"
// @Success      200  {object} AuthResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		responses.Unauthorized(c, "Refresh token is revoked or expired")
		return
	}

	// Rotate: revoke the used token before issuing a new pair.
	if err := ac.repo.RevokeRefreshToken(stored.Token); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	u, err := ac.repo.GetUserByID(claims.UserID)
	if err != nil {
		responses.Unauthorized(c, "Account no longer exists")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(u),
	})
}

// @Summary      Log out
// @Description  Revoke the supplied refresh token, or every session.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        logout  body  LogoutRequest  false  "Logout options"
// @Success      200  {object} responses.SuccessResponse
// @Router       /auth/logout [post]
// @Security     Bearer
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if req.InvalidateAllSessions {
		if err := ac.repo.RevokeAllUserTokens(userID); err != nil {
			responses.InternalServerError(c, err)
			return
		}
	} else if req.RefreshToken != "" {
		if err := ac.repo.RevokeRefreshToken(req.RefreshToken); err != nil {
			responses.InternalServerError(c, err)
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Logged out", nil)
}

// @Summary      Get own account
// @Tags         Auth
// @Produce      json
// @Success      200  {object} UserResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/me [get]
// @Security     Bearer
func (ac *AuthController) GetMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "Account")
		return
	}

	c.JSON(http.StatusOK, FilterUserRecord(u))
}

// @Summary      Update own account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        account  body  UpdateAccountRequest  true  "Fields to update"
// @Success      200  {object} UserResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/me [put]
// @Security     Bearer
func (ac *AuthController) UpdateMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "Account")
		return
	}

	if req.Username != nil && *req.Username != u.Username {
		if _, err := ac.repo.GetUserByUsername(*req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
			responses.SendError(c, http.StatusConflict, "An account with this username already exists")
			return
		}
		u.Username = *req.Username
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}

	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, FilterUserRecord(u))
}

// @Summary      Change password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        passwords  body  ChangePasswordRequest  true  "Old and new password"
// @Success      200  {object} responses.SuccessResponse
// @Failure      400  {object} responses.ErrorResponse
// @Router       /auth/change-password [post]
// @Security     Bearer
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "Account")
		return
	}

	if !utils.CheckPassword(u.Password, req.OldPassword) {
		responses.BadRequest(c, "Old password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	u.Password = hashed

	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	// Password changes end every other session.
	if err := ac.repo.RevokeAllUserTokens(userID); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Password changed", nil)
}
