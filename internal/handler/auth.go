// This file implements registration, login, token refresh and the /me
// endpoint.  Access tokens are short-lived JWTs; refresh tokens are
// random strings stored hashed and rotated on every refresh.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/repository"
	"github.com/eventsystem/event-booking/internal/utils"
)

// AuthHandler bundles the user and token repositories with the token
// issuing parameters from the configuration.
type AuthHandler struct {
	UserRepo       *repository.UserRepo
	TokenRepo      *repository.TokenRepo
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// NewAuthHandler constructs an AuthHandler and panics if a repository is
// nil.
func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, jwtSecret string, accessTTLMin, refreshTTLDays, bcryptCost int) *AuthHandler {
	if users == nil || tokens == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{
		UserRepo:       users,
		TokenRepo:      tokens,
		JWTSecret:      jwtSecret,
		AccessTTLMin:   accessTTLMin,
		RefreshTTLDays: refreshTTLDays,
		BcryptCost:     bcryptCost,
	}
}

// Register handles POST /v1/auth/register.  Role defaults to CUSTOMER;
// ADMIN accounts are expected to be created by an operator with direct
// access, not through the public API.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || !validEmail(body.Email) {
		return fieldError(c, "email", "a valid email is required")
	}
	if len(body.Password) < 8 {
		return fieldError(c, "password", "password must be at least 8 characters")
	}
	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	u := repository.User{Email: body.Email, PasswordHash: hash, Role: "CUSTOMER"}
	if err := h.UserRepo.Create(c.Request().Context(), &u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return fieldError(c, "email", "email already registered")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Login handles POST /v1/auth/login and issues an access/refresh token
// pair.  The same message covers unknown emails and wrong passwords so
// the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.UserRepo.GetByEmail(c.Request().Context(), strings.TrimSpace(strings.ToLower(body.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issueTokens(c, u)
}

// Refresh handles POST /v1/auth/refresh.  The presented refresh token is
// revoked and a fresh pair is issued (rotation), so a leaked token can
// be used at most once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(body.RefreshToken))
	userID, err := h.TokenRepo.FindValidUser(c.Request().Context(), hash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	u, err := h.UserRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	if err := h.TokenRepo.Revoke(c.Request().Context(), hash); err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return h.issueTokens(c, u)
}

// Logout handles POST /v1/auth/logout.  The refresh token from the body
// is revoked; access tokens simply expire on their own.
func (h *AuthHandler) Logout(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	err := h.TokenRepo.Revoke(c.Request().Context(), utils.HashRefreshRaw(strings.TrimSpace(body.RefreshToken)))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me for any authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.UserRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	return c.JSON(http.StatusOK, u)
}

// issueTokens builds the access/refresh pair for a user and stores the
// refresh token hash.
func (h *AuthHandler) issueTokens(c echo.Context, u *repository.User) error {
	access, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	refresh, err := utils.NewRefreshToken(h.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	if err := h.TokenRepo.Store(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":       access.Token,
		"access_expires_at":  access.Exp,
		"refresh_token":      refresh.Raw,
		"refresh_expires_at": refresh.Exp,
	})
}
