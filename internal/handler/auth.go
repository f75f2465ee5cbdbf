package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/magsub/subscription-api/internal/auth"
	"github.com/magsub/subscription-api/internal/config"
	"github.com/magsub/subscription-api/internal/middleware"
	"github.com/magsub/subscription-api/internal/repository"
)

// AuthHandler bundles dependencies for the user and session endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Auth    *auth.Authenticator
	Users   UserStore
	Revoker RefreshRevoker // nil unless the refresh registry is enabled
}

func NewAuthHandler(cfg config.Config, a *auth.Authenticator, users UserStore, revoker RefreshRevoker) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a, Users: users, Revoker: revoker}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginReq matches the OAuth2 password form: the client posts
// application/x-www-form-urlencoded username/password, where username
// carries the email.
type loginReq struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type refreshReq struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

type resetPasswordReq struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type userResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// tokenResp is the token pair shape the login and refresh endpoints return.
type tokenResp struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// unauthorized writes the uniform 401 with a bearer challenge. Every
// authentication failure funnels here so responses never reveal which
// check rejected the request.
func unauthorized(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
}

// Register handles POST /users/register: create the user identity with a
// hashed password. A duplicate email is reported as a 400, matching the
// historical API contract.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, userResp{ID: uid, Name: req.Name, Email: req.Email})
}

// Login handles POST /users/login. Credentials arrive form-encoded; a
// successful login returns a bearer token pair. Unknown email and wrong
// password produce byte-identical 401 responses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Username))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, email, req.Password)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh handles POST /users/token/refresh: exchange a refresh token for
// a new access token. Unless rotation is enabled the same refresh token is
// echoed back.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Auth.RefreshAccess(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	})
}

// Me handles GET /users/me behind the bearer middleware. The subject claim
// set by the middleware still gets resolved against the store, so tokens
// of deleted accounts are rejected here.
func (h *AuthHandler) Me(c echo.Context) error {
	subject := middleware.Subject(c)
	if subject == "" {
		return unauthorized(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, subject)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, userResp{ID: u.ID, Name: u.Name, Email: u.Email})
}

// ResetPassword handles POST /users/reset-password: replace the stored
// hash for the given email. Unlike login, a miss here is a plain 404; the
// endpoint exists for operators, not as an authentication surface.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/new_password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	hash, err := auth.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful"})
}

// Deactivate handles DELETE /users/deactivate/:username: remove the user
// row. Outstanding access tokens stay valid until they expire (stateless
// token model); with the refresh registry enabled the user's refresh
// tokens are revoked so no new access tokens can be minted.
func (h *AuthHandler) Deactivate(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if h.Revoker != nil {
		_ = h.Revoker.RevokeAllForUser(ctx, u.ID)
	}
	if err := h.Users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}

// reqCtx bounds a handler's database work to a single request-scoped
// timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
