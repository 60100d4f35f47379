package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/formation-enrollment/internal/config"
	"github.com/iliyamo/formation-enrollment/internal/model"
	"github.com/iliyamo/formation-enrollment/internal/repository"
	"github.com/iliyamo/formation-enrollment/internal/utils"
)

// AuthHandler implements registration, login and the refresh-token
// lifecycle.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    config.Config
}

func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new account.  Every self-registered account gets
// the USER role; admins are provisioned out of band.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "a valid email is required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "password must be at least 8 characters"})
	}

	id, err := h.Users.Create(c.Request().Context(), req.Name, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "account created",
		"user":    echo.Map{"id": id, "name": req.Name, "email": strings.ToLower(req.Email), "role": model.RoleUser},
	})
}

// Login verifies credentials and issues an access/refresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	ctx := c.Request().Context()
	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "login failed"})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	return h.issueTokens(c, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "refreshToken is required"})
	}

	ctx := c.Request().Context()
	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "refresh failed"})
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "refresh failed"})
	}

	return h.issueTokens(c, user)
}

// Logout revokes the presented refresh token.  Already-revoked and
// unknown tokens produce the same response.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "refreshToken is required"})
	}
	if err := h.Tokens.RevokeByHash(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) issueTokens(c echo.Context, user model.User) error {
	ctx := c.Request().Context()

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue tokens"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue tokens"})
	}
	if err := h.Tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue tokens"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  access.Token,
		"expiresAt":    access.Exp,
		"refreshToken": refresh.Raw,
		"user":         echo.Map{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

// userIDFrom extracts the subject stored by the JWT middleware.  MapClaims
// decode numeric subjects as float64; string subjects are parsed.
func userIDFrom(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v > 0 {
			return uint64(v), true
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return n, true
		}
	case uint64:
		if v > 0 {
			return v, true
		}
	}
	return 0, false
}
