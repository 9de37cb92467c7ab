package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/service"
	"github.com/unilab/lab-reservation-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints. Login
// exchanges professor credentials for an access/refresh token pair;
// refresh rotates the pair; logout revokes the refresh token.
type AuthHandler struct {
	Cfg        config.Config
	Professors *service.ProfessorService
	Tokens     service.TokenStore
}

func NewAuthHandler(cfg config.Config, p *service.ProfessorService, t service.TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Professors: p, Tokens: t}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResp struct {
	AccessToken  string    `json:"access_token"`
	AccessExp    time.Time `json:"access_expires"`
	RefreshToken string    `json:"refresh_token"`
	RefreshExp   time.Time `json:"refresh_expires"`
}

// issuePair creates, stores and returns a fresh token pair for a professor.
func (h *AuthHandler) issuePair(ctx context.Context, professorID uint64) (tokenResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, professorID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenResp{}, err
	}
	if err := h.Tokens.Store(ctx, professorID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenResp{}, err
	}
	return tokenResp{
		AccessToken:  access.Token,
		AccessExp:    access.Exp,
		RefreshToken: refresh.Raw, // raw goes back to the client once
		RefreshExp:   refresh.Exp,
	}, nil
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and senha are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Professors.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	pair, err := h.issuePair(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /refresh: validate by hash, revoke the old
// token, issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	professorID, err := h.Tokens.Validate(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	_ = h.Tokens.Revoke(ctx, hash)

	pair, err := h.issuePair(ctx, professorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout handles POST /logout: revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.Validate(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.Revoke(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated professor's record (without the hash).
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := professorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Professors.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, professorResp{ID: p.ID, Name: p.Name, Email: p.Email})
}
