package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/ratelimit"
	"github.com/skywayair/skyway-web/internal/session"
	"github.com/skywayair/skyway-web/internal/skyway"
)

// AuthClient is the auth slice of the backend client.
type AuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

type AuthHandler struct {
	client     AuthClient
	sessions   session.Store
	limiter    *ratelimit.KeyLimiter
	cookieName string
	validate   *validator.Validate
}

func NewAuthHandler(client AuthClient, sessions session.Store, limiter *ratelimit.KeyLimiter, cookieName string) *AuthHandler {
	return &AuthHandler{
		client:     client,
		sessions:   sessions,
		limiter:    limiter,
		cookieName: cookieName,
		validate:   validator.New(),
	}
}

func (h *AuthHandler) Register(g *echo.Group) {
	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.POST("/logout", h.logout)
}

type loginResponse struct {
	Status string `json:"status"`
	Email  string `json:"email,omitempty"`
}

func (h *AuthHandler) login(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP()) {
		return respondError(c, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again shortly")
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", "failed to parse credentials")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.client.Login(ctx, req)
	if errors.Is(err, skyway.ErrAuthExpired) {
		// 401 from the login endpoint means bad credentials, not an
		// expired session; no redirect happens here.
		return respondError(c, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
	}
	if err != nil {
		return respondError(c, http.StatusBadGateway, "login_failed", err.Error())
	}

	sid := sessionID(c)
	if sid == "" {
		sid = uuid.NewString()
	}
	if err := h.sessions.SetToken(ctx, sid, token); err != nil {
		return respondError(c, http.StatusInternalServerError, "session_error", "could not persist session")
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	resp := loginResponse{Status: "ok"}
	if claims, err := session.Peek(token); err == nil {
		resp.Email = claims.Email
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) register(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP()) {
		return respondError(c, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again shortly")
	}

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", "failed to parse registration")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	if err := h.client.Register(c.Request().Context(), req); err != nil {
		return respondError(c, http.StatusBadGateway, "register_failed", err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "registered"})
}

// logout clears the stored token; nothing else ever does.
func (h *AuthHandler) logout(c echo.Context) error {
	if sid := sessionID(c); sid != "" {
		if err := h.sessions.Clear(c.Request().Context(), sid); err != nil {
			return respondError(c, http.StatusInternalServerError, "session_error", "could not clear session")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}
