package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	userResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "register_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "register_failed", err)
	}

	user, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return ok(c, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "login_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "login_failed", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return ok(c, http.StatusOK, loginResponse{
		userResponse: userResponse{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Token:        res.Token,
		ExpiresAt:    res.ExpiresAt,
	})
}
