package auth

import (
	"errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

const identityKey = "identity"

var ErrInvalidToken = errors.New("invalid or expired token")

type VerifyFunc func(token string) (*tokens.Identity, error)

// RequireSession accepts "Authorization: Bearer <token>". A missing or
// malformed header is 401, a token that fails verification is 403.
func RequireSession(verify VerifyFunc) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			id, err := verify(auth)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
			}
			return id, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_session")
			if errors.Is(err, ErrInvalidToken) {
				l.Warn("auth_failed", "status", 403, "reason", "token rejected", "error", err)
				return echo.NewHTTPError(http.StatusForbidden, ErrInvalidToken.Error())
			}
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		},
	})
}

func IdentityFrom(c echo.Context) (tokens.Identity, bool) {
	id, ok := c.Get(identityKey).(*tokens.Identity)
	if !ok || id == nil {
		return tokens.Identity{}, false
	}
	return *id, true
}
