package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/tokens"
)

func verifyStub(token string) (*tokens.Identity, error) {
	if token == "good" {
		return &tokens.Identity{ID: 3, Email: "c@example.com", Name: "C"}, nil
	}
	return nil, errors.New("signature is invalid")
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", status: http.StatusForbidden},
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen tokens.Identity
			h := RequireSession(verifyStub)(func(c echo.Context) error {
				id, ok := IdentityFrom(c)
				require.True(t, ok)
				seen = id
				return c.NoContent(http.StatusOK)
			})

			err := h(c)
			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, uint(3), seen.ID)
				return
			}

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.status, he.Code)
		})
	}
}

func TestIdentityFrom_Missing(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := IdentityFrom(c)
	assert.False(t, ok)
}
