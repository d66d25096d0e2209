package gateway

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalcare/console/internal/platform/rest"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair upstream and persists it.
// Nothing is stored on failure.
func (s *Server) Login(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if creds.Username == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var pair tokenPair
	err := s.client.DoJSON(c.Request().Context(), http.MethodPost, "/token/", creds, &pair)
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) {
			s.log.Warn().Int("status", apiErr.StatusCode).Msg("login rejected upstream")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		s.log.Error().Err(err).Msg("token endpoint unreachable")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "authentication service unavailable"})
	}

	if err := s.store.SetTokens(pair.Access, pair.Refresh); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": true})
}

func (s *Server) Logout(c echo.Context) error {
	if err := s.store.Clear(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": false})
}

func (s *Server) Session(c echo.Context) error {
	out := map[string]any{
		"authenticated": s.store.Authenticated(),
		"lastTab":       s.store.LastTab(),
	}
	if exp := s.store.ExpiresAt(); !exp.IsZero() {
		out["expiresAt"] = exp
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) SetTab(c echo.Context) error {
	var body struct {
		Tab string `json:"tab"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.store.SetLastTab(body.Tab); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"lastTab": body.Tab})
}
