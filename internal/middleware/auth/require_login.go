package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kasir/internal/tokens"
)

const (
	AccessCookie = "accessToken"

	ctxClaims = "user"
)

type Middleware struct {
	JWTSecret []byte
	jwt       echo.MiddlewareFunc
}

func New(secret []byte) *Middleware {
	m := &Middleware{JWTSecret: secret}
	m.jwt = echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxClaims,
		TokenLookup: "header:Authorization:Bearer ,cookie:" + AccessCookie,
		ParseTokenFunc: func(_ echo.Context, raw string) (interface{}, error) {
			claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
			if err != nil {
				return nil, err
			}
			if _, err := claims.UserID(); err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing access token").SetInternal(err)
		},
	})
	return m
}

// RequireAuth accepts an "Authorization: Bearer" header or the access cookie.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.jwt(next)
}

func claims(c echo.Context) (*tokens.AccessClaims, bool) {
	cl, ok := c.Get(ctxClaims).(*tokens.AccessClaims)
	return cl, ok
}

// UserID returns the authenticated operator set by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	cl, ok := claims(c)
	if !ok {
		return 0, false
	}
	id, err := cl.UserID()
	return id, err == nil
}

func Username(c echo.Context) string {
	cl, ok := claims(c)
	if !ok {
		return ""
	}
	return cl.Username
}
