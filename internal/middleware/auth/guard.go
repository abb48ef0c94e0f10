package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/hraza-dev/shopping_center/internal/service/token"
)

// Guard gates routes on the caller's identity and role. Role checks happen
// here, before the handler runs, so a forbidden mutation never reaches the
// store.
type Guard struct {
	Tokens *token.Service
}

// NewCookie builds the hardened auth cookie shape shared by the guard and
// the auth handlers.
func NewCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireLogin resolves the caller from the access cookie (or bearer
// header), rotating an expired access token through the refresh cookie, and
// stores userID/role in the echo context.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.resolve(c)
		if err != nil {
			return err
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireRole is RequireLogin plus a role check against the claim.
func (g *Guard) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := g.resolve(c)
			if err != nil {
				return err
			}
			if r, _ := claims["role"].(string); r != role {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

func (g *Guard) resolve(c echo.Context) (jwt.MapClaims, error) {
	if raw := accessTokenFrom(c); raw != "" {
		claims, err := token.ParseAccessToken(raw, g.Tokens.JWTSecret)
		if err == nil {
			return claims, nil
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	newAccess, newRefresh, claims, err := g.Tokens.Rotate(rfCookie.Value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.SetCookie(NewCookie("accessToken", newAccess, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(NewCookie("refreshToken", newRefresh, "/", time.Now().Add(token.RefreshTTL)))
	return claims, nil
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

// UserID reads the caller id placed in the context by the guard.
func UserID(c echo.Context) (uint, error) {
	if id, ok := c.Get("userID").(uint); ok {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
}
