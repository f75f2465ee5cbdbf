package middleware // contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware

	"github.com/magsub/subscription-api/internal/auth"
)

// subjectKey is the context key under which the authenticated user's email
// is stored for downstream handlers and middleware.
const subjectKey = "subject"

// BearerAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject (the user's email) into the
// request context. The token configuration must match the one used when
// issuing tokens. Handlers behind this middleware read the caller via
// Subject(c); they still look the identity up in the store themselves, so
// a token for a deleted account passes here but fails at the handler.
func BearerAuth(tokens auth.TokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return challenge(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Validate(raw)
			if err != nil {
				return challenge(c)
			}
			subject, ok := auth.Subject(claims)
			if !ok {
				return challenge(c)
			}
			c.Set(subjectKey, subject)
			return next(c)
		}
	}
}

// Subject returns the authenticated email placed in context by BearerAuth,
// or "" when the request is unauthenticated.
func Subject(c echo.Context) string {
	if s, ok := c.Get(subjectKey).(string); ok {
		return s
	}
	return ""
}

// challenge writes the uniform 401 used for every authentication failure.
// The body never reveals which check rejected the token.
func challenge(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
}
