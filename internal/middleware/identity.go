package middleware

// identity.go holds the user extraction helper shared by the rate limit
// and cache middleware.  JWTAuth stores the token subject under
// "user_id"; unauthenticated requests resolve to "anon" so public
// endpoints still get stable per-IP keys.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user identifier from the Echo
// context, or "anon" when the request carries no valid token.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case fmt.Stringer:
			return s.String()
		case float64:
			return fmt.Sprintf("%.0f", s)
		}
	}
	return "anon"
}
