package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the identifier JWTAuth stored in the context,
// or "anon" for unauthenticated requests. Rate limit keys use it to
// separate logged-in users from anonymous traffic. JWT numeric claims
// decode as float64, so both forms are handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
