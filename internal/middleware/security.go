package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders marks every response as non-cacheable, non-sniffable and
// non-frameable. Responses echo nothing from the clipboard, but clients
// should still never store them.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Cache-Control", "no-store")
			h.Set("Content-Security-Policy", "default-src 'none'")

			return next(c)
		}
	}
}
