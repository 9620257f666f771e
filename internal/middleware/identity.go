package middleware

// identity.go holds the helper that reads the acting user from the Echo
// context.  JWTAuth stores it under "user_id"; unauthenticated requests
// have none and are reported as "anon".

import "github.com/labstack/echo/v4"

func currentUserID(c echo.Context) string {
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        return v
    }
    return "anon"
}
