package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peerfund/backend/internal/account"
	"github.com/peerfund/backend/internal/db"
)

// Me returns the currently authenticated user's profile
func Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var u account.User
	err := db.Conn.QueryRow(c.Request().Context(),
		`SELECT id, username, email, role, created_at FROM users WHERE id=$1`, uid).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, u)
}
