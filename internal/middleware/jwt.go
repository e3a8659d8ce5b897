package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware verifies the Bearer token and stores user_id and role in the
// request context for downstream handlers.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing Authorization header"})
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid Authorization format"})
		}
		tokenStr := authHeader[len(prefix):]

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("role", role)
		return next(c)
	}
}
