package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/peerfund/backend/internal/db"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ===== Login =====
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	var (
		userID   string
		username string
		password string
		role     string
	)
	err := db.Conn.QueryRow(context.Background(), `
        SELECT id, username, password, role FROM users WHERE email = $1
    `, req.Email).Scan(&userID, &username, &password, &role)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Input correct credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Input correct credentials"})
	}

	signed, err := signToken(userID, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: signed, Username: username, Email: req.Email})
}

// ===== Admin login =====
// Admin identity is credential-based via ADMIN_EMAIL / ADMIN_PASSWORD; the
// issued token carries role=admin and gates the /admin group.
func AdminLogin(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admin login not configured"})
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(adminPassword)) == 1
	if !emailOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Input correct credentials"})
	}

	signed, err := signToken("admin", "admin")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": signed})
}

func signToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
