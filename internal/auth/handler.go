package auth

import (
	"context"
	"net/http"
	"net/mail"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/peerfund/backend/internal/db"
)

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=5"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type SignupResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ===== Signup =====
// Creates the user together with a zeroed ledger record in one transaction.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if errs := validateSignup(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password, role)
		VALUES ($1, $2, $3, $4, 'user')
		RETURNING id
	`, uuid.New().String(), req.Username, req.Email, string(hashed)).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email or Username already exist"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO ledgers (user_id) VALUES ($1)
	`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ledger creation failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "user",
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed, Username: req.Username, Email: req.Email})
}

// validateSignup returns one message per failed field, mirroring the
// field-level validation of the v1 API.
func validateSignup(req *SignupRequest) []string {
	var errs []string
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, "Enter a valid email")
	}
	if len(req.Username) < 5 {
		errs = append(errs, "Username must be at least 5 characters")
	}
	if len(req.Password) < 5 {
		errs = append(errs, "Password must be at least 5 characters")
	}
	return errs
}
