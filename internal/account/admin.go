package account

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/peerfund/backend/internal/db"
)

type AdminUser struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsBlocked       bool      `json:"isBlocked"`
	AllotedAmt      int64     `json:"allotedAmt"`
	LockedAmt       int64     `json:"lockedAmt"`
	DisbursedAmt    int64     `json:"disbursedAmt"`
	AvailToWithdraw int64     `json:"availToWithdraw"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListUsers returns every user together with their ledger snapshot.
// GET /admin/users
func ListUsers(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(), `
        SELECT u.id, u.username, u.email, u.role,
               COALESCE(l.is_blocked, FALSE),
               COALESCE(l.alloted_amt, 0),
               COALESCE(l.locked_amt, 0),
               COALESCE(l.disbursed_amt, 0),
               COALESCE(l.avail_to_withdraw, 0),
               u.created_at
        FROM users u
        LEFT JOIN ledgers l ON l.user_id = u.id
        ORDER BY u.created_at DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	defer rows.Close()

	users := []AdminUser{}
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsBlocked,
			&u.AllotedAmt, &u.LockedAmt, &u.DisbursedAmt, &u.AvailToWithdraw,
			&u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read user record"})
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GetUserBankDetails returns a user's bank details for settlement review.
// GET /admin/users/:id/bank-details
func GetUserBankDetails(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	return respondBankDetails(c, userID)
}

// DeleteUser removes the user and every associated record in one database
// transaction: ledger, history, withdraw request, bank details, KYC and
// beneficiaries.
// DELETE /admin/users/:id
func DeleteUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	ctx := c.Request().Context()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	// Child tables also carry ON DELETE CASCADE; the explicit deletes keep
	// the cascade visible and independent of schema drift.
	for _, table := range []string{
		"beneficiaries", "kyc", "bank_details",
		"withdraw_requests", "ledger_transactions", "ledgers",
	} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete user data"})
		}
	}

	ct, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete user"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	log.WithField("user_id", userID).Info("user and associated records deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
