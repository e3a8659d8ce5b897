package account

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/peerfund/backend/internal/db"
)

type BankDetailsRequest struct {
	AccHolderName string `json:"accHolderName"`
	BankName      string `json:"bankName"`
	AccountNo     string `json:"accountNo"`
	IFSC          string `json:"ifsc"`
	Type          string `json:"type"`
}

// AddBankDetails upserts the caller's bank details and marks the ledger so
// the withdrawal workflow can check the precondition without a join.
// POST /account/bank-details
func AddBankDetails(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req BankDetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if errs := validateBankDetails(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx := c.Request().Context()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO bank_details (user_id, acc_holder_name, bank_name, account_no, ifsc, acc_type)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET
            acc_holder_name = EXCLUDED.acc_holder_name,
            bank_name = EXCLUDED.bank_name,
            account_no = EXCLUDED.account_no,
            ifsc = EXCLUDED.ifsc,
            acc_type = EXCLUDED.acc_type`,
		uid, req.AccHolderName, req.BankName, req.AccountNo, req.IFSC, req.Type)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account number or IFSC already registered"})
	}

	_, err = tx.Exec(ctx,
		`UPDATE ledgers SET bank_details_added = TRUE WHERE user_id = $1`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update ledger"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}
	return c.JSON(http.StatusOK, "Details added successfully")
}

// GetBankDetails returns the caller's bank details.
// GET /account/bank-details
func GetBankDetails(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return respondBankDetails(c, uid)
}

func respondBankDetails(c echo.Context, userID string) error {
	var d BankDetails
	err := db.Conn.QueryRow(c.Request().Context(), `
        SELECT user_id, acc_holder_name, bank_name, account_no, ifsc, acc_type
        FROM bank_details WHERE user_id = $1`, userID).
		Scan(&d.UserID, &d.AccHolderName, &d.BankName, &d.AccountNo, &d.IFSC, &d.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "bank details not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch bank details"})
	}
	return c.JSON(http.StatusOK, d)
}

func validateBankDetails(req *BankDetailsRequest) []string {
	var errs []string
	if len(req.AccHolderName) < 3 {
		errs = append(errs, "Enter a valid name")
	}
	if len(req.AccountNo) < 10 {
		errs = append(errs, "Enter a valid acc no.")
	}
	if len(req.BankName) < 2 {
		errs = append(errs, "Enter a valid bank name")
	}
	if len(req.IFSC) < 4 {
		errs = append(errs, "IFSC invalid")
	}
	if len(req.Type) < 7 {
		errs = append(errs, "Please select your bank account type")
	}
	return errs
}
