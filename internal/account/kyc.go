package account

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/peerfund/backend/internal/db"
)

type KYCRequest struct {
	AccHolderName string `json:"accHolderName"`
	MobileNo      string `json:"mobileNo"`
	PAN           string `json:"pan"`
	Aadhar        string `json:"aadhar"`
}

// AddKYC upserts the caller's KYC record.
// POST /account/kyc
func AddKYC(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req KYCRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.AccHolderName == "" || req.MobileNo == "" || req.PAN == "" || req.Aadhar == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all KYC fields are required"})
	}

	_, err := db.Conn.Exec(c.Request().Context(), `
        INSERT INTO kyc (user_id, acc_holder_name, mobile_no, pan, aadhar)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            acc_holder_name = EXCLUDED.acc_holder_name,
            mobile_no = EXCLUDED.mobile_no,
            pan = EXCLUDED.pan,
            aadhar = EXCLUDED.aadhar`,
		uid, req.AccHolderName, req.MobileNo, req.PAN, req.Aadhar)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save KYC"})
	}

	return c.JSON(http.StatusOK, "KYC added successfully")
}

// GetKYC returns the caller's KYC record.
// GET /account/kyc
func GetKYC(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var k KYC
	err := db.Conn.QueryRow(c.Request().Context(), `
        SELECT user_id, acc_holder_name, mobile_no, pan, aadhar
        FROM kyc WHERE user_id = $1`, uid).
		Scan(&k.UserID, &k.AccHolderName, &k.MobileNo, &k.PAN, &k.Aadhar)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "KYC not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch KYC"})
	}
	return c.JSON(http.StatusOK, k)
}
