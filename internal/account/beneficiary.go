package account

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/peerfund/backend/internal/db"
)

type BeneficiaryRequest struct {
	BeneficiaryName string `json:"beneficiaryName"`
	MobileNo        string `json:"mobileNo"`
	AccountNo       string `json:"accountNo"`
	Address         string `json:"address"`
	State           string `json:"state"`
	ZIP             string `json:"zip"`
	BankName        string `json:"bankName"`
	BranchName      string `json:"branchName"`
	IFSC            string `json:"ifsc"`
	Type            string `json:"type"`
}

// AddBeneficiary appends to the caller's beneficiary list.
// POST /account/beneficiaries
func AddBeneficiary(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req BeneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.BeneficiaryName == "" || req.AccountNo == "" || req.BankName == "" || req.IFSC == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beneficiary name, account no, bank name and IFSC are required"})
	}

	id := uuid.New().String()
	_, err := db.Conn.Exec(c.Request().Context(), `
        INSERT INTO beneficiaries
            (id, user_id, beneficiary_name, mobile_no, account_no, address,
             state, zip, bank_name, branch_name, ifsc, acc_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, uid, req.BeneficiaryName, req.MobileNo, req.AccountNo, req.Address,
		req.State, req.ZIP, req.BankName, req.BranchName, req.IFSC, req.Type)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beneficiary account number or IFSC already registered"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "beneficiary added", "id": id})
}

// ListBeneficiaries returns the caller's beneficiaries in insertion order.
// GET /account/beneficiaries
func ListBeneficiaries(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(), `
        SELECT id, user_id, beneficiary_name, mobile_no, account_no, address,
               state, zip, bank_name, branch_name, ifsc, acc_type, created_at
        FROM beneficiaries
        WHERE user_id = $1
        ORDER BY created_at`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch beneficiaries"})
	}
	defer rows.Close()

	beneficiaries := []Beneficiary{}
	for rows.Next() {
		var b Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.BeneficiaryName, &b.MobileNo,
			&b.AccountNo, &b.Address, &b.State, &b.ZIP, &b.BankName,
			&b.BranchName, &b.IFSC, &b.Type, &b.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read beneficiary record"})
		}
		beneficiaries = append(beneficiaries, b)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch beneficiaries"})
	}

	return c.JSON(http.StatusOK, echo.Map{"beneficiaries": beneficiaries})
}
