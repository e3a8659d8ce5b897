package account

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never return
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type BankDetails struct {
	UserID        string `json:"userId"`
	AccHolderName string `json:"accHolderName"`
	BankName      string `json:"bankName"`
	AccountNo     string `json:"accountNo"`
	IFSC          string `json:"ifsc"`
	Type          string `json:"type"`
}

type KYC struct {
	UserID        string `json:"userId"`
	AccHolderName string `json:"accHolderName"`
	MobileNo      string `json:"mobileNo"`
	PAN           string `json:"pan"`
	Aadhar        string `json:"aadhar"`
}

type Beneficiary struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	BeneficiaryName string    `json:"beneficiaryName"`
	MobileNo        string    `json:"mobileNo"`
	AccountNo       string    `json:"accountNo"`
	Address         string    `json:"address"`
	State           string    `json:"state"`
	ZIP             string    `json:"zip"`
	BankName        string    `json:"bankName"`
	BranchName      string    `json:"branchName"`
	IFSC            string    `json:"ifsc"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"createdAt"`
}
