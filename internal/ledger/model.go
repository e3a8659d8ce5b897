package ledger

import "time"

// Transaction statuses used across the ledger history and withdraw requests.
const (
	StatusProcessing = "Processing"
	StatusProcessed  = "Processed"
)

// Ledger is the per-user balance record. AvailToWithdraw is denormalized;
// Recompute is its only writer.
type Ledger struct {
	UserID           string    `json:"userId"`
	AllotedAmt       int64     `json:"allotedAmt"`
	LockedAmt        int64     `json:"lockedAmt"`
	DisbursedAmt     int64     `json:"disbursedAmt"`
	AvailToWithdraw  int64     `json:"availToWithdraw"`
	IsBlocked        bool      `json:"isBlocked"`
	BankDetailsAdded bool      `json:"bankDetailsAdded"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Transaction is one entry of the append-only disbursement history.
type Transaction struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
