package withdraw

import "errors"

// Business-rule violations surfaced to clients as structured errors.
var (
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrUserBlocked    = errors.New("user is blocked")
	ErrNoBalance      = errors.New("no balance available to withdraw")
	ErrRequestPending = errors.New("withdraw request already pending")
	ErrNoBankDetails  = errors.New("bank details not added")
	ErrNoRequest      = errors.New("no withdraw request for the user")
)
