package ledger

// Recompute derives the available balance from its three inputs:
//
//	availToWithdraw = allotedAmt - lockedAmt - disbursedAmt
//
// The value is intentionally not clamped at zero; locking more than is
// allotted yields a negative available balance, which simply makes
// withdrawal impossible.
func Recompute(l *Ledger) {
	l.AvailToWithdraw = l.AllotedAmt - l.LockedAmt - l.DisbursedAmt
}

// SetAlloted overwrites the allotted amount.
func SetAlloted(l *Ledger, amount int64) {
	l.AllotedAmt = amount
	Recompute(l)
}

// IncrementAlloted adds a delta to the allotted amount.
func IncrementAlloted(l *Ledger, delta int64) {
	l.AllotedAmt += delta
	Recompute(l)
}

// SetLocked overwrites the locked amount.
func SetLocked(l *Ledger, amount int64) {
	l.LockedAmt = amount
	Recompute(l)
}

// IncrementLocked adds a delta to the locked amount.
func IncrementLocked(l *Ledger, delta int64) {
	l.LockedAmt += delta
	Recompute(l)
}

// Settle moves a withdrawal amount into the disbursed total. The available
// balance is recomputed from scratch, never decremented from the cached value.
func Settle(l *Ledger, amount int64) {
	l.DisbursedAmt += amount
	Recompute(l)
}
