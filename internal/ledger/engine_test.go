package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeExactArithmetic(t *testing.T) {
	l := &Ledger{AllotedAmt: 1000, LockedAmt: 200, DisbursedAmt: 300}
	Recompute(l)
	assert.Equal(t, int64(500), l.AvailToWithdraw)
	assert.Equal(t, l.AllotedAmt-l.LockedAmt-l.DisbursedAmt, l.AvailToWithdraw)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	l := &Ledger{AllotedAmt: 1000, LockedAmt: 50, DisbursedAmt: 450}
	Recompute(l)
	first := l.AvailToWithdraw
	Recompute(l)
	assert.Equal(t, first, l.AvailToWithdraw)
}

// Locking more than is allotted drives the available balance negative; the
// engine does not clamp.
func TestRecomputeAllowsNegative(t *testing.T) {
	l := &Ledger{AllotedAmt: 100, LockedAmt: 250}
	Recompute(l)
	assert.Equal(t, int64(-150), l.AvailToWithdraw)
}

func TestRecomputeZeroBoundary(t *testing.T) {
	l := &Ledger{AllotedAmt: 500, LockedAmt: 200, DisbursedAmt: 300}
	Recompute(l)
	assert.Equal(t, int64(0), l.AvailToWithdraw)
}

func TestSetAndIncrementAlloted(t *testing.T) {
	l := &Ledger{}

	SetAlloted(l, 1000)
	assert.Equal(t, int64(1000), l.AllotedAmt)
	assert.Equal(t, int64(1000), l.AvailToWithdraw)

	IncrementAlloted(l, 250)
	assert.Equal(t, int64(1250), l.AllotedAmt)
	assert.Equal(t, int64(1250), l.AvailToWithdraw)

	// Set overwrites, it never adds.
	SetAlloted(l, 400)
	assert.Equal(t, int64(400), l.AllotedAmt)
	assert.Equal(t, int64(400), l.AvailToWithdraw)
}

func TestSetAndIncrementLocked(t *testing.T) {
	l := &Ledger{AllotedAmt: 1000}
	Recompute(l)

	SetLocked(l, 300)
	assert.Equal(t, int64(300), l.LockedAmt)
	assert.Equal(t, int64(700), l.AvailToWithdraw)

	IncrementLocked(l, 100)
	assert.Equal(t, int64(400), l.LockedAmt)
	assert.Equal(t, int64(600), l.AvailToWithdraw)
}

func TestSettleRecomputesFromScratch(t *testing.T) {
	l := &Ledger{AllotedAmt: 1000}
	Recompute(l)
	assert.Equal(t, int64(1000), l.AvailToWithdraw)

	// Poison the cached value; settlement must not decrement from it.
	l.AvailToWithdraw = 9999

	Settle(l, 1000)
	assert.Equal(t, int64(1000), l.DisbursedAmt)
	assert.Equal(t, int64(0), l.AvailToWithdraw)
}

func TestSettleAccumulatesDisbursed(t *testing.T) {
	l := &Ledger{AllotedAmt: 1000}
	Recompute(l)

	Settle(l, 400)
	Settle(l, 100)
	assert.Equal(t, int64(500), l.DisbursedAmt)
	assert.Equal(t, int64(500), l.AvailToWithdraw)
}
