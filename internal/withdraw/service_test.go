package withdraw

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerfund/backend/internal/ledger"
)

// memStore is an in-memory Store used to exercise the workflow without a
// database. Settle mirrors the storage contract: all-or-nothing.
type memStore struct {
	mu       sync.Mutex
	ledgers  map[string]*ledger.Ledger
	requests map[string]*Request
	history  map[string][]ledger.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		ledgers:  make(map[string]*ledger.Ledger),
		requests: make(map[string]*Request),
		history:  make(map[string][]ledger.Transaction),
	}
}

func (m *memStore) addLedger(l *ledger.Ledger) {
	ledger.Recompute(l)
	m.ledgers[l.UserID] = l
}

func (m *memStore) Ledger(_ context.Context, userID string) (*ledger.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.ledgers[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) PendingRequest(_ context.Context, userID string) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[userID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) CreateRequest(_ context.Context, req *Request) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.requests[req.UserID]; exists {
		return false, nil
	}
	cp := *req
	m.requests[req.UserID] = &cp
	return true, nil
}

func (m *memStore) Settle(_ context.Context, userID string) (*ledger.Ledger, *Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.ledgers[userID]
	if !ok {
		return nil, nil, ledger.ErrNotFound
	}
	req, ok := m.requests[userID]
	if !ok {
		return nil, nil, ErrNoRequest
	}
	ledger.Settle(l, req.Amount)
	m.history[userID] = append(m.history[userID], ledger.Transaction{
		Amount: req.Amount,
		Status: ledger.StatusProcessed,
	})
	delete(m.requests, userID)
	lcp := *l
	rcp := *req
	return &lcp, &rcp, nil
}

func (m *memStore) DeleteRequest(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[userID]; !ok {
		return false, nil
	}
	delete(m.requests, userID)
	return true, nil
}

const uid = "4a1f6f5e-2b6c-4c65-9f6a-1f0d3f7b8c9d"

func eligibleLedger(avail int64) *ledger.Ledger {
	return &ledger.Ledger{UserID: uid, AllotedAmt: avail, BankDetailsAdded: true}
}

func TestRequestThenSettleFullBalance(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)
	ctx := context.Background()

	req, err := svc.Request(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), req.Amount)
	assert.Equal(t, ledger.StatusProcessing, req.Status)
	assert.False(t, req.CreatedAt.IsZero())

	l, settled, err := svc.Settle(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), settled.Amount)
	assert.Equal(t, int64(1000), l.DisbursedAmt)
	assert.Equal(t, int64(0), l.AvailToWithdraw)

	require.Len(t, store.history[uid], 1)
	assert.Equal(t, int64(1000), store.history[uid][0].Amount)
	assert.Equal(t, ledger.StatusProcessed, store.history[uid][0].Status)

	_, exists := store.requests[uid]
	assert.False(t, exists, "request must be consumed by settlement")
}

func TestRequestBlockedUser(t *testing.T) {
	store := newMemStore()
	l := eligibleLedger(1000)
	l.IsBlocked = true
	store.addLedger(l)
	svc := NewService(store)

	_, err := svc.Request(context.Background(), uid)
	assert.ErrorIs(t, err, ErrUserBlocked)
	assert.Empty(t, store.requests)
}

func TestRequestNoAvailableBalance(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(0))
	svc := NewService(store)

	_, err := svc.Request(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoBalance)
	assert.Empty(t, store.requests)
}

func TestRequestNegativeBalanceRejected(t *testing.T) {
	store := newMemStore()
	l := eligibleLedger(100)
	l.LockedAmt = 250 // drives availToWithdraw negative
	store.addLedger(l)
	svc := NewService(store)

	_, err := svc.Request(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoBalance)
}

func TestRequestWithoutBankDetails(t *testing.T) {
	store := newMemStore()
	l := eligibleLedger(1000)
	l.BankDetailsAdded = false
	store.addLedger(l)
	svc := NewService(store)

	_, err := svc.Request(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoBankDetails)
	assert.Empty(t, store.requests)
}

func TestRequestMissingLedger(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.Request(context.Background(), uid)
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

func TestSecondRequestLeavesOriginalUntouched(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.Request(ctx, uid)
	require.NoError(t, err)

	_, err = svc.Request(ctx, uid)
	assert.ErrorIs(t, err, ErrRequestPending)

	stored := store.requests[uid]
	require.NotNil(t, stored)
	assert.Equal(t, first.Amount, stored.Amount)
	assert.Equal(t, first.CreatedAt, stored.CreatedAt)
}

func TestSettleWithoutRequest(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)

	_, _, err := svc.Settle(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoRequest)
}

// A missing ledger reports the same "no pending request" failure as a
// missing request.
func TestSettleMissingLedger(t *testing.T) {
	svc := NewService(newMemStore())

	_, _, err := svc.Settle(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoRequest)
}

func TestSettleTwiceFails(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Request(ctx, uid)
	require.NoError(t, err)

	_, _, err = svc.Settle(ctx, uid)
	require.NoError(t, err)

	_, _, err = svc.Settle(ctx, uid)
	assert.ErrorIs(t, err, ErrNoRequest)

	// Disbursement happened exactly once.
	assert.Equal(t, int64(1000), store.ledgers[uid].DisbursedAmt)
	assert.Len(t, store.history[uid], 1)
}

func TestRejectDropsRequestWithoutMovingFunds(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Request(ctx, uid)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, uid))
	assert.Empty(t, store.requests)
	assert.Equal(t, int64(0), store.ledgers[uid].DisbursedAmt)
	assert.Equal(t, int64(1000), store.ledgers[uid].AvailToWithdraw)

	assert.ErrorIs(t, svc.Reject(ctx, uid), ErrNoRequest)
}

func TestConcurrentRequestsCreateAtMostOne(t *testing.T) {
	store := newMemStore()
	store.addLedger(eligibleLedger(1000))
	svc := NewService(store)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Request(ctx, uid)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created int
	for err := range results {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrRequestPending)
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, store.requests, 1)
}
