package withdraw

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/peerfund/backend/internal/ledger"
)

// Store is the persistence contract of the withdrawal workflow. Settle must
// be atomic: the ledger update, the history append and the request deletion
// either all happen or none do.
type Store interface {
	// Ledger returns a user's ledger or ledger.ErrNotFound.
	Ledger(ctx context.Context, userID string) (*ledger.Ledger, error)
	// PendingRequest returns the outstanding request, or nil when none exists.
	PendingRequest(ctx context.Context, userID string) (*Request, error)
	// CreateRequest inserts a request; false when one already exists.
	CreateRequest(ctx context.Context, req *Request) (bool, error)
	// Settle consumes the pending request: disburses its amount into the
	// ledger, appends a Processed transaction and deletes the request.
	// Returns ErrNoRequest or ledger.ErrNotFound when either side is missing.
	Settle(ctx context.Context, userID string) (*ledger.Ledger, *Request, error)
	// DeleteRequest drops the pending request; false when none existed.
	DeleteRequest(ctx context.Context, userID string) (bool, error)
}

// Service coordinates the NoRequest -> Pending -> Settled state machine.
// All mutating operations for the same user are serialized on a per-user
// mutex; the storage layer backstops with its unique request key and
// row-level ledger locks.
type Service struct {
	store Store
	locks keyedMutex
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Request creates a pending withdrawal for the full available balance.
// Preconditions, each with its own error: ledger exists, user not blocked,
// positive available balance, no outstanding request, bank details on file.
func (s *Service) Request(ctx context.Context, userID string) (*Request, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	l, err := s.store.Ledger(ctx, userID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.IsBlocked {
		return nil, ErrUserBlocked
	}
	if l.AvailToWithdraw <= 0 {
		return nil, ErrNoBalance
	}
	pending, err := s.store.PendingRequest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrRequestPending
	}
	if !l.BankDetailsAdded {
		return nil, ErrNoBankDetails
	}

	req := &Request{
		UserID:    userID,
		Amount:    l.AvailToWithdraw,
		Status:    ledger.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.store.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrRequestPending
	}
	return req, nil
}

// Settle converts the user's pending request into a disbursed transaction.
// A missing request or a missing ledger both report ErrNoRequest.
func (s *Service) Settle(ctx context.Context, userID string) (*ledger.Ledger, *Request, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	l, req, err := s.store.Settle(ctx, userID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, nil, ErrNoRequest
	}
	if err != nil {
		return nil, nil, err
	}
	return l, req, nil
}

// Reject drops the pending request without moving funds.
func (s *Service) Reject(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	deleted, err := s.store.DeleteRequest(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoRequest
	}
	return nil
}

// keyedMutex hands out one mutex per key. Entries are refcounted so idle
// keys do not accumulate.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[string]*lockEntry)
	}
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
