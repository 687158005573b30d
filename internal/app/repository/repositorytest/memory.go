// Package repositorytest provides in-memory repositories for service tests.
package repositorytest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/tool"
	"github.com/fatflowers/marketpay/pkg/types"
)

var ErrInjected = errors.New("injected repository failure")

type StatusChange struct {
	Ref    string
	From   string
	To     string
	Reason types.StatusChangeReason
}

// Transactions is a map-backed repository.TransactionRepository.
type Transactions struct {
	mu      sync.Mutex
	rows    map[string]*models.Transaction
	Changes []StatusChange
	Writes  int
	// FailWrites makes Create and Update return ErrInjected.
	FailWrites bool
}

var _ repository.TransactionRepository = (*Transactions)(nil)

func NewTransactions(rows ...*models.Transaction) *Transactions {
	r := &Transactions{rows: map[string]*models.Transaction{}}
	for _, t := range rows {
		if t.ID == "" {
			t.ID = tool.GenerateUUIDV7()
		}
		r.rows[t.ExternalReference] = cloneTxn(t)
	}
	return r
}

func cloneTxn(t *models.Transaction) *models.Transaction {
	c := *t
	return &c
}

func (r *Transactions) Create(_ context.Context, txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	if txn.ID == "" {
		txn.ID = tool.GenerateUUIDV7()
	}
	now := time.Now()
	txn.CreatedAt, txn.UpdatedAt = now, now
	r.rows[txn.ExternalReference] = cloneTxn(txn)
	r.Writes++
	return nil
}

func (r *Transactions) GetByExternalReference(_ context.Context, ref string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.rows[ref]; ok {
		return cloneTxn(t), nil
	}
	return nil, nil
}

func (r *Transactions) GetByVendorPaymentID(_ context.Context, paymentID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.VendorPaymentID != nil && *t.VendorPaymentID == paymentID {
			return cloneTxn(t), nil
		}
	}
	return nil, nil
}

func (r *Transactions) Update(_ context.Context, before, after *models.Transaction, reason types.StatusChangeReason) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	after.UpdatedAt = time.Now()
	r.rows[after.ExternalReference] = cloneTxn(after)
	r.Writes++
	if before != nil && before.Status != after.Status {
		r.Changes = append(r.Changes, StatusChange{Ref: after.ExternalReference, From: string(before.Status), To: string(after.Status), Reason: reason})
	}
	return nil
}

func (r *Transactions) ListPending(_ context.Context, createdFrom, createdTo time.Time, limit int) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, t := range r.rows {
		if t.Status != types.TransactionStatusPending && t.Status != types.TransactionStatusProcessing {
			continue
		}
		if t.CreatedAt.Before(createdFrom) || !t.CreatedAt.Before(createdTo) {
			continue
		}
		out = append(out, cloneTxn(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns the stored row for ref, or nil.
func (r *Transactions) Get(ref string) *models.Transaction {
	t, _ := r.GetByExternalReference(context.Background(), ref)
	return t
}

func (r *Transactions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Subscriptions is a map-backed repository.SubscriptionRepository.
type Subscriptions struct {
	mu         sync.Mutex
	rows       map[string]*models.Subscription
	Changes    []StatusChange
	Writes     int
	FailWrites bool
}

var _ repository.SubscriptionRepository = (*Subscriptions)(nil)

func NewSubscriptions(rows ...*models.Subscription) *Subscriptions {
	r := &Subscriptions{rows: map[string]*models.Subscription{}}
	for _, s := range rows {
		if s.ID == "" {
			s.ID = tool.GenerateUUIDV7()
		}
		r.rows[s.ExternalReference] = cloneSub(s)
	}
	return r
}

func cloneSub(s *models.Subscription) *models.Subscription {
	c := *s
	return &c
}

func (r *Subscriptions) Create(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	now := time.Now()
	sub.CreatedAt, sub.UpdatedAt = now, now
	r.rows[sub.ExternalReference] = cloneSub(sub)
	r.Writes++
	return nil
}

func (r *Subscriptions) GetByExternalReference(_ context.Context, ref string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[ref]; ok {
		return cloneSub(s), nil
	}
	return nil, nil
}

func (r *Subscriptions) GetByVendorSubscriptionID(_ context.Context, vendorID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.VendorSubscriptionID != nil && *s.VendorSubscriptionID == vendorID {
			return cloneSub(s), nil
		}
	}
	return nil, nil
}

func (r *Subscriptions) Update(_ context.Context, before, after *models.Subscription, reason types.StatusChangeReason) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	after.UpdatedAt = time.Now()
	r.rows[after.ExternalReference] = cloneSub(after)
	r.Writes++
	if before != nil && before.Status != after.Status {
		r.Changes = append(r.Changes, StatusChange{Ref: after.ExternalReference, From: string(before.Status), To: string(after.Status), Reason: reason})
	}
	return nil
}

func (r *Subscriptions) Get(ref string) *models.Subscription {
	s, _ := r.GetByExternalReference(context.Background(), ref)
	return s
}

func (r *Subscriptions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
