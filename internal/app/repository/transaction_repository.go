package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/tool"
	"github.com/fatflowers/marketpay/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionRepository persists checkout attempts. Getters return (nil, nil) when no row matches.
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByExternalReference(ctx context.Context, ref string) (*models.Transaction, error)
	GetByVendorPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error)
	// Update saves after and, when the status differs from before, appends a status log row.
	Update(ctx context.Context, before, after *models.Transaction, reason types.StatusChangeReason) error
	// ListPending returns pending or processing transactions created within [createdFrom, createdTo), oldest first.
	ListPending(ctx context.Context, createdFrom, createdTo time.Time, limit int) ([]*models.Transaction, error)
}

type transactionRepository struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewTransactionRepository(db *gorm.DB, log *zap.SugaredLogger) TransactionRepository {
	return &transactionRepository{db: db, log: log}
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = tool.GenerateUUIDV7()
	}
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByExternalReference(ctx context.Context, ref string) (*models.Transaction, error) {
	return r.first(ctx, "external_reference = ?", ref)
}

func (r *transactionRepository) GetByVendorPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	return r.first(ctx, "vendor_payment_id = ?", paymentID)
}

func (r *transactionRepository) first(ctx context.Context, query string, arg any) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).Where(query, arg).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, before, after *models.Transaction, reason types.StatusChangeReason) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(after).Error; err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if before == nil || before.Status == after.Status {
			return nil
		}
		entry := &models.TransactionStatusLog{
			ID:                tool.GenerateUUIDV7(),
			TransactionID:     after.ID,
			ExternalReference: after.ExternalReference,
			FromStatus:        before.Status,
			ToStatus:          after.Status,
			Reason:            reason,
			Before:            datatypes.NewJSONType(before),
			After:             datatypes.NewJSONType(after),
			Extra: datatypes.JSONMap{
				"vendor_status":        after.VendorStatus,
				"vendor_status_detail": after.VendorStatusDetail,
			},
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create transaction status log: %w", err)
		}
		return nil
	})
}

func (r *transactionRepository) ListPending(ctx context.Context, createdFrom, createdTo time.Time, limit int) ([]*models.Transaction, error) {
	var rows []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("status IN ?", []types.TransactionStatus{types.TransactionStatusPending, types.TransactionStatusProcessing}).
		Where("created_at >= ? AND created_at < ?", createdFrom, createdTo).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return rows, nil
}
