package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/tool"
	"github.com/fatflowers/marketpay/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubscriptionRepository persists recurring agreements. Getters return (nil, nil) when no row matches.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetByExternalReference(ctx context.Context, ref string) (*models.Subscription, error)
	GetByVendorSubscriptionID(ctx context.Context, vendorID string) (*models.Subscription, error)
	Update(ctx context.Context, before, after *models.Subscription, reason types.StatusChangeReason) error
}

type subscriptionRepository struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewSubscriptionRepository(db *gorm.DB, log *zap.SugaredLogger) SubscriptionRepository {
	return &subscriptionRepository{db: db, log: log}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) GetByExternalReference(ctx context.Context, ref string) (*models.Subscription, error) {
	return r.first(ctx, "external_reference = ?", ref)
}

func (r *subscriptionRepository) GetByVendorSubscriptionID(ctx context.Context, vendorID string) (*models.Subscription, error) {
	return r.first(ctx, "vendor_subscription_id = ?", vendorID)
}

func (r *subscriptionRepository) first(ctx context.Context, query string, arg any) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where(query, arg).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, before, after *models.Subscription, reason types.StatusChangeReason) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(after).Error; err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		if before == nil || before.Status == after.Status {
			return nil
		}
		entry := &models.SubscriptionStatusLog{
			ID:                tool.GenerateUUIDV7(),
			SubscriptionID:    after.ID,
			ExternalReference: after.ExternalReference,
			FromStatus:        before.Status,
			ToStatus:          after.Status,
			Reason:            reason,
			Before:            datatypes.NewJSONType(before),
			After:             datatypes.NewJSONType(after),
			Extra:             datatypes.JSONMap{"vendor_status": after.VendorStatus},
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create subscription status log: %w", err)
		}
		return nil
	})
}
