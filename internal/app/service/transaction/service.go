package transaction

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/apperr"
	types "github.com/fatflowers/marketpay/pkg/types"
)

const maxScanSize = 200

type Service struct {
	log *zap.SugaredLogger
	db  *gorm.DB
}

func NewService(log *zap.SugaredLogger, db *gorm.DB) Scanner {
	return &Service{log: log, db: db}
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// normalize applies paging defaults and checks field names against columns, since both
// filters and sort_by are written into SQL.
func (req *ScanRequest) normalize(columns []string) error {
	if req == nil {
		return apperr.Validation("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.Size > maxScanSize {
		req.Size = maxScanSize
	}
	if req.From < 0 {
		req.From = 0
	}
	if req.SortBy == "" {
		req.SortBy = "created_at"
	}
	if !lo.Contains(columns, req.SortBy) {
		return apperr.Validation("unsupported sort_by: %q", req.SortBy)
	}
	if err := types.ValidateFields(req.Filters, columns); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

func (req *ScanRequest) apply(tx *gorm.DB) *gorm.DB {
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	return q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
}

// ScanTransactions implements paginated/admin listing with filters
func (s *Service) ScanTransactions(ctx context.Context, req *ScanRequest) (*ScanTransactionsResponse, error) {
	if err := req.normalize(transactionColumns); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&models.Transaction{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []*models.Transaction
	if err := req.apply(tx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &ScanTransactionsResponse{Items: rows, Total: total}, nil
}

func (s *Service) ScanSubscriptions(ctx context.Context, req *ScanRequest) (*ScanSubscriptionsResponse, error) {
	if err := req.normalize(subscriptionColumns); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var rows []*models.Subscription
	if err := req.apply(tx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return &ScanSubscriptionsResponse{Items: rows, Total: total}, nil
}
