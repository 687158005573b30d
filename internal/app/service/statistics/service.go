package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/types"
)

type StatisticType string

const (
	// Transactions
	StatisticTypeDailyTransactionCount StatisticType = "daily_transaction_count"
	StatisticTypeDailyGmv              StatisticType = "daily_gmv"
	StatisticTypeTotalGmv              StatisticType = "total_gmv"
	StatisticTypeDailyConversionRate   StatisticType = "daily_conversion_rate"

	// Subscriptions
	StatisticTypeDailyNewSubscriptionCount StatisticType = "daily_new_subscription_count"
	StatisticTypeSubscriptionStatusCount   StatisticType = "subscription_status_count"
	StatisticTypeActiveSubscriptionCount   StatisticType = "active_subscription_count"
)

var transactionStatistics = []StatisticType{
	StatisticTypeDailyTransactionCount,
	StatisticTypeDailyGmv,
	StatisticTypeTotalGmv,
	StatisticTypeDailyConversionRate,
}

var subscriptionStatistics = []StatisticType{
	StatisticTypeDailyNewSubscriptionCount,
	StatisticTypeSubscriptionStatusCount,
	StatisticTypeActiveSubscriptionCount,
}

// StatisticFilterType names filter fields that only make sense for some statistics.
type StatisticFilterType string

const (
	StatisticFilterTypeSellerID      StatisticFilterType = "seller_id"
	StatisticFilterTypeCurrency      StatisticFilterType = "currency"
	StatisticFilterTypeIsMarketplace StatisticFilterType = "is_marketplace"
	StatisticFilterTypePlanID        StatisticFilterType = "plan_id"
	StatisticFilterTypeCreatedAt     StatisticFilterType = "created_at"
	StatisticFilterTypeBuyerID       StatisticFilterType = "buyer_id"
)

var filterTypes = []StatisticFilterType{
	StatisticFilterTypeSellerID,
	StatisticFilterTypeCurrency,
	StatisticFilterTypeIsMarketplace,
	StatisticFilterTypePlanID,
}

var validFilters = map[StatisticFilterType][]StatisticType{
	StatisticFilterTypeSellerID:      transactionStatistics,
	StatisticFilterTypeCurrency:      append(append([]StatisticType{}, transactionStatistics...), subscriptionStatistics...),
	StatisticFilterTypeIsMarketplace: transactionStatistics,
	StatisticFilterTypePlanID:        subscriptionStatistics,
}

// AllowedFilterFields lists every field a statistic request may filter on.
var AllowedFilterFields = []string{
	string(StatisticFilterTypeSellerID),
	string(StatisticFilterTypeCurrency),
	string(StatisticFilterTypeIsMarketplace),
	string(StatisticFilterTypePlanID),
	string(StatisticFilterTypeCreatedAt),
	string(StatisticFilterTypeBuyerID),
}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

// GetFilters drops filters that do not apply to statisticType.
func (f *StatisticRequest) GetFilters(statisticType StatisticType) *StatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result StatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[StatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

// Build composes a WHERE clause from the filters; is_marketplace is translated to a
// seller_id null check.
func (f *StatisticRequest) Build(builder clause.Builder) {
	if f == nil || len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		switch filter.Field {
		case string(StatisticFilterTypeIsMarketplace):
			if len(filter.Values) > 0 && fmt.Sprint(filter.Values[0]) == "true" {
				builder.WriteString("seller_id IS NOT NULL")
			} else {
				builder.WriteString("seller_id IS NULL")
			}
		default:
			filter.Build(builder)
		}
	}
}

// Validate rejects unknown statistic ids and filter fields.
func (f *StatisticRequest) Validate() error {
	if f == nil || len(f.DataItems) == 0 {
		return fmt.Errorf("data_items must not be empty")
	}
	for _, di := range f.DataItems {
		if di == nil || (!lo.Contains(transactionStatistics, di.ID) && !lo.Contains(subscriptionStatistics, di.ID)) {
			return fmt.Errorf("invalid data item id: %v", lo.FromPtr(di).ID)
		}
	}
	return types.ValidateFields(f.Filters, AllowedFilterFields)
}

// StatisticResponseDataItem is one row of a statistic. Money values are minor units
// (cents) with Label holding the currency.
type StatisticResponseDataItem struct {
	Date   string `json:"date,omitempty"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
	Value3 int64  `json:"value3,omitempty"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyTransactionCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Transaction{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, status as label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyTransactionCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("status").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyGmv(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Transaction{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, currency AS label, CAST(ROUND(SUM(amount) * 100) AS BIGINT) as value").
		Where("status = ?", types.TransactionStatusCompleted).
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyGmv)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalGmv(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
WITH min_max_dates AS (
    SELECT MIN(DATE(created_at)) as min_date, MAX(DATE(created_at)) as max_date
    FROM transaction WHERE status = @completed
),
distinct_dates AS (
    SELECT generate_series(min_date, max_date, '1 day'::interval) as date FROM min_max_dates
),
dates AS (
    SELECT TO_CHAR(date, 'YYYY-MM-DD') as date FROM distinct_dates
),
currencies AS (
    SELECT DISTINCT currency as label FROM transaction WHERE status = @completed
),
date_currency_combinations AS (
    SELECT d.date, c.label FROM dates d CROSS JOIN currencies c
),
gmv_date AS (
    SELECT dc.date, dc.label, COALESCE(SUM(t.amount), 0) as value
    FROM date_currency_combinations dc
    LEFT JOIN transaction t
      ON TO_CHAR(t.created_at, 'YYYY-MM-DD') = dc.date
     AND t.currency = dc.label
     AND t.status = @completed
    GROUP BY dc.date, dc.label
)
SELECT d.date as date, d.label as label, CAST(ROUND(SUM(s.value) * 100) AS BIGINT) as value
FROM gmv_date d
LEFT JOIN gmv_date s ON s.date <= d.date AND s.label = d.label
GROUP BY d.date, d.label
ORDER BY d.date DESC, d.label ASC
`, map[string]any{"completed": types.TransactionStatusCompleted}).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// getDailyConversionRate reports completed/all per day in basis points (value), with the
// total in value2 and the completed count in value3.
func (s *Service) getDailyConversionRate(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Transaction{}).TableName()).
		Select(`TO_CHAR(created_at, 'YYYY-MM-DD') as date,
  CAST(ROUND(COUNT(*) FILTER (WHERE status = ?) * 10000.0 / COUNT(*)) AS BIGINT) as value,
  COUNT(*) as value2,
  COUNT(*) FILTER (WHERE status = ?) as value3`, types.TransactionStatusCompleted, types.TransactionStatusCompleted).
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyConversionRate)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyNewSubscriptionCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, COUNT(DISTINCT buyer_id) as value, COUNT(*) as value2").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyNewSubscriptionCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getSubscriptionStatusCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("status as label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeSubscriptionStatusCount)}}).
		Group("status").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getActiveSubscriptionCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeActiveSubscriptionCount)}}).
		Where("status = ?", types.SubscriptionStatusActive).
		Where("(end_at IS NULL OR end_at >= ?)", time.Now())
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyTransactionCount:
		return s.getDailyTransactionCount(ctx, request)
	case StatisticTypeDailyGmv:
		return s.getDailyGmv(ctx, request)
	case StatisticTypeTotalGmv:
		return s.getTotalGmv(ctx, request)
	case StatisticTypeDailyConversionRate:
		return s.getDailyConversionRate(ctx, request)
	case StatisticTypeDailyNewSubscriptionCount:
		return s.getDailyNewSubscriptionCount(ctx, request)
	case StatisticTypeSubscriptionStatusCount:
		return s.getSubscriptionStatusCount(ctx, request)
	case StatisticTypeActiveSubscriptionCount:
		return s.getActiveSubscriptionCount(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// applicable reports whether every restricted filter in request applies to id.
func applicable(request *StatisticRequest, id StatisticType) bool {
	for _, filter := range request.Filters {
		ft := StatisticFilterType(filter.Field)
		if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], id) {
			return false
		}
	}
	return true
}

// GetStatistic computes every requested data item concurrently. Items a filter does not
// apply to come back empty. The first failing item cancels the rest.
func (s *Service) GetStatistic(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	var mu sync.Mutex
	results := make(map[StatisticType][]StatisticResponseDataItem, len(request.DataItems))
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range request.DataItems {
		g.Go(func() error {
			var res []StatisticResponseDataItem
			if applicable(request, item.ID) {
				var err error
				if res, err = s.getStatistic(gctx, request, item); err != nil {
					return fmt.Errorf("%s: %w", item.ID, err)
				}
			}
			mu.Lock()
			results[item.ID] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &StatisticResponse{DataItems: results}, nil
}
