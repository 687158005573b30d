package notification_log

import (
	"context"

	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/tool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a payment notification log. Nil input is ignored.
// The write outlives the request, so only ctx's logging values are kept.
func (s *Service) Save(ctx context.Context, entry *models.PaymentNotificationLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	bg := logctx.Detach(ctx)
	go func() {
		if err := s.db.WithContext(bg).Save(entry).Error; err != nil {
			logctx.FromCtx(bg, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}
