package reconcile

import (
	"go.uber.org/fx"

	notificationlog "github.com/fatflowers/marketpay/internal/app/service/notification_log"
)

var Module = fx.Options(
	fx.Provide(func(s *notificationlog.Service) NotificationRecorder { return s }),
	fx.Provide(NewService),
)
