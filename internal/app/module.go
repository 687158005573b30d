package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/marketpay/internal/app/api/server"
	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/app/service/checkout"
	notificationlog "github.com/fatflowers/marketpay/internal/app/service/notification_log"
	"github.com/fatflowers/marketpay/internal/app/service/poller"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/internal/app/service/statistics"
	"github.com/fatflowers/marketpay/internal/app/service/status"
	"github.com/fatflowers/marketpay/internal/app/service/transaction"
	"github.com/fatflowers/marketpay/internal/platform/db"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
	"github.com/fatflowers/marketpay/pkg/config"
	"github.com/fatflowers/marketpay/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	repository.Module,
	mercadopago.Module,
	notificationlog.Module,
	reconcile.Module,
	checkout.Module,
	status.Module,
	poller.Module,
	transaction.Module,
	statistics.Module,
	server.Module,
)
