package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/pkg/config"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/tool"
	"github.com/fatflowers/marketpay/pkg/types"
)

// Poller periodically asks the processor about transactions still waiting on a payment,
// for notifications that were lost or never sent.
type Poller struct {
	cfg        config.PollerConfig
	log        *zap.SugaredLogger
	txns       repository.TransactionRepository
	reconciler *reconcile.Service
	cron       *cron.Cron
	now        func() time.Time
}

func New(cfg *config.Config, log *zap.SugaredLogger, txns repository.TransactionRepository, reconciler *reconcile.Service) *Poller {
	cl := cronLogger{log: log.Named("poller")}
	return &Poller{
		cfg:        cfg.Poller,
		log:        log,
		txns:       txns,
		reconciler: reconciler,
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		now:        time.Now,
	}
}

// Summary counts what one poll did.
type Summary struct {
	Checked int
	Changed int
	Failed  int
}

// RunOnce reconciles one batch of stale pending transactions.
func (p *Poller) RunOnce(ctx context.Context) (Summary, error) {
	var sum Summary
	now := p.now()
	rows, err := p.txns.ListPending(ctx, now.Add(-p.cfg.MaxAge), now.Add(-p.cfg.MinAge), p.cfg.BatchSize)
	if err != nil {
		return sum, err
	}
	log := logctx.FromCtx(ctx, p.log)
	for _, txn := range rows {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		sum.Checked++
		out, err := p.reconciler.SyncTransaction(ctx, txn, types.StatusChangeReasonPoller)
		if err != nil {
			sum.Failed++
			log.Warnw("poll_transaction_failed", "external_reference", txn.ExternalReference, "err", err)
			continue
		}
		if out.Changed {
			sum.Changed++
		}
	}
	return sum, nil
}

func (p *Poller) run() {
	ctx := context.WithValue(context.Background(), logctx.TraceIDKey, "poll-"+tool.GenerateUUIDV7()) //nolint:staticcheck
	start := time.Now()
	sum, err := p.RunOnce(ctx)
	if err != nil {
		logctx.FromCtx(ctx, p.log).Errorw("poll_failed", "err", err)
		return
	}
	logctx.FromCtx(ctx, p.log).Infow("poll_finished", "checked", sum.Checked, "changed", sum.Changed, "failed", sum.Failed, "elapsed_ms", time.Since(start).Milliseconds())
}

// Start schedules the job. It is a no-op when polling is disabled.
func (p *Poller) Start() error {
	if !p.cfg.Enabled {
		p.log.Infow("status poller disabled")
		return nil
	}
	if _, err := p.cron.AddFunc(p.cfg.Spec, p.run); err != nil {
		return fmt.Errorf("invalid poller spec %q: %w", p.cfg.Spec, err)
	}
	p.cron.Start()
	p.log.Infow("status poller scheduled", "spec", p.cfg.Spec, "min_age", p.cfg.MinAge, "max_age", p.cfg.MaxAge)
	return nil
}

// Stop waits for a running poll to finish or ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	done := p.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct{ log *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "err", err)...)
}

func register(lc fx.Lifecycle, p *Poller) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return p.Start() },
		OnStop:  p.Stop,
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(register),
)
