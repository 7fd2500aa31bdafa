package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "FutScan/internal/domain/repository"
	internalrepo "FutScan/internal/repository"
	"FutScan/internal/usecase"
	"FutScan/pkg/config"
	xhttp "FutScan/pkg/http"
	applogger "FutScan/pkg/logger"
)

// App encapsulates the entire application lifecycle: the periodic scan
// scheduler, the liquidation stream and the HTTP API.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	scan        *usecase.ScanUseCase
	notify      *usecase.NotifyUseCase
	feed        drepo.LiquidationFeed
	publisher   drepo.EventPublisher
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scan *usecase.ScanUseCase,
	notify *usecase.NotifyUseCase,
	feed drepo.LiquidationFeed,
	publisher drepo.EventPublisher,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      log,
		scan:        scan,
		notify:      notify,
		feed:        feed,
		publisher:   publisher,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The force-order stream needs its read loop running before the first
	// scan so readings have accumulated volume to report.
	if stream, ok := a.feed.(*internalrepo.LiquidationStream); ok {
		go stream.Run(ctx)
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	go a.schedule(ctx)
	a.logger.Info("scheduler started",
		applogger.Duration("interval", a.cfg.Scan.Interval),
		applogger.Strings("timeframes", a.cfg.Scan.Timeframes),
		applogger.Int("top_symbols", a.cfg.Scan.TopSymbols),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// schedule runs one scan immediately, then on every tick.
func (a *App) schedule(ctx context.Context) {
	a.runOnce(ctx)

	ticker := time.NewTicker(a.cfg.Scan.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	summary, alerts, err := a.scan.Run(ctx, nil)
	if err != nil {
		a.logger.Error("scheduled scan failed", applogger.Error(err))
		return
	}
	if err := a.notify.Deliver(ctx, summary, alerts); err != nil {
		a.logger.Error("notification delivery failed", applogger.Error(err))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			a.logger.Warn("liquidation feed close error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
