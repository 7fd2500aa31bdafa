package usecase

import (
	"context"
	"time"

	"FutScan/internal/domain/models"
	drepo "FutScan/internal/domain/repository"
	"FutScan/pkg/logger"
)

// NotifyUseCase delivers one scan's results: a summary (or a no-signals
// note) followed by individual alerts for the strongest opportunities,
// throttled by the cooldown gate.
type NotifyUseCase struct {
	notifier drepo.Notifier
	gate     drepo.AlertGate
	logger   *logger.Logger
}

func NewNotifyUseCase(notifier drepo.Notifier, gate drepo.AlertGate, log *logger.Logger) *NotifyUseCase {
	return &NotifyUseCase{notifier: notifier, gate: gate, logger: log}
}

func (uc *NotifyUseCase) Deliver(ctx context.Context, summary *models.Summary, alerts []models.DetailedAlert) error {
	if len(summary.Long)+len(summary.Short) == 0 {
		if err := uc.notifier.SendNoSignals(ctx, time.Now().UTC()); err != nil {
			return err
		}
		return nil
	}

	if err := uc.notifier.SendSummary(ctx, summary); err != nil {
		return err
	}

	for i := range alerts {
		a := alerts[i]
		o := a.Opportunity
		ok, err := uc.gate.Allow(ctx, o.Instrument, o.Timeframe, o.Direction)
		if err != nil {
			// A broken gate should not silence alerts entirely.
			uc.logger.Warn("alert gate check failed, sending anyway",
				logger.String("instrument", o.Instrument),
				logger.Error(err),
			)
			ok = true
		}
		if !ok {
			uc.logger.Debug("alert suppressed by cooldown",
				logger.String("instrument", o.Instrument),
				logger.String("timeframe", o.Timeframe),
			)
			continue
		}
		if err := uc.notifier.SendAlert(ctx, &a); err != nil {
			uc.logger.Error("failed to send alert",
				logger.String("instrument", o.Instrument),
				logger.Error(err),
			)
		}
	}
	return nil
}
