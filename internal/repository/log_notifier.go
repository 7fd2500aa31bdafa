package repository

import (
	"context"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/logger"
)

// LogNotifier writes scan results to the structured log. Used when no
// Telegram credentials are configured, so local runs still show output.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) SendSummary(_ context.Context, s *models.Summary) error {
	n.logger.Info("scan summary",
		logger.Int("long", len(s.Long)),
		logger.Int("short", len(s.Short)),
		logger.Int("total", s.Total),
		logger.Int("warnings", len(s.Warnings)),
	)
	for _, side := range [][]models.ScoredOpportunity{s.Long, s.Short} {
		for _, o := range side {
			n.logger.Info("ranked opportunity",
				logger.String("instrument", o.Instrument),
				logger.String("timeframe", o.Timeframe),
				logger.String("direction", string(o.Direction)),
				logger.Float64("score", o.Score),
				logger.String("tier", string(o.Tier)),
				logger.String("reason", topReason(o)),
			)
		}
	}
	return nil
}

func (n *LogNotifier) SendAlert(_ context.Context, a *models.DetailedAlert) error {
	o := a.Opportunity
	n.logger.Info("signal alert",
		logger.String("instrument", o.Instrument),
		logger.String("timeframe", o.Timeframe),
		logger.String("direction", string(o.Direction)),
		logger.Float64("score", o.Score),
		logger.String("tier", string(o.Tier)),
		logger.Strings("reasons", a.Reasons),
	)
	return nil
}

func (n *LogNotifier) SendNoSignals(_ context.Context, at time.Time) error {
	n.logger.Info("no opportunities above threshold", logger.String("at", at.Format(time.RFC3339)))
	return nil
}

var _ repository.Notifier = (*LogNotifier)(nil)
