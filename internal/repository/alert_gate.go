package repository

import (
	"context"
	"fmt"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/cache"
)

// CooldownAlertGate suppresses repeat alerts for the same
// instrument+timeframe+direction inside a cooldown window. Backed by the
// shared cache so cooldowns survive restarts when Redis is configured.
type CooldownAlertGate struct {
	cache    cache.Service
	cooldown time.Duration
}

func NewCooldownAlertGate(c cache.Service, cooldown time.Duration) *CooldownAlertGate {
	return &CooldownAlertGate{cache: c, cooldown: cooldown}
}

// Allow claims the alert slot atomically: the first caller inside a window
// wins, everyone else is throttled.
func (g *CooldownAlertGate) Allow(ctx context.Context, instrument, timeframe string, dir models.Direction) (bool, error) {
	key := fmt.Sprintf("alert:%s:%s:%s", instrument, timeframe, dir)
	ok, err := g.cache.TryLock(ctx, key, g.cooldown)
	if err != nil {
		return false, fmt.Errorf("alert gate %s: %w", key, err)
	}
	return ok, nil
}

var _ repository.AlertGate = (*CooldownAlertGate)(nil)
