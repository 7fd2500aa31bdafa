package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/logger"
)

const binanceForceOrderURL = "wss://fstream.binance.com/ws/!forceOrder@arr"

// LiquidationStream accumulates forced-liquidation volume per symbol from
// the Binance futures force-order stream over a rolling window. Reading
// only snapshots in-memory state; the websocket runs in the background.
type LiquidationStream struct {
	url            string
	window         time.Duration
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *logger.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	events map[string][]liqEvent
	closed bool
}

type liqEvent struct {
	at       time.Time
	notional float64
	side     models.Direction // side of the liquidated position
}

func NewLiquidationStream(log *logger.Logger, window, reconnectDelay, pingInterval time.Duration) *LiquidationStream {
	return &LiquidationStream{
		url:            binanceForceOrderURL,
		window:         window,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         log,
		events:         make(map[string][]liqEvent),
	}
}

// Run connects and consumes the stream until ctx is cancelled, reconnecting
// after read failures. Intended to be launched as a goroutine at startup.
func (s *LiquidationStream) Run(ctx context.Context) {
	for {
		if err := s.connect(ctx); err != nil {
			s.logger.Warn("liquidation stream connect failed",
				logger.Error(err),
				logger.Duration("retry_in", s.reconnectDelay),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.reconnectDelay):
				continue
			}
		}

		s.readLoop(ctx)

		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *LiquidationStream) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial force-order stream: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.logger.Info("liquidation stream connected")
	return nil
}

// forceOrderMsg is one Binance force-order frame. Side is the order side:
// a SELL force order closes a long position.
type forceOrderMsg struct {
	Event string `json:"e"`
	Order struct {
		Symbol   string `json:"s"`
		Side     string `json:"S"`
		Qty      string `json:"q"`
		AvgPrice string `json:"ap"`
		Time     int64  `json:"T"`
	} `json:"o"`
}

func (s *LiquidationStream) readLoop(ctx context.Context) {
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go s.pingLoop(pingCtx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("liquidation stream read failed", logger.Error(err))
			return
		}

		var msg forceOrderMsg
		if err := json.Unmarshal(b, &msg); err != nil || msg.Event != "forceOrder" {
			// ignore non-liquidation frames
			continue
		}
		s.record(&msg)
	}
}

func (s *LiquidationStream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (s *LiquidationStream) record(msg *forceOrderMsg) {
	qty, err := strconv.ParseFloat(msg.Order.Qty, 64)
	if err != nil {
		return
	}
	price, err := strconv.ParseFloat(msg.Order.AvgPrice, 64)
	if err != nil {
		return
	}

	side := models.Short
	if msg.Order.Side == "SELL" {
		side = models.Long
	}
	ev := liqEvent{
		at:       time.UnixMilli(msg.Order.Time).UTC(),
		notional: qty * price,
		side:     side,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[msg.Order.Symbol] = appendPruned(s.events[msg.Order.Symbol], ev, s.window)
}

func appendPruned(events []liqEvent, ev liqEvent, window time.Duration) []liqEvent {
	cutoff := ev.at.Add(-window)
	kept := events[:0]
	for _, e := range events {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	return append(kept, ev)
}

// Reading sums liquidation notional by side over the rolling window. The
// second return value is false when nothing was observed for the symbol,
// which callers treat as missing data rather than a zero reading.
func (s *LiquidationStream) Reading(ctx context.Context, symbol string) (models.LiquidationReading, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.LiquidationReading{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events[symbol]
	if len(events) == 0 {
		return models.LiquidationReading{}, false, nil
	}

	cutoff := time.Now().UTC().Add(-s.window)
	var reading models.LiquidationReading
	var seen bool
	for _, e := range events {
		if !e.at.After(cutoff) {
			continue
		}
		seen = true
		if e.side == models.Long {
			reading.LongVolume += e.notional
		} else {
			reading.ShortVolume += e.notional
		}
	}
	return reading, seen, nil
}

func (s *LiquidationStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

var _ repository.LiquidationFeed = (*LiquidationStream)(nil)
