package repository

import (
	"context"
	"testing"
	"time"
)

func TestLiquidationStream_RecordAndReading(t *testing.T) {
	s := NewLiquidationStream(testLogger(t), 15*time.Minute, time.Second, time.Second)

	now := time.Now().UTC()
	msgs := []*forceOrderMsg{
		forceOrder("BTCUSDT", "SELL", "2.0", "50000", now),          // long flush: 100k
		forceOrder("BTCUSDT", "SELL", "1.0", "50000", now),          // long flush: 50k
		forceOrder("BTCUSDT", "BUY", "0.5", "50000", now),           // short squeeze: 25k
		forceOrder("ETHUSDT", "BUY", "10", "3000", now),             // different symbol
		forceOrder("BTCUSDT", "SELL", "9", "50000", now.Add(-time.Hour)), // outside window
	}
	for _, m := range msgs {
		s.record(m)
	}

	reading, ok, err := s.Reading(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("Reading: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if reading.LongVolume != 150_000 {
		t.Errorf("LongVolume = %v, want 150000", reading.LongVolume)
	}
	if reading.ShortVolume != 25_000 {
		t.Errorf("ShortVolume = %v, want 25000", reading.ShortVolume)
	}

	eth, ok, err := s.Reading(context.Background(), "ETHUSDT")
	if err != nil || !ok {
		t.Fatalf("Reading ETHUSDT: ok=%v err=%v", ok, err)
	}
	if eth.ShortVolume != 30_000 {
		t.Errorf("ETH ShortVolume = %v, want 30000", eth.ShortVolume)
	}
}

func TestLiquidationStream_UnknownSymbolHasNoData(t *testing.T) {
	s := NewLiquidationStream(testLogger(t), 15*time.Minute, time.Second, time.Second)

	_, ok, err := s.Reading(context.Background(), "XRPUSDT")
	if err != nil {
		t.Fatalf("Reading: %v", err)
	}
	if ok {
		t.Error("ok = true, want false for a symbol with no events")
	}
}

func TestLiquidationStream_MalformedFramesAreDropped(t *testing.T) {
	s := NewLiquidationStream(testLogger(t), 15*time.Minute, time.Second, time.Second)

	bad := forceOrder("BTCUSDT", "SELL", "not-a-number", "50000", time.Now().UTC())
	s.record(bad)

	_, ok, _ := s.Reading(context.Background(), "BTCUSDT")
	if ok {
		t.Error("malformed frame should not produce a reading")
	}
}

func forceOrder(symbol, side, qty, price string, at time.Time) *forceOrderMsg {
	var m forceOrderMsg
	m.Event = "forceOrder"
	m.Order.Symbol = symbol
	m.Order.Side = side
	m.Order.Qty = qty
	m.Order.AvgPrice = price
	m.Order.Time = at.UnixMilli()
	return &m
}
