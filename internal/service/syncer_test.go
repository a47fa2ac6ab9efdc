package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinwatch/internal/model"
)

type fakeExecutionSource struct {
	raws []model.RawExecution
	err  error
}

func (f *fakeExecutionSource) FetchExecutions(_ context.Context, _ string) ([]model.RawExecution, error) {
	return f.raws, f.err
}

func rawExec(id, orderID int64, isBuyer bool, price, qty string, ms int64) model.RawExecution {
	return model.RawExecution{
		ID:              id,
		OrderID:         orderID,
		Symbol:          "adausdt",
		Price:           price,
		Qty:             qty,
		QuoteQty:        "0",
		Commission:      "0.001",
		CommissionAsset: "BNB",
		Time:            ms,
		IsBuyer:         isBuyer,
	}
}

func TestSyncOnceConvertsAndStores(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	ms := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	src := &fakeExecutionSource{raws: []model.RawExecution{
		rawExec(1, 10, true, "0.40", "100", ms),
		rawExec(2, 11, false, "0.44", "100", ms+10_000),
	}}
	d := &fakeExecutionDao{}
	svc := NewSyncService(src, d, time.Minute)

	if err := svc.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce error: %v", err)
	}
	if len(d.rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(d.rows))
	}

	buy := d.rows[0]
	if buy.Side != "BUY" {
		t.Errorf("isBuyer flag not converted, side = %q", buy.Side)
	}
	if buy.Symbol != "ADAUSDT" {
		t.Errorf("symbol not normalized: %q", buy.Symbol)
	}
	if buy.TradeTime.UnixMilli() != ms {
		t.Errorf("epoch millis not converted, got %v", buy.TradeTime)
	}
	if d.rows[1].Side != "SELL" {
		t.Errorf("seller side = %q, want SELL", d.rows[1].Side)
	}
}

func TestSyncOnceIdempotentReingestion(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	ms := time.Now().UnixMilli()
	src := &fakeExecutionSource{raws: []model.RawExecution{
		rawExec(1, 10, true, "0.40", "100", ms),
		rawExec(2, 10, true, "0.40", "50", ms+1000),
	}}
	d := &fakeExecutionDao{}
	svc := NewSyncService(src, d, time.Minute)

	// 重叠窗口重复拉取，存储行数不变
	for i := 0; i < 3; i++ {
		if err := svc.SyncOnce(context.Background()); err != nil {
			t.Fatalf("SyncOnce #%d error: %v", i, err)
		}
	}
	if len(d.rows) != 2 {
		t.Fatalf("duplicate ingestion double-counted: %d rows", len(d.rows))
	}
}

func TestSyncOnceSkipsMalformedRows(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	ms := time.Now().UnixMilli()
	src := &fakeExecutionSource{raws: []model.RawExecution{
		rawExec(1, 10, true, "not-a-number", "100", ms),
		rawExec(2, 11, true, "0.40", "-5", ms),
		rawExec(0, 12, true, "0.40", "100", ms), // missing trade id
		rawExec(3, 13, true, "0.40", "100", ms),
	}}
	d := &fakeExecutionDao{}
	svc := NewSyncService(src, d, time.Minute)

	if err := svc.SyncOnce(context.Background()); err != nil {
		t.Fatalf("malformed rows must not abort the batch: %v", err)
	}
	if len(d.rows) != 1 {
		t.Fatalf("expected only the valid row stored, got %d", len(d.rows))
	}
	if d.rows[0].TradeID != 3 {
		t.Errorf("stored wrong row: trade_id=%d", d.rows[0].TradeID)
	}
}

func TestSyncOnceFetchErrorPropagates(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	src := &fakeExecutionSource{err: errors.New("rate limited")}
	svc := NewSyncService(src, &fakeExecutionDao{}, time.Minute)

	if err := svc.SyncOnce(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}
