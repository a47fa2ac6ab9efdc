package service

import (
	"errors"
	"testing"

	"coinwatch/conf"
)

// 捕获报警输出的假通知通道
type fakeNotifier struct {
	sent    []string
	failing bool
}

func (f *fakeNotifier) Notify(subject, body string) error {
	if f.failing {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, subject)
	return nil
}

func setWatch(t *testing.T, symbol string, low, high float64) {
	t.Helper()
	conf.AppConfig.Watch = conf.WatchConfig{
		Symbol:        symbol,
		ThresholdLow:  low,
		ThresholdHigh: high,
	}
}

func TestAlertHysteresis(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	notifier := &fakeNotifier{}
	svc := NewAlertService(notifier)

	// 冲高后停留在上方不重复报警；跌破下限清掉上方闩锁；
	// 再次冲高可以重新报警。总共3条，不是2条也不是6条。
	prices := []float64{0.6, 0.9, 0.95, 0.85, 0.3, 0.9}
	for _, p := range prices {
		if err := svc.Evaluate("ADAUSDT", p); err != nil {
			t.Fatalf("Evaluate(%v) error: %v", p, err)
		}
	}

	if len(notifier.sent) != 3 {
		t.Fatalf("expected 3 notifications, got %d: %v", len(notifier.sent), notifier.sent)
	}
}

func TestAlertInsideBandKeepsLatch(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	notifier := &fakeNotifier{}
	svc := NewAlertService(notifier)

	// 一次冲高回落（不触下限）只产生一条报警
	for _, p := range []float64{0.9, 0.7, 0.6, 0.85, 0.95} {
		if err := svc.Evaluate("ADAUSDT", p); err != nil {
			t.Fatalf("Evaluate(%v) error: %v", p, err)
		}
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d: %v", len(notifier.sent), notifier.sent)
	}
}

func TestAlertThresholdOrderRefused(t *testing.T) {
	tests := []struct {
		name      string
		low, high float64
	}{
		{name: "inverted", low: 0.9, high: 0.5},
		{name: "equal", low: 0.8, high: 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setWatch(t, "ADAUSDT", tt.low, tt.high)

			notifier := &fakeNotifier{}
			svc := NewAlertService(notifier)

			err := svc.Evaluate("ADAUSDT", 1.0)
			if !errors.Is(err, ErrThresholdOrder) {
				t.Fatalf("expected ErrThresholdOrder, got %v", err)
			}
			if len(notifier.sent) != 0 {
				t.Fatalf("misconfigured thresholds must not alert, got %v", notifier.sent)
			}
		})
	}
}

func TestAlertNotifyFailureKeepsLatch(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	notifier := &fakeNotifier{failing: true}
	svc := NewAlertService(notifier)

	// 第一次突破发送失败，闩锁仍然置位
	if err := svc.Evaluate("ADAUSDT", 0.9); err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if svc.NotifyFailures() != 1 {
		t.Fatalf("expected 1 notify failure, got %d", svc.NotifyFailures())
	}

	// 通知恢复后，价格仍在上方也不应重发
	notifier.failing = false
	if err := svc.Evaluate("ADAUSDT", 0.95); err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("failed send still counts as sent, got %v", notifier.sent)
	}
}

func TestAlertLatchIsPerSymbol(t *testing.T) {
	setWatch(t, "ADAUSDT", 0.5, 0.8)

	notifier := &fakeNotifier{}
	svc := NewAlertService(notifier)

	if err := svc.Evaluate("ADAUSDT", 0.9); err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if err := svc.Evaluate("DOGEUSDT", 0.9); err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("expected one notification per symbol, got %d", len(notifier.sent))
	}
}
