package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "ADAUSDT" {
			t.Errorf("unexpected symbol %s", r.URL.Query().Get("symbol"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"ADAUSDT","price":"0.4400"}`))
	}))
	defer srv.Close()

	client, err := NewBinanceClient("", "", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewBinanceClient error: %v", err)
	}

	price, err := client.FetchPrice(context.Background(), "ADAUSDT")
	if err != nil {
		t.Fatalf("FetchPrice error: %v", err)
	}
	if price != 0.44 {
		t.Fatalf("price = %v, want 0.44", price)
	}
}

func TestFetchPriceErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "rate limited", body: `{"code":-1003,"msg":"Too many requests"}`, code: http.StatusTooManyRequests},
		{name: "bad payload", body: `{"symbol":"ADAUSDT","price":"abc"}`, code: http.StatusOK},
		{name: "non-positive price", body: `{"symbol":"ADAUSDT","price":"0"}`, code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, _ := NewBinanceClient("", "", srv.URL, 5*time.Second)
			_, err := client.FetchPrice(context.Background(), "ADAUSDT")
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %T", err)
			}
		})
	}
}

func TestFetchExecutionsSigned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-MBX-APIKEY") != "test-key" {
			t.Errorf("api key header missing")
		}
		if r.URL.Query().Get("signature") == "" {
			t.Errorf("signature missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"orderId":10,"symbol":"ADAUSDT","price":"0.40","qty":"100","quoteQty":"40","commission":"0.001","commissionAsset":"BNB","time":1748779200000,"isBuyer":true,"isMaker":false}]`))
	}))
	defer srv.Close()

	client, _ := NewBinanceClient("test-key", "test-secret", srv.URL, 5*time.Second)
	raws, err := client.FetchExecutions(context.Background(), "ADAUSDT")
	if err != nil {
		t.Fatalf("FetchExecutions error: %v", err)
	}
	if len(raws) != 1 || raws[0].ID != 1 || !raws[0].IsBuyer {
		t.Fatalf("unexpected result: %+v", raws)
	}
}
