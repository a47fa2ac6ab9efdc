package watch

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coinwatch/conf"
	"coinwatch/pkg/errors/ecode"
	"coinwatch/pkg/response"

	json "github.com/goccy/go-json"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "watch:\n  symbol: ADAUSDT\n  threshold_low: 0.5\n  threshold_high: 0.8\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := conf.LoadConfig(path); err != nil {
		t.Fatalf("load config: %v", err)
	}

	h := NewHandler()
	g := gin.New()
	g.GET("/watch", h.ConfigGet())
	g.POST("/watch", h.ConfigSet())
	return g
}

func TestConfigGet(t *testing.T) {
	g := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/watch", nil)
	g.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp response.ApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != ecode.Success {
		t.Fatalf("code = %d, want success", resp.Code)
	}
}

func TestConfigSetRejectsBadThresholds(t *testing.T) {
	g := setupRouter(t)

	body := `{"symbol":"ADAUSDT","threshold_low":0.9,"threshold_high":0.5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/watch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp response.ApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != ecode.ThresholdOrderErr {
		t.Fatalf("code = %d, want ThresholdOrderErr", resp.Code)
	}

	// 非法请求不能污染当前配置
	if got := conf.GetWatch().ThresholdLow; got != 0.5 {
		t.Fatalf("config mutated by rejected request: low = %v", got)
	}
}

func TestConfigSetUpdatesAndPersists(t *testing.T) {
	g := setupRouter(t)

	body := `{"symbol":"dogeusdt","threshold_low":0.1,"threshold_high":0.3}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/watch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	got := conf.GetWatch()
	if got.Symbol != "DOGEUSDT" {
		t.Errorf("symbol not normalized: %q", got.Symbol)
	}
	if got.ThresholdLow != 0.1 || got.ThresholdHigh != 0.3 {
		t.Errorf("thresholds not applied: %+v", got)
	}
}
