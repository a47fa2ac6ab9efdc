package conf

import (
	"os"
	"path/filepath"
	"testing"
)

const testYaml = `
app_name: coinwatch
listen: ":12190"
watch:
  symbol: ADAUSDT
  threshold_low: 0.5
  threshold_high: 0.8
poll:
  retention-days: 30
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTestConfig(t)
	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	w := GetWatch()
	if w.Symbol != "ADAUSDT" || w.ThresholdLow != 0.5 || w.ThresholdHigh != 0.8 {
		t.Fatalf("watch config not loaded: %+v", w)
	}
	// 未配置的轮询参数要有默认值
	if AppConfig.Poll.Interval <= 0 || AppConfig.Poll.RetryInterval <= 0 {
		t.Fatalf("poll defaults not applied: %+v", AppConfig.Poll)
	}
	if AppConfig.Poll.RetentionDays != 30 {
		t.Fatalf("retention days = %d, want 30", AppConfig.Poll.RetentionDays)
	}
}

func TestUpdateWatchPersists(t *testing.T) {
	path := writeTestConfig(t)
	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	next := WatchConfig{Symbol: "DOGEUSDT", ThresholdLow: 0.1, ThresholdHigh: 0.3}
	if err := UpdateWatch(next); err != nil {
		t.Fatalf("UpdateWatch error: %v", err)
	}

	// 重新加载验证已写回文件
	AppConfig = Config{}
	if err := LoadConfig(path); err != nil {
		t.Fatalf("reload error: %v", err)
	}
	w := GetWatch()
	if w != next {
		t.Fatalf("watch config not persisted: %+v", w)
	}
}
