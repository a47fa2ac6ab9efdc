package conf

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、邮件、监控参数等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WatchConfig 监控目标配置：币种与上下限阈值。
// 运行期可通过 /watch 接口修改并写回配置文件。
type WatchConfig struct {
	Symbol        string  `yaml:"symbol"`
	ThresholdLow  float64 `yaml:"threshold_low"`
	ThresholdHigh float64 `yaml:"threshold_high"`
}

// PollConfig 轮询驱动配置
type PollConfig struct {
	Interval      time.Duration `yaml:"interval"`       // 正常轮询间隔
	RetryInterval time.Duration `yaml:"retry-interval"` // 抓取失败后的重试间隔
	FetchTimeout  time.Duration `yaml:"fetch-timeout"`  // 单次网络抓取超时
	RetentionDays int           `yaml:"retention-days"` // 价格历史保留天数
	SyncInterval  time.Duration `yaml:"sync-interval"`  // 成交记录同步间隔
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

type EmailConfig struct {
	Host     string `yaml:"smtp_host"`
	Port     int    `yaml:"smtp_port"`
	Username string `yaml:"smtp_user"`
	Password string `yaml:"smtp_password"`
	Sender   string `yaml:"smtp_sender"`
	Receiver string `yaml:"smtp_receiver"`
}

type BinanceConfig struct {
	ApiKey    string `yaml:"apiKey"`
	SecretKey string `yaml:"secretKey"`
	BaseURL   string `yaml:"base_url"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Watch   WatchConfig   `yaml:"watch"`
	Poll    PollConfig    `yaml:"poll"`
	Db      `yaml:"database"`
	Log     LogConfig     `yaml:"log"`
	Email   EmailConfig   `yaml:"email"`
	Binance BinanceConfig `yaml:"binance"`
}

var (
	AppConfig Config
	// watch 段在运行期可被修改，读写都要经过锁
	watchMu    sync.RWMutex
	configPath string
)

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	configPath = path
	applyPollDefaults()
	return nil
}

func applyPollDefaults() {
	if AppConfig.Poll.Interval <= 0 {
		AppConfig.Poll.Interval = time.Minute
	}
	if AppConfig.Poll.RetryInterval <= 0 {
		AppConfig.Poll.RetryInterval = 30 * time.Second
	}
	if AppConfig.Poll.FetchTimeout <= 0 {
		AppConfig.Poll.FetchTimeout = 10 * time.Second
	}
	if AppConfig.Poll.RetentionDays <= 0 {
		AppConfig.Poll.RetentionDays = 30
	}
	if AppConfig.Poll.SyncInterval <= 0 {
		AppConfig.Poll.SyncInterval = 5 * time.Minute
	}
}

// GetWatch 返回当前监控配置的快照。
// 报警和对账组件每次评估前都应该调用它拿最新值，不能缓存。
func GetWatch() WatchConfig {
	watchMu.RLock()
	defer watchMu.RUnlock()
	return AppConfig.Watch
}

// UpdateWatch 更新监控配置并写回配置文件
func UpdateWatch(w WatchConfig) error {
	watchMu.Lock()
	AppConfig.Watch = w
	watchMu.Unlock()
	return SaveConfig()
}

// SaveConfig 把当前配置整体写回加载时的路径
func SaveConfig() error {
	if configPath == "" {
		return fmt.Errorf("config path not set, call LoadConfig first")
	}
	watchMu.RLock()
	data, err := yaml.Marshal(&AppConfig)
	watchMu.RUnlock()
	if err != nil {
		return fmt.Errorf("Marshal config yaml error: %w", err)
	}
	return os.WriteFile(configPath, data, 0o644)
}
