package service

import (
	"context"
	"time"

	"coinwatch/conf"
	"coinwatch/internal/dao"
	"coinwatch/internal/exchange"
	"coinwatch/pkg/logger"
)

// Broadcaster 价格广播通道，fire-and-forget推给在线订阅者
type Broadcaster interface {
	Publish(symbol string, price float64)
}

// PollerService 轮询驱动：定时抓价、落库、驱动报警、广播。
// 单个goroutine拥有整个循环，报警闩锁只被它驱动。
type PollerService struct {
	source      exchange.PriceSource
	priceDao    dao.PriceDao
	alert       *AlertService
	broadcaster Broadcaster

	interval      time.Duration
	retryInterval time.Duration
	fetchTimeout  time.Duration
	retentionDays int
}

func NewPollerService(
	source exchange.PriceSource,
	priceDao dao.PriceDao,
	alert *AlertService,
	broadcaster Broadcaster,
	cfg conf.PollConfig,
) *PollerService {
	return &PollerService{
		source:        source,
		priceDao:      priceDao,
		alert:         alert,
		broadcaster:   broadcaster,
		interval:      cfg.Interval,
		retryInterval: cfg.RetryInterval,
		fetchTimeout:  cfg.FetchTimeout,
		retentionDays: cfg.RetentionDays,
	}
}

// Run 阻塞运行轮询循环直到ctx取消。
// 抓取失败等一个较短的重试间隔再试，任何错误都不会让循环退出。
func (s *PollerService) Run(ctx context.Context) {
	logger.Infof("poller started, interval=%s retry=%s retention=%dd",
		s.interval, s.retryInterval, s.retentionDays)

	timer := time.NewTimer(0) // 启动立即执行一次
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("poller stopped")
			return
		case <-timer.C:
		}

		if s.tick(ctx) {
			timer.Reset(s.interval)
		} else {
			timer.Reset(s.retryInterval)
		}
	}
}

// tick 执行一次采样，返回是否成功
func (s *PollerService) tick(ctx context.Context) bool {
	symbol := conf.GetWatch().Symbol

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	price, err := s.source.FetchPrice(fetchCtx, symbol)
	cancel()
	if err != nil {
		// 瞬时故障：记日志等下一轮，不落库不报警
		logger.Errorf("poller fetch price error: %v", err)
		return false
	}

	if err := s.priceDao.Append(ctx, symbol, price); err != nil {
		logger.Errorf("poller append price error: %v", err)
		return false
	}

	// 清理跟着采样节奏走，保证过期点最多多活一个轮询周期
	if _, err := s.priceDao.PurgeOlderThan(ctx, s.retentionDays); err != nil {
		logger.Errorf("poller purge error: %v", err)
	}

	if err := s.alert.Evaluate(symbol, price); err != nil {
		// 阈值配置非法属于运维问题，循环继续跑
		logger.Errorf("poller alert evaluate refused: %v", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(symbol, price)
	}

	logger.Debugf("poller tick ok: %s=%.6f", symbol, price)
	return true
}
