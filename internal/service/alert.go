package service

import (
	"fmt"
	"sync"

	"coinwatch/conf"
	"coinwatch/pkg/errors"
	"coinwatch/pkg/errors/ecode"
	"coinwatch/pkg/logger"
)

// Notifier 报警出站通道。投递失败由调用方记录，不重试。
type Notifier interface {
	Notify(subject, body string) error
}

// ErrThresholdOrder 阈值配置非法：低阈值不小于高阈值
var ErrThresholdOrder = errors.New(ecode.ThresholdOrderErr)

// alertLatch 单币种的报警闩锁。
// 两个布尔互斥：突破一侧时清掉另一侧，所以等价于
// Idle / HighLatched / LowLatched 三态机。
type alertLatch struct {
	highSent bool
	lowSent  bool
}

// AlertService 阈值突破报警状态机。
//
// 迟滞语义：价格越过上阈值只在第一次发报警，之后一直停留在上方
// 不再重复发；只有跌破下阈值才会清掉上方闩锁（反之亦然）。价格
// 回到区间内部不会复位任何闩锁，一次冲高回落只产生一条报警。
type AlertService struct {
	notifier Notifier
	// 闩锁状态顺序敏感，评估必须串行
	mu      sync.Mutex
	latches map[string]*alertLatch
	// 投递失败计数，失败仍然置闩锁，避免通知故障期间报警风暴
	notifyFailures uint64
}

func NewAlertService(notifier Notifier) *AlertService {
	return &AlertService{
		notifier: notifier,
		latches:  make(map[string]*alertLatch),
	}
}

// Evaluate 用一次价格观测驱动状态机。
// 每次调用都从conf读取当前阈值，不缓存配置。
func (s *AlertService) Evaluate(symbol string, price float64) error {
	watch := conf.GetWatch()
	low, high := watch.ThresholdLow, watch.ThresholdHigh
	if low >= high {
		// 配置非法时拒绝评估，否则每个tick都会误报
		return ErrThresholdOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	latch, ok := s.latches[symbol]
	if !ok {
		latch = &alertLatch{}
		s.latches[symbol] = latch
	}

	switch {
	case price > high && !latch.highSent:
		latch.highSent = true
		latch.lowSent = false
		s.dispatch(
			fmt.Sprintf("%s price above %g", symbol, high),
			fmt.Sprintf("Current price is %.4f, above the high threshold %g.", price, high),
		)
	case price < low && !latch.lowSent:
		latch.lowSent = true
		latch.highSent = false
		s.dispatch(
			fmt.Sprintf("%s price below %g", symbol, low),
			fmt.Sprintf("Current price is %.4f, below the low threshold %g.", price, low),
		)
	}
	// 区间内不动作，闩锁保持原状
	return nil
}

// dispatch 发出一条报警。失败只记日志和计数，闩锁已置位，
// 不因发送失败回滚，防止通知通道故障时重复轰炸。
func (s *AlertService) dispatch(subject, body string) {
	if err := s.notifier.Notify(subject, body); err != nil {
		s.notifyFailures++
		logger.Errorf("alert notify failed (latch kept): %v", err)
		return
	}
	logger.Info("alert sent", logger.Pair("subject", subject))
}

// NotifyFailures 返回投递失败累计次数
func (s *AlertService) NotifyFailures() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyFailures
}
