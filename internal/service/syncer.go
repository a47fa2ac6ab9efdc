package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coinwatch/conf"
	"coinwatch/internal/consts"
	"coinwatch/internal/dao"
	"coinwatch/internal/exchange"
	"coinwatch/internal/model"
	"coinwatch/internal/model/entity"
	"coinwatch/pkg/logger"
	"coinwatch/pkg/utils"
)

// SyncService 从交易所拉取成交回报并幂等落库。
// 拉取窗口允许和历史重叠，重复的trade_id在存储层被吸收。
type SyncService struct {
	source       exchange.ExecutionSource
	executionDao dao.ExecutionDao
	interval     time.Duration
}

func NewSyncService(source exchange.ExecutionSource, executionDao dao.ExecutionDao, interval time.Duration) *SyncService {
	return &SyncService{
		source:       source,
		executionDao: executionDao,
		interval:     interval,
	}
}

// Run 启动时先同步一次，之后按固定间隔同步，直到ctx取消
func (s *SyncService) Run(ctx context.Context) {
	logger.Infof("execution sync started, interval=%s", s.interval)

	if err := s.SyncOnce(ctx); err != nil {
		logger.Errorf("execution sync error: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("execution sync stopped")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				// 瞬时故障，下一轮再试
				logger.Errorf("execution sync error: %v", err)
			}
		}
	}
}

// SyncOnce 拉取当前监控币种的成交并逐条落库。
// 单条记录非法只跳过该条，存储错误中断本轮。
func (s *SyncService) SyncOnce(ctx context.Context) error {
	symbol := conf.GetWatch().Symbol

	raws, err := s.source.FetchExecutions(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch executions: %w", err)
	}

	stored, skipped := 0, 0
	for _, raw := range raws {
		exec, err := convertExecution(raw)
		if err != nil {
			logger.Warnf("execution sync: skip trade %d: %v", raw.ID, err)
			skipped++
			continue
		}
		if err := s.executionDao.Record(ctx, exec); err != nil {
			return fmt.Errorf("record trade %d: %w", raw.ID, err)
		}
		stored++
	}

	logger.Infof("execution sync done: %d fetched, %d stored, %d skipped", len(raws), stored, skipped)
	return nil
}

// convertExecution 把交易所原始回报转成存储实体：
// isBuyer标志转BUY/SELL，毫秒时间戳转time.Time，数值字段解析并校验
func convertExecution(raw model.RawExecution) (*entity.Execution, error) {
	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("%w: bad price %q", model.ErrMalformedRecord, raw.Price)
	}
	qty, err := strconv.ParseFloat(raw.Qty, 64)
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: bad qty %q", model.ErrMalformedRecord, raw.Qty)
	}
	quoteQty, _ := strconv.ParseFloat(raw.QuoteQty, 64)
	commission, _ := strconv.ParseFloat(raw.Commission, 64)
	if raw.ID <= 0 || raw.OrderID <= 0 {
		return nil, fmt.Errorf("%w: missing trade/order id", model.ErrMalformedRecord)
	}

	side := consts.SideSell
	if raw.IsBuyer {
		side = consts.SideBuy
	}

	return &entity.Execution{
		TradeID:         raw.ID,
		OrderID:         raw.OrderID,
		Symbol:          utils.NormalizeSymbol(raw.Symbol),
		Side:            side,
		Price:           price,
		Quantity:        qty,
		Commission:      commission,
		CommissionAsset: raw.CommissionAsset,
		QuoteQty:        quoteQty,
		IsMaker:         raw.IsMaker,
		TradeTime:       time.UnixMilli(raw.Time),
	}, nil
}
