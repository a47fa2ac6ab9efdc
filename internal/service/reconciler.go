package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"coinwatch/internal/consts"
	"coinwatch/internal/dao"
	"coinwatch/internal/model"
	"coinwatch/internal/model/entity"
	"coinwatch/pkg/logger"
)

// ReconcilerService 把扁平的成交流水对账成订单级视图并归因盈亏。
//
// 盈亏采用"最近买入价"匹配：按订单开仓时间从早到晚扫描，
// 每个BUY订单覆盖该币种的最近买入价，SELL订单相对最近买入价计算
// 百分比盈亏。卖出后不清空买入价，后续无新买入的卖出会复用同一个
// 买入价，这是刻意保留的简化规则，不做FIFO队列配对。
type ReconcilerService struct {
	executionDao dao.ExecutionDao
	// lastBuy是每轮扫描的中间状态，扫描对顺序敏感，必须串行
	mu sync.Mutex
}

func NewReconcilerService(executionDao dao.ExecutionDao) *ReconcilerService {
	return &ReconcilerService{executionDao: executionDao}
}

// orderGroup 同一order_id下所有成交的聚合
type orderGroup struct {
	trade entity.Execution // 最早一笔成交，取其时间和币种
	side  string
	qty   float64
	// 多价位成交时算加权均价用
	notional   float64
	multiPrice bool
}

// Reconcile 返回最新在前的对账结果，最多limit条。
// 单个订单方向非法时跳过该订单并记录，整轮继续。
func (s *ReconcilerService) Reconcile(ctx context.Context, limit int) ([]model.ReconciledTrade, error) {
	if limit <= 0 || limit > consts.ReconcileLimitDefault {
		limit = consts.ReconcileLimitDefault
	}

	executions, err := s.executionDao.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list executions error: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups := groupByOrder(executions)

	// 按订单开仓时间升序排列，归因是从左到右的单遍扫描，顺序敏感
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].trade.TradeTime.Before(groups[j].trade.TradeTime)
	})

	trades := make([]model.ReconciledTrade, 0, len(groups))
	lastBuy := make(map[string]float64)
	skipped := 0

	for _, g := range groups {
		side := strings.ToUpper(g.side)
		if side != consts.SideBuy && side != consts.SideSell {
			// 非法方向只影响这一个订单
			logger.Warnf("reconcile: order %d has unknown side %q, skipped", g.trade.OrderID, g.side)
			skipped++
			continue
		}

		price := g.trade.Price
		if g.multiPrice && g.qty > 0 {
			// 同一订单出现多个成交价，代表价格取成交量加权均价
			price = g.notional / g.qty
		}

		profit := consts.ProfitUnknown
		switch side {
		case consts.SideBuy:
			lastBuy[g.trade.Symbol] = price
		case consts.SideSell:
			if bp, ok := lastBuy[g.trade.Symbol]; ok && bp > 0 {
				profit = fmt.Sprintf("%+.2f%%", (price-bp)/bp*100)
			}
		}

		trades = append(trades, model.ReconciledTrade{
			TradeTime: g.trade.TradeTime,
			Symbol:    g.trade.Symbol,
			Side:      side,
			Price:     price,
			Quantity:  g.qty,
			ProfitPct: profit,
		})
	}

	if skipped > 0 {
		logger.Warnf("reconcile: %d order(s) skipped due to malformed side", skipped)
	}

	// 展示要求最新在前
	reverse(trades)
	if len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

func groupByOrder(executions []entity.Execution) []*orderGroup {
	byOrder := make(map[int64]*orderGroup)
	order := make([]int64, 0)
	for _, e := range executions {
		g, ok := byOrder[e.OrderID]
		if !ok {
			g = &orderGroup{trade: e, side: e.Side}
			byOrder[e.OrderID] = g
			order = append(order, e.OrderID)
		}
		if e.Price != g.trade.Price {
			g.multiPrice = true
		}
		// 同一订单的所有成交方向一致，最早成交时间代表订单开仓时间
		if e.TradeTime.Before(g.trade.TradeTime) {
			g.trade = e
		}
		g.qty += e.Quantity
		g.notional += e.Price * e.Quantity
	}

	groups := make([]*orderGroup, 0, len(byOrder))
	for _, id := range order {
		groups = append(groups, byOrder[id])
	}
	return groups
}

func reverse(trades []model.ReconciledTrade) {
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
}
