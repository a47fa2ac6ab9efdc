package model

import (
	"errors"
	"time"
)

// ErrMalformedRecord 单条记录校验失败（非法方向、非正价格等），
// 跳过该条继续处理，不中断整批
var ErrMalformedRecord = errors.New("malformed record")

// ReconciledTrade 对账后的逻辑订单视图：同一order_id的所有成交聚合为一行
type ReconciledTrade struct {
	TradeTime time.Time `json:"trade_time"` // 订单最早成交时间
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Price     float64   `json:"price"`    // 代表价格，多价位成交时取成交量加权均价
	Quantity  float64   `json:"quantity"` // 各笔成交数量之和
	ProfitPct string    `json:"profit_pct"` // "+10.00%"格式；无法归因时为"-"
}

// RawExecution 交易所原始成交回报，字段对应binance myTrades返回
type RawExecution struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"orderId"`
	Symbol          string  `json:"symbol"`
	Price           string  `json:"price"`
	Qty             string  `json:"qty"`
	QuoteQty        string  `json:"quoteQty"`
	Commission      string  `json:"commission"`
	CommissionAsset string  `json:"commissionAsset"`
	Time            int64   `json:"time"` // 毫秒时间戳
	IsBuyer         bool    `json:"isBuyer"`
	IsMaker         bool    `json:"isMaker"`
}
