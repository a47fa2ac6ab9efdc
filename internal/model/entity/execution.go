package entity

import "time"

// Execution 交易所回报的单笔成交（trade_history表结构）。
// TradeID为交易所分配的成交ID，唯一索引，用于覆盖式拉取时幂等去重。
type Execution struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	TradeID         int64     `gorm:"column:trade_id;uniqueIndex:uniq_trade_id;not null" json:"trade_id"`
	OrderID         int64     `gorm:"column:order_id;index:idx_order_id;not null" json:"order_id"`
	Symbol          string    `gorm:"type:varchar(20);not null" json:"symbol"`
	Side            string    `gorm:"type:varchar(10);not null" json:"side"` // BUY / SELL
	Price           float64   `gorm:"type:decimal(20,8);not null" json:"price"`
	Quantity        float64   `gorm:"type:decimal(20,8);not null" json:"quantity"`
	Commission      float64   `gorm:"type:decimal(20,8);not null" json:"commission"`
	CommissionAsset string    `gorm:"type:varchar(10);not null" json:"commission_asset"`
	QuoteQty        float64   `gorm:"column:quote_qty;type:decimal(20,8);not null" json:"quote_qty"`
	IsMaker         bool      `gorm:"column:is_maker;not null" json:"is_maker"`
	TradeTime       time.Time `gorm:"column:trade_time;index:idx_trade_time;not null" json:"trade_time"`
}

func (Execution) TableName() string {
	return "trade_history"
}
