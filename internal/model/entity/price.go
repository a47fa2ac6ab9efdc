package entity

import "time"

// PricePoint 价格采样记录（price_history表结构），按时间滚动保留
type PricePoint struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Symbol    string    `gorm:"type:varchar(20);not null" json:"symbol"`
	Price     float64   `gorm:"type:decimal(20,8);not null" json:"price"`
	Timestamp time.Time `gorm:"index:idx_price_ts;not null" json:"time"`
}

func (PricePoint) TableName() string {
	return "price_history"
}
