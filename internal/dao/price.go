package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"coinwatch/internal/model/entity"
)

// PriceDao 价格历史存储访问接口
type PriceDao interface {
	// Append 追加一条价格采样，时间取当前时刻
	Append(ctx context.Context, symbol string, price float64) error
	// PurgeOlderThan 删除早于now-days的采样，返回删除行数
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	// Recent 按时间倒序返回最近limit条采样
	Recent(ctx context.Context, limit int) ([]entity.PricePoint, error)
	// Latest 返回某币种最近一条采样
	Latest(ctx context.Context, symbol string) (entity.PricePoint, error)
}

type priceDao struct {
	db *gorm.DB
}

func NewPriceDao(db *gorm.DB) PriceDao {
	return &priceDao{db: db}
}

func (d *priceDao) Append(ctx context.Context, symbol string, price float64) error {
	point := entity.PricePoint{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Now(),
	}
	return d.db.WithContext(ctx).Create(&point).Error
}

func (d *priceDao) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := d.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&entity.PricePoint{})
	return result.RowsAffected, result.Error
}

func (d *priceDao) Recent(ctx context.Context, limit int) (list []entity.PricePoint, err error) {
	err = d.db.WithContext(ctx).Model(&entity.PricePoint{}).
		Order("timestamp DESC").
		Limit(limit).
		Find(&list).Error
	return
}

func (d *priceDao) Latest(ctx context.Context, symbol string) (point entity.PricePoint, err error) {
	err = d.db.WithContext(ctx).Model(&entity.PricePoint{}).
		Where("symbol = ?", symbol).
		Order("timestamp DESC").
		Limit(1).
		Find(&point).Error
	return
}
