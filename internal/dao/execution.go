package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coinwatch/internal/model/entity"
)

// ExecutionDao 成交存储访问接口
type ExecutionDao interface {
	// Record 落库一笔成交。trade_id重复时静默忽略，这是对覆盖式
	// 拉取窗口的幂等保证，重复摄入不会造成双重计数。
	Record(ctx context.Context, exec *entity.Execution) error
	// ListBySymbol 按成交时间升序返回某币种的全部成交
	ListBySymbol(ctx context.Context, symbol string) ([]entity.Execution, error)
	// ListAll 按成交时间升序返回全部成交
	ListAll(ctx context.Context) ([]entity.Execution, error)
}

type executionDao struct {
	db *gorm.DB
}

func NewExecutionDao(db *gorm.DB) ExecutionDao {
	return &executionDao{db: db}
}

func (d *executionDao) Record(ctx context.Context, exec *entity.Execution) error {
	// 靠trade_id唯一索引做存储层去重，冲突时DO NOTHING
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trade_id"}},
			DoNothing: true,
		}).
		Create(exec).Error
}

func (d *executionDao) ListBySymbol(ctx context.Context, symbol string) (list []entity.Execution, err error) {
	err = d.db.WithContext(ctx).Model(&entity.Execution{}).
		Where("symbol = ?", symbol).
		Order("trade_time ASC").
		Find(&list).Error
	return
}

func (d *executionDao) ListAll(ctx context.Context) (list []entity.Execution, err error) {
	err = d.db.WithContext(ctx).Model(&entity.Execution{}).
		Order("trade_time ASC").
		Find(&list).Error
	return
}
