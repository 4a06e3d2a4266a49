package telemetry

import (
	"context"

	"github.com/cosecha/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeStatsProvider implements TradeStatsProvider using GORM.
// It reads the trade tables directly for aggregated counts.
type GormTradeStatsProvider struct {
	db *gorm.DB
}

// NewGormTradeStatsProvider creates a new GormTradeStatsProvider.
func NewGormTradeStatsProvider(db *gorm.DB) *GormTradeStatsProvider {
	return &GormTradeStatsProvider{db: db}
}

// CountActiveCarts returns the number of carts that have not been checked out.
func (p *GormTradeStatsProvider) CountActiveCarts(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("carts").
		Where("finalized = ?", false).
		Count(&count).Error
	return count, err
}

// CountOutOfStockArticles returns the number of articles with zero stock.
func (p *GormTradeStatsProvider) CountOutOfStockArticles(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("articles").
		Where("stock <= 0").
		Count(&count).Error
	return count, err
}

// CountProducerOrdersByStatus returns sub-order counts keyed by status.
func (p *GormTradeStatsProvider) CountProducerOrdersByStatus(ctx context.Context) (map[trade.ProducerOrderStatus]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("producer_orders").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	m := make(map[trade.ProducerOrderStatus]int64, len(results))
	for _, r := range results {
		m[trade.ProducerOrderStatus(r.Status)] = r.Count
	}
	return m, nil
}
