package persistence

import (
	"context"
	"fmt"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// ErrOrderNumbersExhausted is returned when every sequence of a day is taken
var ErrOrderNumbersExhausted = shared.NewDomainError("ORDER_NUMBERS_EXHAUSTED", "No order number left for today")

// nextSequencedNumber picks the number after the highest one starting with
// prefix in the order_number column of model's table, then probes forward
// (wrapping after 9999) until it finds one that is not taken.
func nextSequencedNumber(ctx context.Context, db *gorm.DB, model any, prefix string, format func(seq int) string) (string, error) {
	var last []string
	if err := db.WithContext(ctx).
		Model(model).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error; err != nil {
		return "", fmt.Errorf("failed to read last order number: %w", err)
	}

	seq := 1
	if len(last) > 0 {
		if n, ok := trade.ParseSequence(last[0], prefix); ok {
			seq = trade.NextSequence(n)
		}
	}

	for attempt := 0; attempt < trade.MaxDailySequence; attempt++ {
		number := format(seq)
		var count int64
		if err := db.WithContext(ctx).
			Model(model).
			Where("order_number = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		seq = trade.NextSequence(seq)
	}
	return "", ErrOrderNumbersExhausted
}
