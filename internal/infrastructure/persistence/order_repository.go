package persistence

import (
	"context"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadOrderLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadOrderLines).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, trade.ErrOrderNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an order and takes a row lock (SELECT ... FOR UPDATE)
// held until the surrounding transaction ends
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, trade.ErrOrderNotFound)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("position ASC").
		Find(&model.Lines).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists a customer's orders, newest first
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadOrderLines).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Create inserts an order and its lines
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return translateError(r.db.WithContext(ctx).Create(model).Error, trade.ErrOrderNotFound)
}

// SaveWithLock updates the status fields of an order with optimistic locking.
// Lines and amounts are immutable and never written here.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	nextVersion := order.Version + 1
	updatedAt := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":            order.Status,
			"status_updated_at": order.StatusUpdatedAt,
			"split_at":          order.SplitAt,
			"cancel_reason":     order.CancelReason,
			"cancelled_at":      order.CancelledAt,
			"version":           nextVersion,
			"updated_at":        updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return trade.ErrOrderNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	order.Version = nextVersion
	order.UpdatedAt = updatedAt
	return nil
}

func (r *GormOrderRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByOrderNumber checks if an order number is taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates the next free order number of day.
// Format: PED-YYYYMMDD-NNNN (e.g., PED-20261017-0001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, day time.Time) (string, error) {
	return nextSequencedNumber(ctx, r.db, &models.OrderModel{}, trade.OrderNumberDayPrefix(day),
		func(seq int) string { return trade.FormatOrderNumber(day, seq) })
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
