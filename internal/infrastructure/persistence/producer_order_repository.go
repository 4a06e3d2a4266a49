package persistence

import (
	"context"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProducerOrderRepository implements trade.ProducerOrderRepository using GORM
type GormProducerOrderRepository struct {
	db *gorm.DB
}

// NewGormProducerOrderRepository creates a new GormProducerOrderRepository
func NewGormProducerOrderRepository(db *gorm.DB) *GormProducerOrderRepository {
	return &GormProducerOrderRepository{db: db}
}

func preloadProducerOrderLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toProducerOrders(rows []models.ProducerOrderModel) []trade.ProducerOrder {
	orders := make([]trade.ProducerOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// FindByID finds a producer order by its ID
func (r *GormProducerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ProducerOrder, error) {
	var model models.ProducerOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadProducerOrderLines).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, trade.ErrProducerOrderNotFound)
	}
	return model.ToDomain(), nil
}

// FindByOrder lists the producer orders of an order in creation order
func (r *GormProducerOrderRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.ProducerOrder, error) {
	var rows []models.ProducerOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadProducerOrderLines).
		Where("order_id = ?", orderID).
		Order("created_at ASC, order_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducerOrders(rows), nil
}

// FindByOrders lists the producer orders of several orders
func (r *GormProducerOrderRepository) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]trade.ProducerOrder, error) {
	if len(orderIDs) == 0 {
		return []trade.ProducerOrder{}, nil
	}
	var rows []models.ProducerOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadProducerOrderLines).
		Where("order_id IN ?", orderIDs).
		Order("created_at ASC, order_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducerOrders(rows), nil
}

// FindByProducer lists a producer's orders, newest first
func (r *GormProducerOrderRepository) FindByProducer(ctx context.Context, producerID uuid.UUID, filter trade.ProducerOrderFilter) ([]trade.ProducerOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Lines", preloadProducerOrderLines).
		Where("producer_id = ?", producerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	var rows []models.ProducerOrderModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducerOrders(rows), nil
}

// CreateBatch inserts producer orders and their lines
func (r *GormProducerOrderRepository) CreateBatch(ctx context.Context, orders []*trade.ProducerOrder) error {
	if len(orders) == 0 {
		return nil
	}
	rows := make([]*models.ProducerOrderModel, len(orders))
	for i, po := range orders {
		rows[i] = models.ProducerOrderModelFromDomain(po)
	}
	return translateError(r.db.WithContext(ctx).Create(&rows).Error, trade.ErrProducerOrderNotFound)
}

// SaveWithLock updates status and notes with optimistic locking
func (r *GormProducerOrderRepository) SaveWithLock(ctx context.Context, po *trade.ProducerOrder) error {
	nextVersion := po.Version + 1
	updatedAt := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ProducerOrderModel{}).
		Where("id = ? AND version = ?", po.ID, po.Version).
		Updates(map[string]any{
			"status":            po.Status,
			"notes":             po.Notes,
			"status_updated_at": po.StatusUpdatedAt,
			"version":           nextVersion,
			"updated_at":        updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.ProducerOrderModel{}).Where("id = ?", po.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return trade.ErrProducerOrderNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	po.Version = nextVersion
	po.UpdatedAt = updatedAt
	return nil
}

// GenerateOrderNumber generates the next free sub-order number of a producer for day.
// Format: OVP-YYYYMMDD-<producerId>-NNNN
func (r *GormProducerOrderRepository) GenerateOrderNumber(ctx context.Context, day time.Time, producerID uuid.UUID) (string, error) {
	return nextSequencedNumber(ctx, r.db, &models.ProducerOrderModel{}, trade.ProducerOrderNumberDayPrefix(day, producerID),
		func(seq int) string { return trade.FormatProducerOrderNumber(day, producerID, seq) })
}

var _ trade.ProducerOrderRepository = (*GormProducerOrderRepository)(nil)
