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

// GormCartRepository implements trade.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func preloadCartItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindActiveByCustomer finds the customer's cart that has not been checked out
func (r *GormCartRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*trade.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadCartItems).
		Where("customer_id = ? AND finalized = ?", customerID, false).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err, trade.ErrNoActiveCart)
	}
	return model.ToDomain(), nil
}

// FindByID finds a cart by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadCartItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, trade.ErrCartNotFound)
	}
	return model.ToDomain(), nil
}

// Save inserts a new cart, or updates an existing one under a version check
// and replaces its items
func (r *GormCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var versions []int
		if err := tx.Model(&models.CartModel{}).
			Where("id = ?", cart.ID).
			Pluck("version", &versions).Error; err != nil {
			return err
		}

		if len(versions) == 0 {
			model := models.CartModelFromDomain(cart)
			return translateError(tx.Create(model).Error, trade.ErrCartNotFound)
		}

		if versions[0] != cart.Version {
			return shared.ErrConcurrencyConflict
		}

		nextVersion := cart.Version + 1
		updatedAt := time.Now()
		result := tx.Model(&models.CartModel{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"finalized":    cart.Finalized,
				"finalized_at": cart.FinalizedAt,
				"subtotal":     cart.Subtotal,
				"tax":          cart.Tax,
				"shipping":     cart.Shipping,
				"total":        cart.Total,
				"version":      nextVersion,
				"updated_at":   updatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(cart.Items) > 0 {
			items := models.CartModelFromDomain(cart).Items
			if err := tx.Create(&items).Error; err != nil {
				return translateError(err, trade.ErrCartNotFound)
			}
		}

		cart.Version = nextVersion
		cart.UpdatedAt = updatedAt
		return nil
	})
}

var _ trade.CartRepository = (*GormCartRepository)(nil)
