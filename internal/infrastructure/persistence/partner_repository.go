package persistence

import (
	"context"

	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/cosecha/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, partner.ErrCustomerNotFound)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the customer profile of a user
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err, partner.ErrCustomerNotFound)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return translateError(r.db.WithContext(ctx).Save(model).Error, partner.ErrCustomerNotFound)
}

// GormProducerRepository implements partner.ProducerRepository using GORM
type GormProducerRepository struct {
	db *gorm.DB
}

// NewGormProducerRepository creates a new GormProducerRepository
func NewGormProducerRepository(db *gorm.DB) *GormProducerRepository {
	return &GormProducerRepository{db: db}
}

// FindByID finds a producer by its ID
func (r *GormProducerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Producer, error) {
	var model models.ProducerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, partner.ErrProducerNotFound)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the producer profile of a user
func (r *GormProducerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Producer, error) {
	var model models.ProducerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err, partner.ErrProducerNotFound)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a producer
func (r *GormProducerRepository) Save(ctx context.Context, producer *partner.Producer) error {
	model := models.ProducerModelFromDomain(producer)
	return translateError(r.db.WithContext(ctx).Save(model).Error, partner.ErrProducerNotFound)
}

var (
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.ProducerRepository = (*GormProducerRepository)(nil)
)
