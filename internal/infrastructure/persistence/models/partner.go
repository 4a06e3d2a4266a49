package models

import (
	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name    string    `gorm:"type:varchar(200);not null"`
	Email   string    `gorm:"type:varchar(200);index"`
	Address string    `gorm:"type:varchar(500)"`
	Phone   string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Name:              m.Name,
		Email:             m.Email,
		Address:           m.Address,
		Phone:             m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.UserID = c.UserID
	m.Name = c.Name
	m.Email = c.Email
	m.Address = c.Address
	m.Phone = c.Phone
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ProducerModel is the persistence model for the Producer domain entity.
type ProducerModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name   string    `gorm:"type:varchar(200);not null"`
	Email  string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ProducerModel) TableName() string {
	return "producers"
}

// ToDomain converts the persistence model to a domain Producer entity.
func (m *ProducerModel) ToDomain() *partner.Producer {
	return &partner.Producer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Name:              m.Name,
		Email:             m.Email,
	}
}

// FromDomain populates the persistence model from a domain Producer entity.
func (m *ProducerModel) FromDomain(p *partner.Producer) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.Name = p.Name
	m.Email = p.Email
}

// ProducerModelFromDomain creates a new persistence model from a domain Producer entity.
func ProducerModelFromDomain(p *partner.Producer) *ProducerModel {
	m := &ProducerModel{}
	m.FromDomain(p)
	return m
}
