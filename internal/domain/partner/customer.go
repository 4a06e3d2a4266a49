package partner

import (
	"strings"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound = shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer profile not found")
	ErrProducerNotFound = shared.NewDomainError("PRODUCER_NOT_FOUND", "Producer profile not found")
	// ErrIncompleteProfile is returned when the profile lacks data needed to ship an order
	ErrIncompleteProfile = shared.NewDomainError("INCOMPLETE_PROFILE", "Customer profile is incomplete")
)

// Profile fields checked before an order can be placed
const (
	FieldAddress = "address"
	FieldPhone   = "phone"
)

// Customer is the buyer profile linked to an authenticated user
type Customer struct {
	shared.BaseAggregateRoot
	UserID  uuid.UUID
	Name    string
	Email   string
	Address string
	Phone   string
}

// NewCustomer creates a customer profile for a user
func NewCustomer(userID uuid.UUID, name, email string) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Name:              name,
		Email:             email,
	}, nil
}

// SetShippingContact sets the delivery address and phone
func (c *Customer) SetShippingContact(address, phone string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	c.Address = address
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MissingProfileFields lists the shipping fields that are blank, address first
func (c *Customer) MissingProfileFields() []string {
	var missing []string
	if strings.TrimSpace(c.Address) == "" {
		missing = append(missing, FieldAddress)
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	return missing
}

// EnsureCanOrder fails with INCOMPLETE_PROFILE naming the missing fields
func (c *Customer) EnsureCanOrder() error {
	missing := c.MissingProfileFields()
	if len(missing) == 0 {
		return nil
	}
	return shared.NewDomainErrorf(ErrIncompleteProfile.Code,
		"Complete your %s before placing an order", strings.Join(missing, " and ")).
		WithDetail("missing_fields", missing)
}
