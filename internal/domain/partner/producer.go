package partner

import (
	"strings"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Producer is the seller profile linked to an authenticated user
type Producer struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID
	Name   string
	Email  string
}

// NewProducer creates a producer profile for a user
func NewProducer(userID uuid.UUID, name, email string) (*Producer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCER_NAME", "Producer name cannot be empty")
	}
	return &Producer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Name:              name,
		Email:             email,
	}, nil
}
