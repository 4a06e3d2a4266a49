package partner

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewCustomer(uuid.New(), "Lucía", "lucia@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Lucía", c.Name)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("nil user", func(t *testing.T) {
		_, err := NewCustomer(uuid.Nil, "Lucía", "")
		assert.Error(t, err)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "   ", "")
		assert.Error(t, err)
	})
}

func TestCustomer_EnsureCanOrder(t *testing.T) {
	tests := []struct {
		name    string
		address string
		phone   string
		missing []string
	}{
		{"complete", "Calle Mayor 1", "600000000", nil},
		{"missing address", "", "600000000", []string{FieldAddress}},
		{"missing phone", "Calle Mayor 1", " ", []string{FieldPhone}},
		{"missing both", "", "", []string{FieldAddress, FieldPhone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCustomer(uuid.New(), "Lucía", "")
			require.NoError(t, err)
			require.NoError(t, c.SetShippingContact(tt.address, tt.phone))

			assert.Equal(t, tt.missing, c.MissingProfileFields())

			err = c.EnsureCanOrder()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncompleteProfile))
		})
	}
}

func TestCustomer_SetShippingContact_BumpsVersion(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Lucía", "")
	require.NoError(t, err)
	require.NoError(t, c.SetShippingContact("Calle Mayor 1", "600000000"))
	assert.Equal(t, 2, c.Version)
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(uuid.New(), "Huerta Norte", "huerta@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Huerta Norte", p.Name)

	_, err = NewProducer(uuid.New(), "", "")
	assert.Error(t, err)
}
