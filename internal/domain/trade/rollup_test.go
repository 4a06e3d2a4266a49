package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollup(t *testing.T) {
	const (
		p  = ProducerOrderStatusPending
		ip = ProducerOrderStatusInProcess
		s  = ProducerOrderStatusShipped
		d  = ProducerOrderStatusDelivered
		c  = ProducerOrderStatusCancelled
	)

	tests := []struct {
		name     string
		statuses []ProducerOrderStatus
		want     OrderStatus
	}{
		{"single pending", []ProducerOrderStatus{p}, OrderStatusPending},
		{"in process counts as pending", []ProducerOrderStatus{ip, p}, OrderStatusPending},
		{"all delivered", []ProducerOrderStatus{d, d}, OrderStatusDelivered},
		{"all cancelled", []ProducerOrderStatus{c, c}, OrderStatusCancelled},
		{"one shipped", []ProducerOrderStatus{s, p}, OrderStatusPreparing},
		{"all shipped", []ProducerOrderStatus{s, s}, OrderStatusPreparing},
		{"delivered and cancelled", []ProducerOrderStatus{d, c}, OrderStatusPreparing},
		{"one cancelled one pending", []ProducerOrderStatus{c, p}, OrderStatusPreparing},
		{"delivered and in process", []ProducerOrderStatus{d, ip}, OrderStatusPreparing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Rollup(tt.statuses)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)

			again, _ := Rollup(tt.statuses)
			assert.Equal(t, got, again)
		})
	}
}

func TestRollup_Empty(t *testing.T) {
	_, ok := Rollup(nil)
	assert.False(t, ok)
}

func TestRollup_NeverConfirmed(t *testing.T) {
	for _, a := range AllProducerOrderStatuses {
		for _, b := range AllProducerOrderStatuses {
			got, ok := Rollup([]ProducerOrderStatus{a, b})
			assert.True(t, ok)
			assert.NotEqual(t, OrderStatusConfirmed, got)
			assert.NotEqual(t, OrderStatusShipped, got)
		}
	}
}
