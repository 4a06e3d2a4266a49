package trade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order number formats: PED-YYYYMMDD-NNNN and OVP-YYYYMMDD-<producerId>-NNNN.
// NNNN is a per-day (and, for sub-orders, per-producer) sequence that wraps
// after 9999 back to 0001.
const (
	OrderNumberPrefix         = "PED"
	ProducerOrderNumberPrefix = "OVP"
	MaxDailySequence          = 9999
	orderNumberDateLayout     = "20060102"
)

// OrderNumberDayPrefix returns the prefix shared by all order numbers of day
func OrderNumberDayPrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", OrderNumberPrefix, day.Format(orderNumberDateLayout))
}

// FormatOrderNumber builds PED-YYYYMMDD-NNNN
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", OrderNumberDayPrefix(day), seq)
}

// ProducerOrderNumberDayPrefix returns the prefix shared by one producer's sub-orders of day
func ProducerOrderNumberDayPrefix(day time.Time, producerID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s-", ProducerOrderNumberPrefix, day.Format(orderNumberDateLayout), producerID)
}

// FormatProducerOrderNumber builds OVP-YYYYMMDD-<producerId>-NNNN
func FormatProducerOrderNumber(day time.Time, producerID uuid.UUID, seq int) string {
	return fmt.Sprintf("%s%04d", ProducerOrderNumberDayPrefix(day, producerID), seq)
}

// ParseSequence extracts NNNN from number when it starts with prefix
func ParseSequence(number, prefix string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil || seq < 1 || seq > MaxDailySequence {
		return 0, false
	}
	return seq, true
}

// NextSequence returns the sequence after last, wrapping past MaxDailySequence
func NextSequence(last int) int {
	if last < 0 || last >= MaxDailySequence {
		return 1
	}
	return last + 1
}
