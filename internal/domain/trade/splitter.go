package trade

import (
	"github.com/google/uuid"
)

// ProducerGroup is the set of order lines fulfilled by one producer
type ProducerGroup struct {
	ProducerID uuid.UUID
	Lines      []OrderLine
}

// SplitResult is the partition of an order's lines
type SplitResult struct {
	// Groups holds one entry per distinct producer, in order of first appearance
	Groups []ProducerGroup
	// Unassigned holds lines whose article had no producer
	Unassigned []OrderLine
}

// SplitByProducer partitions lines by producer. Every line ends up in exactly
// one group or in Unassigned. Lines are copied, so the result shares no
// memory with the input.
func SplitByProducer(lines []OrderLine) SplitResult {
	var result SplitResult
	index := make(map[uuid.UUID]int)

	for _, line := range lines {
		line.ProducerID = copyID(line.ProducerID)
		if !line.HasProducer() {
			result.Unassigned = append(result.Unassigned, line)
			continue
		}
		producerID := *line.ProducerID
		i, ok := index[producerID]
		if !ok {
			i = len(result.Groups)
			index[producerID] = i
			result.Groups = append(result.Groups, ProducerGroup{ProducerID: producerID})
		}
		result.Groups[i].Lines = append(result.Groups[i].Lines, line)
	}
	return result
}

// ProducerIDs returns the producers of the groups in order
func (r SplitResult) ProducerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Groups))
	for i, g := range r.Groups {
		ids[i] = g.ProducerID
	}
	return ids
}

// ProducerOrderNumberFunc assigns the number of a producer's new sub-order
type ProducerOrderNumberFunc func(producerID uuid.UUID) (string, error)

// BuildProducerOrders creates one producer order per group of the split of
// order and marks the order as split. Orphan lines are not part of any
// producer order; callers decide beforehand whether they are acceptable.
func BuildProducerOrders(order *Order, split SplitResult, number ProducerOrderNumberFunc) ([]*ProducerOrder, error) {
	if order.IsSplit() {
		return nil, ErrAlreadySplit
	}
	producerOrders := make([]*ProducerOrder, 0, len(split.Groups))
	for _, group := range split.Groups {
		orderNumber, err := number(group.ProducerID)
		if err != nil {
			return nil, err
		}
		po, err := NewProducerOrder(order.ID, group.ProducerID, orderNumber, group.Lines)
		if err != nil {
			return nil, err
		}
		producerOrders = append(producerOrders, po)
	}
	if err := order.MarkSplit(); err != nil {
		return nil, err
	}
	return producerOrders, nil
}
