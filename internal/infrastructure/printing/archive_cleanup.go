package printing

import (
	"context"
	"fmt"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ArchiveCleanupHandler removes the archived packing slip of a producer
// order once it is cancelled, so a stale slip is never handed to a picker.
type ArchiveCleanupHandler struct {
	archive Archive
	logger  *zap.Logger
}

// NewArchiveCleanupHandler creates a handler deleting from archive
func NewArchiveCleanupHandler(archive Archive, logger *zap.Logger) *ArchiveCleanupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveCleanupHandler{archive: archive, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ArchiveCleanupHandler) EventTypes() []string {
	return []string{trade.EventTypeProducerOrderStatusChanged}
}

// Handle deletes the slip when the producer order reached CANCELLED
func (h *ArchiveCleanupHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*trade.ProducerOrderStatusChangedEvent)
	if !ok || e.To != trade.ProducerOrderStatusCancelled {
		return nil
	}

	key := archiveKey(e.ProducerID.String(), e.OrderNumber)
	if err := h.archive.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove archived packing slip %s: %w", key, err)
	}
	h.logger.Debug("Removed archived packing slip", zap.String("key", key))
	return nil
}

var _ shared.EventHandler = (*ArchiveCleanupHandler)(nil)
