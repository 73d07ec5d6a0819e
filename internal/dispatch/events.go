package dispatch

import (
	"log/slog"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// Bus carries deal events from wherever they are emitted to the
// dispatcher. Publishing never blocks the emitter: when the buffer is
// full the event is dropped and logged.
type Bus struct {
	ch     chan domain.Event
	logger *slog.Logger
}

func NewBus(size int, logger *slog.Logger) *Bus {
	return &Bus{
		ch:     make(chan domain.Event, size),
		logger: logger,
	}
}

func (b *Bus) Publish(event domain.Event) {
	select {
	case b.ch <- event:
	default:
		b.logger.Warn("event bus full, dropping event",
			"event_id", event.ID,
			"event_type", event.Type,
		)
	}
}

func (b *Bus) Events() <-chan domain.Event {
	return b.ch
}

// Close stops accepting events. The dispatcher drains whatever is
// still buffered before its Run returns.
func (b *Bus) Close() {
	close(b.ch)
}
