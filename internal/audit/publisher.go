package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Emission is
// synchronous: decision ordering in the log is the call ordering, which the
// export contract depends on.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}

// ExportJSONL streams the full event sequence as line-delimited JSON, one
// independently parseable object per line, in insertion order.
func (p *Publisher) ExportJSONL(ctx context.Context, w io.Writer) error {
	events, err := p.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}
	enc := json.NewEncoder(w)
	for _, event := range events {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("encode audit event: %w", err)
		}
	}
	return nil
}
