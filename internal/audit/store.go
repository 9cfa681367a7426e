package audit

import "context"

// Store persists audit events. Append must keep insertion order; List returns
// the full sequence in that order. Swap with concrete storage without
// touching the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}
