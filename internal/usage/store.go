package usage

import (
	"context"

	id "worldvault/pkg/domain"
)

// Store is the usage ledger. Increment must be atomic per token id under
// concurrent calls: two simultaneous checks against the same token must never
// both observe an under-limit count when only one unit of quota remains.
type Store interface {
	// Increment books one action (plus its byte volume) against the token and
	// returns the post-increment totals.
	Increment(ctx context.Context, tokenID id.TokenID, action id.Action, bytes int64) (Totals, error)

	// Totals returns the current counters without incrementing. A token with
	// no recorded usage yields zero totals.
	Totals(ctx context.Context, tokenID id.TokenID) (Totals, error)
}
