package revocation

import (
	"context"

	id "worldvault/pkg/domain"
)

// Registry is the append-only set of invalidated token ids. Revoke is
// idempotent. IsRevoked must reflect every prior Revoke from any caller with
// no staleness; the decision engine consults it before all other stateful
// checks.
type Registry interface {
	Revoke(ctx context.Context, tokenID id.TokenID) error
	IsRevoked(ctx context.Context, tokenID id.TokenID) (bool, error)
}
