package approval

import (
	"context"

	id "worldvault/pkg/domain"
)

// Store persists holds. Save is also the update path: resolution overwrites
// the stored record under the same id.
type Store interface {
	Save(ctx context.Context, req *Request) error
	Get(ctx context.Context, approvalID id.ApprovalID) (*Request, error)
}
