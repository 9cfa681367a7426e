package payment

import (
	"fmt"

	"github.com/google/uuid"
)

// Challenge describes the settlement a caller must complete before a paid
// operation is allowed. It is returned verbatim inside the 402 body.
type Challenge struct {
	Receiver string  `json:"receiver"`
	Asset    string  `json:"asset"`
	Amount   float64 `json:"amount"`
	Memo     string  `json:"memo"`
}

// Generator builds payment challenges against a fixed receiver address and
// settlement asset. Amounts come from the caller per operation.
type Generator struct {
	receiver string
	asset    string
}

// NewGenerator constructs a challenge generator.
func NewGenerator(receiver, asset string) *Generator {
	return &Generator{receiver: receiver, asset: asset}
}

// Asset returns the settlement asset challenges are denominated in.
func (g *Generator) Asset() string {
	return g.asset
}

// Challenge builds a fresh challenge for a tool invocation. Memos are unique
// per challenge so settlement proofs can be correlated to a single decision.
func (g *Generator) Challenge(tool string, amount float64) Challenge {
	return Challenge{
		Receiver: g.receiver,
		Asset:    g.asset,
		Amount:   amount,
		Memo:     fmt.Sprintf("%s:%s", tool, uuid.NewString()[:8]),
	}
}
