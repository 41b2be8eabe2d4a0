package census

import "context"

// Status is the terminal state an item's fetch loop settled in.
type Status string

const (
	// StatusOwned means the contract reported an owner for the id.
	StatusOwned Status = "owned"
	// StatusAbsent means the contract reported the id does not exist.
	StatusAbsent Status = "absent"
	// StatusFailed means the retry budget ran out before a resolution.
	StatusFailed Status = "failed"
)

// Outcome is the single terminal result produced for one token id.
type Outcome struct {
	TokenID uint64
	Status  Status
	// Owner holds the owning address when Status is StatusOwned.
	Owner string
	// Reason holds the last error message when Status is StatusFailed.
	Reason string
}

// Caller is the narrow contract the census core needs from the remote
// transport: one read-only owner lookup per token id.
type Caller interface {
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
}
