package minter

import "time"

const (
	AttemptStateRequesting        = 10
	AttemptStateAwaitingSignature = 11
	AttemptStateSubmitted         = 12
	AttemptStateConfirming        = 13
	AttemptStateFinalized         = 14
	AttemptStateFailed            = 15
)

// Attempt is the journal record of one unit mint, keyed by the idempotency
// key the inventory service issued for it. The journal is what bounds
// finalize calls to at most one per key, even across a process restart.
type Attempt struct {
	IdempotencyKey string
	CollectionId   string
	Buyer          string
	UnitPrice      string
	Raw            []byte
	Signature      string
	State          int
	UpdatedAt      time.Time
}

func (a *Attempt) StateName() string {
	switch a.State {
	case AttemptStateRequesting:
		return "requesting"
	case AttemptStateAwaitingSignature:
		return "awaiting_signature"
	case AttemptStateSubmitted:
		return "submitted"
	case AttemptStateConfirming:
		return "confirming"
	case AttemptStateFinalized:
		return "finalized"
	case AttemptStateFailed:
		return "failed"
	}
	panic(a.State)
}
