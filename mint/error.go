package mint

import "errors"

// Errors the inventory service, wallet provider and ledger surface to the
// buyer. SupplyExhausted is kept distinct from transport failures so the
// caller can render "sold out" instead of "try again".
var (
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrPhaseNotActive      = errors.New("no active mint phase")
	ErrSupplyExhausted     = errors.New("collection supply exhausted")
	ErrUserRejected        = errors.New("signature declined by buyer")
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
)

// ValidationError rejects a request before any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
