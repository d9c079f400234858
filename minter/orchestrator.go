package minter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/shopspring/decimal"
)

const failureReportTimeout = 10 * time.Second

// Orchestrator drives the request, sign, submit, confirm and finalize
// cycle for each unit of a batch. Units run strictly in sequence so every
// failure attributes to exactly one unit and the wallet never sees two
// pending approvals at once.
type Orchestrator struct {
	store     Store
	inventory Inventory
	signer    Signer
	ledger    Ledger
	listener  Listener
	reports   sync.WaitGroup
}

func NewOrchestrator(store Store, inventory Inventory, signer Signer, ledger Ledger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		inventory: inventory,
		signer:    signer,
		ledger:    ledger,
	}
}

func (o *Orchestrator) SetListener(l Listener) {
	o.listener = l
}

type BatchResult struct {
	Requested   int
	Succeeded   int
	FailedIndex int
	Err         error
}

// Summary renders the one buyer-facing line for this batch.
func (r *BatchResult) Summary() string {
	if r.Err == nil {
		return fmt.Sprintf("%d of %d collectibles minted", r.Succeeded, r.Requested)
	}
	return fmt.Sprintf("minting collectible %d of %d failed: %v; %d collectibles were successfully minted",
		r.FailedIndex, r.Requested, r.Err, r.Succeeded)
}

// MintBatch mints quantity units one after another. On unit k's failure
// the units before it stay finalized, a failure notice is sent, and the
// rest of the batch is abandoned. Compensation for committed units is an
// operator concern, not attempted here.
func (o *Orchestrator) MintBatch(ctx context.Context, collectionId, buyer string, unitPrice decimal.Decimal, quantity int) *BatchResult {
	res := &BatchResult{Requested: quantity}
	for i := 1; i <= quantity; i++ {
		if o.listener != nil {
			o.listener.UnitStarted(i, quantity)
		}
		signature, err := o.mintOne(ctx, collectionId, buyer, unitPrice)
		if err != nil {
			if o.listener != nil {
				o.listener.UnitFailed(i, quantity, err)
			}
			res.FailedIndex = i
			res.Err = err
			o.reports.Add(1)
			go func() {
				defer o.reports.Done()
				o.reportFailure(collectionId, buyer, quantity, err)
			}()
			return res
		}
		res.Succeeded = i
		if o.listener != nil {
			o.listener.UnitFinalized(i, quantity, signature)
		}
	}
	if o.listener != nil {
		o.listener.BatchComplete(res.Succeeded, res.Requested)
	}
	return res
}

func (o *Orchestrator) mintOne(ctx context.Context, collectionId, buyer string, unitPrice decimal.Decimal) (string, error) {
	ut, err := o.inventory.BuildMintTransaction(ctx, collectionId, buyer, unitPrice)
	if err != nil {
		return "", err
	}
	// the key may already be finalized in the journal, e.g. a resumed
	// session whose finalize response was dropped; never finalize it twice
	old, err := o.store.ReadAttempt(ut.IdempotencyKey)
	if err != nil {
		return "", err
	}
	if old != nil && old.State == AttemptStateFinalized {
		return old.Signature, nil
	}
	attempt := &Attempt{
		IdempotencyKey: ut.IdempotencyKey,
		CollectionId:   collectionId,
		Buyer:          buyer,
		UnitPrice:      unitPrice.String(),
		Raw:            ut.Raw,
		State:          AttemptStateRequesting,
	}
	err = o.transition(attempt, AttemptStateAwaitingSignature)
	if err != nil {
		return "", err
	}

	signed, err := o.signer.Sign(ctx, attempt.Raw)
	if err != nil {
		o.fail(attempt)
		return "", err
	}
	err = o.transition(attempt, AttemptStateSubmitted)
	if err != nil {
		o.fail(attempt)
		return "", err
	}

	signature, err := o.ledger.Submit(ctx, signed)
	if err != nil {
		o.fail(attempt)
		return "", err
	}
	attempt.Signature = signature
	err = o.transition(attempt, AttemptStateConfirming)
	if err != nil {
		o.fail(attempt)
		return "", err
	}

	err = o.ledger.Confirm(ctx, signature)
	if err != nil {
		o.fail(attempt)
		return "", err
	}

	return signature, o.finalize(ctx, attempt)
}

// finalize issues the single finalize call this orchestrator ever makes
// for the attempt's idempotency key. The journal flips to finalized only
// after the inventory service accepts the call.
func (o *Orchestrator) finalize(ctx context.Context, attempt *Attempt) error {
	err := o.inventory.FinalizeMint(ctx, attempt.CollectionId, attempt.Buyer, attempt.Signature, attempt.IdempotencyKey)
	if err != nil {
		o.fail(attempt)
		return err
	}
	return o.transition(attempt, AttemptStateFinalized)
}

func (o *Orchestrator) transition(attempt *Attempt, state int) error {
	attempt.State = state
	attempt.UpdatedAt = time.Now()
	return o.store.WriteAttempt(attempt)
}

func (o *Orchestrator) fail(attempt *Attempt) {
	err := o.transition(attempt, AttemptStateFailed)
	if err != nil {
		logger.Printf("orchestrator.fail(%s) => %v\n", attempt.IdempotencyKey, err)
	}
}

// Drain blocks until in-flight failure reports finish, so a process
// about to exit does not drop the notice.
func (o *Orchestrator) Drain() {
	o.reports.Wait()
}

// reportFailure notifies the inventory service for the audit trail. It
// runs off the batch path so a slow service never delays the buyer's
// error; its own failure is logged and swallowed.
func (o *Orchestrator) reportFailure(collectionId, buyer string, quantity int, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), failureReportTimeout)
	defer cancel()
	err := o.inventory.ReportMintFailure(ctx, collectionId, buyer, quantity, cause.Error())
	if err != nil {
		logger.Printf("ReportMintFailure(%s, %s) => %v\n", collectionId, buyer, err)
	}
}
