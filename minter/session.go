package minter

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/launchpad/mint"
	"github.com/shopspring/decimal"
)

// Session gates one buyer's mint actions on a collection: phase
// eligibility, quantity limits and the priced quote the buyer must
// confirm before any signing request goes out.
type Session struct {
	buyer        string
	inventory    Inventory
	oracle       Oracle
	orchestrator *Orchestrator
	tracker      *Tracker
	clock        *Clock
	feeUSD       decimal.Decimal
	requestCap   int
}

func NewSession(buyer string, inventory Inventory, oracle Oracle, orchestrator *Orchestrator, tracker *Tracker, clock *Clock, feeUSD decimal.Decimal, requestCap int) *Session {
	if requestCap < 1 {
		requestCap = mint.DefaultRequestCap
	}
	return &Session{
		buyer:        buyer,
		inventory:    inventory,
		oracle:       oracle,
		orchestrator: orchestrator,
		tracker:      tracker,
		clock:        clock,
		feeUSD:       feeUSD,
		requestCap:   requestCap,
	}
}

// Quote resolves the buyer's phase, clamps the requested quantity and
// prices the action. It makes no ledger or wallet calls and is safe to
// recompute on every render.
func (s *Session) Quote(ctx context.Context, collectionId string, quantity int) (*mint.Phase, *mint.Cost, error) {
	col, err := s.inventory.ReadCollection(ctx, collectionId)
	if err != nil {
		return nil, nil, err
	}
	phase := mint.ResolveActivePhase(col.Phases, s.clock.Now(), s.buyer)
	if phase == nil {
		return nil, nil, mint.ErrPhaseNotActive
	}

	remaining := col.Remaining()
	if p := s.tracker.Current(); p != nil {
		remaining = p.TotalSupply - p.MintedCount
	}
	max := mint.MaxQuantity(remaining, phase.WalletLimit, s.requestCap)
	if max == 0 {
		return nil, nil, mint.ErrSupplyExhausted
	}
	quantity = mint.ClampQuantity(quantity, max)

	rate, err := s.oracle.ExchangeRate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("oracle.ExchangeRate() => %w", err)
	}
	cost, err := mint.ComputeCost(phase.UnitPrice, quantity, s.feeUSD, rate)
	if err != nil {
		return nil, nil, err
	}
	return phase, cost, nil
}

// InitiateMint runs one full mint action. The confirm callback shows the
// computed cost to the buyer; returning false abandons the action before
// any transaction is built.
func (s *Session) InitiateMint(ctx context.Context, collectionId string, quantity int, confirm func(*mint.Cost) bool) (*BatchResult, error) {
	phase, cost, err := s.Quote(ctx, collectionId, quantity)
	if err != nil {
		return nil, err
	}
	if confirm != nil && !confirm(cost) {
		return nil, &mint.ValidationError{Reason: "mint not confirmed by buyer"}
	}
	res := s.orchestrator.MintBatch(ctx, collectionId, s.buyer, phase.UnitPrice, cost.Quantity)
	if res.Succeeded > 0 {
		s.tracker.Refresh(ctx)
	}
	return res, nil
}
