package minter

import (
	"context"

	"github.com/MixinNetwork/launchpad/mint"
	"github.com/shopspring/decimal"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	WriteAttempt(a *Attempt) error
	ReadAttempt(idempotencyKey string) (*Attempt, error)
	ListAttempts(state int, limit int) ([]*Attempt, error)

	WriteProgress(collectionId string, p *Progress) error
	ReadProgress(collectionId string) (*Progress, error)
}

// UnsignedTransaction is what the inventory service hands back when a unit
// mint is requested, with a fresh idempotency key scoped to that unit.
type UnsignedTransaction struct {
	Raw            []byte
	IdempotencyKey string
}

type Progress struct {
	CollectionId string
	MintedCount  int64
	TotalSupply  int64
}

type Inventory interface {
	ReadCollection(ctx context.Context, collectionId string) (*mint.Collection, error)
	BuildMintTransaction(ctx context.Context, collectionId, buyer string, unitPrice decimal.Decimal) (*UnsignedTransaction, error)
	FinalizeMint(ctx context.Context, collectionId, buyer, signature, idempotencyKey string) error
	ReportMintFailure(ctx context.Context, collectionId, buyer string, quantity int, reason string) error
	ReadProgress(ctx context.Context, collectionId string) (*Progress, error)
}

// Signer suspends until the buyer approves the transaction or rejects it.
type Signer interface {
	Sign(ctx context.Context, raw []byte) ([]byte, error)
}

type Ledger interface {
	Submit(ctx context.Context, signedRaw []byte) (string, error)
	Confirm(ctx context.Context, signature string) error
}

type Oracle interface {
	ExchangeRate(ctx context.Context) (decimal.Decimal, error)
}

// Feed delivers push updates of a collection's minted count. The returned
// channel closes on disconnect and the tracker falls back to polling.
type Feed interface {
	Subscribe(ctx context.Context, collectionId string) (<-chan *Progress, error)
}

type Listener interface {
	UnitStarted(index, total int)
	UnitFinalized(index, total int, signature string)
	UnitFailed(index, total int, err error)
	BatchComplete(succeeded, requested int)
}
