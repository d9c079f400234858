package ledger

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/fox-one/mixin-sdk-go"
)

// MixinLedger broadcasts signed raw transactions to the Mixin kernel and
// waits for the snapshot hash that marks finality. No timeout is imposed
// beyond the caller's context.
type MixinLedger struct {
	client *mixin.Client
}

func NewMixinLedger(keystore *mixin.Keystore) (*MixinLedger, error) {
	client, err := mixin.NewFromKeystore(keystore)
	if err != nil {
		return nil, err
	}
	return &MixinLedger{client: client}, nil
}

func (l *MixinLedger) Submit(ctx context.Context, signedRaw []byte) (string, error) {
	h, err := l.client.SendRawTransaction(ctx, hex.EncodeToString(signedRaw))
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func (l *MixinLedger) Confirm(ctx context.Context, signature string) error {
	h, err := mixin.HashFromString(signature)
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := l.client.GetRawTransaction(ctx, h)
		if err != nil {
			return err
		}
		if s.Snapshot != nil && s.Snapshot.HasValue() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
