package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/MixinNetwork/launchpad/mint"
	"github.com/fox-one/mixin-sdk-go"
)

const (
	multisigStateSigned = "signed"

	DefaultApprovalWindow = 5 * time.Minute
	approvalPollInterval  = 2 * time.Second
)

type multisigAPI interface {
	CreateMultisig(ctx context.Context, action, raw string) (*mixin.MultisigRequest, error)
	SignMultisig(ctx context.Context, reqID, pin string) (*mixin.MultisigRequest, error)
}

// MixinSigner collects the signatures a mint transaction needs. The app
// contributes its own signature with the configured PIN, then the buyer
// completes the threshold out of band: the signer surfaces a
// mixin://codes/<id> URL for the buyer's wallet and polls the request
// until the signature set is complete. A buyer who never approves inside
// the window counts as a decline; transport failures surface as an
// unavailable provider.
type MixinSigner struct {
	api      multisigAPI
	pin      string
	approver func(url string)
	window   time.Duration
	interval time.Duration
}

func NewMixinSigner(keystore *mixin.Keystore, pin string) (*MixinSigner, error) {
	client, err := mixin.NewFromKeystore(keystore)
	if err != nil {
		return nil, err
	}
	return &MixinSigner{
		api:      client,
		pin:      pin,
		window:   DefaultApprovalWindow,
		interval: approvalPollInterval,
	}, nil
}

// SetApprover registers the hook that shows the buyer the approval code
// URL, e.g. printed to the terminal or pushed to the UI.
func (s *MixinSigner) SetApprover(f func(url string)) {
	s.approver = f
}

func (s *MixinSigner) Sign(ctx context.Context, raw []byte) ([]byte, error) {
	req, err := s.api.CreateMultisig(ctx, mixin.MultisigActionSign, hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mint.ErrProviderUnavailable, err)
	}
	req, err = s.api.SignMultisig(ctx, req.RequestID, s.pin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mint.ErrProviderUnavailable, err)
	}
	if req.State != multisigStateSigned && s.approver != nil {
		s.approver("mixin://codes/" + req.CodeID)
	}

	deadline := time.Now().Add(s.window)
	for {
		if req.State == multisigStateSigned {
			signed, err := hex.DecodeString(req.RawTransaction)
			if err != nil {
				return nil, fmt.Errorf("invalid signed transaction %s", req.RawTransaction)
			}
			return signed, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: approval window expired", mint.ErrUserRejected)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.interval):
		}
		// signatures accumulate on the raw transaction, so re-creating
		// the request returns the current signer set and state
		req, err = s.api.CreateMultisig(ctx, mixin.MultisigActionSign, req.RawTransaction)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mint.ErrProviderUnavailable, err)
		}
	}
}
