package inventory

import (
	"context"
	"time"

	"github.com/MixinNetwork/launchpad/minter"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gorilla/websocket"
)

// SupplyFeed subscribes to the inventory service's websocket stream of
// minted-count updates. The channel closes on any read error; the caller
// decides whether to resubscribe or poll.
type SupplyFeed struct {
	url string
}

func NewSupplyFeed(url string) *SupplyFeed {
	return &SupplyFeed{url: url}
}

type progressFrame struct {
	CollectionId string `json:"collection_id"`
	MintedCount  int64  `json:"minted_count"`
	TotalSupply  int64  `json:"total_supply"`
}

func (f *SupplyFeed) Subscribe(ctx context.Context, collectionId string) (<-chan *minter.Progress, error) {
	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.url+"?collection="+collectionId, nil)
	if err != nil {
		return nil, err
	}

	ch := make(chan *minter.Progress)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(ch)
		defer close(done)
		for {
			var frame progressFrame
			err := conn.ReadJSON(&frame)
			if err != nil {
				logger.Verbosef("SupplyFeed.ReadJSON(%s) => %v\n", collectionId, err)
				return
			}
			if frame.CollectionId != collectionId {
				continue
			}
			p := &minter.Progress{
				CollectionId: frame.CollectionId,
				MintedCount:  frame.MintedCount,
				TotalSupply:  frame.TotalSupply,
			}
			select {
			case ch <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
