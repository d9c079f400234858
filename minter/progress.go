package minter

import (
	"context"
	"sync"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

const DefaultPollInterval = 10 * time.Second

// Tracker mirrors a collection's minted count. It prefers the push feed
// and polls the inventory service whenever the feed is unavailable; the
// view always comes from whichever source is connected, never from a
// local optimistic increment, so concurrent buyers converge on the
// authoritative count.
type Tracker struct {
	sync.RWMutex
	collectionId string
	inventory    Inventory
	feed         Feed
	store        Store
	interval     time.Duration
	current      *Progress
}

func NewTracker(collectionId string, inventory Inventory, feed Feed, store Store, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := &Tracker{
		collectionId: collectionId,
		inventory:    inventory,
		feed:         feed,
		store:        store,
		interval:     interval,
	}
	if store != nil {
		p, err := store.ReadProgress(collectionId)
		if err == nil && p != nil {
			t.current = p
		}
	}
	return t
}

func (t *Tracker) Current() *Progress {
	t.RLock()
	defer t.RUnlock()
	return t.current
}

func (t *Tracker) Remaining() int64 {
	p := t.Current()
	if p == nil {
		return 0
	}
	r := p.TotalSupply - p.MintedCount
	if r < 0 {
		return 0
	}
	return r
}

func (t *Tracker) Percent() float64 {
	p := t.Current()
	if p == nil || p.TotalSupply == 0 {
		return 0
	}
	return float64(p.MintedCount) / float64(p.TotalSupply) * 100
}

func (t *Tracker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if t.feed == nil {
			t.pollOnce(ctx)
			continue
		}
		ch, err := t.feed.Subscribe(ctx, t.collectionId)
		if err != nil {
			logger.Verbosef("Tracker.Subscribe(%s) => %v\n", t.collectionId, err)
			t.pollOnce(ctx)
			continue
		}
		t.consume(ctx, ch)
		if ctx.Err() != nil {
			return
		}
		// a dropped feed falls back to one poll cycle before redialing,
		// so a flapping server never sees a tight reconnect loop
		t.pollOnce(ctx)
	}
}

// Refresh re-derives the view from the inventory service immediately,
// used after a finalized unit instead of bumping the count locally.
func (t *Tracker) Refresh(ctx context.Context) {
	p, err := t.inventory.ReadProgress(ctx, t.collectionId)
	if err != nil {
		logger.Verbosef("Tracker.Refresh(%s) => %v\n", t.collectionId, err)
		return
	}
	t.update(p)
}

func (t *Tracker) consume(ctx context.Context, ch <-chan *Progress) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-ch:
			if !ok {
				return
			}
			t.update(p)
		}
	}
}

func (t *Tracker) pollOnce(ctx context.Context) {
	t.Refresh(ctx)
	select {
	case <-ctx.Done():
	case <-time.After(t.interval):
	}
}

func (t *Tracker) update(p *Progress) {
	if p == nil {
		return
	}
	t.Lock()
	t.current = p
	t.Unlock()
	if t.store != nil {
		err := t.store.WriteProgress(t.collectionId, p)
		if err != nil {
			logger.Printf("Tracker.WriteProgress(%s) => %v\n", t.collectionId, err)
		}
	}
}
