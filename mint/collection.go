package mint

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PhaseTypeOG        = "og"
	PhaseTypeWhitelist = "whitelist"
	PhaseTypePublic    = "public"
)

type Phase struct {
	PhaseId     string
	Name        string
	Type        string
	UnitPrice   decimal.Decimal
	StartAt     time.Time
	EndAt       *time.Time
	WalletLimit int
	AllowList   []string
}

type Collection struct {
	CollectionId string
	Name         string
	Creator      string
	TotalSupply  int64
	MintedCount  int64
	Phases       []*Phase
}

func (c *Collection) Remaining() int64 {
	r := c.TotalSupply - c.MintedCount
	if r < 0 {
		return 0
	}
	return r
}

// Live reports whether now falls in [StartAt, EndAt). A phase without an
// end time stays open until the collection sells out.
func (p *Phase) Live(now time.Time) bool {
	if now.Before(p.StartAt) {
		return false
	}
	if p.EndAt != nil && !now.Before(*p.EndAt) {
		return false
	}
	return true
}

// Allows reports whether a buyer qualifies for this phase via its allow
// list. A gated phase with an empty allow list admits no one.
func (p *Phase) Allows(buyer string) bool {
	if p.Type == PhaseTypePublic {
		return true
	}
	if buyer == "" {
		return false
	}
	for _, a := range p.AllowList {
		if a == buyer {
			return true
		}
	}
	return false
}
