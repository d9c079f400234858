package mint

import "time"

// ResolveActivePhase picks the single phase the buyer mints under at now,
// or nil when no phase window is open. Gated tiers take priority over the
// public tier, and overlapping phases tie-break by tier then list order.
// When no gated tier admits the buyer and no public phase is live, the
// first live phase is returned so a collection configured without a public
// phase still resolves deterministically.
func ResolveActivePhase(phases []*Phase, now time.Time, buyer string) *Phase {
	var live []*Phase
	for _, p := range phases {
		if p.Live(now) {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return nil
	}
	if buyer != "" {
		for _, tier := range []string{PhaseTypeOG, PhaseTypeWhitelist} {
			for _, p := range live {
				if p.Type == tier && p.Allows(buyer) {
					return p
				}
			}
		}
	}
	for _, p := range live {
		if p.Type == PhaseTypePublic {
			return p
		}
	}
	return live[0]
}
