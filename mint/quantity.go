package mint

// DefaultRequestCap bounds how many units one mint action may request.
const DefaultRequestCap = 10

// MaxQuantity returns the most units a buyer may request in one action,
// limited by remaining supply, the phase per-wallet limit (0 means
// unlimited) and the request cap. Zero means minting must be disabled,
// never clamped up to one.
func MaxQuantity(remaining int64, phaseLimit, cap int) int {
	if remaining <= 0 {
		return 0
	}
	if cap < 1 {
		cap = DefaultRequestCap
	}
	max := cap
	if remaining < int64(max) {
		max = int(remaining)
	}
	if phaseLimit > 0 && phaseLimit < max {
		max = phaseLimit
	}
	return max
}

// ClampQuantity forces a requested quantity into [1, max].
func ClampQuantity(requested, max int) int {
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}
