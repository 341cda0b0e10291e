package plates

import (
	"math"
	"slices"
)

const (
	maxDenominations = 10

	// MinDenomination is the lightest plate a plate set may contain.
	MinDenomination = 0.01

	// MaxPlatesPerSide bounds the length of a resolved loadout.
	MaxPlatesPerSide = 1000
)

var defaultDenominations = []float64{45, 35, 25, 10, 5, 2.5}

type greedyResolver struct{}

// New creates a Resolver that fills each side largest plate first.
func New() Resolver {
	return &greedyResolver{}
}

func (r *greedyResolver) Resolve(targetWeight, barWeight float64, denominations []float64) []float64 {
	return Resolve(targetWeight, barWeight, denominations)
}

// Resolve returns the plates to load on one side of the bar to reach targetWeight.
// Denominations are walked in the given order, so they are expected to be descending.
// Any remainder smaller than the smallest usable denomination is left unfilled.
// At most MaxPlatesPerSide plates are returned, and a plate too small to change the
// remaining weight in floating point is skipped; callers that must not truncate check
// FitsCapacity first.
func Resolve(targetWeight, barWeight float64, denominations []float64) []float64 {
	if !isFinite(targetWeight) || !isFinite(barWeight) || targetWeight <= barWeight {
		return []float64{}
	}

	remaining := (targetWeight - barWeight) / 2
	result := []float64{}
	for _, plate := range denominations {
		if plate <= 0 || !isFinite(plate) {
			continue
		}
		for remaining >= plate && len(result) < MaxPlatesPerSide {
			next := remaining - plate
			if next >= remaining {
				break
			}
			result = append(result, plate)
			remaining = next
		}
	}

	return result
}

// FitsCapacity reports whether every greedy loadout for the given weights stays within
// MaxPlatesPerSide. Each loaded plate weighs at least the smallest denomination, so the
// per-side weight divided by it bounds the count.
func FitsCapacity(targetWeight, barWeight float64, denominations []float64) bool {
	if !isFinite(targetWeight) || !isFinite(barWeight) {
		return false
	}
	if targetWeight <= barWeight {
		return true
	}

	smallest := math.Inf(1)
	for _, plate := range denominations {
		if plate > 0 && isFinite(plate) {
			smallest = math.Min(smallest, plate)
		}
	}
	if math.IsInf(smallest, 1) {
		return true
	}

	return (targetWeight-barWeight)/2/smallest <= MaxPlatesPerSide
}

// Summarize derives the aggregate figures shown alongside a loadout.
func Summarize(targetWeight, barWeight float64, plates []float64) Loadout {
	perSide := 0.0
	if targetWeight > barWeight {
		perSide = (targetWeight - barWeight) / 2
	}

	loaded := 0.0
	for _, plate := range plates {
		loaded += plate
	}

	return Loadout{
		TargetWeight:    targetWeight,
		BarWeight:       barWeight,
		PerSide:         perSide,
		Plates:          slices.Clone(plates),
		LoadedPerSide:   loaded,
		LeftoverPerSide: perSide - loaded,
		PlatesPerSide:   len(plates),
		TotalPlates:     2 * len(plates),
		AchievedWeight:  barWeight + 2*loaded,
	}
}

// GroupRuns collapses consecutive identical plates into counted runs, preserving order.
func GroupRuns(plates []float64) []Group {
	groups := make([]Group, 0, len(plates))
	for _, plate := range plates {
		if n := len(groups); n > 0 && groups[n-1].Weight == plate {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, Group{Weight: plate, Count: 1})
	}
	return groups
}

// DefaultDenominations returns a copy of the standard plate set.
func DefaultDenominations() []float64 {
	return slices.Clone(defaultDenominations)
}

// NormalizeDenominations validates a plate set and returns it deduplicated and sorted
// in strictly descending order.
func NormalizeDenominations(denominations []float64) ([]float64, error) {
	if len(denominations) == 0 {
		return nil, ErrInvalidDenominations
	}

	unique := make(map[float64]struct{}, len(denominations))
	for _, plate := range denominations {
		if plate < MinDenomination || !isFinite(plate) {
			return nil, ErrInvalidDenominations
		}
		unique[plate] = struct{}{}
		if len(unique) > maxDenominations {
			return nil, ErrInvalidDenominations
		}
	}

	normalized := make([]float64, 0, len(unique))
	for plate := range unique {
		normalized = append(normalized, plate)
	}
	slices.Sort(normalized)
	slices.Reverse(normalized)

	return normalized, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
