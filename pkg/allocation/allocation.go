package allocation

import (
	"cmp"
	"maps"
	"math"
	"slices"
)

// DefaultMultiplier applies to channels an [Adjustment] does not list.
const DefaultMultiplier = 1.0

// Tolerance is the accepted deviation of a normalized table's total from 100.
const Tolerance = 1e-6

// Table maps a channel name to its share of spend in percent.
type Table map[string]float64

// Adjustment maps a channel name to a positive multiplier.
type Adjustment map[string]float64

// Entry is one row of a [Table].
type Entry struct {
	Channel string  `json:"channel" yaml:"channel"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Normalize scales every channel of base by its multiplier in adj (or by
// defaultMultiplier when adj has no entry) and rescales the result to sum
// to 100. See the package documentation for the edge-case rules.
func Normalize(base Table, adj Adjustment, defaultMultiplier float64) Table {
	adjusted := make(Table, len(base))
	total := 0.0
	for ch, pct := range base {
		m, ok := adj[ch]
		if !ok {
			m = defaultMultiplier
		}
		v := pct * m
		if v < 0 || math.IsNaN(v) {
			v = 0
		}
		adjusted[ch] = v
		total += v
	}

	if total <= 0 {
		return adjusted
	}

	for ch, v := range adjusted {
		adjusted[ch] = v / total * 100
	}
	return adjusted
}

// Total returns the sum of all shares.
func (t Table) Total() float64 {
	total := 0.0
	for _, v := range t {
		total += v
	}
	return total
}

// IsNormalized reports whether the shares sum to 100 within [Tolerance].
func (t Table) IsNormalized() bool {
	return math.Abs(t.Total()-100) <= Tolerance
}

// Channels returns the channel names in sorted order.
func (t Table) Channels() []string {
	return slices.Sorted(maps.Keys(t))
}

// Clone returns a copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}

// Entries returns the table as rows ordered by descending share, ties broken
// by channel name, so renderers get a stable order.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for ch, v := range t {
		out = append(out, Entry{Channel: ch, Percent: v})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Percent, a.Percent); c != 0 {
			return c
		}
		return cmp.Compare(a.Channel, b.Channel)
	})
	return out
}

// Multiplier returns the factor adj applies to channel.
func (a Adjustment) Multiplier(channel string, defaultMultiplier float64) float64 {
	if m, ok := a[channel]; ok {
		return m
	}
	return defaultMultiplier
}
