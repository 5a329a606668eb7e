// Package allocation computes paid-media channel allocations.
//
// A vertical's base table gives each channel a share of spend in percent. An
// objective contributes multiplicative adjustments: channels it favours are
// scaled up, others down. [Normalize] applies the adjustments and rescales
// the table so the shares sum to 100 again.
//
//	base := allocation.Table{"A": 50, "B": 50}
//	out := allocation.Normalize(base, allocation.Adjustment{"A": 2}, allocation.DefaultMultiplier)
//	// out == Table{"A": 66.67, "B": 33.33}
//
// [Distribute] converts a normalized table to dollars using the midpoint of
// an [InvestmentRange].
//
// # Guarantees
//
//   - The output has exactly the input's channels.
//   - Every output share is non-negative. Negative adjusted values are clamped
//     to zero before summing.
//   - If the adjusted total is zero the adjusted table is returned as-is
//     (all zeros) rather than dividing by zero.
//   - Normalizing an already-normalized table with no adjustments returns the
//     same table up to floating-point rounding.
//
// All functions are pure and safe for concurrent use. Inputs are never
// mutated; outputs are freshly allocated.
package allocation
