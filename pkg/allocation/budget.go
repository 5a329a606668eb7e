package allocation

// InvestmentRange is a budget tier in dollars.
type InvestmentRange struct {
	Name string  `json:"name" yaml:"name" toml:"name"`
	Low  float64 `json:"low" yaml:"low" toml:"low"`
	High float64 `json:"high" yaml:"high" toml:"high"`
}

// Mid returns the midpoint investment (low+high)/2.
func (r InvestmentRange) Mid() float64 {
	return (r.Low + r.High) / 2
}

// Budget maps a channel name to a dollar amount.
type Budget map[string]float64

// Distribute converts the percentage shares of t into dollar amounts of the
// range's midpoint investment.
func Distribute(t Table, r InvestmentRange) Budget {
	mid := r.Mid()
	out := make(Budget, len(t))
	for ch, pct := range t {
		out[ch] = pct / 100 * mid
	}
	return out
}

// Total returns the sum of all amounts.
func (b Budget) Total() float64 {
	total := 0.0
	for _, v := range b {
		total += v
	}
	return total
}
