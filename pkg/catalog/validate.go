package catalog

import (
	"math"

	"github.com/matzehuels/cortex/pkg/errors"
)

// Validate checks the catalog for structural defects. Every failure is a
// configuration error.
func (c *Catalog) Validate() error {
	if c.Version == "" {
		return errors.Configuration("catalog version is required")
	}
	if !finite(c.DefaultMultiplier) || c.DefaultMultiplier <= 0 {
		return errors.Configuration("default multiplier must be positive, got %v", c.DefaultMultiplier)
	}

	if err := c.validateCategories(); err != nil {
		return err
	}
	if err := c.validateVerticals(); err != nil {
		return err
	}
	if err := c.validateAdjustments(); err != nil {
		return err
	}
	if err := c.validateSelections(); err != nil {
		return err
	}
	return c.validateCaseStudies()
}

func (c *Catalog) validateCategories() error {
	if len(c.Categories) == 0 {
		return errors.Configuration("catalog defines no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, p := range c.Categories {
		if err := validName("category", p.Name); err != nil {
			return err
		}
		if seen[p.Name] {
			return errors.Configuration("duplicate category %q", p.Name)
		}
		seen[p.Name] = true

		for _, a := range p.Attributes() {
			if a.Value.IsEmpty() {
				return errors.Configuration("category %q: %s is empty", p.Name, a.Name.Label())
			}
		}

		angle, ok := c.Angles[p.Name]
		if !ok || !finite(angle) {
			return errors.Configuration("category %q: angle is required", p.Name)
		}
	}
	return nil
}

func (c *Catalog) validateVerticals() error {
	if len(c.Verticals) == 0 {
		return errors.Configuration("catalog defines no verticals")
	}
	seen := make(map[string]bool, len(c.Verticals))
	for _, v := range c.Verticals {
		if err := validName("vertical", v.Name); err != nil {
			return err
		}
		if seen[v.Name] {
			return errors.Configuration("duplicate vertical %q", v.Name)
		}
		seen[v.Name] = true

		if len(v.Channels) == 0 {
			return errors.Configuration("vertical %q has no channels", v.Name)
		}
		for ch, pct := range v.Channels {
			if err := validName("channel", ch); err != nil {
				return err
			}
			if !finite(pct) || pct < 0 {
				return errors.Configuration("vertical %q: channel %q has invalid share %v", v.Name, ch, pct)
			}
		}
	}
	return nil
}

func (c *Catalog) validateAdjustments() error {
	for objective, adj := range c.Adjustments {
		if _, err := c.Category(objective); err != nil {
			return errors.Configuration("adjustments for unknown objective %q", objective)
		}
		for ch, m := range adj {
			if err := validName("channel", ch); err != nil {
				return err
			}
			if !finite(m) || m <= 0 {
				return errors.Configuration("objective %q: channel %q has non-positive multiplier %v", objective, ch, m)
			}
		}
	}
	return nil
}

func (c *Catalog) validateSelections() error {
	if len(c.Stages) == 0 {
		return errors.Configuration("catalog defines no lifecycle stages")
	}
	if err := uniqueNames("stage", c.Stages); err != nil {
		return err
	}

	if len(c.Investments) == 0 {
		return errors.Configuration("catalog defines no investment tiers")
	}
	if err := uniqueNames("investment tier", c.InvestmentNames()); err != nil {
		return err
	}
	for _, r := range c.Investments {
		if !finite(r.Low) || !finite(r.High) || r.Low < 0 || r.High < r.Low {
			return errors.Configuration("investment tier %q has invalid range [%v, %v]", r.Name, r.Low, r.High)
		}
	}

	if err := uniqueNames("priority", c.PriorityNames()); err != nil {
		return err
	}
	for _, p := range c.Priorities {
		if p.Recommendation == "" {
			return errors.Configuration("priority %q has no recommendation", p.Name)
		}
	}
	return nil
}

func (c *Catalog) validateCaseStudies() error {
	type key struct{ objective, vertical string }
	seen := make(map[key]bool, len(c.CaseStudies))
	for _, cs := range c.CaseStudies {
		if _, err := c.Category(cs.Objective); err != nil {
			return errors.Configuration("case study for unknown objective %q", cs.Objective)
		}
		if _, err := c.Vertical(cs.Vertical); err != nil {
			return errors.Configuration("case study for unknown vertical %q", cs.Vertical)
		}
		if cs.Text == "" {
			return errors.Configuration("case study %s/%s has no text", cs.Objective, cs.Vertical)
		}
		k := key{cs.Objective, cs.Vertical}
		if seen[k] {
			return errors.Configuration("duplicate case study %s/%s", cs.Objective, cs.Vertical)
		}
		seen[k] = true
	}
	return nil
}

func uniqueNames(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := validName(kind, n); err != nil {
			return err
		}
		if seen[n] {
			return errors.Configuration("duplicate %s %q", kind, n)
		}
		seen[n] = true
	}
	return nil
}

// validName reports malformed names as configuration errors.
func validName(kind, name string) error {
	if err := errors.ValidateName(kind, name); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid %s name", kind)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
