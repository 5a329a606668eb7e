package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cortex/pkg/allocation"
	"github.com/matzehuels/cortex/pkg/errors"
)

//go:embed default.toml
var defaultTOML []byte

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultTOML)
})

// Default returns the embedded catalog. It panics if the embedded document
// is invalid, which the package tests rule out.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// DefaultTOML returns a copy of the embedded catalog document.
func DefaultTOML() []byte {
	out := make([]byte, len(defaultTOML))
	copy(out, defaultTOML)
	return out
}

// LoadFile reads and validates a catalog from a TOML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog file %s", path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Load reads and validates a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML catalog document.
// Unknown keys are rejected so that typos surface as configuration errors.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "decode catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Configuration("unknown catalog keys: %s", strings.Join(keys, ", "))
	}

	c := raw.build()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// TOML Schema
// =============================================================================

type rawCatalog struct {
	Version           string                        `toml:"version"`
	DefaultMultiplier float64                       `toml:"default_multiplier"`
	FallbackCaseStudy string                        `toml:"fallback_case_study"`
	NoRecommendations string                        `toml:"no_recommendations"`
	Stages            []string                      `toml:"stages"`
	Categories        []rawCategory                 `toml:"categories"`
	Verticals         []rawVertical                 `toml:"verticals"`
	Adjustments       map[string]map[string]float64 `toml:"adjustments"`
	Investments       []allocation.InvestmentRange  `toml:"investments"`
	Priorities        []Priority                    `toml:"priorities"`
	CaseStudies       []CaseStudy                   `toml:"case_studies"`
}

type rawCategory struct {
	Name                string    `toml:"name"`
	Angle               *float64  `toml:"angle"`
	Color               string    `toml:"color"`
	StrategicImperative string    `toml:"strategic_imperative"`
	KPIs                listValue `toml:"kpis"`
	Audiences           listValue `toml:"audiences"`
	Messaging           string    `toml:"messaging"`
}

type rawVertical struct {
	Name     string             `toml:"name"`
	Channels map[string]float64 `toml:"channels"`
}

// listValue accepts either a TOML array of strings or a comma-delimited string.
type listValue []string

// UnmarshalTOML implements toml.Unmarshaler.
func (l *listValue) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*l = ParseList(v, ListSeparator).items
		return nil
	case []any:
		items := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("list item %d: expected string, got %T", i, item)
			}
			items = append(items, strings.TrimSpace(s))
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("expected string or array of strings, got %T", v)
	}
}

// missingAngle marks categories without a configured angle so Validate can
// report them.
var missingAngle = math.NaN()

func (r rawCatalog) build() *Catalog {
	c := &Catalog{
		Version:           r.Version,
		DefaultMultiplier: r.DefaultMultiplier,
		Angles:            make(map[string]float64, len(r.Categories)),
		Colors:            make(map[string]string, len(r.Categories)),
		Adjustments:       make(map[string]allocation.Adjustment, len(r.Adjustments)),
		Stages:            r.Stages,
		Investments:       r.Investments,
		Priorities:        r.Priorities,
		CaseStudies:       r.CaseStudies,
		FallbackCaseStudy: r.FallbackCaseStudy,
		NoRecommendations: r.NoRecommendations,
	}
	if c.DefaultMultiplier == 0 {
		c.DefaultMultiplier = allocation.DefaultMultiplier
	}

	for _, rc := range r.Categories {
		c.Categories = append(c.Categories, CategoryProfile{
			Name:                rc.Name,
			StrategicImperative: Scalar(rc.StrategicImperative),
			KPIs:                List(rc.KPIs...),
			Audiences:           List(rc.Audiences...),
			Messaging:           Scalar(rc.Messaging),
		})
		if rc.Angle != nil {
			c.Angles[rc.Name] = *rc.Angle
		} else {
			c.Angles[rc.Name] = missingAngle
		}
		if rc.Color != "" {
			c.Colors[rc.Name] = rc.Color
		}
	}

	for _, rv := range r.Verticals {
		c.Verticals = append(c.Verticals, Vertical{
			Name:     rv.Name,
			Channels: allocation.Table(rv.Channels),
		})
	}

	for objective, adj := range r.Adjustments {
		c.Adjustments[objective] = allocation.Adjustment(adj)
	}

	return c
}
