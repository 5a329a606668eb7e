// Package catalog holds the static planning data consumed by the Cortex
// engines: category profiles, the mind map angle table, per-vertical channel
// mixes, per-objective adjustment factors, lifecycle stages, investment tiers,
// marketing priorities and case studies.
//
// # Versioned Resource
//
// All tables live in a single TOML document with a version string. A default
// catalog is embedded in the binary; a different one can be loaded from disk:
//
//	cat := catalog.Default()
//	cat, err := catalog.LoadFile("cortex.toml")
//
// A loaded [Catalog] is validated once and must be treated as immutable. It is
// safe to share between goroutines. Lookup methods return copies of the
// underlying tables so that callers cannot mutate shared state.
//
// # Attributes
//
// Category attributes are a tagged variant ([Attribute]): either a scalar text
// or an ordered list of items. In TOML a list attribute may be written as an
// array or as a comma-delimited string:
//
//	kpis = ["Brand Lift", "% Reach", "Frequency"]
//	kpis = "Brand Lift, % Reach, Frequency"
//
// # Errors
//
// Lookups of unknown verticals or objectives, and any validation failure,
// return an error with code [errors.ErrCodeConfiguration]. Unknown lifecycle
// stages, investment tiers and priorities are selection errors and use
// [errors.ErrCodeInvalidInput].
//
// [errors.ErrCodeConfiguration]: github.com/matzehuels/cortex/pkg/errors
// [errors.ErrCodeInvalidInput]: github.com/matzehuels/cortex/pkg/errors
package catalog
