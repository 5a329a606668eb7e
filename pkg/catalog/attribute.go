package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// AttributeKind discriminates the two [Attribute] variants.
type AttributeKind int

const (
	// KindScalar is a single free-text value.
	KindScalar AttributeKind = iota
	// KindList is an ordered sequence of items.
	KindList
)

func (k AttributeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
}

// ListSeparator is the delimiter used when a list attribute is written as a
// single string.
const ListSeparator = ","

// Attribute is either a scalar text or an ordered list of items.
// The zero value is an empty scalar.
type Attribute struct {
	kind  AttributeKind
	text  string
	items []string
}

// Scalar returns a scalar attribute.
func Scalar(text string) Attribute {
	return Attribute{kind: KindScalar, text: text}
}

// List returns a list attribute holding a copy of items.
func List(items ...string) Attribute {
	return Attribute{kind: KindList, items: slices.Clone(items)}
}

// ParseList splits a delimited string into a list attribute. Items are
// trimmed and empty items are dropped.
func ParseList(s, sep string) Attribute {
	var items []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return Attribute{kind: KindList, items: items}
}

// Kind reports which variant a holds.
func (a Attribute) Kind() AttributeKind { return a.kind }

// IsList reports whether a is a list attribute.
func (a Attribute) IsList() bool { return a.kind == KindList }

// Text returns the scalar text. It is empty for list attributes.
func (a Attribute) Text() string { return a.text }

// Items returns the values the attribute fans out to: the list items for a
// list, or a single element holding the text for a scalar.
func (a Attribute) Items() []string {
	if a.kind == KindList {
		return slices.Clone(a.items)
	}
	return []string{a.text}
}

// Len returns len(a.Items()) without copying.
func (a Attribute) Len() int {
	if a.kind == KindList {
		return len(a.items)
	}
	return 1
}

// IsEmpty reports whether the attribute carries no content.
func (a Attribute) IsEmpty() bool {
	if a.kind == KindList {
		return len(a.items) == 0
	}
	return strings.TrimSpace(a.text) == ""
}

// String renders scalars as-is and lists joined with ", ".
func (a Attribute) String() string {
	if a.kind == KindList {
		return strings.Join(a.items, ListSeparator+" ")
	}
	return a.text
}

// MarshalJSON encodes scalars as strings and lists as arrays.
func (a Attribute) MarshalJSON() ([]byte, error) {
	if a.kind == KindList {
		items := a.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts either a string (scalar) or an array of strings (list).
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Scalar(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("attribute must be a string or an array of strings")
	}
	*a = List(items...)
	return nil
}

// MarshalYAML encodes scalars as strings and lists as sequences.
func (a Attribute) MarshalYAML() (any, error) {
	if a.kind == KindList {
		return a.items, nil
	}
	return a.text, nil
}

// =============================================================================
// Attribute Names
// =============================================================================

// AttributeName identifies one of the four profile attributes.
type AttributeName string

// Profile attributes in their canonical order.
const (
	AttrStrategicImperative AttributeName = "strategic_imperative"
	AttrKPIs                AttributeName = "kpis"
	AttrAudiences           AttributeName = "audiences"
	AttrMessaging           AttributeName = "messaging"
)

// AttributeNames lists the profile attributes in canonical order.
var AttributeNames = []AttributeName{
	AttrStrategicImperative,
	AttrKPIs,
	AttrAudiences,
	AttrMessaging,
}

// Label returns the display label for the attribute.
func (n AttributeName) Label() string {
	switch n {
	case AttrStrategicImperative:
		return "Strategic Imperatives"
	case AttrKPIs:
		return "KPIs"
	case AttrAudiences:
		return "Core Audiences"
	case AttrMessaging:
		return "Messaging Approach"
	default:
		return string(n)
	}
}
