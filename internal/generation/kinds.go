package generation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects which documents a generation job produces.
type Kind string

const (
	KindShippingList Kind = "shipping_list"
	KindGuides       Kind = "guides"
	KindBoth         Kind = "both"
	// KindEgreso prints the dispatch guide for a single outbound sale and
	// requires the sale id in the job payload.
	KindEgreso Kind = "egreso"
)

var kindSet = map[Kind]struct{}{
	KindShippingList: {},
	KindGuides:       {},
	KindBoth:         {},
	KindEgreso:       {},
}

// ParseKind validates a payload "what" value.
func ParseKind(value string) (Kind, error) {
	kind := Kind(strings.TrimSpace(strings.ToLower(value)))
	if _, ok := kindSet[kind]; !ok {
		return "", fmt.Errorf("unknown document kind %q", value)
	}
	return kind, nil
}

// IncludesShippingList reports whether the kind produces the daily
// shipping list.
func (k Kind) IncludesShippingList() bool {
	return k == KindShippingList || k == KindBoth
}

// IncludesGuides reports whether the kind produces dispatch guides.
func (k Kind) IncludesGuides() bool {
	return k == KindGuides || k == KindBoth || k == KindEgreso
}

var kindTitler = cases.Title(language.Spanish)

// Label renders the kind for humans, e.g. "Shipping List".
func (k Kind) Label() string {
	return kindTitler.String(strings.ReplaceAll(string(k), "_", " "))
}
