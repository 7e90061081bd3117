package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SourceMain marks a variant that comes from the category's direct item
// list rather than from a subcategory.
const SourceMain = "main"

// NormalizeName strips the single leading dot used to mark hidden alias
// entries in the catalog. Two items with the same normalized name are the
// same product regardless of where they appear. Equality is exact string
// equality after stripping: no case folding, no trimming.
func NormalizeName(name string) string {
	return strings.TrimPrefix(name, ".")
}

// Variant is one priced occurrence of a product: the underlying catalog
// item plus where it came from.
type Variant struct {
	Item         Item
	Source       string
	DisplayPrice decimal.Decimal
}

// VariantGroup collects every variant of one product within a category.
type VariantGroup struct {
	Name     string // normalized product name, the grouping key
	Variants []Variant
}

// ResolveVariants groups a category's direct items and its subcategories'
// items by normalized name. Direct items are walked first (source "main"),
// then each subcategory in order. Groups appear in first-seen name order;
// variants keep insertion order within a group. An empty category yields an
// empty slice.
func ResolveVariants(cat Category) []VariantGroup {
	byName := make(map[string]int)
	var groups []VariantGroup

	add := func(item Item, source string) {
		name := NormalizeName(item.Name)
		idx, ok := byName[name]
		if !ok {
			idx = len(groups)
			byName[name] = idx
			groups = append(groups, VariantGroup{Name: name})
		}
		groups[idx].Variants = append(groups[idx].Variants, Variant{
			Item:         item,
			Source:       source,
			DisplayPrice: item.Price,
		})
	}

	for _, item := range cat.Items {
		add(item, SourceMain)
	}
	for _, sub := range cat.Subcategories {
		for _, item := range sub.Items {
			add(item, sub.Name)
		}
	}

	return groups
}

// Group returns the variant group for the given normalized name, or false.
func Group(groups []VariantGroup, name string) (VariantGroup, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return VariantGroup{}, false
}

// Ambiguous reports whether choosing this product requires an explicit
// variant selection. A single-variant product is appended directly.
func (g VariantGroup) Ambiguous() bool {
	return len(g.Variants) > 1
}

// PriceRange returns the min and max over the raw, non-deduplicated variant
// prices. This feeds the on-screen display; the export formatter aggregates
// differently (see UniquePricesDesc).
func (g VariantGroup) PriceRange() (min, max decimal.Decimal) {
	for i, v := range g.Variants {
		if i == 0 {
			min, max = v.DisplayPrice, v.DisplayPrice
			continue
		}
		if v.DisplayPrice.LessThan(min) {
			min = v.DisplayPrice
		}
		if v.DisplayPrice.GreaterThan(max) {
			max = v.DisplayPrice
		}
	}
	return min, max
}

// DisplayPrice renders the group's price for the product list: a single
// "N.NN€", or "N.NN€ - M.MM€" when variant prices differ.
func (g VariantGroup) DisplayPrice() string {
	min, max := g.PriceRange()
	if min.Equal(max) {
		return FormatPrice(min)
	}
	return FormatPrice(min) + " - " + FormatPrice(max)
}

// UniquePricesDesc returns the group's distinct prices sorted highest
// first. This is the export-side aggregation: duplicates are removed, and
// ordering is by value, not by insertion.
func (g VariantGroup) UniquePricesDesc() []decimal.Decimal {
	var unique []decimal.Decimal
	for _, v := range g.Variants {
		seen := false
		for _, u := range unique {
			if u.Equal(v.DisplayPrice) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, v.DisplayPrice)
		}
	}

	// Insertion sort, descending. Groups are tiny.
	for i := 1; i < len(unique); i++ {
		for j := i; j > 0 && unique[j].GreaterThan(unique[j-1]); j-- {
			unique[j], unique[j-1] = unique[j-1], unique[j]
		}
	}
	return unique
}

// FormatPrice renders a price in the fixed two-decimal euro form used
// everywhere in the system.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2) + "€"
}
