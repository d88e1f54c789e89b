package inventory

import (
	"strings"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Season groups shown on the storefront.
const (
	GroupWinter    = "winter"
	GroupSummerAll = "summer-all"
)

// Catalog is the set of tires loaded for a session. Items are pointers so
// stock consumption after an order is visible to later filtering.
type Catalog struct {
	items []*models.TireItem
}

// NewCatalog wraps items in a Catalog.
func NewCatalog(items []*models.TireItem) *Catalog {
	return &Catalog{items: items}
}

// Items returns all catalog items in load order.
func (c *Catalog) Items() []*models.TireItem {
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Criteria narrows a catalog listing. Zero values mean "no constraint".
type Criteria struct {
	Search      string
	SeasonGroup string
	Radius      int
	Width       int
	Profile     int
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	InStockOnly bool
}

// Filter returns the items matching all criteria, preserving order.
func (c *Catalog) Filter(cr Criteria) []*models.TireItem {
	search := strings.ToLower(strings.TrimSpace(cr.Search))

	out := make([]*models.TireItem, 0, len(c.items))
	for _, t := range c.items {
		if search != "" && !strings.Contains(strings.ToLower(t.Title()), search) {
			continue
		}
		if cr.SeasonGroup != "" && !InGroup(t.Season, cr.SeasonGroup) {
			continue
		}
		if cr.Radius != 0 && t.Radius != cr.Radius {
			continue
		}
		if cr.Width != 0 && t.Width != cr.Width {
			continue
		}
		if cr.Profile != 0 && t.Profile != cr.Profile {
			continue
		}
		if cr.InStockOnly && Available(t) <= 0 {
			continue
		}
		if !cr.MinPrice.IsZero() && t.Price.LessThan(cr.MinPrice) {
			continue
		}
		if !cr.MaxPrice.IsZero() && t.Price.GreaterThan(cr.MaxPrice) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// InGroup reports whether a season belongs to a storefront season group.
// Unknown groups match everything.
func InGroup(s models.Season, group string) bool {
	switch group {
	case GroupWinter:
		return s == models.SeasonWinter
	case GroupSummerAll:
		return s == models.SeasonSummer || s == models.SeasonAllSeason
	default:
		return true
	}
}

// SeasonSummary is one storefront section.
type SeasonSummary struct {
	Group     string
	Items     []*models.TireItem
	Available int
}

// SeasonGroups splits items into the winter and summer/all-season sections.
// Empty sections are omitted.
func SeasonGroups(items []*models.TireItem) []SeasonSummary {
	var out []SeasonSummary
	for _, group := range []string{GroupWinter, GroupSummerAll} {
		s := SeasonSummary{Group: group}
		for _, t := range items {
			if InGroup(t.Season, group) {
				s.Items = append(s.Items, t)
				s.Available += Available(t)
			}
		}
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}
