package shopping

import (
	"math"
	"sort"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/shopspring/decimal"
)

type Summary struct {
	ItemCount      int                 `json:"item_count"`
	CheckedCount   int                 `json:"checked_count"`
	EstimatedTotal decimal.Decimal     `json:"estimated_total"`
	CheckedTotal   decimal.Decimal     `json:"checked_total"`
	Remaining      decimal.NullDecimal `json:"remaining"`
	OverBudget     bool                `json:"over_budget"`
}

// Summarize computes totals over items. Items without a price count as zero.
// OverBudget needs a positive budget that the estimated total exceeds.
func Summarize(budget decimal.NullDecimal, items []model.ListItem) Summary {
	sum := Summary{
		ItemCount:      len(items),
		EstimatedTotal: decimal.Zero,
		CheckedTotal:   decimal.Zero,
	}
	for _, item := range items {
		line := item.LineTotal()
		sum.EstimatedTotal = sum.EstimatedTotal.Add(line)
		if item.IsChecked {
			sum.CheckedCount++
			sum.CheckedTotal = sum.CheckedTotal.Add(line)
		}
	}
	if budget.Valid {
		sum.Remaining = decimal.NewNullDecimal(budget.Decimal.Sub(sum.EstimatedTotal))
		sum.OverBudget = budget.Decimal.IsPositive() && sum.EstimatedTotal.GreaterThan(budget.Decimal)
	}
	return sum
}

// ItemGroup holds the items filed under one category. Category is nil for
// the uncategorized group.
type ItemGroup struct {
	Category *model.Category `json:"category"`
	Items    []model.ListItem `json:"items"`
}

// GroupByCategory buckets items by product category. Groups follow the order
// of categories; categories missing from it follow by id; uncategorized items
// come last. Items keep their relative order within a group and empty groups
// are omitted.
func GroupByCategory(items []model.ListItem, categories []model.Category) []ItemGroup {
	position := make(map[int64]int, len(categories))
	for i, c := range categories {
		position[c.ID] = i
	}

	byCategory := make(map[int64]*ItemGroup)
	var uncategorized []model.ListItem
	for _, item := range items {
		if item.Product == nil || item.Product.CategoryID == nil {
			uncategorized = append(uncategorized, item)
			continue
		}
		id := *item.Product.CategoryID
		g, ok := byCategory[id]
		if !ok {
			g = &ItemGroup{Category: categoryFor(id, item.Product, categories, position)}
			byCategory[id] = g
		}
		g.Items = append(g.Items, item)
	}

	groups := make([]ItemGroup, 0, len(byCategory)+1)
	for _, g := range byCategory {
		groups = append(groups, *g)
	}
	rank := func(id int64) int {
		if p, ok := position[id]; ok {
			return p
		}
		return math.MaxInt
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].Category.ID, groups[j].Category.ID
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		return a < b
	})

	if len(uncategorized) > 0 {
		groups = append(groups, ItemGroup{Items: uncategorized})
	}
	return groups
}

func categoryFor(id int64, p *model.Product, categories []model.Category, position map[int64]int) *model.Category {
	if i, ok := position[id]; ok {
		c := categories[i]
		return &c
	}
	if p.Category != nil {
		c := *p.Category
		return &c
	}
	return &model.Category{ID: id}
}
