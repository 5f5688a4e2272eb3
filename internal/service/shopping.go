package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// ShoppingItem is one merged line of a shopping list.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListService builds the aggregated shopping list of a user's cart.
type ShoppingListService struct {
	carts repository.ShoppingCartRepository
}

func NewShoppingListService(carts repository.ShoppingCartRepository) *ShoppingListService {
	return &ShoppingListService{carts: carts}
}

// Build returns the merged ingredient list for every recipe in the user's
// cart. An empty cart yields no items.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	rows, err := s.carts.IngredientRows(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load shopping cart", err)
	}
	metrics.RecordShoppingListDownload()
	return Aggregate(rows), nil
}

// Aggregate sums amounts per (name, unit) pair. Items keep the order in
// which their pair first appears in rows.
func Aggregate(rows []repository.CartRow) []ShoppingItem {
	type key struct{ name, unit string }

	index := make(map[key]int, len(rows))
	items := make([]ShoppingItem, 0, len(rows))
	for _, row := range rows {
		k := key{row.Name, row.MeasurementUnit}
		if i, ok := index[k]; ok {
			items[i].Amount += row.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, ShoppingItem{Name: row.Name, MeasurementUnit: row.MeasurementUnit, Amount: row.Amount})
	}
	return items
}

// Render formats items one per line: name, unit in parentheses, then the summed amount.
func Render(items []ShoppingItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) — %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}
