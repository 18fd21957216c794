//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
)

// PriceCategory labels a product relative to the median price.
type PriceCategory string

// Price categories.
const (
	Cheap     PriceCategory = "Cheap"
	Expensive PriceCategory = "Expensive"
)

// ProductReviewSummary is the per-product aggregate of the
// reviews x items x products join.
type ProductReviewSummary struct {
	ProductID   string  `json:"product_id"`
	ReviewScore float64 `json:"review_score"`
	Price       float64 `json:"price"`
}

// MostPositiveProduct is the summary row with the highest mean score.
type MostPositiveProduct struct {
	ProductReviewSummary
	Category PriceCategory `json:"category"`
}

// ProductPositivity is the result of ComputeProductPositivity.
type ProductPositivity struct {
	// Summaries are ordered by ascending product id.
	Summaries   []ProductReviewSummary `json:"summaries"`
	MedianPrice float64                `json:"median_price"`
	Top         MostPositiveProduct    `json:"top"`
}

// Classify returns Cheap when price is strictly below median.
func Classify(price, median float64) PriceCategory {
	if price < median {
		return Cheap
	}
	return Expensive
}

// orderItem keeps the raw price; only items that join a review and a
// product have it parsed.
type orderItem struct {
	productID string
	row       int
	rawPrice  string
}

type productAcc struct {
	score meanAcc
	price decimal.Decimal
}

// ComputeProductPositivity joins reviews to items on order_id and the result
// to products on product_id, then averages score and price per product.
// Ties on the maximal score go to the lowest product id.
func ComputeProductPositivity(reviews, items, products *dataset.Table) (*ProductPositivity, error) {
	itemsByOrder, err := indexItems(items)
	if err != nil {
		return nil, err
	}
	productCount, err := countKeys(products, "product_id")
	if err != nil {
		return nil, err
	}

	cols, err := reviews.Columns("order_id", "review_score")
	if err != nil {
		return nil, err
	}

	accs := make(map[string]*productAcc)
	for i, row := range reviews.Rows {
		score, err := parseScore(reviews.Name, i+1, row[cols[1]])
		if err != nil {
			return nil, err
		}
		for _, item := range itemsByOrder[joinKey(row[cols[0]])] {
			n := productCount[item.productID]
			if n == 0 {
				continue
			}
			price, err := parsePrice(items.Name, item.row, item.rawPrice)
			if err != nil {
				return nil, err
			}
			for ; n > 0; n-- {
				acc, ok := accs[item.productID]
				if !ok {
					acc = &productAcc{}
					accs[item.productID] = acc
				}
				acc.score.add(score)
				acc.price = acc.price.Add(price)
			}
		}
	}

	if len(accs) == 0 {
		return nil, &EmptyResultError{
			Analysis: KindProductPositivity.Slug(),
			Reason:   "no review matched an order item and a product",
		}
	}

	ids := make([]string, 0, len(accs))
	for id := range accs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	summaries := make([]ProductReviewSummary, 0, len(ids))
	prices := make([]float64, 0, len(ids))
	best := 0
	for i, id := range ids {
		acc := accs[id]
		price := acc.price.Div(decimal.NewFromInt(int64(acc.score.count))).InexactFloat64()
		summaries = append(summaries, ProductReviewSummary{
			ProductID:   id,
			ReviewScore: acc.score.mean(),
			Price:       price,
		})
		prices = append(prices, price)
		if summaries[i].ReviewScore > summaries[best].ReviewScore {
			best = i
		}
	}

	median := Median(prices)
	return &ProductPositivity{
		Summaries:   summaries,
		MedianPrice: median,
		Top: MostPositiveProduct{
			ProductReviewSummary: summaries[best],
			Category:             Classify(summaries[best].Price, median),
		},
	}, nil
}

// SummaryLines returns the four text lines shown under the scatter chart.
func (p *ProductPositivity) SummaryLines(currency string) []string {
	return []string{
		fmt.Sprintf("Product with the most positive reviews: %s", p.Top.ProductID),
		fmt.Sprintf("Product category: %s", p.Top.Category),
		fmt.Sprintf("Average review score: %.2f", p.Top.ReviewScore),
		fmt.Sprintf("Product price: %s %.2f", currency, p.Top.Price),
	}
}

func indexItems(items *dataset.Table) (map[string][]orderItem, error) {
	cols, err := items.Columns("order_id", "product_id", "price")
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]orderItem)
	for i, row := range items.Rows {
		orderID, productID := joinKey(row[cols[0]]), joinKey(row[cols[1]])
		if orderID == "" || productID == "" {
			continue
		}
		byOrder[orderID] = append(byOrder[orderID], orderItem{
			productID: productID,
			row:       i + 1,
			rawPrice:  row[cols[2]],
		})
	}
	return byOrder, nil
}

func parsePrice(table string, row int, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &dataset.ParseError{Table: table, Row: row,
			Column: "price", Value: raw, Err: err}
	}
	return v, nil
}

// countKeys returns how many rows carry each non-empty key, so that
// duplicated keys fan out like any inner join.
func countKeys(t *dataset.Table, column string) (map[string]int, error) {
	c, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, t.Len())
	for _, row := range t.Rows {
		if key := joinKey(row[c]); key != "" {
			counts[key]++
		}
	}
	return counts, nil
}

func parseScore(table string, row int, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &dataset.ParseError{Table: table, Row: row,
			Column: "review_score", Value: raw, Err: err}
	}
	return float64(v), nil
}
