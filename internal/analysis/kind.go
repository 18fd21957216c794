//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analysis computes the dashboard's descriptive analyses.
package analysis

import (
	"fmt"
	"strings"
)

// Kind selects one of the analyses the dashboard can display.
type Kind int

// Analysis kinds, in selector order.
const (
	KindProductPositivity Kind = iota
	KindDeliveryByCity
)

type kindInfo struct {
	slug        string
	label       string
	description string
}

var kinds = map[Kind]kindInfo{
	KindProductPositivity: {
		slug:        "product-positivity",
		label:       "Product with most positive reviews",
		description: "Mean review score against mean price per product, split at the median price",
	},
	KindDeliveryByCity: {
		slug:        "delivery-by-city",
		label:       "Average delivery time per geographic location",
		description: "Mean days from purchase to delivery per customer city",
	},
}

// Kinds returns every analysis kind in selector order.
func Kinds() []Kind {
	return []Kind{KindProductPositivity, KindDeliveryByCity}
}

// Slug is the URL and CLI identifier of the kind.
func (k Kind) Slug() string {
	return kinds[k].slug
}

// Label is the selector option text.
func (k Kind) Label() string {
	return kinds[k].label
}

// Description is a one-line explanation of the analysis.
func (k Kind) Description() string {
	return kinds[k].description
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.slug
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts a slug or an option label. An empty string selects the
// first kind.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Kinds()[0], nil
	}
	for _, k := range Kinds() {
		if strings.EqualFold(s, k.Slug()) || s == k.Label() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown analysis: %s", s)
}
