package analysis

import (
	"fmt"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
)

// Results holds both analyses computed from a single dataset.
type Results struct {
	Products *ProductPositivity    `json:"product_positivity"`
	Delivery []CityAvgDeliveryTime `json:"delivery_by_city"`
}

// Run computes every analysis. Both always run, whichever one is displayed.
func Run(d *dataset.Dataset) (*Results, error) {
	reviews, items, products, err := tables3(d, dataset.Reviews, dataset.Items, dataset.Products)
	if err != nil {
		return nil, err
	}
	positivity, err := ComputeProductPositivity(reviews, items, products)
	if err != nil {
		return nil, fmt.Errorf("product positivity: %w", err)
	}

	orders, customers, geolocation, err := tables3(d, dataset.Orders, dataset.Customers, dataset.Geolocation)
	if err != nil {
		return nil, err
	}
	delivery, err := ComputeDeliveryByCity(orders, customers, geolocation)
	if err != nil {
		return nil, fmt.Errorf("delivery by city: %w", err)
	}

	return &Results{Products: positivity, Delivery: delivery}, nil
}

func tables3(d *dataset.Dataset, a, b, c string) (*dataset.Table, *dataset.Table, *dataset.Table, error) {
	ta, err := d.Table(a)
	if err != nil {
		return nil, nil, nil, err
	}
	tb, err := d.Table(b)
	if err != nil {
		return nil, nil, nil, err
	}
	tc, err := d.Table(c)
	if err != nil {
		return nil, nil, nil, err
	}
	return ta, tb, tc, nil
}
