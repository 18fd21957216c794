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
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
)

// timestampLayouts are tried in order when parsing order timestamps.
var timestampLayouts = []string{
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.DateOnly,
}

var errMissingTimestamp = errors.New("timestamp is required")

// CityAvgDeliveryTime is the mean delivery time of one geolocation city.
type CityAvgDeliveryTime struct {
	City             string  `json:"geolocation_city"`
	AvgDeliveryDays  float64 `json:"delivery_time"`
	DeliveredRecords int     `json:"delivered_records"`
}

// DeliveryRecord is one row of the orders x customers x geolocation join.
// Days is nil when the order has not been delivered.
type DeliveryRecord struct {
	OrderID string
	City    string
	Days    *int64
}

// DeliveryDays returns the whole days between purchase and delivery,
// rounded towards negative infinity.
func DeliveryDays(purchased, delivered time.Time) int64 {
	const day = 24 * time.Hour
	d := delivered.Sub(purchased)
	days := int64(d / day)
	if d%day != 0 && d < 0 {
		days--
	}
	return days
}

// ParseTimestamp parses an order timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissingTimestamp
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// BuildDeliveryRecords joins orders to customers on customer_id and the
// result to geolocation on the zip code prefix. Every matching geolocation
// row yields a record, so one order may appear several times.
func BuildDeliveryRecords(orders, customers, geolocation *dataset.Table) ([]DeliveryRecord, error) {
	zipsByCustomer, err := indexCustomers(customers)
	if err != nil {
		return nil, err
	}
	citiesByZip, err := indexGeolocation(geolocation)
	if err != nil {
		return nil, err
	}

	cols, err := orders.Columns("order_id", "customer_id",
		"order_purchase_timestamp", "order_delivered_customer_date")
	if err != nil {
		return nil, err
	}

	var records []DeliveryRecord
	for i, row := range orders.Rows {
		zips := zipsByCustomer[joinKey(row[cols[1]])]
		if len(zips) == 0 {
			continue
		}

		purchased, err := ParseTimestamp(row[cols[2]])
		if err != nil {
			return nil, &dataset.ParseError{Table: orders.Name, Row: i + 1,
				Column: "order_purchase_timestamp", Value: row[cols[2]], Err: err}
		}

		var days *int64
		if raw := strings.TrimSpace(row[cols[3]]); raw != "" {
			delivered, err := ParseTimestamp(raw)
			if err != nil {
				return nil, &dataset.ParseError{Table: orders.Name, Row: i + 1,
					Column: "order_delivered_customer_date", Value: raw, Err: err}
			}
			d := DeliveryDays(purchased, delivered)
			days = &d
		}

		for _, zip := range zips {
			for _, city := range citiesByZip[zip] {
				records = append(records, DeliveryRecord{
					OrderID: joinKey(row[cols[0]]),
					City:    city,
					Days:    days,
				})
			}
		}
	}
	return records, nil
}

// ComputeDeliveryByCity averages delivery days per geolocation city over
// the records with a defined delivery time. Cities without any delivered
// record are omitted. Rows are ordered by city name.
func ComputeDeliveryByCity(orders, customers, geolocation *dataset.Table) ([]CityAvgDeliveryTime, error) {
	records, err := BuildDeliveryRecords(orders, customers, geolocation)
	if err != nil {
		return nil, err
	}

	accs := make(map[string]*meanAcc)
	for _, r := range records {
		if r.Days == nil {
			continue
		}
		acc, ok := accs[r.City]
		if !ok {
			acc = &meanAcc{}
			accs[r.City] = acc
		}
		acc.add(float64(*r.Days))
	}

	result := make([]CityAvgDeliveryTime, 0, len(accs))
	for city, acc := range accs {
		result = append(result, CityAvgDeliveryTime{
			City:             city,
			AvgDeliveryDays:  acc.mean(),
			DeliveredRecords: acc.count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].City < result[j].City
	})
	return result, nil
}

func indexCustomers(customers *dataset.Table) (map[string][]string, error) {
	cols, err := customers.Columns("customer_id", "customer_zip_code_prefix")
	if err != nil {
		return nil, err
	}
	zips := make(map[string][]string, customers.Len())
	for _, row := range customers.Rows {
		id, zip := joinKey(row[cols[0]]), zipKey(row[cols[1]])
		if id == "" || zip == "" {
			continue
		}
		zips[id] = append(zips[id], zip)
	}
	return zips, nil
}

func indexGeolocation(geolocation *dataset.Table) (map[string][]string, error) {
	cols, err := geolocation.Columns("geolocation_zip_code_prefix", "geolocation_city")
	if err != nil {
		return nil, err
	}
	cities := make(map[string][]string)
	for _, row := range geolocation.Rows {
		zip := zipKey(row[cols[0]])
		if zip == "" {
			continue
		}
		cities[zip] = append(cities[zip], row[cols[1]])
	}
	return cities, nil
}
