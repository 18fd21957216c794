//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package quickchart builds static quickchart.io image links for the
// analyses, for terminals and chat messages where the interactive page is
// not available.
package quickchart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"

	quickchartgo "github.com/henomis/quickchart-go"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

// Limits keep the encoded chart inside practical URL lengths.
const (
	DefaultMaxPoints = 150
	DefaultTopCities = 20
)

var errChartURL = errors.New("failed to get chart url from quickchart")

// ChartConfig is a Chart.js configuration as accepted by quickchart.io.
type ChartConfig struct {
	Type    string        `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}

type ChartData struct {
	Labels   []string  `json:"labels,omitempty"`
	DataSets []DataSet `json:"datasets"`
}

type DataSet struct {
	Label           string `json:"label"`
	Data            []any  `json:"data"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Point is one scatter sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ChartOptions struct {
	Title  Title   `json:"title"`
	Legend *Legend `json:"legend,omitempty"`
	Scales Scales  `json:"scales"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Legend struct {
	Display bool `json:"display"`
}

type Scales struct {
	XAxes []Axis `json:"xAxes"`
	YAxes []Axis `json:"yAxes"`
}

type Axis struct {
	ScaleLabel ScaleLabel `json:"scaleLabel"`
}

type ScaleLabel struct {
	Display     bool   `json:"display"`
	LabelString string `json:"labelString"`
}

func axes(x, y string) Scales {
	return Scales{
		XAxes: []Axis{{ScaleLabel: ScaleLabel{Display: true, LabelString: x}}},
		YAxes: []Axis{{ScaleLabel: ScaleLabel{Display: true, LabelString: y}}},
	}
}

// ProductScatter plots mean score against mean price, split into the Cheap
// and Expensive series. At most maxPoints summaries are plotted, taken at
// an even stride over the id-ordered summaries.
func ProductScatter(p *analysis.ProductPositivity, maxPoints int) ChartConfig {
	// Empty series must marshal as [], never null.
	cheap := DataSet{Label: string(analysis.Cheap), Data: []any{}, BackgroundColor: "rgba(54,162,235,0.6)"}
	expensive := DataSet{Label: string(analysis.Expensive), Data: []any{}, BackgroundColor: "rgba(255,99,132,0.6)"}

	stride := 1
	if maxPoints > 0 && len(p.Summaries) > maxPoints {
		stride = (len(p.Summaries) + maxPoints - 1) / maxPoints
	}
	for i := 0; i < len(p.Summaries); i += stride {
		s := p.Summaries[i]
		pt := Point{X: s.Price, Y: s.ReviewScore}
		if analysis.Classify(s.Price, p.MedianPrice) == analysis.Cheap {
			cheap.Data = append(cheap.Data, pt)
		} else {
			expensive.Data = append(expensive.Data, pt)
		}
	}

	return ChartConfig{
		Type: "scatter",
		Data: ChartData{DataSets: []DataSet{cheap, expensive}},
		Options: &ChartOptions{
			Title: Title{Display: true, Text: fmt.Sprintf("%s (median price %.2f)",
				analysis.KindProductPositivity.Label(), p.MedianPrice)},
			Scales: axes("Price", "Review score"),
		},
	}
}

// DeliveryBars plots the topN cities with the longest mean delivery time,
// slowest first. Equal means are ordered by city.
func DeliveryBars(rows []analysis.CityAvgDeliveryTime, topN int) ChartConfig {
	sorted := make([]analysis.CityAvgDeliveryTime, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AvgDeliveryDays != sorted[j].AvgDeliveryDays {
			return sorted[i].AvgDeliveryDays > sorted[j].AvgDeliveryDays
		}
		return sorted[i].City < sorted[j].City
	})
	if topN > 0 && len(sorted) > topN {
		sorted = sorted[:topN]
	}

	ds := DataSet{Label: "Delivery time (days)", Data: []any{}, BackgroundColor: "rgba(75,192,192,0.7)"}
	labels := make([]string, 0, len(sorted))
	for _, r := range sorted {
		labels = append(labels, r.City)
		ds.Data = append(ds.Data, r.AvgDeliveryDays)
	}

	return ChartConfig{
		Type: "horizontalBar",
		Data: ChartData{Labels: labels, DataSets: []DataSet{ds}},
		Options: &ChartOptions{
			Title:  Title{Display: true, Text: analysis.KindDeliveryByCity.Label()},
			Legend: &Legend{Display: false},
			Scales: axes("Delivery time (days)", "City"),
		},
	}
}

// URL returns the image link for config.
func URL(config ChartConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal chart config")
		return "", errChartURL
	}
	qc := quickchartgo.New()
	qc.Config = string(bytes)
	u, err := qc.GetUrl()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to get chart url from quickchart")
		return "", errChartURL
	}
	return u, nil
}

// TableConfig is the payload of the quickchart table image API.
type TableConfig struct {
	Title      string   `json:"title"`
	Columns    []Column `json:"columns"`
	DataSource []any    `json:"dataSource"`
}

// Column is one table column.
type Column struct {
	Width     int    `json:"width"`
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
}

// tableEndpoint renders TableConfig payloads; quickchart-go only covers
// charts.
const tableEndpoint = "https://api.quickchart.io/v1/table"

// DeliveryTable lists the per-city means in city order, formatted with
// two decimals.
func DeliveryTable(rows []analysis.CityAvgDeliveryTime) TableConfig {
	cfg := TableConfig{
		Title: analysis.KindDeliveryByCity.Label(),
		Columns: []Column{
			{Width: 200, Title: "geolocation_city", DataIndex: "city"},
			{Width: 120, Title: "delivery_time", DataIndex: "days"},
		},
		DataSource: make([]any, 0, len(rows)),
	}
	for _, r := range rows {
		cfg.DataSource = append(cfg.DataSource, map[string]string{
			"city": r.City,
			"days": fmt.Sprintf("%.2f", r.AvgDeliveryDays),
		})
	}
	return cfg
}

// TableURL returns the quickchart.io image link for a table.
func TableURL(config TableConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal table config")
		return "", errChartURL
	}
	return tableEndpoint + "?data=" + url.QueryEscape(string(bytes)), nil
}

// ForKind returns the image link for the analysis k of res.
func ForKind(k analysis.Kind, res *analysis.Results) (string, error) {
	switch k {
	case analysis.KindProductPositivity:
		return URL(ProductScatter(res.Products, DefaultMaxPoints))
	case analysis.KindDeliveryByCity:
		return URL(DeliveryBars(res.Delivery, DefaultTopCities))
	default:
		return "", fmt.Errorf("no chart for analysis %s", k)
	}
}
