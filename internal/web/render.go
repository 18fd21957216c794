//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package web

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
)

// Axis captions.
const (
	priceAxis    = "Product price"
	scoreAxis    = "Average review score"
	deliveryAxis = "Average delivery time (days)"
	locationAxis = "Geographic location"
)

// viridis endpoints, low to high.
var palette = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

type chartRenderer interface {
	Render(w io.Writer) error
}

// view is everything the page and the chart endpoint show for one analysis.
type view struct {
	Kind      analysis.Kind
	Subheader string
	// Lines is the text summary; Cities the tabular one. Exactly one is set.
	Lines  []string
	Cities []analysis.CityAvgDeliveryTime
	// ChartHeight is the chart surface height in pixels.
	ChartHeight int

	// chart is nil unless requested from render.
	chart chartRenderer
}

// render is the single dispatch point from an analysis kind to its
// presentation. The chart is only built when withChart is set.
func (s *Server) render(kind analysis.Kind, res *analysis.Results, withChart bool) (*view, error) {
	switch kind {
	case analysis.KindProductPositivity:
		const height = 600
		v := &view{
			Kind:        kind,
			Subheader:   kind.Label(),
			Lines:       res.Products.SummaryLines(s.opts.CurrencySymbol),
			ChartHeight: height,
		}
		if withChart {
			v.chart = productChart(res.Products, height)
		}
		return v, nil
	case analysis.KindDeliveryByCity:
		height := barHeight(len(res.Delivery))
		cities := res.Delivery
		if cities == nil {
			cities = []analysis.CityAvgDeliveryTime{}
		}
		v := &view{
			Kind:        kind,
			Subheader:   kind.Label(),
			Cities:      cities,
			ChartHeight: height,
		}
		if withChart {
			v.chart = deliveryChart(res.Delivery, height)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown analysis: %s", kind)
	}
}

// barHeight gives each city a readable row.
func barHeight(rows int) int {
	h := 120 + rows*22
	if h < 400 {
		return 400
	}
	return h
}

func px(h int) string {
	return fmt.Sprintf("%dpx", h)
}

// symbolSize maps a 1-5 review score to a 6-22 px marker.
func symbolSize(score float64) int {
	return 6 + int(score*4-4)
}

func productChart(p *analysis.ProductPositivity, height int) *charts.Scatter {
	title := analysis.KindProductPositivity.Label()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    px(height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("Median price %.2f", p.MedianPrice),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: priceAxis, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: scoreAxis, Type: "value"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        1,
			Max:        5,
			InRange:    &opts.VisualMapInRange{Color: palette},
		}),
	)

	data := make([]opts.ScatterData, 0, len(p.Summaries))
	for _, s := range p.Summaries {
		data = append(data, opts.ScatterData{
			Name:       s.ProductID,
			Value:      []interface{}{s.Price, s.ReviewScore},
			SymbolSize: symbolSize(s.ReviewScore),
		})
	}

	scatter.AddSeries(scoreAxis, data,
		charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
			Name:  "Median Price",
			XAxis: p.MedianPrice,
		}),
	)
	return scatter
}

func deliveryChart(rows []analysis.CityAvgDeliveryTime, height int) *charts.Bar {
	title := analysis.KindDeliveryByCity.Label()

	cities := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	maxDays := 1.0
	for _, r := range rows {
		cities = append(cities, r.City)
		data = append(data, opts.BarData{Value: r.AvgDeliveryDays})
		if r.AvgDeliveryDays > maxDays {
			maxDays = r.AvgDeliveryDays
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    px(height),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: deliveryAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: locationAxis}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     0,
			Max:     float32(maxDays),
			InRange: &opts.VisualMapInRange{Color: palette},
		}),
	)
	bar.SetXAxis(cities).AddSeries(deliveryAxis, data)
	bar.XYReversal()
	return bar
}
