package quickchart

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
)

func positivity(n int) *analysis.ProductPositivity {
	p := &analysis.ProductPositivity{MedianPrice: float64(n) / 2}
	for i := 0; i < n; i++ {
		p.Summaries = append(p.Summaries, analysis.ProductReviewSummary{
			ProductID:   fmt.Sprintf("p%03d", i),
			ReviewScore: float64(i%5 + 1),
			Price:       float64(i),
		})
	}
	p.Top = analysis.MostPositiveProduct{ProductReviewSummary: p.Summaries[0], Category: analysis.Cheap}
	return p
}

func TestProductScatter(t *testing.T) {
	cfg := ProductScatter(positivity(4), 0)

	if cfg.Type != "scatter" {
		t.Errorf("Expected type 'scatter', got '%s'", cfg.Type)
	}
	if len(cfg.Data.DataSets) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(cfg.Data.DataSets))
	}
	// Median 2: prices 0 and 1 are cheap, 2 and 3 expensive.
	if got := len(cfg.Data.DataSets[0].Data); got != 2 {
		t.Errorf("Expected 2 cheap points, got %d", got)
	}
	if got := len(cfg.Data.DataSets[1].Data); got != 2 {
		t.Errorf("Expected 2 expensive points, got %d", got)
	}
	first := cfg.Data.DataSets[0].Data[0].(Point)
	if first.X != 0 || first.Y != 1 {
		t.Errorf("Expected first point {0 1}, got %+v", first)
	}
}

func TestProductScatterSamples(t *testing.T) {
	cfg := ProductScatter(positivity(1000), 150)

	total := 0
	for _, ds := range cfg.Data.DataSets {
		total += len(ds.Data)
	}
	if total > 150 || total < 100 {
		t.Errorf("Expected 100-150 sampled points, got %d", total)
	}
}

func TestDeliveryBars(t *testing.T) {
	rows := []analysis.CityAvgDeliveryTime{
		{City: "a", AvgDeliveryDays: 3},
		{City: "b", AvgDeliveryDays: 10},
		{City: "c", AvgDeliveryDays: 7},
		{City: "d", AvgDeliveryDays: 10},
	}
	cfg := DeliveryBars(rows, 3)

	if cfg.Type != "horizontalBar" {
		t.Errorf("Expected type 'horizontalBar', got '%s'", cfg.Type)
	}
	want := []string{"b", "d", "c"}
	if strings.Join(cfg.Data.Labels, ",") != strings.Join(want, ",") {
		t.Errorf("Expected labels %v, got %v", want, cfg.Data.Labels)
	}
	if rows[0].City != "a" {
		t.Error("DeliveryBars must not reorder its input")
	}
}

func TestURL(t *testing.T) {
	u, err := URL(DeliveryBars([]analysis.CityAvgDeliveryTime{{City: "sao paulo", AvgDeliveryDays: 8.5}}, 0))
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("Invalid URL %q: %v", u, err)
	}
	if !strings.HasSuffix(parsed.Hostname(), "quickchart.io") {
		t.Errorf("Expected quickchart.io host, got '%s'", parsed.Hostname())
	}

	decoded, err := url.QueryUnescape(u)
	if err != nil {
		t.Fatalf("Failed to unescape query: %v", err)
	}
	for _, want := range []string{`"horizontalBar"`, `"sao paulo"`, `8.5`} {
		if !strings.Contains(decoded, want) {
			t.Errorf("Expected chart config to contain %s, got %s", want, decoded)
		}
	}
}

func TestForKind(t *testing.T) {
	res := &analysis.Results{
		Products: positivity(3),
		Delivery: []analysis.CityAvgDeliveryTime{{City: "x", AvgDeliveryDays: 3}},
	}
	for _, k := range analysis.Kinds() {
		if _, err := ForKind(k, res); err != nil {
			t.Errorf("ForKind(%s) failed: %v", k, err)
		}
	}
	if _, err := ForKind(analysis.Kind(9), res); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestDeliveryTable(t *testing.T) {
	rows := []analysis.CityAvgDeliveryTime{
		{City: "campinas", AvgDeliveryDays: 7.5},
		{City: "sao paulo", AvgDeliveryDays: 3},
	}
	cfg := DeliveryTable(rows)

	if len(cfg.Columns) != 2 || cfg.Columns[0].Title != "geolocation_city" {
		t.Errorf("Unexpected columns: %+v", cfg.Columns)
	}
	if len(cfg.DataSource) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(cfg.DataSource))
	}
	first := cfg.DataSource[0].(map[string]string)
	if first["city"] != "campinas" || first["days"] != "7.50" {
		t.Errorf("Unexpected first row: %v", first)
	}

	u, err := TableURL(cfg)
	if err != nil {
		t.Fatalf("TableURL failed: %v", err)
	}
	if !strings.HasPrefix(u, "https://api.quickchart.io/v1/table?data=") {
		t.Errorf("Unexpected table URL: %s", u)
	}
	decoded, err := url.QueryUnescape(u)
	if err != nil {
		t.Fatalf("QueryUnescape failed: %v", err)
	}
	if !strings.Contains(decoded, `"sao paulo"`) || !strings.Contains(decoded, `"3.00"`) {
		t.Errorf("Table payload missing rows: %s", decoded)
	}
}

func TestEmptySeriesMarshalAsArrays(t *testing.T) {
	// A single product sits on one side of the median.
	scatter, err := json.Marshal(ProductScatter(positivity(1), DefaultMaxPoints))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	bars, err := json.Marshal(DeliveryBars(nil, DefaultTopCities))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for name, b := range map[string][]byte{"scatter": scatter, "bars": bars} {
		if strings.Contains(string(b), `"data":null`) {
			t.Errorf("%s: expected empty series as [], got %s", name, b)
		}
	}
	if !strings.Contains(string(scatter), `{"label":"Expensive","data":[]`) {
		t.Errorf("Expected an empty Expensive series, got %s", scatter)
	}
}
