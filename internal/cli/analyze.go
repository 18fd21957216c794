package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
	"github.com/pgEdge/pgedge-dashboard/internal/quickchart"
)

var (
	analyzeKind     string
	analyzeChartURL bool
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print an analysis to the terminal",
	Long: `Load the dataset, compute both analyses and print one of them as
text, the same summary the dashboard shows below its chart.

Example:
  pgedge-dashboard analyze
  pgedge-dashboard analyze --analysis delivery-by-city --chart-url
  pgedge-dashboard analyze --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeKind, "analysis", "",
		"analysis to print (see 'pgedge-dashboard analyses')")
	analyzeCmd.Flags().BoolVar(&analyzeChartURL, "chart-url", false,
		"also print a quickchart.io image link")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"print both analyses as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	kind, err := analysis.ParseKind(analyzeKind)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	src, closeSource, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	d, err := src.Load(ctx)
	if err != nil {
		return err
	}
	res, err := analysis.Run(d)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	writeSummary(out, kind, res, cfg.Serve.CurrencySymbol)

	if analyzeChartURL {
		u, err := quickchart.ForKind(kind, res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Chart: %s\n", u)

		if kind == analysis.KindDeliveryByCity {
			tu, err := quickchart.TableURL(quickchart.DeliveryTable(res.Delivery))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Table: %s\n", tu)
		}
	}
	return nil
}

// writeSummary prints the text the dashboard shows under the chart.
func writeSummary(w io.Writer, kind analysis.Kind, res *analysis.Results, currency string) {
	fmt.Fprintln(w, kind.Label())
	fmt.Fprintln(w)

	switch kind {
	case analysis.KindProductPositivity:
		for _, line := range res.Products.SummaryLines(currency) {
			fmt.Fprintln(w, line)
		}
	case analysis.KindDeliveryByCity:
		if len(res.Delivery) == 0 {
			fmt.Fprintln(w, "No delivered orders.")
			return
		}
		width := len("geolocation_city")
		for _, row := range res.Delivery {
			if len(row.City) > width {
				width = len(row.City)
			}
		}
		fmt.Fprintf(w, "%-*s  %13s\n", width, "geolocation_city", "delivery_time")
		for _, row := range res.Delivery {
			fmt.Fprintf(w, "%-*s  %13.2f\n", width, row.City, row.AvgDeliveryDays)
		}
	}
}
