package cli

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/testutil"
)

// resetFlags clears flag variables left over from an earlier execution.
func resetFlags() {
	cfgFile, dataDir, source, connection, tablePrefix = "", "", "", "", ""
	logLevel, logFormat = "error", ""
	analyzeKind, analyzeChartURL, analyzeJSON = "", false, false
	generateOut, generateProfile, generateTimezone = "", "", ""
	generateOrders, generateProducts, generateCustomers = 0, 0, 0
	generateSellers, generateCities, generateSeed = 0, 0, 0
	generateForce = false
}

// execute runs the root command with args from an empty working
// directory and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// printedURL parses the link on the line of out starting with prefix.
func printedURL(t *testing.T, out, prefix string) *url.URL {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			u, err := url.Parse(strings.TrimSpace(rest))
			require.NoError(t, err)
			return u
		}
	}
	require.Failf(t, "link not printed", "no line starting with %q in:\n%s", prefix, out)
	return nil
}

// assertChartLink checks the quickchart.io image link printed by analyze.
func assertChartLink(t *testing.T, out string) {
	t.Helper()
	u := printedURL(t, out, "Chart: ")
	assert.Equal(t, "https", u.Scheme)
	assert.True(t, strings.HasSuffix(u.Hostname(), "quickchart.io"), "host %s", u.Host)
	assert.Equal(t, "/chart", u.Path)
	assert.NotEmpty(t, u.Query().Get("c"))
}

func sampleResults(t *testing.T) *analysis.Results {
	t.Helper()
	res, err := analysis.Run(testutil.LoadDataset(t, testutil.SampleRows()))
	require.NoError(t, err)
	return res
}

func TestWriteSummaryProducts(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, analysis.KindProductPositivity, sampleResults(t), "R$")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, analysis.KindProductPositivity.Label()+"\n"))
	assert.Contains(t, out, "Product with the most positive reviews: A")
	assert.Contains(t, out, "Product category: Expensive")
	assert.Contains(t, out, "Product price: R$ 10.00")
}

func TestWriteSummaryDelivery(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, analysis.KindDeliveryByCity, sampleResults(t), "R$")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, analysis.KindDeliveryByCity.Label(), lines[0])
	assert.Equal(t, []string{"geolocation_city", "delivery_time"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"X", "3.00"}, strings.Fields(lines[3]))
}

func TestWriteSummaryNoDeliveries(t *testing.T) {
	res := sampleResults(t)
	res.Delivery = nil

	var buf bytes.Buffer
	writeSummary(&buf, analysis.KindDeliveryByCity, res, "R$")
	assert.Contains(t, buf.String(), "No delivered orders.")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := testutil.WriteDataset(t, testutil.SampleRows())

	out, err := execute(t, "analyze", "--data-dir", dir, "--analysis", "delivery-by-city", "--chart-url")
	require.NoError(t, err)
	assert.Contains(t, out, analysis.KindDeliveryByCity.Label())
	assert.Contains(t, out, "3.00")
	assertChartLink(t, out)

	table := printedURL(t, out, "Table: ")
	assert.Equal(t, "api.quickchart.io", table.Hostname())
	assert.Equal(t, "/v1/table", table.Path)
	assert.Contains(t, table.Query().Get("data"), `"X"`)
}

func TestAnalyzeDefaultsToProducts(t *testing.T) {
	dir := testutil.WriteDataset(t, testutil.SampleRows())

	out, err := execute(t, "analyze", "--data-dir", dir, "--chart-url")
	require.NoError(t, err)
	assert.Contains(t, out, "Product with the most positive reviews: A")
	assertChartLink(t, out)
	assert.NotContains(t, out, "Table: ")
}

func TestAnalyzeJSON(t *testing.T) {
	dir := testutil.WriteDataset(t, testutil.SampleRows())

	out, err := execute(t, "analyze", "--data-dir", dir, "--json")
	require.NoError(t, err)

	var decoded struct {
		Products struct {
			MedianPrice float64 `json:"median_price"`
			Top         struct {
				ProductID string `json:"product_id"`
			} `json:"top"`
		} `json:"product_positivity"`
		Delivery []struct {
			City string  `json:"geolocation_city"`
			Days float64 `json:"delivery_time"`
		} `json:"delivery_by_city"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "A", decoded.Products.Top.ProductID)
	assert.Equal(t, 10.0, decoded.Products.MedianPrice)
	require.Len(t, decoded.Delivery, 1)
	assert.Equal(t, "X", decoded.Delivery[0].City)
	assert.Equal(t, 3.0, decoded.Delivery[0].Days)
}

func TestAnalyzeErrors(t *testing.T) {
	dir := testutil.WriteDataset(t, testutil.SampleRows())

	_, err := execute(t, "analyze", "--data-dir", dir, "--analysis", "churn")
	assert.ErrorContains(t, err, "unknown analysis")

	_, err = execute(t, "analyze", "--data-dir", t.TempDir())
	var missing *dataset.MissingFileError
	assert.ErrorAs(t, err, &missing)

	_, err = execute(t, "analyze", "--data-dir", dir, "--log-format", "xml")
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	args := []string{
		"generate", "--out", dir, "--seed", "3",
		"--orders", "80", "--products", "20", "--customers", "40",
		"--sellers", "5", "--cities", "4",
	}

	out, err := execute(t, args...)
	require.NoError(t, err)
	for _, name := range dataset.Names {
		assert.FileExists(t, filepath.Join(dir, dataset.Filenames[name]))
	}
	assert.Contains(t, out, dataset.Filenames[dataset.Orders])

	first, err := os.ReadFile(filepath.Join(dir, dataset.Filenames[dataset.Orders]))
	require.NoError(t, err)

	_, err = execute(t, args...)
	assert.ErrorContains(t, err, "--force")

	_, err = execute(t, append(args, "--force")...)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, dataset.Filenames[dataset.Orders]))
	require.NoError(t, err)
	assert.Equal(t, first, second, "same seed should write the same orders")

	out, err = execute(t, "analyze", "--data-dir", dir, "--analysis", "delivery-by-city")
	require.NoError(t, err)
	assert.Contains(t, out, "geolocation_city")
}

func TestGenerateRejectsBadProfile(t *testing.T) {
	_, err := execute(t, "generate", "--out", t.TempDir(), "--profile", "local-office")
	assert.ErrorContains(t, err, "unknown profile")
}

func TestAnalysesCommand(t *testing.T) {
	out, err := execute(t, "analyses")
	require.NoError(t, err)
	for _, k := range analysis.Kinds() {
		assert.Contains(t, out, k.Slug())
		assert.Contains(t, out, k.Label())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pgedge-dashboard")
}

func TestServeValidatesSource(t *testing.T) {
	_, err := execute(t, "serve", "--source", "postgres")
	assert.ErrorContains(t, err, "connection")
}
