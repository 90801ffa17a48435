package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-forecast/internal/models"
)

func testPage() Page {
	return Page{
		ChartLibraryURL: "https://cdn.plot.ly/plotly-2.24.1.min.js",
		DefaultRegion:   "California",
		Data: models.DashboardData{
			States:      []string{"Arizona", "California"},
			FutureYears: []int{2025, 2026, 2027, 2028, 2029},
			Historical: map[string]models.HistoricalSeries{
				"Arizona":    {Year: []int{2023, 2024}, Price: []float64{9.1, 9.53}, Sales: []int64{36800, 38211}},
				"California": {Year: []int{2023, 2024}, Price: []float64{14.02, 14.4}, Sales: []int64{37000, 38750}},
			},
			Predictions: map[string]models.PredictionSeries{
				"Arizona":    {Prices: []float64{9.96, 10.39, 10.82, 11.25, 11.68}, Sales: []float64{39622, 41033, 42444, 43855, 45266}},
				"California": {Prices: []float64{14.78, 15.16, 15.54, 15.92, 16.3}, Sales: []float64{40500, 42250, 44000, 45750, 47500}},
			},
		},
	}
}

func render(t *testing.T, page Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dashboard(page).Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard_Structure(t *testing.T) {
	html := render(t, testPage())

	expected := []string{
		"<!doctype html>",
		"<title>" + DefaultTitle + "</title>",
		`<script src="https://cdn.plot.ly/plotly-2.24.1.min.js"></script>`,
		`<select id="state-selector" data-default="California">`,
		`<div id="price-chart" class="chart"></div>`,
		`<div id="sales-chart" class="chart"></div>`,
		`id="` + DataScriptID + `"`,
		"dash: 'dash'",
		"addEventListener('change', updateCharts)",
		"</html>",
	}
	for _, want := range expected {
		assert.Contains(t, html, want)
	}
}

func TestDashboard_ClientReadsPayloadElement(t *testing.T) {
	html := render(t, testPage())

	assert.Contains(t, html, "document.getElementById('"+DataScriptID+"').textContent")
	assert.Contains(t, html, `<script id="`+DataScriptID+`" type="application/json">`)
}

func TestDashboard_CustomTitle(t *testing.T) {
	page := testPage()
	page.Title = "Grid & Prices"

	html := render(t, page)
	assert.Contains(t, html, "<title>Grid &amp; Prices</title>")
	assert.Contains(t, html, "<h1>Grid &amp; Prices</h1>")
	assert.NotContains(t, html, DefaultTitle)
}

func TestDashboard_RoundTrip(t *testing.T) {
	page := testPage()

	parsed, err := ExtractData([]byte(render(t, page)))
	require.NoError(t, err)
	assert.Equal(t, page.Data, parsed)
}

func TestDashboard_EscapesInput(t *testing.T) {
	page := testPage()
	page.Title = `<script>alert("x")</script>`
	page.DefaultRegion = `"><img src=x>`
	page.Data.States = append(page.Data.States, "</script><b>")
	page.Data.Historical["</script><b>"] = models.HistoricalSeries{Year: []int{2024}, Price: []float64{1}, Sales: []int64{1}}
	page.Data.Predictions["</script><b>"] = models.PredictionSeries{Prices: []float64{1}, Sales: []float64{1}}

	html := render(t, page)

	assert.NotContains(t, html, `<script>alert("x")</script>`)
	assert.NotContains(t, html, `"><img src=x>`)
	assert.NotContains(t, html, "</script><b>", "payload must not close its script element")
	assert.Equal(t, 1, strings.Count(html, "<title>"))

	parsed, err := ExtractData([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, page.Data, parsed)
}

func TestDashboard_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Dashboard(testPage()).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestExtractData_Errors(t *testing.T) {
	_, err := ExtractData([]byte("<html><body>nothing</body></html>"))
	assert.Error(t, err)

	_, err = ExtractData([]byte(`<script id="dashboard-data" type="application/json">{not json</script>`))
	assert.Error(t, err)
}
