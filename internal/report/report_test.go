package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

func rec(client, service, day string, hour int, revenue, profit, addons, supp float64) dataset.Record {
	return dataset.Record{
		ClientID: client, Service: service, Day: day, Hour: hour,
		Revenue: revenue, Profit: profit, AddOnSales: addons, Supplements: supp,
		Membership: dataset.TierStandard,
	}
}

func sampleTable() *dataset.Table {
	return &dataset.Table{Name: "studio.xlsx", Records: []dataset.Record{
		rec("1", "Yoga", "Monday", 9, 30, 18, 5, 2),
		rec("2", "Spin", "Monday", 9, 30, 22, 0, 0),
		rec("1", "Spin", "Sunday", 17, 45, 30, 3, 4),
		rec("3", "Workout", "Sunday", 9, 1200, 1190, 0, 0),
		rec("4", "Yoga", "Friday", 17, 30, 10, 0, 0),
	}}
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	tbl := sampleTable()
	snap := metrics.Compute(tbl)
	return NewDocument(tbl, snap, suggest.Generate(tbl, &snap, suggest.DefaultOptions()))
}

func TestServiceVisitsDescendingWithFirstSeenTies(t *testing.T) {
	bars := ServiceVisits(sampleTable())
	assert.Equal(t, []Bar{{"Yoga", 2}, {"Spin", 2}, {"Workout", 1}}, bars)
}

func TestProfitByServiceDescending(t *testing.T) {
	bars := ProfitByService(sampleTable())
	require.Len(t, bars, 3)
	assert.Equal(t, "Workout", bars[0].Label)
	assert.Equal(t, "Spin", bars[1].Label)
	assert.InDelta(t, 26.0, bars[1].Value, 1e-9)
	assert.Equal(t, "Yoga", bars[2].Label)
	assert.InDelta(t, 14.0, bars[2].Value, 1e-9)
}

func TestRevenueSources(t *testing.T) {
	bars := RevenueSources(sampleTable())
	assert.Equal(t, []Bar{
		{SourceMembership, 1335},
		{SourceAddOns, 8},
		{SourceSupplements, 6},
	}, bars)
}

func TestVisitHeatmapFillsAllWeekdays(t *testing.T) {
	h := VisitHeatmap(sampleTable())
	assert.Equal(t, dataset.Weekdays, h.Days)
	assert.Equal(t, []int{9, 17}, h.Hours)
	require.Len(t, h.Cells, 2)
	for _, row := range h.Cells {
		assert.Len(t, row, 7)
	}
	assert.Equal(t, []int{2, 0, 0, 0, 0, 0, 1}, h.Cells[0])
	assert.Equal(t, []int{0, 0, 0, 0, 1, 0, 1}, h.Cells[1])
	assert.Equal(t, 2, h.Max)

	empty := VisitHeatmap(nil)
	assert.Len(t, empty.Days, 7)
	assert.Empty(t, empty.Hours)
	assert.Zero(t, empty.Max)
}

func TestKPIsAndFormatting(t *testing.T) {
	k := ComputeKPIs(sampleTable())
	assert.Equal(t, KPIs{TotalRevenue: 1335, UniqueClients: 4, Sessions: 5}, k)
	assert.Equal(t, KPIs{}, ComputeKPIs(nil))

	assert.Equal(t, "€1,335.00", Euro(1335))
	assert.Equal(t, "-€2.50", Euro(-2.5))
	assert.Equal(t, "12,345", Count(12345))
}

func TestMarkdownSections(t *testing.T) {
	md := sampleDocument(t).Markdown()
	for _, section := range []string{
		"# Gym Dashboard", "[DATASET]", "File: studio.xlsx", "[KPIS]", "[METRICS]", "[SUGGESTIONS]",
		"[SERVICE POPULARITY]", "[HOURLY VISITS]", "[REVENUE SOURCES]", "[AVERAGE PROFIT PER SESSION]",
	} {
		assert.Contains(t, md, section)
	}
	assert.Contains(t, md, "- Total revenue: €1,335.00")
	assert.Contains(t, md, "- Peak hour: 09:00 - 10:00")
	assert.Contains(t, md, "| 09 | 2 | 0 | 0 | 0 | 0 | 0 | 1 |")
	assert.Contains(t, md, "Profit: derived as revenue minus session cost")
}

func TestMarkdownEmptyTable(t *testing.T) {
	tbl := &dataset.Table{}
	snap := metrics.Compute(tbl)
	doc := NewDocument(tbl, snap, suggest.Generate(tbl, &snap, suggest.DefaultOptions()))
	md := doc.Markdown()
	assert.Contains(t, md, "- Top revenue day: N/A")
	assert.Contains(t, md, "- Peak hour: N/A")
	assert.Contains(t, md, suggest.InsufficientData)
	assert.Contains(t, md, "No data available to display charts.")
	assert.NotContains(t, md, "[SERVICE POPULARITY]")
}

func TestRenderHTMLWithDocument(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Page{Doc: doc, Current: &doc.Suggestions[0], Position: 1, HasDemo: true}))
	html := buf.String()
	assert.Contains(t, html, "<h1>Gym Dashboard</h1>")
	assert.Contains(t, html, "€1,335.00")
	assert.Contains(t, html, `src="/charts/services"`)
	assert.Contains(t, html, `src="/charts/profit"`)
	assert.Contains(t, html, "/demo.xlsx")
	assert.Contains(t, html, "Hourly Visits Heatmap")
	// The busiest cell is the darkest.
	assert.Contains(t, html, `style="background-color:#00441b;color:#ffffff"`)
	assert.Contains(t, html, "(1/")
}

func TestRenderHTMLAlwaysRendersOnError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Page{Error: `load "x.xlsx": not a valid spreadsheet`}))
	html := buf.String()
	assert.Contains(t, html, "<h1>Gym Dashboard</h1>")
	assert.Contains(t, html, "not a valid spreadsheet")
	assert.NotContains(t, html, "Total Revenue")
	assert.NotContains(t, html, "/demo.xlsx")
	assert.True(t, strings.Contains(html, "/template.xlsx"))
}

func TestHeatStyleScale(t *testing.T) {
	assert.Equal(t, "background-color:#f7fcfd;color:#1b1b1b", string(heatStyle(0, 10)))
	assert.Equal(t, "background-color:#00441b;color:#ffffff", string(heatStyle(10, 10)))
	assert.Equal(t, "background-color:#f7fcfd;color:#1b1b1b", string(heatStyle(0, 0)))
}

func TestRenderChart(t *testing.T) {
	c := Build(sampleTable())
	for _, name := range ChartNames {
		var buf bytes.Buffer
		require.NoError(t, RenderChart(&buf, name, c), name)
		assert.Contains(t, buf.String(), "echarts")
	}

	var buf bytes.Buffer
	err := RenderChart(&buf, "radar", c)
	assert.True(t, errors.Is(err, ErrUnknownChart))

	n, err := ParseChartName("revenue")
	require.NoError(t, err)
	assert.Equal(t, ChartRevenue, n)
	_, err = ParseChartName("nope")
	assert.ErrorIs(t, err, ErrUnknownChart)
}
