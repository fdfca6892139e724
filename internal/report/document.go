package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

// Title and subtitle of every rendered report.
const (
	Title    = "Gym Dashboard"
	Subtitle = "Local Business Intelligence for Fitness Studios"
)

// Document is everything one render pass shows.
type Document struct {
	Source      string               `json:"source,omitempty"`
	Rows        int                  `json:"rows"`
	HasProfit   bool                 `json:"has_profit_column"`
	KPIs        KPIs                 `json:"kpis"`
	Snapshot    metrics.Snapshot     `json:"metrics"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Charts      Charts               `json:"charts"`
}

// NewDocument assembles a document from a processed table.
func NewDocument(tbl *dataset.Table, snap metrics.Snapshot, suggestions []suggest.Suggestion) *Document {
	d := &Document{
		KPIs:        ComputeKPIs(tbl),
		Snapshot:    snap,
		Suggestions: suggestions,
		Charts:      Build(tbl),
	}
	if tbl != nil {
		d.Source = tbl.Name
		d.Rows = tbl.Len()
		d.HasProfit = tbl.HasProfit
	}
	return d
}

// Markdown renders the document as a sectioned plain-text report.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n%s\n\n", Title, Subtitle))

	b.WriteString("[DATASET]\n")
	if d.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	if !d.HasProfit && d.Rows > 0 {
		b.WriteString("Profit: derived as revenue minus session cost\n")
	}

	b.WriteString("\n[KPIS]\n")
	b.WriteString(fmt.Sprintf("- Total revenue: %s\n", Euro(d.KPIs.TotalRevenue)))
	b.WriteString(fmt.Sprintf("- Unique clients: %s\n", Count(d.KPIs.UniqueClients)))
	b.WriteString(fmt.Sprintf("- Sessions: %s\n", Count(d.KPIs.Sessions)))

	s := d.Snapshot
	b.WriteString("\n[METRICS]\n")
	b.WriteString(fmt.Sprintf("- Top revenue day: %s\n", s.TopDay))
	b.WriteString(fmt.Sprintf("- Top revenue service: %s\n", s.TopServiceRevenue))
	b.WriteString(fmt.Sprintf("- Most profitable service: %s (%s/session)\n", s.MostProfitableService, Euro(s.AvgProfitMostProfitable)))
	b.WriteString(fmt.Sprintf("- Least profitable service: %s (%s/session)\n", s.LeastProfitableService, Euro(s.AvgProfitLeastProfitable)))
	b.WriteString(fmt.Sprintf("- Premium members: %d\n", s.PremiumMembers))
	if h, ok := s.PeakHourValue(); ok {
		b.WriteString(fmt.Sprintf("- Peak hour: %s\n", suggest.HourRange(h)))
	} else {
		b.WriteString(fmt.Sprintf("- Peak hour: %s\n", metrics.NA))
	}
	b.WriteString(fmt.Sprintf("- Weekend revenue: Saturday %s, Sunday %s\n", Euro(s.SaturdayRevenue), Euro(s.SundayRevenue)))
	b.WriteString(fmt.Sprintf("- Lowest add-ons per visit: %s (%s)\n", s.ServiceLowAddons, Euro(s.LowestAddonAvg)))

	b.WriteString("\n[SUGGESTIONS]\n")
	for i, sg := range d.Suggestions {
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, sg.Title, sg.Text))
	}

	if d.Rows == 0 {
		b.WriteString("\n[NOTES]\n- No data available to display charts.\n")
		return b.String()
	}

	b.WriteString("\n[SERVICE POPULARITY]\n")
	writeBars(&b, "Service", "Visits", d.Charts.ServiceVisits, func(v float64) string { return Count(int(v)) })

	b.WriteString("\n[HOURLY VISITS]\n")
	writeHeatmap(&b, d.Charts.Heatmap)

	b.WriteString("\n[REVENUE SOURCES]\n")
	writeBars(&b, "Type", "Total", d.Charts.RevenueSources, Euro)

	b.WriteString("\n[AVERAGE PROFIT PER SESSION]\n")
	writeBars(&b, "Service", "Profit", d.Charts.ProfitByService, Euro)
	return b.String()
}

func writeBars(b *strings.Builder, labelCol, valueCol string, bars []Bar, format func(float64) string) {
	b.WriteString(fmt.Sprintf("| %s | %s |\n| --- | ---: |\n", labelCol, valueCol))
	for _, bar := range bars {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", cell(bar.Label), format(bar.Value)))
	}
}

func writeHeatmap(b *strings.Builder, h Heatmap) {
	b.WriteString("| Hour |")
	for _, d := range h.Days {
		b.WriteString(" " + d[:3] + " |")
	}
	b.WriteString("\n| --- |")
	b.WriteString(strings.Repeat(" ---: |", len(h.Days)))
	b.WriteString("\n")
	for i, hour := range h.Hours {
		b.WriteString(fmt.Sprintf("| %02d |", hour))
		for _, v := range h.Cells[i] {
			b.WriteString(fmt.Sprintf(" %d |", v))
		}
		b.WriteString("\n")
	}
}

func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
