// Package report renders a processed studio table: headline KPIs, the four
// dashboard chart projections, a Markdown report for the CLI and the HTML
// dashboard served over HTTP.
package report

import (
	"sort"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
)

// Revenue source labels of the revenue breakdown chart.
const (
	SourceMembership  = "Membership Revenue"
	SourceAddOns      = "Add-on Sales"
	SourceSupplements = "Supplements"
)

// Bar is one labelled value of a bar or pie chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Heatmap is the visit count pivot: one row per hour present, one column per
// weekday, Monday first. Missing combinations are zero.
type Heatmap struct {
	Days  []string `json:"days"`
	Hours []int    `json:"hours"`
	Cells [][]int  `json:"cells"`
	Max   int      `json:"max"`
}

// Charts holds the dashboard's view projections. They are derived from the
// table alone and do not depend on the metrics snapshot.
type Charts struct {
	ServiceVisits   []Bar   `json:"service_visits"`
	Heatmap         Heatmap `json:"heatmap"`
	RevenueSources  []Bar   `json:"revenue_sources"`
	ProfitByService []Bar   `json:"profit_by_service"`
}

// Build computes every chart dataset for tbl.
func Build(tbl *dataset.Table) Charts {
	return Charts{
		ServiceVisits:   ServiceVisits(tbl),
		Heatmap:         VisitHeatmap(tbl),
		RevenueSources:  RevenueSources(tbl),
		ProfitByService: ProfitByService(tbl),
	}
}

// ServiceVisits counts visits per service, most visited first.
func ServiceVisits(tbl *dataset.Table) []Bar {
	g := metrics.NewGroups()
	if tbl != nil {
		for _, r := range tbl.Records {
			g.Add(r.Service, 1)
		}
	}
	return sortedDesc(g, func(k string) float64 { return float64(g.Count(k)) })
}

// ProfitByService is the mean profit per session for each service, highest first.
func ProfitByService(tbl *dataset.Table) []Bar {
	g := metrics.NewGroups()
	if tbl != nil {
		for _, r := range tbl.Records {
			g.Add(r.Service, r.Profit)
		}
	}
	return sortedDesc(g, g.Mean)
}

// RevenueSources totals membership revenue, add-on sales and supplements.
func RevenueSources(tbl *dataset.Table) []Bar {
	var rev, addons, supp float64
	if tbl != nil {
		for _, r := range tbl.Records {
			rev += r.Revenue
			addons += r.AddOnSales
			supp += r.Supplements
		}
	}
	return []Bar{
		{Label: SourceMembership, Value: rev},
		{Label: SourceAddOns, Value: addons},
		{Label: SourceSupplements, Value: supp},
	}
}

// VisitHeatmap pivots visit counts by hour and weekday.
func VisitHeatmap(tbl *dataset.Table) Heatmap {
	h := Heatmap{Days: append([]string(nil), dataset.Weekdays...)}
	col := make(map[string]int, len(dataset.Weekdays))
	for i, d := range dataset.Weekdays {
		col[d] = i
	}
	counts := map[int][]int{}
	if tbl != nil {
		for _, r := range tbl.Records {
			c, ok := col[r.Day]
			if !ok {
				continue
			}
			row := counts[r.Hour]
			if row == nil {
				row = make([]int, len(dataset.Weekdays))
				counts[r.Hour] = row
			}
			row[c]++
		}
	}
	for hour := range counts {
		h.Hours = append(h.Hours, hour)
	}
	sort.Ints(h.Hours)
	h.Cells = make([][]int, len(h.Hours))
	for i, hour := range h.Hours {
		h.Cells[i] = counts[hour]
		for _, v := range counts[hour] {
			if v > h.Max {
				h.Max = v
			}
		}
	}
	return h
}

// sortedDesc orders groups by value, keeping first-seen order among equals.
func sortedDesc(g *metrics.Groups, value func(string) float64) []Bar {
	keys := g.Keys()
	out := make([]Bar, len(keys))
	for i, k := range keys {
		out[i] = Bar{Label: k, Value: value(k)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
