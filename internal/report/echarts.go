package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartName selects one of the echarts pages embedded in the dashboard.
type ChartName string

const (
	ChartServices ChartName = "services"
	ChartRevenue  ChartName = "revenue"
	ChartProfit   ChartName = "profit"
)

// ChartNames lists the chart pages in dashboard order.
var ChartNames = []ChartName{ChartServices, ChartRevenue, ChartProfit}

// ErrUnknownChart is returned by RenderChart for names outside ChartNames.
var ErrUnknownChart = errors.New("unknown chart")

// ParseChartName validates a chart name from a URL.
func ParseChartName(s string) (ChartName, error) {
	for _, n := range ChartNames {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownChart, s)
}

// RenderChart writes a standalone echarts page for the named chart.
func RenderChart(w io.Writer, name ChartName, c Charts) error {
	var r interface{ Render(io.Writer) error }
	switch name {
	case ChartServices:
		r = barChart("Service Popularity", "Visits", c.ServiceVisits)
	case ChartRevenue:
		r = pieChart("Revenue Sources", c.RevenueSources)
	case ChartProfit:
		r = barChart("Average Profit Per Service Session", "Profit (€)", c.ProfitByService)
	default:
		return fmt.Errorf("%w %q", ErrUnknownChart, name)
	}
	if err := r.Render(w); err != nil {
		return fmt.Errorf("render %s chart: %w", name, err)
	}
	return nil
}

func initOpts(title string) echarts.GlobalOpts {
	return echarts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "100%",
		Height:    "400px",
	})
}

func barChart(title, series string, bars []Bar) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		echarts.WithTitleOpts(opts.Title{Title: title}),
	)
	labels := make([]string, len(bars))
	items := make([]opts.BarData, len(bars))
	for i, b := range bars {
		labels[i] = b.Label
		items[i] = opts.BarData{Name: b.Label, Value: round2(b.Value)}
	}
	bar.SetXAxis(labels).AddSeries(series, items)
	return bar
}

func pieChart(title string, bars []Bar) *echarts.Pie {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		initOpts(title),
		echarts.WithTitleOpts(opts.Title{Title: title}),
	)
	items := make([]opts.PieData, len(bars))
	for i, b := range bars {
		items[i] = opts.PieData{Name: b.Label, Value: round2(b.Value)}
	}
	pie.AddSeries("Total (€)", items)
	return pie
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
