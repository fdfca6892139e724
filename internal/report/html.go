package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"euro":      Euro,
	"count":     Count,
	"heat":      heatStyle,
	"shortDay":  func(d string) string { return d[:3] },
	"hourRange": suggest.HourRange,
}).Parse(dashboardHTML))

// Page is the view model of one dashboard render.
type Page struct {
	// Doc is nil when no data is loaded or processing failed.
	Doc *Document
	// Current is the suggestion on screen; Position is its 1-based index.
	Current  *suggest.Suggestion
	Position int
	// Message is informational; Error replaces the data sections.
	Message string
	Error   string
	HasDemo bool
	// Charts lists the chart page names to embed.
	Charts []ChartName
}

// RenderHTML writes the full dashboard page. It renders whatever part of the page
// is available: title and message always, data sections only with a document.
func RenderHTML(w io.Writer, p Page) error {
	if p.Doc != nil && p.Charts == nil {
		p.Charts = ChartNames
	}
	if err := dashboardTmpl.Execute(w, struct {
		Page
		Title, Subtitle string
	}{p, Title, Subtitle}); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// heatStyle blends from the light to the dark end of a blue-green scale.
func heatStyle(v, max int) template.CSS {
	lo := [3]float64{247, 252, 253}
	hi := [3]float64{0, 68, 27}
	t := 0.0
	if max > 0 {
		t = float64(v) / float64(max)
	}
	var c [3]int
	for i := range c {
		c[i] = int(lo[i] + (hi[i]-lo[i])*t + 0.5)
	}
	fg := "#1b1b1b"
	if t > 0.55 {
		fg = "#ffffff"
	}
	return template.CSS(fmt.Sprintf("background-color:#%02x%02x%02x;color:%s", c[0], c[1], c[2], fg))
}
