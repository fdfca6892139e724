// Package demo synthesizes studio visit data in the dashboard's schema: the
// one-row download template and a month of randomized but plausible visits.
package demo

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
)

// Opening hours of the generated studio, [OpenHour, CloseHour).
const (
	OpenHour  = 6
	CloseHour = 22
)

// DefaultDays is the span of a generated demo workbook.
const DefaultDays = 30

// Services offered by the demo studio.
var Services = []string{"Workout", "Yoga", "CrossFit", "Zumba", "Personal Training", "Pilates"}

var (
	serviceWeights    = []int{70, 8, 8, 4, 6, 4}
	tiers             = []string{dataset.TierStandard, dataset.TierPremium, dataset.TierPayAsYouGo}
	tierWeights       = []int{6, 3, 1}
	addOnValues       = []float64{0, 3, 5, 8}
	addOnWeights      = []int{55, 20, 15, 10}
	supplementValues  = []float64{0, 2, 4, 6}
	supplementWeights = []int{60, 25, 10, 5}
)

// band is a visitor range for hours in [from, to).
type band struct{ from, to, min, max int }

var (
	weekdayBands  = []band{{6, 7, 5, 15}, {7, 10, 60, 80}, {10, 13, 25, 40}, {13, 17, 40, 60}, {17, 20, 70, 95}, {20, 24, 25, 45}}
	saturdayBands = []band{{6, 8, 5, 15}, {8, 12, 45, 70}, {12, 17, 50, 75}, {17, 19, 15, 30}, {19, 24, 3, 10}}
	sundayBands   = []band{{6, 8, 5, 10}, {8, 13, 55, 80}, {13, 18, 45, 65}, {18, 20, 20, 35}, {20, 24, 10, 20}}
)

// Options controls Generate.
type Options struct {
	// Days is the number of consecutive days to synthesize; <= 0 means DefaultDays.
	Days int
	// Start is the first day. Only its date and location are used.
	Start time.Time
	// Progress, when set, is called after each generated day.
	Progress func(day, total int)
}

// Template returns the exemplar row shipped in the download template.
func Template(now time.Time) dataset.Record {
	now = now.Truncate(time.Second)
	return dataset.Record{
		Date:        now,
		ClientID:    "1234",
		Service:     "Workout",
		Revenue:     30,
		Membership:  dataset.TierStandard,
		AddOnSales:  5,
		Supplements: 3,
		SessionCost: 7.5,
		Profit:      22.5,
		Day:         now.Weekday().String(),
		Hour:        now.Hour(),
	}
}

// Generate builds opt.Days of visits starting at opt.Start, using rng for every
// random choice so a seeded source reproduces the same data.
func Generate(rng *rand.Rand, opt Options) []dataset.Record {
	days := opt.Days
	if days <= 0 {
		days = DefaultDays
	}
	start := opt.Start
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, -days)
	}
	y, m, d := start.Date()
	loc := start.Location()

	var out []dataset.Record
	for i := 0; i < days; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		bands := weekdayBands
		switch day.Weekday() {
		case time.Saturday:
			bands = saturdayBands
		case time.Sunday:
			bands = sundayBands
		}
		for hour := OpenHour; hour < CloseHour; hour++ {
			ts := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
			for n := visitors(rng, bands, hour); n > 0; n-- {
				out = append(out, visit(rng, ts))
			}
		}
		if opt.Progress != nil {
			opt.Progress(i+1, days)
		}
	}
	return out
}

func visitors(rng *rand.Rand, bands []band, hour int) int {
	for _, b := range bands {
		if hour >= b.from && hour < b.to {
			return randInt(rng, b.min, b.max)
		}
	}
	return 0
}

func visit(rng *rand.Rand, ts time.Time) dataset.Record {
	service := Services[weighted(rng, serviceWeights)]
	tier := tiers[weighted(rng, tierWeights)]

	var revenue float64
	switch {
	case service == "Personal Training":
		revenue = cents(uniform(rng, 60, 85))
	case tier == dataset.TierStandard:
		revenue = 30
	case tier == dataset.TierPremium:
		revenue = 45
	default:
		revenue = 18
	}

	var cost float64
	switch service {
	case "Personal Training":
		cost = uniform(rng, 25, 40)
	case "CrossFit":
		cost = uniform(rng, 15, 25)
	case "Yoga", "Zumba", "Pilates":
		cost = uniform(rng, 10, 18)
	case "Workout":
		cost = uniform(rng, 5, 10)
	default:
		cost = uniform(rng, 8, 15)
	}

	return dataset.Record{
		Date:        ts,
		ClientID:    strconv.Itoa(randInt(rng, 1000, 3000)),
		Service:     service,
		Revenue:     revenue,
		Membership:  tier,
		AddOnSales:  addOnValues[weighted(rng, addOnWeights)],
		Supplements: supplementValues[weighted(rng, supplementWeights)],
		SessionCost: cents(cost),
		Profit:      cents(revenue - cost),
		Day:         ts.Weekday().String(),
		Hour:        ts.Hour(),
	}
}

// weighted returns an index into weights with probability proportional to its weight.
func weighted(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// randInt is inclusive on both ends.
func randInt(rng *rand.Rand, lo, hi int) int { return lo + rng.Intn(hi-lo+1) }

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

func cents(v float64) float64 { return math.Round(v*100) / 100 }

// TemplateWorkbook returns the template as xlsx bytes.
func TemplateWorkbook(now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := dataset.WriteXLSX(&buf, []dataset.Record{Template(now)}); err != nil {
		return nil, fmt.Errorf("template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Workbook generates demo visits and returns them as xlsx bytes.
func Workbook(rng *rand.Rand, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := dataset.WriteXLSX(&buf, Generate(rng, opt)); err != nil {
		return nil, fmt.Errorf("demo workbook: %w", err)
	}
	return buf.Bytes(), nil
}
