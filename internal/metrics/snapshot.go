// Package metrics turns a loaded sheet into typed records and the fixed set of
// studio aggregates the dashboard and the suggestion rules are built on.
package metrics

import (
	"strconv"
	"time"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
)

// NA is the name placeholder for aggregates computed over zero rows.
const NA = "N/A"

// Snapshot is the immutable set of aggregates computed once per table.
type Snapshot struct {
	TopDay                   string  `json:"top_day"`
	TopServiceRevenue        string  `json:"top_service_revenue"`
	MostProfitableService    string  `json:"most_profitable_service"`
	AvgProfitMostProfitable  float64 `json:"avg_profit_most_profitable"`
	LeastProfitableService   string  `json:"least_profitable_service"`
	AvgProfitLeastProfitable float64 `json:"avg_profit_least_profitable"`
	PremiumMembers           int     `json:"premium_members"`
	PeakHour                 *int    `json:"peak_hour_overall"`
	SaturdayRevenue          float64 `json:"saturday_revenue"`
	SundayRevenue            float64 `json:"sunday_revenue"`
	ServiceLowAddons         string  `json:"service_low_addons"`
	LowestAddonAvg           float64 `json:"lowest_addon_avg"`
}

// Placeholder is the snapshot of an empty table.
func Placeholder() Snapshot {
	return Snapshot{
		TopDay:                 NA,
		TopServiceRevenue:      NA,
		MostProfitableService:  NA,
		LeastProfitableService: NA,
		ServiceLowAddons:       NA,
	}
}

// PeakHourValue unwraps PeakHour.
func (s Snapshot) PeakHourValue() (int, bool) {
	if s.PeakHour == nil {
		return 0, false
	}
	return *s.PeakHour, true
}

// Compute derives the snapshot from a normalized table.
func Compute(tbl *dataset.Table) Snapshot {
	if tbl.Empty() {
		return Placeholder()
	}
	revenueByDay := NewGroups()
	revenueByService := NewGroups()
	profitByService := NewGroups()
	addonsByService := NewGroups()
	visitsByHour := NewGroups()
	premium := map[string]struct{}{}
	var saturday, sunday float64
	for _, r := range tbl.Records {
		revenueByDay.Add(r.Day, r.Revenue)
		revenueByService.Add(r.Service, r.Revenue)
		profitByService.Add(r.Service, r.Profit)
		addonsByService.Add(r.Service, r.AddOnSales)
		visitsByHour.Add(strconv.Itoa(r.Hour), 1)
		if r.Membership == dataset.TierPremium {
			premium[r.ClientID] = struct{}{}
		}
		switch r.Day {
		case dataset.DaySaturday:
			saturday += r.Revenue
		case dataset.DaySunday:
			sunday += r.Revenue
		}
	}

	s := Placeholder()
	s.TopDay, _, _ = revenueByDay.ArgMax(revenueByDay.Sum)
	s.TopServiceRevenue, _, _ = revenueByService.ArgMax(revenueByService.Sum)
	s.MostProfitableService, s.AvgProfitMostProfitable, _ = profitByService.ArgMax(profitByService.Mean)
	s.LeastProfitableService, s.AvgProfitLeastProfitable, _ = profitByService.ArgMin(profitByService.Mean)
	s.PremiumMembers = len(premium)
	if key, _, ok := visitsByHour.ArgMax(func(k string) float64 { return float64(visitsByHour.Count(k)) }); ok {
		h, _ := strconv.Atoi(key)
		s.PeakHour = &h
	}
	s.SaturdayRevenue = saturday
	s.SundayRevenue = sunday
	// Add-on revenue per visit is the group mean.
	s.ServiceLowAddons, s.LowestAddonAvg, _ = addonsByService.ArgMin(addonsByService.Mean)
	return s
}

// Process normalizes the raw sheet and computes its snapshot. Any failure is a
// *ProcessingError and no partial snapshot is returned.
func Process(raw *dataset.Raw, loc *time.Location) (*dataset.Table, Snapshot, error) {
	tbl, err := Normalize(raw, loc)
	if err != nil {
		return nil, Snapshot{}, err
	}
	return tbl, Compute(tbl), nil
}
