// Package suggest maps a metrics snapshot onto canned, template-based insight
// sentences. Every rule is independent; the order of the rules is the order of
// the returned list.
package suggest

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
)

// Rule identifies the condition that produced a suggestion.
type Rule int

const (
	RulePlaceholder Rule = iota
	RuleTopDay
	RuleTopService
	RuleMostProfitable
	RuleLeastProfitable
	RulePremiumMembers
	RulePeakHour
	RuleWeekend
	RuleLowAddons
	RuleClientChampion
	RuleHiddenGem
	RuleMembershipMix
)

var ruleNames = map[Rule]string{
	RulePlaceholder:     "placeholder",
	RuleTopDay:          "top_day",
	RuleTopService:      "top_service",
	RuleMostProfitable:  "most_profitable",
	RuleLeastProfitable: "least_profitable",
	RulePremiumMembers:  "premium_members",
	RulePeakHour:        "peak_hour",
	RuleWeekend:         "weekend",
	RuleLowAddons:       "low_addons",
	RuleClientChampion:  "client_champion",
	RuleHiddenGem:       "hidden_gem",
	RuleMembershipMix:   "membership_mix",
}

func (r Rule) String() string {
	if s, ok := ruleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// MarshalText renders the rule name in JSON output.
func (r Rule) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Suggestion is one insight sentence.
type Suggestion struct {
	Rule  Rule   `json:"rule"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Placeholder texts. InsufficientData is used when there is nothing to analyze;
// NoInsights when data exists but no rule fired.
const (
	InsufficientData = "No specific insights available at this moment. Data might be insufficient or processing failed."
	NoInsights       = "Analyzing data... More insights will appear as data volume increases."
)

// MaxSuggestions is the number of rules; Generate never returns more.
const MaxSuggestions = 11

// Thresholds are the tunable cut-offs of the extended rules.
type Thresholds struct {
	// UnderusedVisitShare flags the most profitable service when its share of
	// visits is below this fraction.
	UnderusedVisitShare float64 `mapstructure:"underused_visit_share" yaml:"underused_visit_share"`
	// PayAsYouGoShare suggests conversion when pay-as-you-go revenue exceeds this
	// fraction of Standard plus Premium revenue.
	PayAsYouGoShare float64 `mapstructure:"payg_share" yaml:"payg_share"`
}

// DefaultThresholds returns the 10% visit share and 20% pay-as-you-go cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{UnderusedVisitShare: 0.10, PayAsYouGoShare: 0.20}
}

// Options controls which rules run.
type Options struct {
	// Extended enables the client champion, hidden gem and membership mix rules.
	Extended   bool
	Thresholds Thresholds
}

// DefaultOptions enables every rule with the default thresholds.
func DefaultOptions() Options {
	return Options{Extended: true, Thresholds: DefaultThresholds()}
}

// Generate evaluates the rules in order. The result is never empty.
func Generate(tbl *dataset.Table, snap *metrics.Snapshot, opt Options) []Suggestion {
	if snap == nil || tbl.Empty() {
		return []Suggestion{{Rule: RulePlaceholder, Title: "Insights", Text: InsufficientData}}
	}
	s := *snap
	var out []Suggestion
	add := func(r Rule, title, format string, args ...any) {
		out = append(out, Suggestion{Rule: r, Title: title, Text: fmt.Sprintf(format, args...)})
	}

	if s.TopDay != metrics.NA {
		add(RuleTopDay, "Peak Performance Day",
			"%s consistently drives your maximum revenue. Amplifying marketing initiatives or exclusive promotions leading into %s could unlock further growth.",
			s.TopDay, s.TopDay)
	}
	if s.TopServiceRevenue != metrics.NA {
		add(RuleTopService, "Core Revenue Engine",
			"%s is a primary driver of your income. Elevating its visibility and refining the customer journey here promises substantial returns.",
			s.TopServiceRevenue)
	}
	if s.MostProfitableService != metrics.NA {
		add(RuleMostProfitable, "Prime Profit Asset",
			"%s is your top earner, averaging %s profit per session. Targeted campaigns can channel more clients towards this high-margin offering.",
			s.MostProfitableService, euro(s.AvgProfitMostProfitable))
	}
	if s.LeastProfitableService != metrics.NA {
		profit := "a modest average profit of " + euro(s.AvgProfitLeastProfitable)
		if s.AvgProfitLeastProfitable < 0 {
			profit = "an average deficit of " + euro(math.Abs(s.AvgProfitLeastProfitable))
		}
		add(RuleLeastProfitable, "Profitability Review Needed",
			"%s runs %s per session. Review its cost structure, its pricing, or its role as a gateway to other offerings.",
			s.LeastProfitableService, profit)
	}
	if s.PremiumMembers > 0 {
		add(RulePremiumMembers, "Elite Member Focus",
			"Your %d premium members represent significant value. Bespoke benefits and personalized engagement can amplify loyalty and lifetime value.",
			s.PremiumMembers)
	}
	if h, ok := s.PeakHourValue(); ok {
		add(RulePeakHour, "Golden Hour Optimization",
			"%s is your highest-traffic window. Make sure staffing and equipment are at full readiness during this hour.",
			HourRange(h))
	}
	if s.SaturdayRevenue > 0 || s.SundayRevenue > 0 {
		busier, quieter := dataset.DaySaturday, dataset.DaySunday
		if s.SundayRevenue > s.SaturdayRevenue {
			busier, quieter = quieter, busier
		}
		add(RuleWeekend, "Weekend Dynamics",
			"%s currently shows stronger revenue. Consider testing a dedicated offer for %s or building on %s's momentum with enhanced experiences.",
			busier, quieter, busier)
	}
	if s.ServiceLowAddons != metrics.NA {
		add(RuleLowAddons, "Boost Add-on Sales",
			"Clients of %s average only %s in add-on sales per visit. Bundling, staff upselling incentives or better product visibility could lift this.",
			s.ServiceLowAddons, euro(s.LowestAddonAvg))
	}
	if opt.Extended {
		out = append(out, extended(tbl, s, opt.Thresholds)...)
	}
	if len(out) == 0 {
		return []Suggestion{{Rule: RulePlaceholder, Title: "Insights", Text: NoInsights}}
	}
	return out
}

func extended(tbl *dataset.Table, s metrics.Snapshot, th Thresholds) []Suggestion {
	var out []Suggestion
	clients := metrics.NewGroups()
	membership := metrics.NewGroups()
	visits := metrics.NewGroups()
	for _, r := range tbl.Records {
		clients.AddMember(r.Service, r.ClientID)
		membership.Add(r.Membership, r.Revenue)
		visits.Add(r.Service, 1)
	}

	if svc, n, ok := clients.ArgMax(func(k string) float64 { return float64(clients.Distinct(k)) }); ok {
		out = append(out, Suggestion{
			Rule:  RuleClientChampion,
			Title: "Client Engagement Champion",
			Text: fmt.Sprintf("%s attracts the highest number of unique clients (%d). Find what makes it appealing and carry those factors into other offerings.",
				svc, int(n)),
		})
	}

	if s.MostProfitableService != metrics.NA && tbl.Len() > 0 {
		share := float64(visits.Count(s.MostProfitableService)) / float64(tbl.Len())
		if share < th.UnderusedVisitShare {
			out = append(out, Suggestion{
				Rule:  RuleHiddenGem,
				Title: "Hidden Gem Alert",
				Text: fmt.Sprintf("%s is your most profitable service (avg. %s profit/session) but accounts for only %.0f%% of visits. Promotions or bundles could raise its uptake.",
					s.MostProfitableService, euro(s.AvgProfitMostProfitable), share*100),
			})
		}
	}

	if membership.Has(dataset.TierPremium) && membership.Has(dataset.TierStandard) {
		premium := membership.Sum(dataset.TierPremium)
		standard := membership.Sum(dataset.TierStandard)
		payg := membership.Sum(dataset.TierPayAsYouGo)
		switch {
		case premium >= standard:
			out = append(out, Suggestion{
				Rule:  RuleMembershipMix,
				Title: "Premium Powerhouse",
				Text:  "Premium members generate at least as much revenue as Standard members. Focus on upselling Standard members to Premium and enrich the top-tier offer.",
			})
		case payg > 0 && payg > th.PayAsYouGoShare*(standard+premium):
			out = append(out, Suggestion{
				Rule:  RuleMembershipMix,
				Title: "Convert Pay-As-You-Go",
				Text:  "A significant share of revenue comes from pay-as-you-go clients. Converting them to Standard or Premium memberships makes revenue more predictable.",
			})
		}
	}
	return out
}

// HourRange formats h as a zero-padded [h, h+1) window on the 24-hour clock.
func HourRange(h int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", h, (h+1)%24)
}

func euro(v float64) string { return fmt.Sprintf("€%.2f", v) }
