package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
)

func visit(client, service, tier, day string, hour int, revenue, cost, addons float64) dataset.Record {
	return dataset.Record{
		ClientID: client, Service: service, Membership: tier,
		Day: day, Hour: hour,
		Revenue: revenue, SessionCost: cost, Profit: revenue - cost, AddOnSales: addons,
	}
}

func table(records ...dataset.Record) (*dataset.Table, *metrics.Snapshot) {
	tbl := &dataset.Table{Name: "test", Records: records}
	snap := metrics.Compute(tbl)
	return tbl, &snap
}

func rules(list []Suggestion) []Rule {
	out := make([]Rule, 0, len(list))
	for _, s := range list {
		out = append(out, s.Rule)
	}
	return out
}

func find(list []Suggestion, r Rule) (Suggestion, bool) {
	for _, s := range list {
		if s.Rule == r {
			return s, true
		}
	}
	return Suggestion{}, false
}

// visitMix builds total visits where the high-margin service gets gem visits.
func visitMix(total, gem int) []dataset.Record {
	recs := make([]dataset.Record, 0, total)
	for i := 0; i < total-gem; i++ {
		recs = append(recs, visit("c", "Workout", dataset.TierStandard, "Monday", 9, 20, 10, 1))
	}
	for i := 0; i < gem; i++ {
		recs = append(recs, visit("c", "Personal Training", dataset.TierStandard, "Monday", 9, 100, 20, 1))
	}
	return recs
}

func TestGenerateEmptyTableIsInsufficientData(t *testing.T) {
	tbl, snap := table()
	got := Generate(tbl, snap, DefaultOptions())
	require.Len(t, got, 1)
	assert.Equal(t, RulePlaceholder, got[0].Rule)
	assert.Equal(t, InsufficientData, got[0].Text)

	got = Generate(nil, nil, DefaultOptions())
	require.Len(t, got, 1)
	assert.Equal(t, InsufficientData, got[0].Text)
}

func TestGenerateNoRuleFiredIsNoInsights(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{{}}}
	snap := metrics.Placeholder()
	got := Generate(tbl, &snap, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, NoInsights, got[0].Text)
}

func TestGenerateBaseRulesInOrder(t *testing.T) {
	tbl, snap := table(
		visit("1", "Yoga", dataset.TierPremium, dataset.DaySaturday, 9, 40, 10, 2),
		visit("2", "Zumba", dataset.TierStandard, dataset.DaySunday, 18, 10, 25, 0),
	)
	got := Generate(tbl, snap, Options{Thresholds: DefaultThresholds()})
	assert.Equal(t, []Rule{
		RuleTopDay, RuleTopService, RuleMostProfitable, RuleLeastProfitable,
		RulePremiumMembers, RulePeakHour, RuleWeekend, RuleLowAddons,
	}, rules(got))

	most, _ := find(got, RuleMostProfitable)
	assert.Contains(t, most.Text, "Yoga")
	assert.Contains(t, most.Text, "€30.00")

	least, _ := find(got, RuleLeastProfitable)
	assert.Contains(t, least.Text, "Zumba")
	assert.Contains(t, least.Text, "deficit of €15.00")

	peak, _ := find(got, RulePeakHour)
	assert.Contains(t, peak.Text, "09:00 - 10:00")

	weekend, _ := find(got, RuleWeekend)
	assert.True(t, strings.HasPrefix(weekend.Text, "Saturday"))

	low, _ := find(got, RuleLowAddons)
	assert.Contains(t, low.Text, "Zumba")
	assert.Contains(t, low.Text, "€0.00")
}

func TestGenerateLeastProfitablePositiveIsProfit(t *testing.T) {
	tbl, snap := table(visit("1", "Yoga", dataset.TierStandard, "Monday", 7, 30, 10, 0))
	got := Generate(tbl, snap, Options{})
	least, ok := find(got, RuleLeastProfitable)
	require.True(t, ok)
	assert.Contains(t, least.Text, "profit of €20.00")
	assert.NotContains(t, least.Text, "deficit")
}

func TestGenerateWeekendTieFavorsSaturday(t *testing.T) {
	tbl, snap := table(
		visit("1", "Yoga", dataset.TierStandard, dataset.DaySunday, 10, 50, 10, 0),
		visit("2", "Yoga", dataset.TierStandard, dataset.DaySaturday, 10, 50, 10, 0),
	)
	weekend, ok := find(Generate(tbl, snap, Options{}), RuleWeekend)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(weekend.Text, "Saturday"))

	tbl, snap = table(visit("1", "Yoga", dataset.TierStandard, dataset.DaySunday, 10, 50, 10, 0))
	weekend, _ = find(Generate(tbl, snap, Options{}), RuleWeekend)
	assert.True(t, strings.HasPrefix(weekend.Text, "Sunday"))

	tbl, snap = table(visit("1", "Yoga", dataset.TierStandard, "Monday", 10, 50, 10, 0))
	_, ok = find(Generate(tbl, snap, Options{}), RuleWeekend)
	assert.False(t, ok)
}

func TestGenerateHiddenGemThreshold(t *testing.T) {
	tbl, snap := table(visitMix(100, 5)...)
	require.Equal(t, "Personal Training", snap.MostProfitableService)
	gem, ok := find(Generate(tbl, snap, DefaultOptions()), RuleHiddenGem)
	require.True(t, ok)
	assert.Contains(t, gem.Text, "5% of visits")

	tbl, snap = table(visitMix(100, 15)...)
	_, ok = find(Generate(tbl, snap, DefaultOptions()), RuleHiddenGem)
	assert.False(t, ok)

	opt := DefaultOptions()
	opt.Thresholds.UnderusedVisitShare = 0.20
	_, ok = find(Generate(tbl, snap, opt), RuleHiddenGem)
	assert.True(t, ok)
}

func TestGenerateMembershipMix(t *testing.T) {
	tests := []struct {
		name     string
		premium  float64
		standard float64
		payg     float64
		want     string
	}{
		{"premium above standard upsells", 500, 300, 0, "Premium Powerhouse"},
		{"premium equal to standard upsells", 300, 300, 0, "Premium Powerhouse"},
		{"large pay-as-you-go converts", 100, 300, 100, "Convert Pay-As-You-Go"},
		{"small pay-as-you-go stays quiet", 100, 300, 50, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := []dataset.Record{
				visit("1", "Yoga", dataset.TierPremium, "Monday", 9, tt.premium, 0, 0),
				visit("2", "Yoga", dataset.TierStandard, "Monday", 9, tt.standard, 0, 0),
			}
			if tt.payg > 0 {
				recs = append(recs, visit("3", "Yoga", dataset.TierPayAsYouGo, "Monday", 9, tt.payg, 0, 0))
			}
			tbl, snap := table(recs...)
			mix, ok := find(Generate(tbl, snap, DefaultOptions()), RuleMembershipMix)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, mix.Title)
		})
	}
}

func TestGenerateMembershipMixNeedsBothTiers(t *testing.T) {
	tbl, snap := table(
		visit("1", "Yoga", dataset.TierPremium, "Monday", 9, 500, 0, 0),
		visit("3", "Yoga", dataset.TierPayAsYouGo, "Monday", 9, 400, 0, 0),
	)
	_, ok := find(Generate(tbl, snap, DefaultOptions()), RuleMembershipMix)
	assert.False(t, ok)
}

func TestGenerateClientChampion(t *testing.T) {
	tbl, snap := table(
		visit("1", "Yoga", dataset.TierStandard, "Monday", 9, 10, 0, 0),
		visit("1", "Yoga", dataset.TierStandard, "Monday", 9, 10, 0, 0),
		visit("2", "Spin", dataset.TierStandard, "Monday", 9, 10, 0, 0),
		visit("3", "Spin", dataset.TierStandard, "Monday", 9, 10, 0, 0),
	)
	champ, ok := find(Generate(tbl, snap, DefaultOptions()), RuleClientChampion)
	require.True(t, ok)
	assert.Contains(t, champ.Text, "Spin attracts")
	assert.Contains(t, champ.Text, "(2)")

	_, ok = find(Generate(tbl, snap, Options{}), RuleClientChampion)
	assert.False(t, ok)
}

func TestGenerateLengthBounds(t *testing.T) {
	recs := visitMix(100, 5)
	recs = append(recs,
		visit("p", "Yoga", dataset.TierPremium, dataset.DaySaturday, 18, 5000, 0, 0),
	)
	tbl, snap := table(recs...)
	got := Generate(tbl, snap, DefaultOptions())
	assert.GreaterOrEqual(t, len(got), 1)
	assert.LessOrEqual(t, len(got), MaxSuggestions)
}

func TestHourRangeWrapsMidnight(t *testing.T) {
	assert.Equal(t, "07:00 - 08:00", HourRange(7))
	assert.Equal(t, "23:00 - 00:00", HourRange(23))
}

func TestRuleMarshalsAsName(t *testing.T) {
	b, err := RuleHiddenGem.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hidden_gem", string(b))
	assert.Equal(t, "rule(42)", Rule(42).String())
}
