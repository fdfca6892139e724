package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
)

// KPIs are the headline figures shown above the charts.
type KPIs struct {
	TotalRevenue  float64 `json:"total_revenue"`
	UniqueClients int     `json:"unique_clients"`
	Sessions      int     `json:"sessions"`
}

// ComputeKPIs sums revenue and counts distinct clients and sessions.
func ComputeKPIs(tbl *dataset.Table) KPIs {
	if tbl.Empty() {
		return KPIs{}
	}
	k := KPIs{Sessions: tbl.Len()}
	clients := make(map[string]struct{}, tbl.Len())
	for _, r := range tbl.Records {
		k.TotalRevenue += r.Revenue
		clients[r.ClientID] = struct{}{}
	}
	k.UniqueClients = len(clients)
	return k
}

var printer = message.NewPrinter(language.English)

// Euro formats v with thousands separators and two decimals, e.g. €12,345.60.
func Euro(v float64) string {
	if v < 0 {
		return printer.Sprintf("-€%.2f", -v)
	}
	return printer.Sprintf("€%.2f", v)
}

// Count formats n with thousands separators.
func Count(n int) string { return printer.Sprintf("%d", n) }
