package dataset

import (
	"regexp"
	"strings"
	"time"
)

// Canonical column names of a studio visit sheet.
const (
	ColDate        = "Date"
	ColClientID    = "Client ID"
	ColService     = "Service"
	ColRevenue     = "Revenue"
	ColMembership  = "Membership Type"
	ColAddOnSales  = "Add-on Sales (€)"
	ColSupplements = "Supplements (€)"
	ColSessionCost = "Session Cost (€)"
	ColProfit      = "Profit (€)"
)

// Membership tiers known to the studio. Other values are kept as-is.
const (
	TierStandard   = "Standard"
	TierPremium    = "Premium"
	TierPayAsYouGo = "Pay-as-you-go"
	DaySaturday    = "Saturday"
	DaySunday      = "Sunday"
)

// Columns lists the full schema in sheet order.
var Columns = []string{
	ColDate, ColClientID, ColService, ColRevenue, ColMembership,
	ColAddOnSales, ColSupplements, ColSessionCost, ColProfit,
}

// Required lists the columns a sheet must carry. Profit is backfilled when absent.
var Required = []string{
	ColDate, ColClientID, ColService, ColRevenue, ColMembership,
	ColAddOnSales, ColSupplements, ColSessionCost,
}

// Weekdays in dashboard column order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Record is one visit row after normalization.
type Record struct {
	Date        time.Time `json:"date"`
	ClientID    string    `json:"client_id"`
	Service     string    `json:"service"`
	Revenue     float64   `json:"revenue"`
	Membership  string    `json:"membership_type"`
	AddOnSales  float64   `json:"addon_sales"`
	Supplements float64   `json:"supplements"`
	SessionCost float64   `json:"session_cost"`
	Profit      float64   `json:"profit"`
	// Derived from Date in the table's location.
	Day  string `json:"day"`
	Hour int    `json:"hour"`
}

// Table is an ordered set of normalized records sharing one schema.
type Table struct {
	Name    string
	Records []Record
	// HasProfit reports whether profit came from the sheet rather than being backfilled.
	HasProfit bool
	Location  *time.Location
}

// Len is safe on a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table carries no records.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Raw is a loaded sheet before type conversion. Cells stay strings.
type Raw struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Has reports whether the canonical column is present in the header.
func (r *Raw) Has(col string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[col]
	return ok
}

// Cell returns the trimmed value of a canonical column for the given row.
func (r *Raw) Cell(row []string, col string) string {
	idx, ok := r.index[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Len returns the number of data rows.
func (r *Raw) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`),  // Add-on Sales (€)
	regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), // Add-on Sales [EUR]
}

// headerKey folds a header cell so that "add-on sales", "Add-on Sales (€)" and
// "ADD-ON SALES [EUR]" resolve to the same column.
func headerKey(name string) string {
	s := strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) >= 3 && strings.TrimSpace(m[1]) != "" {
			s = m[1]
			break
		}
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(Columns))
	for _, c := range Columns {
		m[headerKey(c)] = c
	}
	return m
}()

// resolveHeader maps header cells to canonical columns. Unknown columns are ignored;
// the first occurrence wins on duplicates.
func resolveHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		c, ok := canonicalByKey[headerKey(h)]
		if !ok {
			continue
		}
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

// CanonicalTier folds known membership tiers to their canonical spelling.
func CanonicalTier(s string) string {
	v := strings.TrimSpace(s)
	switch strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(v)) {
	case "standard":
		return TierStandard
	case "premium":
		return TierPremium
	case "payasyougo", "payg":
		return TierPayAsYouGo
	}
	return v
}
