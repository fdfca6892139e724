package metrics

import (
	"errors"
	"time"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
)

var (
	errBadTimestamp = errors.New("unparsable timestamp")
	errNotNumeric   = errors.New("not a number")
	errEmpty        = errors.New("empty value")
)

// Normalize converts a raw sheet into typed records. Day and hour are derived from
// the timestamp in loc for every row; nil loc means UTC. Profit is backfilled as
// revenue minus session cost when the column is absent or the cell is blank.
func Normalize(raw *dataset.Raw, loc *time.Location) (*dataset.Table, error) {
	if loc == nil {
		loc = time.UTC
	}
	tbl := &dataset.Table{Location: loc}
	if raw == nil {
		return tbl, nil
	}
	tbl.Name = raw.Name
	tbl.HasProfit = raw.Has(dataset.ColProfit)
	tbl.Records = make([]dataset.Record, 0, raw.Len())
	for i, row := range raw.Rows {
		rowNum := i + 2
		rec := dataset.Record{
			ClientID:   raw.Cell(row, dataset.ColClientID),
			Service:    raw.Cell(row, dataset.ColService),
			Membership: dataset.CanonicalTier(raw.Cell(row, dataset.ColMembership)),
		}
		ds := raw.Cell(row, dataset.ColDate)
		ts, ok := dataset.ParseTime(ds, loc)
		if !ok {
			return nil, &ProcessingError{Row: rowNum, Column: dataset.ColDate, Value: ds, Err: errBadTimestamp}
		}
		rec.Date = ts
		rec.Day = ts.Weekday().String()
		rec.Hour = ts.Hour()

		var err error
		if rec.Revenue, err = number(raw, row, rowNum, dataset.ColRevenue, true); err != nil {
			return nil, err
		}
		if rec.AddOnSales, err = number(raw, row, rowNum, dataset.ColAddOnSales, false); err != nil {
			return nil, err
		}
		if rec.Supplements, err = number(raw, row, rowNum, dataset.ColSupplements, false); err != nil {
			return nil, err
		}
		if rec.SessionCost, err = number(raw, row, rowNum, dataset.ColSessionCost, false); err != nil {
			return nil, err
		}
		rec.Profit = rec.Revenue - rec.SessionCost
		if tbl.HasProfit && raw.Cell(row, dataset.ColProfit) != "" {
			if rec.Profit, err = number(raw, row, rowNum, dataset.ColProfit, true); err != nil {
				return nil, err
			}
		}
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl, nil
}

// number parses a numeric cell. Blank optional cells read as zero.
func number(raw *dataset.Raw, row []string, rowNum int, col string, required bool) (float64, error) {
	v := raw.Cell(row, col)
	if v == "" {
		if required {
			return 0, &ProcessingError{Row: rowNum, Column: col, Err: errEmpty}
		}
		return 0, nil
	}
	f, ok := dataset.ParseNumber(v)
	if !ok {
		return 0, &ProcessingError{Row: rowNum, Column: col, Value: v, Err: errNotNumeric}
	}
	return f, nil
}
