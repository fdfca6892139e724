package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type csvFormat struct{}

func (csvFormat) CanLoad(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv")
}

func (csvFormat) Rows(payload []byte, opt LoadOptions) ([][]string, error) {
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(payload)
	}
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// non-blank line.
func sniffDelimiter(payload []byte) rune {
	var line []byte
	for _, l := range bytes.Split(payload, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
