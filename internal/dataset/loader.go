package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format reads the cells of one sheet out of a payload.
type Format interface {
	CanLoad(name string) bool
	Rows(payload []byte, opt LoadOptions) ([][]string, error)
}

var registry []Format

// Register adds a format implementation to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func init() {
	Register(csvFormat{})
	Register(xlsxFormat{})
}

// LoadOptions selects the sheet and bounds the payload.
type LoadOptions struct {
	// SheetName selects an xlsx sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is 1-based; <= 0 means the first sheet.
	SheetIndex int
	// MaxBytes rejects larger payloads; 0 means unlimited.
	MaxBytes int64
	// Delimiter for CSV. If 0, sniffed from the header line.
	Delimiter rune
}

// DefaultLoadOptions reads the first sheet without a size limit.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{SheetIndex: 1}
}

// LoadFile reads a spreadsheet from disk.
func LoadFile(path string, opt LoadOptions) (*Raw, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, loadErr(filepath.Base(path), "read file", err)
	}
	return Load(filepath.Base(path), b, opt)
}

// Load parses the payload into a Raw table. The format is picked by the file name;
// names without a known extension are read as xlsx. Every failure is a *LoadError.
func Load(name string, payload []byte, opt LoadOptions) (*Raw, error) {
	if opt.MaxBytes > 0 && int64(len(payload)) > opt.MaxBytes {
		return nil, loadErr(name, fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", len(payload), opt.MaxBytes), nil)
	}
	if len(payload) == 0 {
		return nil, loadErr(name, "empty payload", ErrUnsupported)
	}
	var format Format = xlsxFormat{}
	for _, f := range registry {
		if f.CanLoad(name) {
			format = f
			break
		}
	}
	rows, err := format.Rows(payload, opt)
	if err != nil {
		reason := "parse spreadsheet"
		if errors.Is(err, ErrUnsupported) {
			reason = "not a valid spreadsheet"
		}
		return nil, loadErr(name, reason, err)
	}
	return fromRows(name, rows)
}

// fromRows takes the first non-blank row as the header and keeps the remaining
// non-blank rows, padded to the header width.
func fromRows(name string, rows [][]string) (*Raw, error) {
	start := -1
	for i, r := range rows {
		if !blank(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &LoadError{Source: name, Reason: "no header row", Missing: append([]string(nil), Required...)}
	}
	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}
	idx := resolveHeader(header)
	var missing []string
	for _, c := range Required {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Source: name, Reason: "required columns absent", Missing: missing}
	}
	raw := &Raw{Name: name, Header: header, index: idx}
	for _, r := range rows[start+1:] {
		if blank(r) {
			continue
		}
		if len(r) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, r)
			r = tmp
		}
		raw.Rows = append(raw.Rows, r)
	}
	return raw, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
