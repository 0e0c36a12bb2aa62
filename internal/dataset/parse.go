package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

const utf8BOM = "\ufeff"

// Parse reads a dataset CSV with a header row into records.
// Any structural or value problem is reported as domain.ErrParse.
func Parse(r io.Reader) ([]domain.WasteRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", domain.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrParse, err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.WasteRecord
	seen := make(map[int]int)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrParse, line, err)
		}
		if first, dup := seen[rec.CountryID]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate id %d (first seen on line %d)",
				domain.ErrParse, line, rec.CountryID, first)
		}
		seen[rec.CountryID] = line
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex holds the position of each required header.
type columnIndex struct {
	id, country                  int
	total2010, total2019         int
	perCapita2010, perCapita2019 int
}

// resolveColumns locates the required headers. Labels are compared after
// trimming surrounding whitespace so the trailing space carried by the
// upstream per-capita labels is optional.
func resolveColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		key := strings.TrimSpace(h)
		if _, ok := pos[key]; !ok {
			pos[key] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[strings.TrimSpace(name)]
		if !ok {
			missing = append(missing, strconv.Quote(name))
			return -1
		}
		return i
	}

	cols := columnIndex{
		id:            lookup(domain.ColumnID),
		country:       lookup(domain.ColumnCountry),
		total2010:     lookup(domain.ColumnTotalWaste2010),
		total2019:     lookup(domain.ColumnTotalWaste2019),
		perCapita2010: lookup(domain.ColumnPerCapitaWaste2010),
		perCapita2019: lookup(domain.ColumnPerCapitaWaste2019),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: missing required columns: %s",
			domain.ErrParse, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(row []string, cols columnIndex) (domain.WasteRecord, error) {
	id, err := parseID(row[cols.id])
	if err != nil {
		return domain.WasteRecord{}, err
	}

	rec := domain.WasteRecord{
		CountryID:   id,
		CountryName: strings.TrimSpace(row[cols.country]),
	}
	fields := []struct {
		dst    *float64
		idx    int
		column string
	}{
		{&rec.TotalWaste2010, cols.total2010, domain.ColumnTotalWaste2010},
		{&rec.TotalWaste2019, cols.total2019, domain.ColumnTotalWaste2019},
		{&rec.PerCapitaWaste2010, cols.perCapita2010, domain.ColumnPerCapitaWaste2010},
		{&rec.PerCapitaWaste2019, cols.perCapita2019, domain.ColumnPerCapitaWaste2019},
	}
	for _, f := range fields {
		v, err := parseValue(row[f.idx])
		if err != nil {
			return domain.WasteRecord{}, fmt.Errorf("column %q: %w", strings.TrimSpace(f.column), err)
		}
		*f.dst = v
	}
	return rec, nil
}

// parseID accepts integer ids, including the "4.0" form pandas writes for
// float-typed id columns.
func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty id")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	// 2^63 is exactly representable; anything at or beyond it cannot fit an int.
	if err != nil || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int(f), nil
}

// parseValue parses a numeric cell. Empty cells and "NaN" become NaN.
// Infinities are rejected.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}
