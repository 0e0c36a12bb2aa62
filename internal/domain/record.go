package domain

import "math"

// CSV header labels of the upstream export.
const (
	ColumnID                 = "id"
	ColumnCountry            = "Country"
	ColumnTotalWaste2010     = "Total_MismanagedPlasticWaste_2010 (millionT)"
	ColumnTotalWaste2019     = "Total_MismanagedPlasticWaste_2019 (millionT)"
	ColumnPerCapitaWaste2010 = "Mismanaged_PlasticWaste_PerCapita_2010 (kg per year) "
	ColumnPerCapitaWaste2019 = "Mismanaged_PlasticWaste_PerCapita_2019 (kg per year) "
)

// RequiredColumns lists every header a dataset must carry, in display order.
var RequiredColumns = []string{
	ColumnID,
	ColumnCountry,
	ColumnTotalWaste2010,
	ColumnTotalWaste2019,
	ColumnPerCapitaWaste2010,
	ColumnPerCapitaWaste2019,
}

// WasteRecord is one country row of the dataset.
type WasteRecord struct {
	CountryID          int     `json:"id"`
	CountryName        string  `json:"country"`
	TotalWaste2010     float64 `json:"total_waste_2010"`      // million tonnes
	TotalWaste2019     float64 `json:"total_waste_2019"`      // million tonnes
	PerCapitaWaste2010 float64 `json:"per_capita_waste_2010"` // kg per year
	PerCapitaWaste2019 float64 `json:"per_capita_waste_2019"` // kg per year
}

// Value returns the record's value for m and whether it is present.
// NaN or infinite cells and unknown metrics report false.
func (r WasteRecord) Value(m Metric) (float64, bool) {
	var v float64
	switch m {
	case MetricTotalWaste2010:
		v = r.TotalWaste2010
	case MetricTotalWaste2019:
		v = r.TotalWaste2019
	case MetricPerCapitaWaste2010:
		v = r.PerCapitaWaste2010
	case MetricPerCapitaWaste2019:
		v = r.PerCapitaWaste2019
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IndexByCountryID maps records by id. Records must already have unique ids.
func IndexByCountryID(records []WasteRecord) map[int]*WasteRecord {
	idx := make(map[int]*WasteRecord, len(records))
	for i := range records {
		idx[records[i].CountryID] = &records[i]
	}
	return idx
}
