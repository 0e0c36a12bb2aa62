// Package geomap joins the waste dataset against the world topology and
// projects it into choropleth maps.
//
// Geometry drives the join: every topology feature becomes exactly one
// region, whether or not a record carries its id. Regions without data keep
// their outline and get a neutral fill.
package geomap

import (
	"math"
	"strconv"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// Canvas size of every rendered map, in logical units.
const (
	Width  = 600
	Height = 400
)

// ProjectionName identifies the cartographic projection used.
const ProjectionName = "naturalEarth1"

// JoinedRenderRecord pairs one feature with its record, or nil when the
// dataset has no row for the feature id.
type JoinedRenderRecord struct {
	Feature domain.GeoFeature
	Record  *domain.WasteRecord
}

// Tooltip carries the full comparison for a matched region, independent of
// the metric that colors the map. Missing values are nil.
type Tooltip struct {
	Country            string   `json:"country"`
	TotalWaste2010     *float64 `json:"total_waste_2010"`
	TotalWaste2019     *float64 `json:"total_waste_2019"`
	PerCapitaWaste2010 *float64 `json:"per_capita_waste_2010"`
	PerCapitaWaste2019 *float64 `json:"per_capita_waste_2019"`
}

// Region is one drawable feature of a rendered map.
type Region struct {
	FeatureID int       `json:"id"`
	Name      string    `json:"name,omitempty"`
	Rings     [][]Point `json:"-"`
	Path      string    `json:"path"`
	Value     *float64  `json:"value"`
	Fill      string    `json:"fill"`
	Tooltip   *Tooltip  `json:"tooltip"`
}

// Matched reports whether the region joined a dataset record.
func (r Region) Matched() bool { return r.Tooltip != nil }

// RenderedMap is a self-contained choropleth ready for display or export.
type RenderedMap struct {
	Title      string        `json:"title"`
	Metric     domain.Metric `json:"metric"`
	Unit       string        `json:"unit"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Projection string        `json:"projection"`
	Domain     *ColorDomain  `json:"domain"`
	Legend     []LegendStop  `json:"legend,omitempty"`
	Regions    []Region      `json:"regions"`
}

// Unmatched counts regions drawn without a record.
func (m RenderedMap) Unmatched() int {
	n := 0
	for _, r := range m.Regions {
		if !r.Matched() {
			n++
		}
	}
	return n
}

// Join left-joins topology with records on id, preserving topology order.
func Join(topology []domain.GeoFeature, records []domain.WasteRecord) []JoinedRenderRecord {
	idx := domain.IndexByCountryID(records)
	out := make([]JoinedRenderRecord, len(topology))
	for i, f := range topology {
		out[i] = JoinedRenderRecord{Feature: f}
		if f.ID == domain.NoFeatureID {
			continue
		}
		if rec, ok := idx[f.ID]; ok {
			out[i].Record = rec
		}
	}
	return out
}

// Render builds the heatmap of metric. Neither records nor topology is
// modified. An unknown metric fails with domain.ErrInvalidMetric before any
// join work.
func Render(records []domain.WasteRecord, topology []domain.GeoFeature, metric domain.Metric) (RenderedMap, error) {
	if err := metric.Validate(); err != nil {
		return RenderedMap{}, err
	}

	joined := Join(topology, records)
	proj := fitProjection(topology, Width, Height)

	m := RenderedMap{
		Title:      metric.Title(),
		Metric:     metric,
		Unit:       metric.Unit(),
		Width:      Width,
		Height:     Height,
		Projection: ProjectionName,
		Regions:    make([]Region, 0, len(joined)),
	}

	var scale colorScale
	if d, ok := valueDomain(joined, metric); ok {
		scale = colorScale{domain: d}
		m.Domain = &d
		m.Legend = scale.legend(5)
	}

	for _, j := range joined {
		rings := proj.rings(j.Feature)
		r := Region{
			FeatureID: j.Feature.ID,
			Name:      j.Feature.Name,
			Rings:     rings,
			Path:      pathData(rings),
			Fill:      NoDataFill,
		}
		if j.Record != nil {
			r.Tooltip = newTooltip(*j.Record)
			if v, ok := j.Record.Value(metric); ok {
				r.Value = &v
				r.Fill = scale.hex(v)
			}
		}
		m.Regions = append(m.Regions, r)
	}
	return m, nil
}

// valueDomain is the min/max of metric over matched records.
func valueDomain(joined []JoinedRenderRecord, metric domain.Metric) (ColorDomain, bool) {
	d := ColorDomain{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, j := range joined {
		if j.Record == nil {
			continue
		}
		if v, ok := j.Record.Value(metric); ok {
			d.Min = math.Min(d.Min, v)
			d.Max = math.Max(d.Max, v)
		}
	}
	if math.IsInf(d.Min, 1) {
		return ColorDomain{}, false
	}
	return d, true
}

func newTooltip(rec domain.WasteRecord) *Tooltip {
	return &Tooltip{
		Country:            rec.CountryName,
		TotalWaste2010:     optional(rec.TotalWaste2010),
		TotalWaste2019:     optional(rec.TotalWaste2019),
		PerCapitaWaste2010: optional(rec.PerCapitaWaste2010),
		PerCapitaWaste2019: optional(rec.PerCapitaWaste2019),
	}
}

func optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// pathData encodes rings as SVG path data, one closed subpath per ring.
func pathData(rings [][]Point) string {
	var b []byte
	for _, ring := range rings {
		for i, pt := range ring {
			if i == 0 {
				b = append(b, 'M')
			} else {
				b = append(b, 'L')
			}
			b = strconv.AppendFloat(b, pt.X, 'f', 2, 64)
			b = append(b, ',')
			b = strconv.AppendFloat(b, pt.Y, 'f', 2, 64)
		}
		b = append(b, 'Z')
	}
	return string(b)
}
