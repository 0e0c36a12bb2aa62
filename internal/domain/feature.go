package domain

import geojson "github.com/paulmach/go.geojson"

// NoFeatureID marks a feature whose topology entry carries no usable id.
// Such features are still drawn but never match a record.
const NoFeatureID = -1

// GeoFeature is one country or region outline of the world topology.
type GeoFeature struct {
	ID       int
	Name     string
	Geometry *geojson.Geometry // Polygon or MultiPolygon, lon/lat degrees
}

// Polygons flattens the geometry into a list of polygons (outer ring first).
// Non-areal geometry yields nil.
func (f GeoFeature) Polygons() [][][][]float64 {
	if f.Geometry == nil {
		return nil
	}
	switch {
	case f.Geometry.IsPolygon():
		return [][][][]float64{f.Geometry.Polygon}
	case f.Geometry.IsMultiPolygon():
		return f.Geometry.MultiPolygon
	case f.Geometry.IsCollection():
		var out [][][][]float64
		for _, g := range f.Geometry.Geometries {
			out = append(out, GeoFeature{Geometry: g}.Polygons()...)
		}
		return out
	}
	return nil
}
