// Package topojson decodes world topology files into domain features.
//
// Both TopoJSON topologies (as published in vega-datasets' world-110m) and
// plain GeoJSON FeatureCollections are accepted. TopoJSON arcs may be
// quantized; the topology transform is applied while stitching rings.
package topojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	geojson "github.com/paulmach/go.geojson"
)

type topology struct {
	Type      string                     `json:"type"`
	Transform *transform                 `json:"transform"`
	Objects   map[string]json.RawMessage `json:"objects"`
	Arcs      [][][]float64              `json:"arcs"`
}

type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type object struct {
	Type       string          `json:"type"`
	ID         any             `json:"id"`
	Properties map[string]any  `json:"properties"`
	Arcs       json.RawMessage `json:"arcs"`
	Geometries []object        `json:"geometries"`
}

// Decode reads a TopoJSON topology or a GeoJSON FeatureCollection. For a
// topology, object names the member of "objects" to extract; it is ignored
// for GeoJSON input.
func Decode(data []byte, object string) ([]domain.GeoFeature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}

	switch head.Type {
	case "Topology":
		return decodeTopology(data, object)
	case "FeatureCollection":
		return decodeFeatureCollection(data)
	default:
		return nil, fmt.Errorf("decode topology: unsupported document type %q", head.Type)
	}
}

func decodeTopology(data []byte, name string) ([]domain.GeoFeature, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}

	raw, ok := topo.Objects[name]
	if !ok {
		return nil, fmt.Errorf("decode topology: object %q not found (have %s)", name, objectNames(topo.Objects))
	}
	var root object
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode topology object %q: %w", name, err)
	}

	arcs := topo.absoluteArcs()

	members := []object{root}
	if root.Type == "GeometryCollection" {
		members = root.Geometries
	}

	features := make([]domain.GeoFeature, 0, len(members))
	for i, obj := range members {
		geom, err := obj.geometry(arcs)
		if err != nil {
			return nil, fmt.Errorf("decode topology object %q geometry %d: %w", name, i, err)
		}
		features = append(features, domain.GeoFeature{
			ID:       parseID(obj.ID),
			Name:     propertyName(obj.Properties),
			Geometry: geom,
		})
	}
	return features, nil
}

// absoluteArcs resolves delta-encoded, quantized arcs to lon/lat positions.
func (t *topology) absoluteArcs() [][][]float64 {
	out := make([][][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		pts := make([][]float64, 0, len(arc))
		var x, y float64
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if t.Transform == nil {
				pts = append(pts, []float64{p[0], p[1]})
				continue
			}
			x += p[0]
			y += p[1]
			pts = append(pts, []float64{
				x*t.Transform.Scale[0] + t.Transform.Translate[0],
				y*t.Transform.Scale[1] + t.Transform.Translate[1],
			})
		}
		out[i] = pts
	}
	return out
}

func (o object) geometry(arcs [][][]float64) (*geojson.Geometry, error) {
	switch o.Type {
	case "", "null":
		return nil, nil
	case "Polygon":
		var idx [][]int
		if err := json.Unmarshal(o.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("polygon arcs: %w", err)
		}
		poly, err := stitchPolygon(idx, arcs)
		if err != nil {
			return nil, err
		}
		return geojson.NewPolygonGeometry(poly), nil
	case "MultiPolygon":
		var idx [][][]int
		if err := json.Unmarshal(o.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("multipolygon arcs: %w", err)
		}
		polys := make([][][][]float64, 0, len(idx))
		for _, p := range idx {
			poly, err := stitchPolygon(p, arcs)
			if err != nil {
				return nil, err
			}
			polys = append(polys, poly)
		}
		return geojson.NewMultiPolygonGeometry(polys...), nil
	case "GeometryCollection":
		geoms := make([]*geojson.Geometry, 0, len(o.Geometries))
		for _, child := range o.Geometries {
			g, err := child.geometry(arcs)
			if err != nil {
				return nil, err
			}
			if g != nil {
				geoms = append(geoms, g)
			}
		}
		return geojson.NewCollectionGeometry(geoms...), nil
	default:
		// Points and lines have no area to fill.
		return nil, nil
	}
}

func stitchPolygon(rings [][]int, arcs [][][]float64) ([][][]float64, error) {
	poly := make([][][]float64, 0, len(rings))
	for _, ring := range rings {
		r, err := stitchRing(ring, arcs)
		if err != nil {
			return nil, err
		}
		poly = append(poly, r)
	}
	return poly, nil
}

// stitchRing concatenates arcs into one ring. A negative index ~i means arc i
// reversed; the first point of every arc after the first duplicates the
// previous arc's last point and is dropped.
func stitchRing(indexes []int, arcs [][][]float64) ([][]float64, error) {
	var ring [][]float64
	for k, i := range indexes {
		reverse := i < 0
		if reverse {
			i = ^i
		}
		if i >= len(arcs) {
			return nil, fmt.Errorf("arc index %d out of range (%d arcs)", i, len(arcs))
		}
		arc := arcs[i]
		pts := make([][]float64, len(arc))
		copy(pts, arc)
		if reverse {
			for l, r := 0, len(pts)-1; l < r; l, r = l+1, r-1 {
				pts[l], pts[r] = pts[r], pts[l]
			}
		}
		if k > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		ring = append(ring, pts...)
	}
	return ring, nil
}

func decodeFeatureCollection(data []byte) ([]domain.GeoFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	features := make([]domain.GeoFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		id := parseID(f.ID)
		if id == domain.NoFeatureID {
			id = parseID(f.Properties["id"])
		}
		features = append(features, domain.GeoFeature{
			ID:       id,
			Name:     propertyName(f.Properties),
			Geometry: f.Geometry,
		})
	}
	return features, nil
}

// parseID accepts numeric ids and zero-padded numeric strings ("004").
func parseID(v any) int {
	switch id := v.(type) {
	case float64:
		if id == math.Trunc(id) {
			return int(id)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
			return n
		}
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return int(n)
		}
	}
	return domain.NoFeatureID
}

func propertyName(props map[string]any) string {
	for _, key := range []string{"name", "NAME", "admin"} {
		if s, ok := props[key].(string); ok {
			return s
		}
	}
	return ""
}

func objectNames(objects map[string]json.RawMessage) string {
	if len(objects) == 0 {
		return "none"
	}
	names := make([]string, 0, len(objects))
	for n := range objects {
		names = append(names, strconv.Quote(n))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ErrEmpty is returned by Validate for a topology without features.
var ErrEmpty = errors.New("topology has no features")

// Validate reports whether features can be drawn at all.
func Validate(features []domain.GeoFeature) error {
	if len(features) == 0 {
		return ErrEmpty
	}
	return nil
}
