package geomap

import (
	"math"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// Point is a position on the canvas, origin top-left, y growing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// naturalEarth1 is the Natural Earth I pseudo-cylindrical projection
// (Šavrič et al.), returning unscaled planar coordinates with y growing north.
func naturalEarth1(lon, lat float64) (x, y float64) {
	lambda := lon * math.Pi / 180
	phi := lat * math.Pi / 180
	phi2 := phi * phi
	phi4 := phi2 * phi2
	x = lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4)))
	y = phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
	return x, y
}

// projection fits the projected extent of a topology into a canvas, centred.
type projection struct {
	scale  float64
	cx, cy float64 // projected centre of the fitted extent
	width  float64
	height float64
}

func fitProjection(features []domain.GeoFeature, width, height float64) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range features {
		for _, poly := range f.Polygons() {
			for _, ring := range poly {
				for _, pos := range ring {
					if len(pos) < 2 {
						continue
					}
					x, y := naturalEarth1(pos[0], pos[1])
					minX, maxX = math.Min(minX, x), math.Max(maxX, x)
					minY, maxY = math.Min(minY, y), math.Max(maxY, y)
				}
			}
		}
	}

	p := projection{scale: 1, width: width, height: height}
	if math.IsInf(minX, 1) {
		return p
	}
	p.cx = (minX + maxX) / 2
	p.cy = (minY + maxY) / 2

	w, h := maxX-minX, maxY-minY
	switch {
	case w > 0 && h > 0:
		p.scale = math.Min(width/w, height/h)
	case w > 0:
		p.scale = width / w
	case h > 0:
		p.scale = height / h
	}
	return p
}

func (p projection) project(lon, lat float64) Point {
	x, y := naturalEarth1(lon, lat)
	return Point{
		X: p.width/2 + (x-p.cx)*p.scale,
		Y: p.height/2 - (y-p.cy)*p.scale,
	}
}

// rings projects every ring of the feature, dropping rings with fewer than
// three positions.
func (p projection) rings(f domain.GeoFeature) [][]Point {
	var out [][]Point
	for _, poly := range f.Polygons() {
		for _, ring := range poly {
			pts := make([]Point, 0, len(ring))
			for _, pos := range ring {
				if len(pos) < 2 {
					continue
				}
				pts = append(pts, p.project(pos[0], pos[1]))
			}
			if len(pts) >= 3 {
				out = append(out, pts)
			}
		}
	}
	return out
}
