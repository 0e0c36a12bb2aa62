package geomap

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// NoDataFill is the neutral fill of regions without a value.
const NoDataFill = "#d9d9d9"

// StrokeColor outlines every region.
const StrokeColor = "#ffffff"

// Sequential "blues" ramp, light to dark.
var bluesRamp = []colorful.Color{
	mustHex("#eff3ff"),
	mustHex("#c6dbef"),
	mustHex("#9ecae1"),
	mustHex("#6baed6"),
	mustHex("#3182bd"),
	mustHex("#08519c"),
}

// ColorDomain is the value range a color scale spans.
type ColorDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// colorScale maps values in a domain onto the blues ramp, interpolating in
// CIE L*a*b* between neighbouring stops.
type colorScale struct {
	domain ColorDomain
}

func (s colorScale) normalize(v float64) float64 {
	span := s.domain.Max - s.domain.Min
	if span <= 0 {
		return 1
	}
	t := (v - s.domain.Min) / span
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

func (s colorScale) color(v float64) colorful.Color {
	t := s.normalize(v) * float64(len(bluesRamp)-1)
	i := int(math.Floor(t))
	if i >= len(bluesRamp)-1 {
		return bluesRamp[len(bluesRamp)-1]
	}
	f := t - float64(i)
	if f == 0 {
		return bluesRamp[i]
	}
	return bluesRamp[i].BlendLab(bluesRamp[i+1], f).Clamped()
}

func (s colorScale) hex(v float64) string {
	return s.color(v).Hex()
}

// LegendStop is one swatch of a map legend.
type LegendStop struct {
	Value float64 `json:"value"`
	Fill  string  `json:"fill"`
}

// legend samples the scale at n evenly spaced values.
func (s colorScale) legend(n int) []LegendStop {
	if n < 2 {
		n = 2
	}
	stops := make([]LegendStop, n)
	for i := range stops {
		v := s.domain.Min + (s.domain.Max-s.domain.Min)*float64(i)/float64(n-1)
		stops[i] = LegendStop{Value: v, Fill: s.hex(v)}
	}
	return stops
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseFill converts a region fill back to a drawable color.
func parseFill(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return mustHex(NoDataFill)
	}
	return c
}
