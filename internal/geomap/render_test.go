package geomap

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lon, lat, size float64) *geojson.Geometry {
	return geojson.NewPolygonGeometry([][][]float64{{
		{lon, lat}, {lon + size, lat}, {lon + size, lat + size}, {lon, lat + size}, {lon, lat},
	}})
}

func testTopology() []domain.GeoFeature {
	return []domain.GeoFeature{
		{ID: 1, Geometry: square(-60, -30, 20)},
		{ID: 2, Geometry: square(0, 0, 10)},
		{ID: 3, Geometry: square(40, 20, 15)},
	}
}

func testRecords() []domain.WasteRecord {
	return []domain.WasteRecord{
		{CountryID: 1, CountryName: "Testland", TotalWaste2010: 5.0, TotalWaste2019: 6.0, PerCapitaWaste2010: 1.2, PerCapitaWaste2019: 1.3},
		{CountryID: 2, CountryName: "Otherland", TotalWaste2010: 2.5, TotalWaste2019: 3.5, PerCapitaWaste2010: 0.4, PerCapitaWaste2019: 0.6},
	}
}

func TestRender_TestlandScenario(t *testing.T) {
	m, err := Render(testRecords(), testTopology(), domain.MetricTotalWaste2010)
	require.NoError(t, err)

	require.Len(t, m.Regions, 3)
	assert.Equal(t, "2010 Total Waste Heatmap", m.Title)
	assert.Equal(t, float64(Width), m.Width)
	assert.Equal(t, float64(Height), m.Height)
	assert.Equal(t, ProjectionName, m.Projection)

	r1, r2, r3 := m.Regions[0], m.Regions[1], m.Regions[2]

	require.NotNil(t, r1.Value)
	assert.Equal(t, 5.0, *r1.Value)
	require.NotNil(t, r2.Value)
	assert.Equal(t, 2.5, *r2.Value)

	assert.Nil(t, r3.Value)
	assert.Nil(t, r3.Tooltip)
	assert.Equal(t, NoDataFill, r3.Fill)
	assert.NotEmpty(t, r3.Path, "unmatched regions still draw")

	require.NotNil(t, m.Domain)
	assert.Equal(t, ColorDomain{Min: 2.5, Max: 5.0}, *m.Domain)
	assert.Equal(t, "#08519c", r1.Fill, "max value takes the darkest stop")
	assert.Equal(t, "#eff3ff", r2.Fill, "min value takes the lightest stop")
	assert.Equal(t, 1, m.Unmatched())
}

func TestRender_EveryFeatureExactlyOnce(t *testing.T) {
	topo := testTopology()
	topo = append(topo,
		domain.GeoFeature{ID: domain.NoFeatureID, Geometry: square(100, 10, 5)},
		domain.GeoFeature{ID: 99},
	)
	records := append(testRecords(), domain.WasteRecord{CountryID: 500, CountryName: "Nowhere"})

	for _, metric := range domain.Metrics {
		m, err := Render(records, topo, metric)
		require.NoError(t, err)
		require.Len(t, m.Regions, len(topo))
		for i, r := range m.Regions {
			assert.Equal(t, topo[i].ID, r.FeatureID, "regions keep topology order")
		}
	}

	m, err := Render(nil, topo, domain.MetricTotalWaste2019)
	require.NoError(t, err)
	assert.Len(t, m.Regions, len(topo))
	assert.Nil(t, m.Domain)
	assert.Equal(t, len(topo), m.Unmatched())
}

func TestRender_TooltipCarriesAllValues(t *testing.T) {
	want := &Tooltip{
		Country:            "Testland",
		TotalWaste2010:     ptr(5.0),
		TotalWaste2019:     ptr(6.0),
		PerCapitaWaste2010: ptr(1.2),
		PerCapitaWaste2019: ptr(1.3),
	}
	for _, metric := range domain.Metrics {
		t.Run(string(metric), func(t *testing.T) {
			m, err := Render(testRecords(), testTopology(), metric)
			require.NoError(t, err)
			if diff := cmp.Diff(want, m.Regions[0].Tooltip); diff != "" {
				t.Errorf("tooltip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_MetricSelectsColumn(t *testing.T) {
	cases := map[domain.Metric]float64{
		domain.MetricTotalWaste2010:     5.0,
		domain.MetricTotalWaste2019:     6.0,
		domain.MetricPerCapitaWaste2010: 1.2,
		domain.MetricPerCapitaWaste2019: 1.3,
	}
	for metric, want := range cases {
		m, err := Render(testRecords(), testTopology(), metric)
		require.NoError(t, err)
		require.NotNil(t, m.Regions[0].Value)
		assert.Equal(t, want, *m.Regions[0].Value, metric)
		assert.Equal(t, metric.Title(), m.Title)
	}
}

func TestRender_InvalidMetric(t *testing.T) {
	_, err := Render(testRecords(), testTopology(), domain.Metric("total_2030"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidMetric))
}

func TestRender_MissingValueKeepsTooltip(t *testing.T) {
	records := testRecords()
	records[0].TotalWaste2019 = math.NaN()

	m, err := Render(records, testTopology(), domain.MetricTotalWaste2019)
	require.NoError(t, err)

	r := m.Regions[0]
	assert.Nil(t, r.Value)
	assert.Equal(t, NoDataFill, r.Fill)
	require.NotNil(t, r.Tooltip)
	assert.Nil(t, r.Tooltip.TotalWaste2019)
	assert.Equal(t, 5.0, *r.Tooltip.TotalWaste2010)
	assert.True(t, r.Matched())
}

func TestRender_NonFiniteValueIsNoData(t *testing.T) {
	records := testRecords()
	records[0].TotalWaste2010 = math.Inf(1)
	records[1].PerCapitaWaste2010 = math.Inf(-1)

	var m RenderedMap
	require.NotPanics(t, func() {
		var err error
		m, err = Render(records, testTopology(), domain.MetricTotalWaste2010)
		require.NoError(t, err)
	})

	r1, r2 := m.Regions[0], m.Regions[1]
	assert.Nil(t, r1.Value)
	assert.Equal(t, NoDataFill, r1.Fill)
	require.NotNil(t, r1.Tooltip)
	assert.Nil(t, r1.Tooltip.TotalWaste2010)
	assert.Nil(t, r2.Tooltip.PerCapitaWaste2010)

	require.NotNil(t, m.Domain)
	assert.Equal(t, ColorDomain{Min: 2.5, Max: 2.5}, *m.Domain)

	_, err := json.Marshal(m)
	assert.NoError(t, err, "rendered map stays JSON-encodable")
}

func TestRender_DoesNotMutateInputs(t *testing.T) {
	records := testRecords()
	topo := testTopology()
	recordsBefore := testRecords()
	ringBefore := append([][]float64(nil), topo[0].Geometry.Polygon[0]...)

	_, err := Render(records, topo, domain.MetricPerCapitaWaste2019)
	require.NoError(t, err)

	if diff := cmp.Diff(recordsBefore, records); diff != "" {
		t.Errorf("records mutated (-before +after):\n%s", diff)
	}
	assert.Equal(t, ringBefore, topo[0].Geometry.Polygon[0])
}

func TestRender_FitsCanvas(t *testing.T) {
	m, err := Render(testRecords(), testTopology(), domain.MetricTotalWaste2010)
	require.NoError(t, err)

	const eps = 1e-6
	var minX, minY, maxX, maxY = math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, r := range m.Regions {
		for _, ring := range r.Rings {
			for _, p := range ring {
				minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
				minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			}
		}
	}
	assert.GreaterOrEqual(t, minX, -eps)
	assert.GreaterOrEqual(t, minY, -eps)
	assert.LessOrEqual(t, maxX, Width+eps)
	assert.LessOrEqual(t, maxY, Height+eps)
	// One axis is filled edge to edge.
	filledX := math.Abs(maxX-minX-Width) < 1e-3
	filledY := math.Abs(maxY-minY-Height) < 1e-3
	assert.True(t, filledX || filledY)
}

func TestNaturalEarth1(t *testing.T) {
	x, y := naturalEarth1(0, 0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	// North is up: higher latitude projects to a smaller screen y.
	p := fitProjection(testTopology(), Width, Height)
	assert.Less(t, p.project(0, 40).Y, p.project(0, -40).Y)
	assert.Less(t, p.project(-40, 0).X, p.project(40, 0).X)

	// Symmetric in longitude.
	xe, _ := naturalEarth1(90, 30)
	xw, _ := naturalEarth1(-90, 30)
	assert.InDelta(t, xe, -xw, 1e-12)
}

func TestPathData(t *testing.T) {
	got := pathData([][]Point{{{0, 0}, {10, 0}, {10, 5.5}}, {{1, 1}, {2, 1}, {2, 2}}})
	assert.Equal(t, "M0.00,0.00L10.00,0.00L10.00,5.50ZM1.00,1.00L2.00,1.00L2.00,2.00Z", got)
}

func TestColorScale(t *testing.T) {
	s := colorScale{domain: ColorDomain{Min: 0, Max: 10}}
	assert.Equal(t, "#eff3ff", s.hex(0))
	assert.Equal(t, "#08519c", s.hex(10))
	assert.Equal(t, "#08519c", s.hex(50), "values above the domain clamp")
	assert.Equal(t, "#eff3ff", s.hex(-5), "values below the domain clamp")
	assert.Equal(t, "#9ecae1", s.hex(4), "exact ramp stop")

	legend := s.legend(5)
	require.Len(t, legend, 5)
	assert.Equal(t, 0.0, legend[0].Value)
	assert.Equal(t, 10.0, legend[4].Value)

	flat := colorScale{domain: ColorDomain{Min: 3, Max: 3}}
	assert.Equal(t, "#08519c", flat.hex(3))

	wide := colorScale{domain: ColorDomain{Min: -math.MaxFloat64, Max: math.MaxFloat64}}
	assert.NotPanics(t, func() { wide.hex(0) })
	assert.NotPanics(t, func() { s.hex(math.NaN()) })
	assert.NotPanics(t, func() { s.hex(math.Inf(1)) })
	assert.Equal(t, "#eff3ff", s.hex(math.NaN()))
}

func TestExport(t *testing.T) {
	m, err := Render(testRecords(), testTopology(), domain.MetricTotalWaste2010)
	require.NoError(t, err)

	var svg bytes.Buffer
	require.NoError(t, WriteSVG(&svg, m))
	assert.True(t, strings.Contains(svg.String(), "<svg"))

	var png bytes.Buffer
	require.NoError(t, WritePNG(&png, m))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
}

func ptr(v float64) *float64 { return &v }
