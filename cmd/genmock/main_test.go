package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/dataset"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures(n int) []domain.GeoFeature {
	features := make([]domain.GeoFeature, 0, n+1)
	for i := 1; i <= n; i++ {
		features = append(features, domain.GeoFeature{
			ID:       i,
			Geometry: geojson.NewPolygonGeometry([][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}),
		})
	}
	features = append(features, domain.GeoFeature{ID: domain.NoFeatureID})
	return features
}

func TestGenerate_Deterministic(t *testing.T) {
	a := generate(testFeatures(50), 7, 0.8)
	b := generate(testFeatures(50), 7, 0.8)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different output (-a +b):\n%s", diff)
	}
	assert.Less(t, len(a), 50, "some ids are left out")
	assert.NotEmpty(t, a)
	for i := 1; i < len(a); i++ {
		assert.Less(t, a[i-1].CountryID, a[i].CountryID)
	}
}

func TestGenerate_FullCoverage(t *testing.T) {
	records := generate(testFeatures(20), 1, 1)
	require.Len(t, records, 20, "NoFeatureID is skipped")
	for _, r := range records {
		assert.Positive(t, r.TotalWaste2010)
		assert.Positive(t, r.PerCapitaWaste2019)
	}
}

func TestWriteCSV_ParsesBack(t *testing.T) {
	records := generate(testFeatures(30), 3, 1)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, records))

	parsed, err := dataset.Parse(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(records, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	topo := filepath.Join(dir, "world.json")
	require.NoError(t, os.WriteFile(topo, []byte(`{"type":"FeatureCollection","features":[
{"type":"Feature","id":4,"properties":{"name":"Afghanistan"},"geometry":{"type":"Polygon","coordinates":[[[60,30],[70,30],[70,38],[60,38],[60,30]]]}},
{"type":"Feature","id":8,"properties":{"name":"Albania"},"geometry":{"type":"Polygon","coordinates":[[[19,40],[21,40],[21,42],[19,42],[19,40]]]}}
]}`), 0o644))
	out := filepath.Join(dir, "plastic-waste-data", "data_cleaned.csv")

	var log bytes.Buffer
	require.NoError(t, run(options{topology: topo, object: "countries", out: out, seed: 1, coverage: 1}, &log))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := dataset.Parse(f)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Afghanistan", records[0].CountryName)
	assert.Contains(t, log.String(), "2 records for 2 features")
}

func TestRun_InvalidCoverage(t *testing.T) {
	err := run(options{topology: "x", out: "y", coverage: 0}, &bytes.Buffer{})
	assert.Error(t, err)
}
