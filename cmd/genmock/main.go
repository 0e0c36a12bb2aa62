// Command genmock writes a deterministic mock dataset for the local file
// backend. It reads the world topology, emits one row per feature id (leaving
// a share of ids out so the maps show regions without data), and re-parses
// the result with the dataset package to make sure the loader accepts it.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -topology data/world-110m.json \
//	  -out data/plastic-waste-data/data_cleaned.csv
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/topology"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/dataset"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

type options struct {
	topology string
	object   string
	out      string
	seed     uint64
	coverage float64
}

func main() {
	var o options
	flag.StringVar(&o.topology, "topology", "", "topology file path or http(s)/file URL")
	flag.StringVar(&o.object, "object", "countries", "TopoJSON object holding the country geometries")
	flag.StringVar(&o.out, "out", "", "output CSV path")
	flag.Uint64Var(&o.seed, "seed", 2019, "random seed")
	flag.Float64Var(&o.coverage, "coverage", 0.85, "share of feature ids that get a row")
	flag.Parse()

	if o.topology == "" || o.out == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(o, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(o options, logOut io.Writer) error {
	if o.coverage <= 0 || o.coverage > 1 {
		return fmt.Errorf("coverage must be in (0, 1], got %v", o.coverage)
	}

	ref := o.topology
	if !strings.Contains(ref, "://") {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return fmt.Errorf("resolve topology path: %w", err)
		}
		ref = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	features, err := topology.NewClient(30*time.Second, logger).Fetch(ctx, ref, o.object)
	if err != nil {
		return err
	}

	records := generate(features, o.seed, o.coverage)

	var buf bytes.Buffer
	if err := writeCSV(&buf, records); err != nil {
		return err
	}

	// Round-trip through the real parser so the fixture can never drift from
	// what the loader accepts.
	parsed, err := dataset.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("generated csv rejected by parser: %w", err)
	}
	if len(parsed) != len(records) {
		return fmt.Errorf("parsed %d records, generated %d", len(parsed), len(records))
	}

	if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(o.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.out, err)
	}

	fmt.Fprintf(logOut, "wrote %s: %d records for %d features\n", o.out, len(records), len(features))
	printStats(logOut, records)
	return nil
}

// generate draws plausible values for a share of the feature ids. Output is
// sorted by id and fully determined by seed.
func generate(features []domain.GeoFeature, seed uint64, coverage float64) []domain.WasteRecord {
	ids := make(map[int]string)
	for _, f := range features {
		if f.ID == domain.NoFeatureID {
			continue
		}
		if _, ok := ids[f.ID]; !ok || ids[f.ID] == "" {
			ids[f.ID] = f.Name
		}
	}
	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Ints(sorted)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]domain.WasteRecord, 0, len(sorted))
	for _, id := range sorted {
		if rng.Float64() >= coverage {
			continue
		}
		name := ids[id]
		if name == "" {
			name = "Country " + strconv.Itoa(id)
		}
		// Log-normal totals give a few large emitters and a long tail.
		total2010 := round(math.Exp(rng.NormFloat64()*1.5-2.5), 4)
		total2019 := round(total2010*(0.7+rng.Float64()*0.8), 4)
		perCapita2010 := round(math.Exp(rng.NormFloat64()*1.2+1.5), 2)
		perCapita2019 := round(perCapita2010*(0.6+rng.Float64()*0.8), 2)
		records = append(records, domain.WasteRecord{
			CountryID:          id,
			CountryName:        name,
			TotalWaste2010:     total2010,
			TotalWaste2019:     total2019,
			PerCapitaWaste2010: perCapita2010,
			PerCapitaWaste2019: perCapita2019,
		})
	}
	return records
}

func writeCSV(w io.Writer, records []domain.WasteRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.CountryID),
			r.CountryName,
			formatFloat(r.TotalWaste2010),
			formatFloat(r.TotalWaste2019),
			formatFloat(r.PerCapitaWaste2010),
			formatFloat(r.PerCapitaWaste2019),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r.CountryID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func printStats(w io.Writer, records []domain.WasteRecord) {
	for _, m := range domain.Metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range records {
			if v, ok := r.Value(m); ok {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		if len(records) == 0 {
			lo, hi = 0, 0
		}
		fmt.Fprintf(w, "  %-16s min=%-10s max=%s %s\n", m, formatFloat(lo), formatFloat(hi), m.Unit())
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
