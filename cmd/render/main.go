// Command render draws one heatmap offline from a local dataset CSV and a
// world topology, without object storage or the web server.
//
// Usage:
//
//	go run ./cmd/render \
//	  -csv data/plastic-waste-data/data_cleaned.csv \
//	  -topology data/world-110m.json \
//	  -metric per_capita_2019 \
//	  -format png -out per_capita_2019.png
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/adapter/topology"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/dataset"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/geomap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fl := flag.NewFlagSet("render", flag.ContinueOnError)
	fl.SetOutput(stderr)
	csvPath := fl.String("csv", "", "path to the dataset CSV")
	topoRef := fl.String("topology", "", "topology file path or http(s)/file URL")
	object := fl.String("object", "countries", "TopoJSON object holding the country geometries")
	metric := fl.String("metric", string(domain.MetricTotalWaste2010), "one of total_2010, total_2019, per_capita_2010, per_capita_2019")
	format := fl.String("format", "svg", "output format: svg, png or json")
	out := fl.String("out", "", "output file (default stdout)")
	if err := fl.Parse(args); err != nil {
		return 2
	}
	if *csvPath == "" || *topoRef == "" {
		fl.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	m, err := domain.ParseMetric(*metric)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	records, err := readRecords(*csvPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	topoURL, err := topologyURL(*topoRef)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	features, err := topology.NewClient(30*time.Second, logger).Fetch(ctx, topoURL, *object)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	rendered, err := geomap.Render(records, features, m)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var buf bytes.Buffer
	switch *format {
	case "svg":
		err = geomap.WriteSVG(&buf, rendered)
	case "png":
		err = geomap.WritePNG(&buf, rendered)
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(rendered)
	default:
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "encode:", err)
		return 1
	}

	if *out == "" {
		_, err = stdout.Write(buf.Bytes())
	} else {
		err = os.WriteFile(*out, buf.Bytes(), 0o644)
	}
	if err != nil {
		fmt.Fprintln(stderr, "write:", err)
		return 1
	}

	fmt.Fprintf(stderr, "%s: %d regions, %d without data\n", rendered.Title, len(rendered.Regions), rendered.Unmatched())
	return 0
}

func readRecords(path string) ([]domain.WasteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer f.Close()
	return dataset.Parse(f)
}

// topologyURL turns a plain file path into a file URL; URLs pass through.
func topologyURL(ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return ref, nil
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", fmt.Errorf("resolve topology path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
