package http

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/geomap"
)

// handleMapImage serves /maps/<metric>.svg and /maps/<metric>.png.
func (s *Server) handleMapImage(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	metric := domain.Metric(strings.TrimSuffix(file, ext))

	var (
		encode      func(*bytes.Buffer, geomap.RenderedMap) error
		contentType string
	)
	switch ext {
	case ".svg":
		encode = func(b *bytes.Buffer, m geomap.RenderedMap) error { return geomap.WriteSVG(b, m) }
		contentType = "image/svg+xml"
	case ".png":
		encode = func(b *bytes.Buffer, m geomap.RenderedMap) error { return geomap.WritePNG(b, m) }
		contentType = "image/png"
	default:
		http.NotFound(w, r)
		return
	}

	m, err := s.dashboard.Heatmap(r.Context(), metric)
	if errors.Is(err, domain.ErrInvalidMetric) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		status := statusFor(err)
		s.logger.Error("map image failed", "metric", metric, "status", status, "error", err)
		http.Error(w, userMessage(err), status)
		return
	}

	var buf bytes.Buffer
	if err := encode(&buf, m); err != nil {
		s.logger.Error("map encode failed", "metric", metric, "format", ext, "error", err)
		http.Error(w, "map could not be encoded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}
