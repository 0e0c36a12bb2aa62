package http

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxReportBody = 4 << 10

// recordResponse is the wire form of a record; missing values are null.
type recordResponse struct {
	ID                 int      `json:"id"`
	Country            string   `json:"country"`
	TotalWaste2010     *float64 `json:"total_waste_2010"`
	TotalWaste2019     *float64 `json:"total_waste_2019"`
	PerCapitaWaste2010 *float64 `json:"per_capita_waste_2010"`
	PerCapitaWaste2019 *float64 `json:"per_capita_waste_2019"`
}

func newRecordResponse(r domain.WasteRecord) recordResponse {
	return recordResponse{
		ID:                 r.CountryID,
		Country:            r.CountryName,
		TotalWaste2010:     nullable(r.TotalWaste2010),
		TotalWaste2019:     nullable(r.TotalWaste2019),
		PerCapitaWaste2010: nullable(r.PerCapitaWaste2010),
		PerCapitaWaste2019: nullable(r.PerCapitaWaste2019),
	}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

type reportRequestBody struct {
	Email string `json:"email"`
}

type reportResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.dashboard.Records(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]recordResponse, len(records))
	for i, rec := range records {
		out[i] = newRecordResponse(rec)
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"count":   len(out),
		"records": out,
	})
}

func (s *Server) handleAPIMap(w http.ResponseWriter, r *http.Request) {
	m, err := s.dashboard.Heatmap(r.Context(), domain.Metric(r.PathValue("metric")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	var body reportRequestBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBody))
	if err := dec.Decode(&body); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	req, err := s.dashboard.RequestReport(r.Context(), body.Email)
	if err != nil {
		sharedobs.WriteJSON(w, statusFor(err), reportResponse{
			Status:    "failed",
			RequestID: req.ID,
			Error:     err.Error(),
		})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, reportResponse{Status: "sent", RequestID: req.ID})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
