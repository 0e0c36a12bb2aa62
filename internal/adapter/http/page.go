package http

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/geomap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"num": formatValue,
		"opt": formatOptional,
	}).ParseFS(templateFS, "templates/index.html"),
)

// Query parameter names of the sidebar toggles and the report banner.
const (
	paramTable  = "table"
	paramReport = "report"
)

// Report outcomes carried back to the page after a form post.
const (
	reportSent   = "sent"
	reportFailed = "failed"
)

// views is the set of sidebar toggles that are switched on. Every
// combination is valid.
type views struct {
	table bool
	maps  map[domain.Metric]bool
}

func parseViews(q url.Values) views {
	v := views{table: q.Has(paramTable), maps: make(map[domain.Metric]bool)}
	for _, m := range domain.Metrics {
		if q.Has(string(m)) {
			v.maps[m] = true
		}
	}
	return v
}

func (v views) any() bool { return v.table || len(v.maps) > 0 }

// query encodes v back into toggle parameters.
func (v views) query() url.Values {
	q := url.Values{}
	if v.table {
		q.Set(paramTable, "on")
	}
	for _, m := range domain.Metrics {
		if v.maps[m] {
			q.Set(string(m), "on")
		}
	}
	return q
}

type toggle struct {
	Name    string
	Label   string
	Checked bool
}

func (v views) toggles() []toggle {
	t := []toggle{{Name: paramTable, Label: "Show Raw Dataset", Checked: v.table}}
	for _, m := range domain.Metrics {
		t = append(t, toggle{Name: string(m), Label: "Show " + m.Title(), Checked: v.maps[m]})
	}
	return t
}

type errorView struct {
	Message string
	Detail  string
}

func newErrorView(err error) *errorView {
	return &errorView{Message: userMessage(err), Detail: err.Error()}
}

type tableView struct {
	Columns []string
	Rows    []domain.WasteRecord
	Err     *errorView
}

type mapView struct {
	Title string
	Links map[string]string
	Map   *geomap.RenderedMap
	Err   *errorView
}

type pageData struct {
	Title       string
	Description string
	Toggles     []toggle
	Report      string
	Table       *tableView
	Maps        []mapView
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := parseViews(r.URL.Query())
	data := pageData{
		Title: "Mismanaged Plastic Waste (2010 vs 2019)",
		Description: "This dataset compares the volume of mismanaged plastic waste in the years 2010 and 2019. " +
			"It includes total mismanaged plastic waste in millions of tons and total mismanaged plastic waste " +
			"per capita in kilograms.",
		Toggles: v.toggles(),
		Report:  r.URL.Query().Get(paramReport),
	}

	status := http.StatusOK
	var (
		records []domain.WasteRecord
		loadErr error
	)
	if v.any() {
		records, loadErr = s.dashboard.Records(r.Context())
		if loadErr != nil {
			status = statusFor(loadErr)
			s.logger.Error("dataset unavailable for page", "status", status, "error", loadErr)
		}
	}

	if v.table {
		t := &tableView{Columns: trimmedColumns()}
		if loadErr != nil {
			t.Err = newErrorView(loadErr)
		} else {
			t.Rows = records
		}
		data.Table = t
	}

	for _, m := range domain.Metrics {
		if !v.maps[m] {
			continue
		}
		mv := mapView{
			Title: m.Title(),
			Links: map[string]string{
				"SVG":  "/maps/" + string(m) + ".svg",
				"PNG":  "/maps/" + string(m) + ".png",
				"JSON": "/api/maps/" + string(m),
			},
		}
		switch {
		case loadErr != nil:
			mv.Err = newErrorView(loadErr)
		default:
			rendered, err := s.dashboard.Render(records, m)
			if err != nil {
				mv.Err = newErrorView(err)
			} else {
				mv.Map = &rendered
			}
		}
		data.Maps = append(data.Maps, mv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "page could not be rendered", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// handleReportForm dispatches the report request and redirects back to the
// page with the same toggles and a banner describing the outcome.
func (s *Server) handleReportForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReportBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	q := parseViews(r.PostForm).query()
	if _, err := s.dashboard.RequestReport(r.Context(), r.PostForm.Get("email")); err != nil {
		q.Set(paramReport, reportFailed)
	} else {
		q.Set(paramReport, reportSent)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func trimmedColumns() []string {
	cols := make([]string, len(domain.RequiredColumns))
	for i, c := range domain.RequiredColumns {
		cols[i] = strings.TrimSpace(c)
	}
	return cols
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return formatValue(*v)
}
