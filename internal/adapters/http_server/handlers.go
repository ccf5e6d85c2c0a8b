package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"costafeed/internal/app"
	"costafeed/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Get("/v1/featured", h.featured)
	s.mux.Get("/v1/towns", h.listTowns)
	s.mux.Get("/v1/developments", h.listDevelopments)
	s.mux.Get("/v1/developments/{slug}", h.getDevelopment)
	s.mux.Get("/v1/builders", h.listBuilders)
	s.mux.Get("/v1/builders/{slug}", h.getBuilder)
	s.mux.Get("/v1/golf", h.listGolfCourses)
	s.mux.Get("/v1/golf/{slug}/nearby", h.nearGolf)
	s.mux.Get("/v1/stats", h.stats)
	s.mux.Post("/v1/refresh", h.refresh)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with an ETag, answering 304 on If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

/********** query-param helpers **********/

func qInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func qFloat(r *http.Request, key string) float64 {
	f, _ := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	return f
}

// qBool returns nil when the parameter is absent or malformed, so the filter
// stays unconstrained rather than accidentally pinned to false.
func qBool(r *http.Request, key string) *bool {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

func parseFilter(r *http.Request) domain.Filter {
	q := r.URL.Query()
	f := domain.Filter{
		Town:        q.Get("town"),
		Region:      domain.Region(q.Get("region")),
		MinPrice:    qInt(r, "minPrice"),
		MaxPrice:    qInt(r, "maxPrice"),
		MinBedrooms: qInt(r, "minBeds"),
		MaxBedrooms: qInt(r, "maxBeds"),
		Types:       q["type"],
		NewBuild:    qBool(r, "newBuild"),
		HasPool:     qBool(r, "pool"),
		HasSeaview:  qBool(r, "seaview"),
		HasGolfview: qBool(r, "golfview"),
	}
	for _, s := range q["status"] {
		f.Statuses = append(f.Statuses, domain.Status(s))
	}
	if b := qBool(r, "includePlots"); b != nil {
		f.IncludePlots = *b
	}
	return f
}

func parseSort(r *http.Request) domain.Sort {
	return domain.Sort{
		Key:  domain.SortKey(r.URL.Query().Get("sort")),
		Desc: r.URL.Query().Get("order") == "desc",
	}
}

func parsePage(r *http.Request) domain.Page {
	p := domain.Page{Number: qInt(r, "page"), Size: qInt(r, "pageSize")}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = 24
	}
	if p.Size > 200 {
		p.Size = 200
	}
	return p
}

/********** handlers **********/

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	page := h.Q.List(r.Context(), parseFilter(r), parseSort(r), parsePage(r))
	writeJSON(w, r, page)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.Q.GetByID(r.Context(), id)
	if !ok {
		// fall back to feed-native references so old links keep working
		p, ok = h.Q.GetByReference(r.Context(), id)
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	limit := qInt(r, "limit")
	if limit <= 0 {
		limit = 6
	}
	writeJSON(w, r, h.Q.Featured(r.Context(), limit))
}

func (h *Handlers) listTowns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.GroupByTown(r.Context()))
}

func (h *Handlers) listDevelopments(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("golf") == "true" {
		writeJSON(w, r, h.Q.GolfDevelopments(r.Context()))
		return
	}
	writeJSON(w, r, h.Q.Developments(r.Context()))
}

func (h *Handlers) getDevelopment(w http.ResponseWriter, r *http.Request) {
	d, ok := h.Q.DevelopmentBySlug(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "development not found")
		return
	}
	writeJSON(w, r, d)
}

func (h *Handlers) listBuilders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.GroupByDeveloper(r.Context()))
}

func (h *Handlers) getBuilder(w http.ResponseWriter, r *http.Request) {
	b, ok := h.Q.BuilderBySlug(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "builder not found")
		return
	}
	writeJSON(w, r, b)
}

func (h *Handlers) listGolfCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.GolfCourses())
}

func (h *Handlers) nearGolf(w http.ResponseWriter, r *http.Request) {
	props, ok := h.Q.NearGolf(r.Context(), chi.URLParam(r, "slug"), qFloat(r, "km"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "golf course not found")
		return
	}
	writeJSON(w, r, props)
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.Stats(r.Context()))
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	n := h.Q.ForceRefresh(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]int{"properties": n})
}
