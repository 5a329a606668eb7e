package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cortex/pkg/buildinfo"
	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/report"
	"github.com/matzehuels/cortex/pkg/session"
)

const (
	contentJSON = "application/json"
	contentSVG  = "image/svg+xml"
	contentDOT  = "text/vnd.graphviz; charset=utf-8"
	contentText = "text/plain; charset=utf-8"
)

type healthResponse struct {
	Status         string         `json:"status"`
	CatalogVersion string         `json:"catalog_version"`
	Store          string         `json:"store"`
	Build          buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// planRequest is the POST /api/plans body. A plan_id regenerates an
// existing plan in place.
type planRequest struct {
	report.Selections
	PlanID string `json:"plan_id,omitempty"`
}

type planResponse struct {
	State report.State   `json:"state"`
	Plan  *report.Plan   `json:"plan"`
	Stats pipeline.Stats `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store := "none"
	if s.runner.Store != nil {
		store = session.Backend(s.runner.Store)
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		CatalogVersion: s.runner.Catalog.Version,
		Store:          store,
		Build:          buildinfo.Get(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Catalog)
}

func (s *Server) handleMindmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	switch format {
	case pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG:
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidFormat,
			"mindmap format %q not served over HTTP (use json, dot or svg)", format))
		return
	}

	opts := pipeline.Options{
		CenterLabel: q.Get("center"),
		Tooltips:    q.Get("tooltips") != "false",
	}
	g, err := s.runner.Layout(r.Context(), q.Get("objective"), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, g)
		return
	}

	opts.Mindmap = []string{format}
	artifacts, err := s.runner.RenderMindmap(r.Context(), g, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	contentType := contentSVG
	if format == pipeline.FormatDOT {
		contentType = contentDOT
	}
	writeBytes(w, contentType, artifacts[pipeline.ArtifactKey(pipeline.KindMindmap, format)])
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vertical, objective := q.Get("vertical"), q.Get("objective")
	if vertical == "" || objective == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "vertical and objective are required"))
		return
	}
	kind := q.Get("chart")
	if kind != "" {
		if err := pipeline.ValidateChart(kind); err != nil {
			writeError(w, err)
			return
		}
	}

	a, err := s.runner.Allocate(r.Context(), vertical, objective, q.Get("budget"))
	if err != nil {
		writeError(w, err)
		return
	}
	if kind == "" {
		writeJSON(w, http.StatusOK, a)
		return
	}
	title := fmt.Sprintf("%s / %s", vertical, objective)
	charts := pipeline.RenderCharts(a.Table, title, []string{kind})
	writeBytes(w, contentSVG, charts[pipeline.ArtifactKey(kind, pipeline.FormatSVG)])
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Objective:  req.Objective,
		Vertical:   req.Vertical,
		Stage:      req.Stage,
		Budget:     req.Budget,
		Priorities: req.Priorities,
		PlanID:     req.PlanID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if req.PlanID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, planResponse{State: res.State, Plan: res.Plan, Stats: res.Stats})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	st, err := s.loadPlan(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePlanReport(w http.ResponseWriter, r *http.Request) {
	st, err := s.loadPlan(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeBytes(w, contentText, []byte(st.FinalPlan))
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePlanID(id); err != nil {
		writeError(w, err)
		return
	}
	if s.runner.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no plan store configured"))
		return
	}
	if err := s.runner.Store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadPlan(r *http.Request) (report.State, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePlanID(id); err != nil {
		return report.State{}, err
	}
	return s.runner.LoadState(r.Context(), id)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func notFoundRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

// statusFor maps an error's class to its HTTP status.
func statusFor(err error) int {
	switch errors.ClassOf(err) {
	case errors.ClassInput, errors.ClassCatalog:
		return http.StatusBadRequest
	case errors.ClassMissing:
		return http.StatusNotFound
	case errors.ClassUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
