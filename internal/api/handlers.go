package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mccabe/pkg/buildinfo"
	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/pipeline"
	"github.com/matzehuels/mccabe/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type solveResponse struct {
	Report    column.Report `json:"report"`
	Feasible  bool          `json:"feasible"`
	Cached    bool          `json:"cached"`
	InputHash string        `json:"input_hash"`
}

type listResponse struct {
	Designs []store.Record `json:"designs"`
	Count   int            `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

// handleSolve returns the report, or the rendered diagram when ?format= is
// given. With ?strict=true a report that does not reach x_D is rejected.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	strict, err := queryBool(r, "strict")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	if format := r.URL.Query().Get("format"); format != "" {
		opts.Formats = []string{format}
		s.renderDiagram(w, r, opts)
		return
	}

	sol, hit, err := s.runner.SolveWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if strict && !sol.Report.Feasible() {
		s.writeErr(w, r, infeasible(sol.Report))
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{
		Report:    sol.Report,
		Feasible:  sol.Report.Feasible(),
		Cached:    hit,
		InputHash: sol.InputHash,
	})
}

func (s *Server) handleCreateDesign(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(w, r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	sol, err := s.runner.Solve(r.Context(), opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	rec := store.NewRecord(opts.Design, opts.Equilibrium, sol.Report)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.logger.Info("stored design", "id", rec.ID, "trays", rec.Report.Trays, "request_id", requestIDFromContext(r.Context()))

	w.Header().Set("Location", "/v1/designs/"+rec.ID.String())
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Designs: recs, Count: len(recs)})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDesignDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Design:      rec.Design,
		Equilibrium: rec.Equilibrium,
		Formats:     []string{chi.URLParam(r, "format")},
		StageLabels: q.Get("stage_labels") == "true",
		HideLegend:  q.Get("legend") == "false",
	}
	if v := q.Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "samples must be an integer, got %q", v))
			return
		}
		opts.Samples = n
	}
	s.renderDiagram(w, r, opts)
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// renderDiagram runs the full pipeline for exactly one format and writes the
// artifact.
func (s *Server) renderDiagram(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Mccabe-Trays", strconv.Itoa(result.Report.Trays))
	w.Header().Set("X-Mccabe-Feasible", strconv.FormatBool(result.Report.Feasible()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// infeasible describes why stepping did not reach x_D.
func infeasible(rep column.Report) error {
	if rep.Stop == column.StopCurve {
		return errors.New(errors.ErrCodeInfeasible,
			"equilibrium curve is not finite; stepping stopped after %d trays", rep.Trays)
	}
	if rep.RMinError == "" {
		return errors.New(errors.ErrCodeInfeasible,
			"x_D not reached within %d stages at R = %g (R_min %.6g)", column.MaxStages, rep.R, rep.RMin)
	}
	return errors.New(errors.ErrCodeInfeasible,
		"x_D not reached within %d stages at R = %g", column.MaxStages, rep.R)
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

func decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Field     string `json:"field,omitempty"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeFieldError(w, r, status, code, msg, "")
}

func writeFieldError(w http.ResponseWriter, r *http.Request, status int, code, msg, field string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	body.Error.Field = field
	body.Error.RequestID = requestIDFromContext(r.Context())
	writeJSON(w, status, body)
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		if code == string(errors.ErrCodeInternal) {
			msg = "internal error"
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		code, msg = "TIMEOUT", fmt.Sprintf("request exceeded %s", s.timeout)
	}
	writeFieldError(w, r, status, code, msg, errors.FieldOf(err))
}

func statusFor(err error) int {
	switch {
	case errors.IsInput(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeInfeasible):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
