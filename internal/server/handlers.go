package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	"github.com/matzehuels/acrostic/pkg/buildinfo"
	errs "github.com/matzehuels/acrostic/pkg/errors"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// defaultAlternatives caps /v1/alternatives when no limit is given.
const defaultAlternatives = 10

// ArrangeRequest is the body of POST /v1/arrange and /v1/alternatives.
type ArrangeRequest struct {
	Text         string `json:"text"`
	Token        string `json:"token"`
	MinLineChars int    `json:"min_line_chars,omitempty"`
	MaxLineChars int    `json:"max_line_chars,omitempty"`
	CapSchedule  []int  `json:"cap_schedule,omitempty"`
}

// ArrangeResponse is the body of a successful arrange call.
type ArrangeResponse struct {
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Lines  []acrostic.Line `json:"lines"`
	Column int             `json:"column"`
	Cost   float64         `json:"cost"`
	Cap    int             `json:"cap"`
	Cached bool            `json:"cached"`
}

// AlternativesResponse is the body of a successful alternatives call.
type AlternativesResponse struct {
	ID      string            `json:"id"`
	Layouts []ArrangeResponse `json:"layouts"`
}

// ErrorResponse is the body of every error response. Sentinel is set only
// for layout failures.
type ErrorResponse struct {
	Code     errs.Code `json:"code"`
	Error    string    `json:"error"`
	Sentinel string    `json:"sentinel,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := layoutResponse(res.Layout)
	resp.ID = requestIDFrom(r.Context())
	resp.Cached = res.CacheHit
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlternatives
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:  errs.ErrCodeInvalidInput,
				Error: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	opts, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	layouts, err := s.runner.Alternatives(r.Context(), opts, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := AlternativesResponse{
		ID:      requestIDFrom(r.Context()),
		Layouts: make([]ArrangeResponse, len(layouts)),
	}
	for i, l := range layouts {
		resp.Layouts[i] = layoutResponse(l)
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeRequest reads an ArrangeRequest into pipeline options, filling
// unset layout options from the config. On failure it writes the response
// and returns false.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var req ArrangeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Code:  errs.ErrCodeInvalidInput,
				Error: "request body too large",
			})
			return pipeline.Options{}, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:  errs.ErrCodeInvalidFormat,
			Error: "malformed JSON: " + err.Error(),
		})
		return pipeline.Options{}, false
	}

	opts := pipeline.Options{
		Text:         req.Text,
		Token:        req.Token,
		MinLineChars: req.MinLineChars,
		MaxLineChars: req.MaxLineChars,
		CapSchedule:  req.CapSchedule,
	}
	s.cfg.ApplyLayout(&opts)
	return opts, true
}

// writeError maps pipeline errors to responses. Layout failures and
// invalid input are the caller's problem (422); anything else is ours.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Code: errs.GetCode(err), Error: errs.UserMessage(err)}

	switch {
	case errs.IsLayoutFailure(err):
		resp.Sentinel = acrostic.Sentinel
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case resp.Code == errs.ErrCodeInvalidInput || resp.Code == errs.ErrCodeInvalidConfig:
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		s.logger.Error("arrange failed", "id", requestIDFrom(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:  errs.ErrCodeInternal,
			Error: "internal error",
		})
	}
}

func layoutResponse(l *acrostic.Layout) ArrangeResponse {
	return ArrangeResponse{
		Text:   l.String(),
		Lines:  l.Lines,
		Column: l.Column,
		Cost:   l.Cost,
		Cap:    l.Cap,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
