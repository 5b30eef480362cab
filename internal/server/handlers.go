package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/you-not-fish/tfi/internal/compiler"
	"github.com/you-not-fish/tfi/internal/jsrun"
)

type compileRequest struct {
	Source   string           `json:"source"`
	Filename string           `json:"filename,omitempty"`
	Options  compiler.Options `json:"options"`
}

type compileResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Stats    *compiler.Stats `json:"stats,omitempty"`
	Output   *string         `json:"output,omitempty"`
	RunError string          `json:"runError,omitempty"`
	Error    *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Stage      string `json:"stage,omitempty"`
	Line       uint32 `json:"line,omitempty"`
	Column     uint32 `json:"column,omitempty"`
	Statement  int    `json:"statement,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Rendered   string `json:"rendered,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"id": requestID(r), "status": "ok"})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.compile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, ok := s.compile(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if s.conf.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.RunTimeout)
		defer cancel()
	}
	out, err := jsrun.Output(ctx, res.Code)
	res.Output = &out
	if err != nil {
		res.RunError = err.Error()
		s.log.Debug("Program failed", "reqid", res.ID, "err", err)
	}
	writeJSON(w, http.StatusOK, res)
}

// compile decodes the request and compiles it. On failure it writes the
// error response and returns ok == false.
func (s *Server) compile(w http.ResponseWriter, r *http.Request) (*compileResponse, bool) {
	id := requestID(r)

	var req compileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &compileResponse{
			ID:    id,
			Error: &errorBody{Message: fmt.Sprintf("invalid request: %v", err)},
		})
		return nil, false
	}
	if req.Filename == "" {
		req.Filename = "input.tfi"
	}

	res, err := compiler.CompileWithOptions(req.Filename, []byte(req.Source), req.Options)
	if err != nil {
		var cerr *compiler.Error
		if !errors.As(err, &cerr) {
			writeJSON(w, http.StatusInternalServerError, &compileResponse{ID: id, Error: &errorBody{Message: err.Error()}})
			return nil, false
		}
		s.log.Debug("Compilation rejected", "reqid", id, "stage", cerr.Stage, "err", cerr.Err)
		writeJSON(w, http.StatusUnprocessableEntity, &compileResponse{ID: id, Error: &errorBody{
			Stage:      strings.ToLower(cerr.Stage.String()),
			Line:       cerr.Pos.Line(),
			Column:     cerr.Pos.Col(),
			Statement:  cerr.Stmt,
			Message:    cerr.Message,
			Suggestion: cerr.Suggestion,
			Rendered:   cerr.Render(),
		}})
		return nil, false
	}

	return &compileResponse{
		ID:       id,
		Code:     res.Code,
		Warnings: res.WarningMessages(),
		Stats:    res.Stats,
	}, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
