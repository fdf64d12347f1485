// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package api exposes the five engine operations over HTTP: add, verify,
// witness, clear, size.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"grimm.is/portcullis/internal/engine"
	"grimm.is/portcullis/internal/metrics"
	"grimm.is/portcullis/internal/witnessfmt"
)

// BindJSON decodes JSON from the request body into dest. It writes an
// error response and returns false on failure.
func BindJSON[T any](w http.ResponseWriter, r *http.Request, dest *T) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"error": msg} JSON body with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// Server binds an *engine.Engine to a set of HTTP routes. Each add and
// verify request gets a generated run ID for correlating its log lines;
// witness, clear and size requests are not logged and get no run ID.
type Server struct {
	engine *engine.Engine
	logger *log.Logger
	coll   *metrics.Collector
}

// NewServer returns a Server wrapping e. logger and coll may be nil.
func NewServer(e *engine.Engine, logger *log.Logger, coll *metrics.Collector) *Server {
	return &Server{engine: e, logger: logger, coll: coll}
}

// Router builds the gorilla/mux router for this server's routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/rules", s.handleAdd).Methods(http.MethodPost)
	r.HandleFunc("/rules", s.handleSize).Methods(http.MethodGet)
	r.HandleFunc("/rules", s.handleClear).Methods(http.MethodDelete)
	r.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	r.HandleFunc("/witness", s.handleWitness).Methods(http.MethodGet)
	if s.coll != nil {
		r.Handle("/metrics", s.coll.Handler())
	}
	return r
}

type ruleRequest struct {
	Ranges [5][2]uint64 `json:"ranges"`
	Action uint8        `json:"action"`
}

func (rr ruleRequest) toRule() engine.Rule {
	var t engine.Rule
	for d := 0; d < 5; d++ {
		t.Ranges[d] = engine.Range{Lo: rr.Ranges[d][0], Hi: rr.Ranges[d][1]}
	}
	t.Action = engine.Action(rr.Action)
	return t
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	var req ruleRequest
	if !BindJSON(w, r, &req) {
		return
	}

	n, err := s.engine.Add(req.toRule())
	if s.coll != nil {
		s.coll.ObserveAdd(err)
	}
	if err != nil {
		s.logf("run=%s add rejected: %v", runID, err)
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.coll != nil {
		s.coll.SetFirewallSize(n)
	}

	s.logf("run=%s add ok size=%d", runID, n)
	WriteJSON(w, http.StatusCreated, map[string]int{"size": n})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	var req ruleRequest
	if !BindJSON(w, r, &req) {
		return
	}

	start := time.Now()
	ok := s.engine.Verify(req.toRule())
	if s.coll != nil {
		s.coll.ObserveVerify(ok, time.Since(start))
	}

	resp := map[string]any{"ok": ok}
	if !ok {
		witness := s.engine.Witness()
		resp["witness"] = witness
		resp["witness_human"] = witnessfmt.Format(witness)
	}
	s.logf("run=%s verify ok=%v", runID, ok)
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWitness(w http.ResponseWriter, r *http.Request) {
	witness := s.engine.Witness()
	WriteJSON(w, http.StatusOK, map[string]any{
		"witness":       witness,
		"witness_human": witnessfmt.Format(witness),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	prev := s.engine.Clear()
	if s.coll != nil {
		s.coll.SetFirewallSize(0)
	}
	WriteJSON(w, http.StatusOK, map[string]int{"cleared": prev})
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]int{"size": s.engine.Size()})
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
