package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yildizm/countrylookup/internal/logger"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/view"
)

// Result is the JSON answer to every widget action. The page replaces both
// panes only when Changed is set and shows Notice when present. Notices
// never come with Changed.
type Result struct {
	Changed      bool           `json:"changed"`
	View         string         `json:"view"`
	Mode         string         `json:"mode"`
	EscapeActive bool           `json:"escape_active"`
	Notice       *search.Notice `json:"notice,omitempty"`
	ListHTML     string         `json:"list_html"`
	DetailHTML   string         `json:"detail_html"`
	Error        string         `json:"error,omitempty"`
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)

	sess.mu.Lock()
	state := sess.ctrl.State()
	sess.mu.Unlock()

	page := view.NewPage("Country lookup", s.opts.Debounce, search.FailureText)
	page.List = view.NewList(state.List)
	if state.Detail != nil {
		d := view.NewDetail(state.Detail)
		page.Detail = &d
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.html.Page(w, page); err != nil {
		s.log.Error("render page: %v", err)
	}
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)

	sess.mu.Lock()
	req, ok := sess.ctrl.Prepare(r.URL.Query().Get("name"))
	lookup := sess.ctrl.Lookuper()
	if !ok {
		res := s.result(sess.ctrl, search.Outcome{View: sess.ctrl.View()})
		sess.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}
	sess.mu.Unlock()

	// the lock is released while waiting so a later search can finish first
	resp := search.Fetch(r.Context(), lookup, req)

	sess.mu.Lock()
	out := sess.ctrl.Apply(resp)
	res := s.result(sess.ctrl, out)
	sess.mu.Unlock()

	s.metrics.ObserveLookup(resp, out)
	s.log.DebugWithFields("search", []logger.Field{
		logger.F("query", req.Name),
		logger.F("generation", req.Generation),
		logger.F("view", res.View),
		logger.Duration(resp.Elapsed),
	})

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	name := r.FormValue("name")

	sess.mu.Lock()
	out, err := sess.ctrl.Select(name)
	res := s.result(sess.ctrl, out)
	sess.mu.Unlock()

	s.metrics.ObserveAction("select", out.Changed)

	if errors.Is(err, search.ErrUnknownEntry) {
		res.Error = err.Error()
		writeJSON(w, http.StatusNotFound, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) escapeHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)

	sess.mu.Lock()
	out := sess.ctrl.Escape()
	res := s.result(sess.ctrl, out)
	sess.mu.Unlock()

	s.metrics.ObserveAction("escape", out.Changed)
	writeJSON(w, http.StatusOK, res)
}

// result renders the controller's panes into a Result. Callers hold the session lock.
func (s *Server) result(ctrl *search.Controller, out search.Outcome) Result {
	state := ctrl.State()
	res := Result{
		Changed:      out.Changed,
		View:         out.View.String(),
		Mode:         state.Mode.String(),
		EscapeActive: state.Mode == search.ModeClickedDetail,
		Notice:       out.Notice,
	}

	var err error
	if res.ListHTML, err = s.html.ListString(view.NewList(state.List)); err != nil {
		s.log.Error("render list: %v", err)
	}
	if state.Detail != nil {
		if res.DetailHTML, err = s.html.DetailString(view.NewDetail(state.Detail)); err != nil {
			s.log.Error("render detail: %v", err)
		}
	}
	return res
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
