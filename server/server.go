// Package server exposes the editing session over HTTP for browser-based
// review.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"essay_editor/editor"
	"essay_editor/essay"
	"essay_editor/session"
)

const modelCallTimeout = 60 * time.Second

type Server struct {
	agent *editor.Agent
	store *sessionStore
}

type editSession struct {
	mu      sync.Mutex
	essay   *essay.Essay
	history []session.Turn
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*editSession
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*editSession)}
}

func (s *sessionStore) set(id string, sess *editSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*editSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func New(agent *editor.Agent) (*Server, error) {
	if agent == nil {
		return nil, errors.New("editor agent required")
	}
	return &Server{agent: agent, store: newStore()}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)
	mux.HandleFunc("/api/sessions/", s.handleSessionByID)
	return mux
}

// --- Handlers ---

type sessionCreateReq struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

type sessionResp struct {
	SessionID string         `json:"session_id"`
	Filename  string         `json:"filename"`
	Working   string         `json:"working"`
	Suggested string         `json:"suggested"`
	History   []session.Turn `json:"history"`
}

type editReq struct {
	Operation editor.Operation `json:"operation"`
	Passage   string           `json:"passage"`
}

type editResp struct {
	Suggested string `json:"suggested"`
}

type applyReq struct {
	Operation   editor.Operation `json:"operation"`
	Passage     string           `json:"passage"`
	Replacement string           `json:"replacement"`
	Accept      bool             `json:"accept"`
}

type saveResp struct {
	Path  string `json:"path"`
	Saved bool   `json:"saved"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req sessionCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Filename == "" || req.Text == "" {
		http.Error(w, "filename and text are required", http.StatusBadRequest)
		return
	}

	es := essay.New(req.Filename, req.Text)
	ctx, cancel := context.WithTimeout(r.Context(), modelCallTimeout)
	defer cancel()
	suggested, err := s.agent.SuggestRewrite(ctx, es.Original)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	es.Suggested = suggested

	id := newSessionID()
	sess := &editSession{essay: es}
	s.store.set(id, sess)
	writeJSON(w, stateResp(id, sess))
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess, ok := s.store.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, stateResp(id, sess))
	case "edit":
		s.handleEdit(w, r, sess)
	case "apply":
		s.handleApply(w, r, id, sess)
	case "preview":
		s.handlePreview(w, r, sess)
	case "save":
		s.handleSave(w, r, sess)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, sess *editSession) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req editReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !req.Operation.Valid() {
		http.Error(w, "operation must be rewrite, rephrase, or expand", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	found := sess.essay.Contains(req.Passage)
	sess.mu.Unlock()
	if !found {
		http.Error(w, essay.ErrPassageNotFound.Error(), http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), modelCallTimeout)
	defer cancel()
	suggested, err := s.agent.EditPassage(ctx, req.Operation, req.Passage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, editResp{Suggested: suggested})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request, id string, sess *editSession) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req applyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if req.Accept {
		if err := sess.essay.Apply(req.Passage, req.Replacement); err != nil {
			if errors.Is(err, essay.ErrPassageNotFound) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	sess.history = append(sess.history, session.Turn{
		Op:        req.Operation,
		Passage:   req.Passage,
		Suggested: req.Replacement,
		Accepted:  req.Accept,
		CreatedAt: time.Now(),
	})
	writeJSON(w, stateRespLocked(id, sess))
}

// handlePreview renders the working text as HTML. Essays are plain text but
// usually valid markdown, so paragraphs and headings come through.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, sess *editSession) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess.mu.Lock()
	working := sess.essay.Working
	sess.mu.Unlock()

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(working), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, sess *editSession) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess.mu.Lock()
	path, saved, err := sess.essay.Save()
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, saveResp{Path: path, Saved: saved})
}

// --- Helpers ---

func stateResp(id string, sess *editSession) sessionResp {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return stateRespLocked(id, sess)
}

func stateRespLocked(id string, sess *editSession) sessionResp {
	return sessionResp{
		SessionID: id,
		Filename:  sess.essay.Filename,
		Working:   sess.essay.Working,
		Suggested: sess.essay.Suggested,
		History:   sess.history,
	}
}

func newSessionID() string {
	return strings.ReplaceAll(time.Now().Format("20060102T150405.000000000"), ".", "")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
