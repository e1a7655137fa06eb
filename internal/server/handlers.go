package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pbrown/claude-viewer/internal/timing"
)

// maxBodyBytes caps POST bodies; annotation payloads are tiny.
const maxBodyBytes = 1 << 20

// modifiedLayout renders mtimes the way browsers serialize Dates.
const modifiedLayout = "2006-01-02T15:04:05.000Z07:00"

type sessionSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modified string `json:"modified"`
	Size     int64  `json:"size"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type setNameRequest struct {
	Name *string `json:"name"`
}

type setArchivedRequest struct {
	Archive bool `json:"archive"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	done := timing.FromContext(r.Context()).Track("list")
	list := s.transcripts.List()
	done()

	out := make([]sessionSummary, 0, len(list))
	for _, t := range list {
		out = append(out, sessionSummary{
			ID:       t.ID,
			Name:     t.ID,
			Modified: t.ModifiedAt.UTC().Format(modifiedLayout),
			Size:     t.SizeBytes,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	done := timing.FromContext(r.Context()).Track("parse")
	session := s.transcripts.Parse(r.PathValue("id"))
	done()

	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.names.All())
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setNameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// An absent or null name drops the entry.
	done := timing.FromContext(r.Context()).Track("write")
	var err error
	if req.Name == nil {
		err = s.names.Clear(id)
	} else {
		err = s.names.Set(id, *req.Name)
	}
	done()
	if err != nil {
		s.logger.LogWriteFailure("session-names", id, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.archive.All())
}

func (s *Server) handleSetArchived(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setArchivedRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	done := timing.FromContext(r.Context()).Track("write")
	err := s.archive.Set(id, req.Archive)
	done()
	if err != nil {
		s.logger.LogWriteFailure("archived", id, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	done := timing.FromContext(r.Context()).Track("scan")
	results := s.search.Search(r.URL.Query().Get("q"))
	done()

	writeJSON(w, http.StatusOK, results)
}

func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
}

// decodeBody reads a JSON object into v. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
