// This file is part of RomPatcher.
//
// RomPatcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomPatcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomPatcher.  If not, see <https://www.gnu.org/licenses/>.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/logger"
	"github.com/smwtrolls/rompatcher/patcher"
	"github.com/smwtrolls/rompatcher/version"
)

// error patterns for the server package.
const (
	NotStarted = "server: not started"
)

// DefaultPort used when no port has been configured.
const DefaultPort = 8765

// request bodies larger than this are refused.
const maxRequestSize = 10 * 1024 * 1024

// patch URLs longer than this are refused.
const maxURLLength = 2048

// how long is allowed for in-flight requests when shutting down.
const shutdownTimeout = 5 * time.Second

// PatchFunc is called for every valid patch request. It is expected to
// block until patching is finished.
type PatchFunc func(patchURL string, levelTitle string) (patcher.Result, error)

// Server listens for patch requests over HTTP. The listener binds to the
// loopback interface only; requests from other machines are not a use case.
type Server struct {
	Port  int
	Patch PatchFunc

	srv *http.Server
}

// the shape of a patch request body.
type patchRequest struct {
	PatchURL   string `json:"patch_url"`
	LevelTitle string `json:"level_title"`
}

// the shape of every response body.
type response struct {
	Status  string   `json:"status"`
	Error   string   `json:"error,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
	ReadMe  string   `json:"readme,omitempty"`
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer(port int, patch PatchFunc) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	return &Server{
		Port:  port,
		Patch: patch,
	}
}

// ListenAndServe blocks until the server fails or Shutdown() is called, in
// which case the returned error is nil.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleStatus)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/patch", s.handlePatch)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.Port),
		Handler: mux,
	}

	logger.Logf("server", "listening on %s", s.srv.Addr)

	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		return curated.Errorf("server: %v", err)
	}
	return nil
}

// Shutdown the server, waiting for in-flight requests to finish.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return curated.Errorf(NotStarted)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return curated.Errorf("server: %v", err)
	}

	logger.Log("server", "shut down")

	return nil
}

// every response carries CORS headers so that helper pages in a browser can
// talk to the server
func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func reply(w http.ResponseWriter, code int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func replyError(w http.ResponseWriter, code int, msg string) {
	reply(w, code, response{Status: "error", Error: msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cors(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// the mux routes every unregistered path here
	if r.URL.Path != "/" {
		replyError(w, http.StatusNotFound, "no such endpoint")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Application string `json:"application"`
		Version     string `json:"version"`
	}{
		Application: version.ApplicationName,
		Version:     version.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cors(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	reply(w, http.StatusOK, response{Status: "ok"})
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	cors(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
		// fall through to the handling below
	default:
		replyError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req patchRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		replyError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return
	}

	if req.PatchURL == "" {
		replyError(w, http.StatusBadRequest, "patch_url required")
		return
	}
	if len(req.PatchURL) > maxURLLength {
		replyError(w, http.StatusBadRequest, "patch_url too long")
		return
	}

	u, err := url.Parse(req.PatchURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		replyError(w, http.StatusBadRequest, "patch_url must be an http or https URL")
		return
	}

	title := strings.TrimSpace(req.LevelTitle)

	logger.Logf("server", "patch request: %s", req.PatchURL)

	res, err := s.Patch(req.PatchURL, title)
	if err != nil {
		logger.Logf("server", "patch request failed: %v", err)
		replyError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply(w, http.StatusOK, response{
		Status:  "ok",
		Outputs: res.Outputs,
		ReadMe:  res.ReadMe,
	})
}

// Addr returns the address the server will bind to. Useful for reporting to
// the user.
func (s *Server) Addr() string {
	return net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", s.Port))
}
