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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smwtrolls/rompatcher/patcher"
	"github.com/smwtrolls/rompatcher/test"
)

func testServer(patch PatchFunc) *Server {
	return NewServer(0, patch)
}

func postPatch(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/patch", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handlePatch(w, r)

	var resp response
	test.ExpectedSuccess(t, json.NewDecoder(w.Body).Decode(&resp))

	return w, resp
}

func TestPatchRequest(t *testing.T) {
	var gotURL string
	var gotTitle string

	s := testServer(func(patchURL string, levelTitle string) (patcher.Result, error) {
		gotURL = patchURL
		gotTitle = levelTitle
		return patcher.Result{Outputs: []string{"/tmp/Troll Level.smc"}, ReadMe: "hello"}, nil
	})

	w, resp := postPatch(t, s, `{"patch_url": "https://example.com/troll.bps", "level_title": "  Troll Level  "}`)
	test.Equate(t, w.Code, http.StatusOK)
	test.Equate(t, resp.Status, "ok")
	test.Equate(t, len(resp.Outputs), 1)
	test.Equate(t, resp.ReadMe, "hello")
	test.Equate(t, gotURL, "https://example.com/troll.bps")
	test.Equate(t, gotTitle, "Troll Level")
}

func TestPatchRequestValidation(t *testing.T) {
	s := testServer(func(_ string, _ string) (patcher.Result, error) {
		t.Fatal("patch function should not have been called")
		return patcher.Result{}, nil
	})

	// no URL
	w, resp := postPatch(t, s, `{"level_title": "whatever"}`)
	test.Equate(t, w.Code, http.StatusBadRequest)
	test.Equate(t, resp.Status, "error")

	// not valid JSON
	w, _ = postPatch(t, s, `patch please`)
	test.Equate(t, w.Code, http.StatusBadRequest)

	// scheme is not http(s)
	w, _ = postPatch(t, s, `{"patch_url": "file:///etc/passwd"}`)
	test.Equate(t, w.Code, http.StatusBadRequest)

	// URL too long
	long := strings.Repeat("x", maxURLLength+1)
	w, _ = postPatch(t, s, `{"patch_url": "https://example.com/`+long+`"}`)
	test.Equate(t, w.Code, http.StatusBadRequest)
}

func TestPatchRequestFailure(t *testing.T) {
	s := testServer(func(_ string, _ string) (patcher.Result, error) {
		return patcher.Result{}, errors.New("patching failed")
	})

	w, resp := postPatch(t, s, `{"patch_url": "https://example.com/troll.bps"}`)
	test.Equate(t, w.Code, http.StatusInternalServerError)
	test.Equate(t, resp.Status, "error")
}

func TestPatchRequestMethod(t *testing.T) {
	s := testServer(nil)

	r := httptest.NewRequest(http.MethodGet, "/patch", nil)
	w := httptest.NewRecorder()
	s.handlePatch(w, r)
	test.Equate(t, w.Code, http.StatusMethodNotAllowed)
}

func TestPreflight(t *testing.T) {
	s := testServer(nil)

	r := httptest.NewRequest(http.MethodOptions, "/patch", nil)
	w := httptest.NewRecorder()
	s.handlePatch(w, r)
	test.Equate(t, w.Code, http.StatusNoContent)
	test.Equate(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
}

func TestHealth(t *testing.T) {
	s := testServer(nil)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, r)
	test.Equate(t, w.Code, http.StatusOK)

	var resp response
	test.ExpectedSuccess(t, json.NewDecoder(w.Body).Decode(&resp))
	test.Equate(t, resp.Status, "ok")
}

func TestStatus(t *testing.T) {
	s := testServer(nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handleStatus(w, r)
	test.Equate(t, w.Code, http.StatusOK)

	var resp struct {
		Application string `json:"application"`
	}
	test.ExpectedSuccess(t, json.NewDecoder(w.Body).Decode(&resp))
	test.Equate(t, resp.Application, "RomPatcher")

	// unknown paths fall through to the root handler
	r = httptest.NewRequest(http.MethodGet, "/no/such/endpoint", nil)
	w = httptest.NewRecorder()
	s.handleStatus(w, r)
	test.Equate(t, w.Code, http.StatusNotFound)
}

func TestDefaultPort(t *testing.T) {
	s := NewServer(0, nil)
	test.Equate(t, s.Port, DefaultPort)
	test.Equate(t, s.Addr(), "127.0.0.1:8765")

	s = NewServer(9000, nil)
	test.Equate(t, s.Port, 9000)
}
