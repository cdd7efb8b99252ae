package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]int{"rooms": 3}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"rooms":3}` {
		t.Errorf("body = %s", got)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   errs.Code
	}{
		{"coded", errs.New(errs.ErrCodeInvalidStrategy, "bad strategy"), http.StatusBadRequest, errs.ErrCodeInvalidStrategy},
		{"wrapped coded", fmt.Errorf("outer: %w", errs.New(errs.ErrCodeNotFound, "gone")), http.StatusNotFound, errs.ErrCodeNotFound},
		{"deadline", fmt.Errorf("split: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, errs.ErrCodeTimeout},
		{"plain", errors.New("disk on fire"), http.StatusInternalServerError, errs.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ErrorResponse(tt.err)
			if status != tt.status || body.Code != tt.code {
				t.Errorf("got %d %s, want %d %s", status, body.Code, tt.status, tt.code)
			}
		})
	}
	if _, body := ErrorResponse(errors.New("disk on fire")); strings.Contains(body.Message, "fire") {
		t.Error("uncoded error text must not leak")
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", "png"))
	if status != http.StatusBadRequest || rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d / %d", status, rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errs.ErrCodeInvalidFormat || body.Message != `unsupported format "png"` {
		t.Errorf("body = %+v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Seed int `json:"seed"`
	}
	decode := func(body string) (req, error) {
		var v req
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return v, DecodeJSON(r, &v)
	}

	if v, err := decode(`{"seed": 9}`); err != nil || v.Seed != 9 {
		t.Errorf("valid body: %+v %v", v, err)
	}
	if v, err := decode(``); err != nil || v.Seed != 0 {
		t.Errorf("empty body: %+v %v", v, err)
	}
	for _, body := range []string{`{"sede": 9}`, `{"seed": 1} {}`, `{`, `{"seed": "x"}`} {
		if _, err := decode(body); !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("decode(%s) = %v, want INVALID_INPUT", body, err)
		}
	}
	big := `{"seed": 1, "pad": "` + strings.Repeat("x", MaxBodyBytes) + `"}`
	if _, err := decode(big); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("oversized body: %v", err)
	}
}

func TestHooksMiddleware(t *testing.T) {
	counters := observability.NewCounters()
	h := Hooks(counters)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/ok", "/ok", "/fail"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	snap := counters.Snapshot()
	if snap.Requests != 3 || snap.Errors != 1 {
		t.Errorf("requests=%d errors=%d, want 3 and 1", snap.Requests, snap.Errors)
	}
}
