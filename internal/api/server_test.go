package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/observability"
	"github.com/matzehuels/mccabe/pkg/pipeline"
	"github.com/matzehuels/mccabe/pkg/store"
)

const designBody = `{
	"design": {"name": "benzene-toluene", "feed": 1000, "x_b": 0.15, "x_f": 0.65, "x_d": 0.9, "q": 0.5, "r": 1},
	"equilibrium": {"model": "alpha", "alpha": 2.8}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  store.NewMemoryStore(),
		Logger: logger,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	decode(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID = %q, want a UUID", resp.Header.Get("X-Request-ID"))
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/solve", designBody)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body solveResponse
	decode(t, resp, &body)
	if body.Report.Trays != 6 || !body.Feasible {
		t.Errorf("trays = %d feasible = %v, want 6 true", body.Report.Trays, body.Feasible)
	}
	if body.InputHash == "" {
		t.Error("input_hash should be set")
	}
}

func TestSolveInfeasible(t *testing.T) {
	ts := newTestServer(t)
	body := strings.Replace(designBody, `"r": 1`, `"r": 0.5`, 1)
	resp := do(t, http.MethodPost, ts.URL+"/v1/solve", body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out solveResponse
	decode(t, resp, &out)
	if out.Feasible {
		t.Error("R below minimum reflux should be infeasible")
	}
	if out.Report.Stop != column.StopStageCap {
		t.Errorf("stop = %v, want stage cap", out.Report.Stop)
	}
}

func TestSolveStrictFeasible(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/solve?strict=true", designBody)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out solveResponse
	decode(t, resp, &out)
	if !out.Feasible || out.Report.Trays != 6 {
		t.Errorf("trays = %d feasible = %v, want 6 true", out.Report.Trays, out.Feasible)
	}
}

func TestSolveStrictMessage(t *testing.T) {
	ts := newTestServer(t)
	body := strings.Replace(designBody, `"r": 1`, `"r": 0.5`, 1)
	resp := do(t, http.MethodPost, ts.URL+"/v1/solve?strict=1", body)

	var out errorBody
	decode(t, resp, &out)
	if !strings.Contains(out.Error.Message, "R_min 0.597364") {
		t.Errorf("message = %q, want the minimum reflux ratio", out.Error.Message)
	}
}

func TestSolveFormats(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/solve?format="+tt.format, designBody)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := resp.Header.Get("X-Mccabe-Trays"); got != "6" {
				t.Errorf("X-Mccabe-Trays = %q, want 6", got)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("body starts with %.20q, want %q", data, tt.prefix)
			}
		})
	}
}

func TestSolveErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		url    string
		body   string
		status int
		code   string
		field  string
	}{
		{"malformed json", "/v1/solve", `{"design":`, http.StatusBadRequest, "INVALID_INPUT", ""},
		{"unknown field", "/v1/solve", `{"desing": {}}`, http.StatusBadRequest, "INVALID_INPUT", ""},
		{"unordered compositions", "/v1/solve", strings.Replace(designBody, `"x_d": 0.9`, `"x_d": 0.1`, 1), http.StatusBadRequest, "INVALID_COMPOSITION", "x_d"},
		{"negative reflux", "/v1/solve", strings.Replace(designBody, `"r": 1`, `"r": -1`, 1), http.StatusBadRequest, "INVALID_INPUT", "r"},
		{"missing equilibrium", "/v1/solve", `{"design": {"feed": 1000, "x_b": 0.15, "x_f": 0.65, "x_d": 0.9, "q": 0.5, "r": 1}}`, http.StatusBadRequest, "INVALID_EQUILIBRIUM", ""},
		{"bad expression", "/v1/solve", strings.Replace(designBody, `{"model": "alpha", "alpha": 2.8}`, `{"expression": "2.8*x/("}`, 1), http.StatusBadRequest, "INVALID_EQUILIBRIUM", ""},
		{"bad format", "/v1/solve?format=gif", designBody, http.StatusBadRequest, "INVALID_FORMAT", ""},
		{"strict not a boolean", "/v1/solve?strict=maybe", designBody, http.StatusBadRequest, "INVALID_INPUT", ""},
		{"strict below minimum reflux", "/v1/solve?strict=true", strings.Replace(designBody, `"r": 1`, `"r": 0.5`, 1), http.StatusUnprocessableEntity, "INFEASIBLE", ""},
		{"intersection outside column", "/v1/solve", strings.Replace(strings.Replace(designBody, `"q": 0.5`, `"q": 0`, 1), `"r": 1`, `"r": 0.2`, 1), http.StatusBadRequest, "INVALID_INPUT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+tt.url, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			decode(t, resp, &body)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (message %q)", body.Error.Code, tt.code, body.Error.Message)
			}
			if body.Error.Field != tt.field {
				t.Errorf("field = %q, want %q", body.Error.Field, tt.field)
			}
			if body.Error.RequestID == "" {
				t.Error("error should carry the request id")
			}
		})
	}
}

func TestDesignLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Create
	resp := do(t, http.MethodPost, ts.URL+"/v1/designs", designBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var rec store.Record
	decode(t, resp, &rec)
	if rec.ID == uuid.Nil {
		t.Fatal("created record has no id")
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/designs/"+rec.ID.String() {
		t.Errorf("Location = %q", loc)
	}
	if rec.Report.Trays != 6 {
		t.Errorf("Report.Trays = %d, want 6", rec.Report.Trays)
	}

	// Get
	resp = do(t, http.MethodGet, ts.URL+"/v1/designs/"+rec.ID.String(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	var got store.Record
	decode(t, resp, &got)
	if got.ID != rec.ID || got.Design != rec.Design {
		t.Errorf("get = %+v, want %+v", got, rec)
	}

	// List
	resp = do(t, http.MethodGet, ts.URL+"/v1/designs?limit=10", "")
	var list listResponse
	decode(t, resp, &list)
	if list.Count != 1 || list.Designs[0].ID != rec.ID {
		t.Errorf("list = %+v", list)
	}

	// Diagram
	resp = do(t, http.MethodGet, ts.URL+"/v1/designs/"+rec.ID.String()+"/diagram.svg?stage_labels=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("diagram status = %d, want 200", resp.StatusCode)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(svg, []byte("data-stage")) {
		t.Error("diagram should contain step segments")
	}

	// Delete
	resp = do(t, http.MethodDelete, ts.URL+"/v1/designs/"+rec.ID.String(), "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/v1/designs/"+rec.ID.String(), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestDesignErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"invalid id", http.MethodGet, "/v1/designs/not-a-uuid", http.StatusBadRequest},
		{"missing", http.MethodGet, "/v1/designs/" + uuid.NewString(), http.StatusNotFound},
		{"missing diagram", http.MethodGet, "/v1/designs/" + uuid.NewString() + "/diagram.svg", http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/v1/designs/" + uuid.NewString(), http.StatusNotFound},
		{"bad limit", http.MethodGet, "/v1/designs?limit=-1", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/v2/nothing", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/v1/solve", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)

	do(t, http.MethodPost, ts.URL+"/v1/solve", designBody)
	do(t, http.MethodPost, ts.URL+"/v1/solve", strings.Replace(designBody, `"r": 1`, `"r": 0.5`, 1))

	resp := do(t, http.MethodGet, ts.URL+"/v1/stats", "")
	var snap observability.Snapshot
	decode(t, resp, &snap)
	if snap.Solves != 2 {
		t.Errorf("Solves = %d, want 2", snap.Solves)
	}
	if snap.Infeasible != 1 {
		t.Errorf("Infeasible = %d, want 1", snap.Infeasible)
	}
}
