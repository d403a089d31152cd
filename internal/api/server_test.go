package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/venn"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s := New(Config{})
	t.Cleanup(func() {
		if err := s.Close(context.Background()); err != nil {
			t.Errorf("Close error: %v", err)
		}
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/layout", `{"a_only":3,"b_only":3,"intersection":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Layout venn.Layout `json:"layout"`
		Cached bool        `json:"cached"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !body.Layout.Valid {
		t.Error("layout should be valid")
	}
	if body.Layout.Tier != venn.TierComfortable {
		t.Errorf("tier = %v, want comfortable", body.Layout.Tier)
	}
	if body.Cached {
		t.Error("first request should not be cached")
	}
}

func TestLayoutEndpointMalformedBody(t *testing.T) {
	s := testServer(t)

	for name, body := range map[string]string{
		"NotJSON":      "{broken",
		"UnknownField": `{"a_only":1,"bogus":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/v1/layout", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeBody[errorBody](t, rec)
			if resp.Error.Code != "INVALID_INPUT" {
				t.Errorf("error code = %q, want INVALID_INPUT", resp.Error.Code)
			}
		})
	}
}

func TestLayoutEndpointInvalidCounts(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/layout", `{"a_only":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[errorBody](t, rec)
	if resp.Error.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", resp.Error.Code)
	}
	if resp.Error.RequestID == "" {
		t.Error("error responses should carry the request id")
	}
}

func TestPackEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/pack",
		`{"a_only":1,"b_only":1,"intersection":1,"elements":["go","both","rust"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Diagram diagram.Diagram `json:"diagram"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Diagram.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(body.Diagram.Positions))
	}
	if _, ok := body.Diagram.Positions["both"]; !ok {
		t.Error("missing position for element both")
	}
}

func TestPackEndpointWrongElementCount(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/pack",
		`{"a_only":2,"b_only":2,"intersection":0,"elements":["only-one"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[errorBody](t, rec)
	if resp.Error.Code != "INVALID_ELEMENTS" {
		t.Errorf("error code = %q, want INVALID_ELEMENTS", resp.Error.Code)
	}
}

func TestDiagramCRUD(t *testing.T) {
	s := testServer(t)

	// Create
	rec := doJSON(t, s, http.MethodPost, "/v1/diagrams", `{"a_only":2,"b_only":2,"intersection":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[createResponse](t, rec)
	if created.ID == "" {
		t.Fatal("create should return an ID")
	}

	// List
	rec = doJSON(t, s, http.MethodGet, "/v1/diagrams", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[listResponse](t, rec)
	if len(list.IDs) != 1 || list.IDs[0] != created.ID {
		t.Errorf("list = %v, want [%s]", list.IDs, created.ID)
	}

	// Get
	rec = doJSON(t, s, http.MethodGet, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got diagram.Diagram
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding diagram: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got ID %q, want %q", got.ID, created.ID)
	}
	if len(got.Positions) != 5 {
		t.Errorf("got %d positions, want 5", len(got.Positions))
	}

	// Delete
	rec = doJSON(t, s, http.MethodDelete, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	// Gone
	rec = doJSON(t, s, http.MethodGet, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	resp := decodeBody[errorBody](t, rec)
	if resp.Error.Code != "DIAGRAM_NOT_FOUND" {
		t.Errorf("error code = %q, want DIAGRAM_NOT_FOUND", resp.Error.Code)
	}
}

func TestListEmpty(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/diagrams", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// Empty list serializes as [], not null
	if !strings.Contains(rec.Body.String(), `"ids":[]`) {
		t.Errorf("empty list should serialize as [], got %s", rec.Body.String())
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/diagrams", `{"a_only":1,"b_only":1,"intersection":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	created := decodeBody[createResponse](t, rec)

	t.Run("DefaultSVG", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/diagrams/"+created.ID+"/render", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("Content-Type = %q, want image/svg+xml", ct)
		}
		if !strings.Contains(rec.Body.String(), "<svg") {
			t.Error("body should contain an svg document")
		}
	})

	t.Run("PNG", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/diagrams/"+created.ID+"/render?format=png", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", ct)
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/diagrams/"+created.ID+"/render?format=gif", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("UnknownDiagram", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/diagrams/nope/render", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestUnsolvableCountsStillReturnLayout(t *testing.T) {
	s := testServer(t)

	// Counts beyond any tier's capacity yield an invalid layout, not an error
	rec := doJSON(t, s, http.MethodPost, "/v1/layout", `{"a_only":24,"b_only":24,"intersection":24}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Layout venn.Layout `json:"layout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Layout.Valid {
		t.Error("layout should be marked invalid")
	}
	if len(body.Layout.Warnings) == 0 {
		t.Error("invalid layout should carry warnings")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-chosen-id")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-chosen-id" {
		t.Errorf("X-Request-ID = %q, want client-chosen-id", got)
	}

	// Server assigns one when the client sends none
	rec = doJSON(t, s, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("server should assign a request id")
	}
}
