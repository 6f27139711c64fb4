package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guidely/pkg/geo"
	"guidely/pkg/routing"
	"guidely/pkg/walkway"
)

// mockRouter implements Router for testing.
type mockRouter struct {
	result      *routing.PathResult
	err         error
	invalidated int
}

func (m *mockRouter) ComputeRoute(ctx context.Context, polylines []walkway.Polyline, start, end geo.LatLng) (*routing.PathResult, error) {
	return m.result, m.err
}

func (m *mockRouter) GraphStats(polylines []walkway.Polyline) (nodes, edges, builds int) {
	return 42, 41, 1
}

func (m *mockRouter) InvalidateGraphCache() {
	m.invalidated++
}

func TestHandleRoute_Success(t *testing.T) {
	mock := &mockRouter{
		result: &routing.PathResult{
			Points: []geo.LatLng{
				{Lat: 1.3, Lng: 103.8},
				{Lat: 1.35, Lng: 103.85},
			},
			DistanceMeters: 1234.5,
		},
	}
	h := NewHandlers(mock, nil)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85},"destination_name":"Library"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalDistanceMeters != 1234.5 {
		t.Errorf("TotalDistanceMeters = %f, want 1234.5", resp.TotalDistanceMeters)
	}
	if resp.Geometry == "" {
		t.Error("Geometry is empty, want encoded polyline")
	}
	if len(resp.Turns) != 2 {
		t.Fatalf("Turns length = %d, want 2", len(resp.Turns))
	}
	if resp.Turns[0].Type != "straight" {
		t.Errorf("first turn type = %q, want 'straight'", resp.Turns[0].Type)
	}
	last := resp.Turns[len(resp.Turns)-1]
	if last.Type != "arrived" {
		t.Errorf("last turn type = %q, want 'arrived'", last.Type)
	}
	if last.Instruction != "You have arrived at Library" {
		t.Errorf("arrival instruction = %q", last.Instruction)
	}
}

func TestHandleRoute_InvalidJSON(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_OutOfBounds(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil)

	// Latitude out of valid range (-90 to 90).
	body := `{"start":{"lat":91.0,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_NoRoute(t *testing.T) {
	mock := &mockRouter{err: routing.ErrNoRoute}
	h := NewHandlers(mock, nil)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleRoute_NoGraphData(t *testing.T) {
	mock := &mockRouter{err: routing.ErrNoGraphData}
	h := NewHandlers(mock, nil)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockRouter{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(&mockRouter{}, make([]walkway.Polyline, 3))

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 42 {
		t.Errorf("NumNodes = %d, want 42", resp.NumNodes)
	}
	if resp.NumWalkways != 3 {
		t.Errorf("NumWalkways = %d, want 3", resp.NumWalkways)
	}
}

func TestHandleInvalidate(t *testing.T) {
	mock := &mockRouter{}
	h := NewHandlers(mock, nil)

	req := httptest.NewRequest("POST", "/api/v1/invalidate", nil)
	w := httptest.NewRecorder()

	h.HandleInvalidate(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if mock.invalidated != 1 {
		t.Errorf("invalidated = %d, want 1", mock.invalidated)
	}
}
