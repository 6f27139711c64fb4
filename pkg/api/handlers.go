// Package api is a local development surface over the routing engine:
// compute a route over the loaded walkway set, inspect graph stats, force
// a cache rebuild. Route computation itself stays in-process; this is a
// debugging harness, not the product architecture.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"guidely/pkg/geo"
	"guidely/pkg/guidance"
	"guidely/pkg/routing"
	"guidely/pkg/walkway"
)

// Router is the slice of the routing engine the handlers need.
type Router interface {
	ComputeRoute(ctx context.Context, polylines []walkway.Polyline, start, end geo.LatLng) (*routing.PathResult, error)
	GraphStats(polylines []walkway.Polyline) (nodes, edges, builds int)
	InvalidateGraphCache()
}

// Handlers holds the HTTP handlers and their dependencies. The walkway set
// is loaded once at startup and shared across requests.
type Handlers struct {
	router   Router
	walkways []walkway.Polyline
}

// NewHandlers creates handlers over the given router and walkway set.
func NewHandlers(router Router, walkways []walkway.Polyline) *Handlers {
	return &Handlers{
		router:   router,
		walkways: walkways,
	}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	// Validate coordinates.
	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	// Route.
	start := geo.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng}
	end := geo.LatLng{Lat: req.End.Lat, Lng: req.End.Lng}
	result, err := h.router.ComputeRoute(r.Context(), h.walkways, start, end)
	if err != nil {
		if errors.Is(err, routing.ErrNoGraphData) {
			writeError(w, http.StatusUnprocessableEntity, "no_graph_data", "")
			return
		}
		if errors.Is(err, routing.ErrNoRoute) {
			writeError(w, http.StatusNotFound, "no_route_found", "")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	// Build response.
	resp := RouteResponse{
		TotalDistanceMeters: result.DistanceMeters,
		Geometry:            walkway.Encode(result.Points),
	}
	for _, turn := range guidance.DetectTurns(result.Points, req.DestinationName) {
		resp.Turns = append(resp.Turns, TurnJSON{
			Type:              turn.Type.String(),
			Position:          LatLngJSON{Lat: turn.Position.Lat, Lng: turn.Position.Lng},
			AngleDegrees:      turn.AngleDegrees,
			DistanceFromStart: turn.DistanceFromStart,
			DistanceToNext:    turn.DistanceToNext,
			Instruction:       turn.Instruction,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	nodes, edges, builds := h.router.GraphStats(h.walkways)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		NumWalkways: len(h.walkways),
		NumNodes:    nodes,
		NumEdges:    edges,
		CacheBuilds: builds,
	})
}

// HandleInvalidate handles POST /api/v1/invalidate. The next route request
// rebuilds the graph even if the walkway set is unchanged.
func (h *Handlers) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	h.router.InvalidateGraphCache()
	w.WriteHeader(http.StatusNoContent)
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
