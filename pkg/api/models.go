package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start           LatLngJSON `json:"start"`
	End             LatLngJSON `json:"end"`
	DestinationName string     `json:"destination_name,omitempty"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
// Geometry is an encoded polyline of the full path.
type RouteResponse struct {
	TotalDistanceMeters float64    `json:"total_distance_meters"`
	Geometry            string     `json:"geometry"`
	Turns               []TurnJSON `json:"turns"`
}

// TurnJSON represents one maneuver in the response.
type TurnJSON struct {
	Type              string     `json:"type"`
	Position          LatLngJSON `json:"position"`
	AngleDegrees      float64    `json:"angle_degrees"`
	DistanceFromStart float64    `json:"distance_from_start"`
	DistanceToNext    float64    `json:"distance_to_next"`
	Instruction       string     `json:"instruction"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumWalkways int `json:"num_walkways"`
	NumNodes    int `json:"num_nodes"`
	NumEdges    int `json:"num_edges"`
	CacheBuilds int `json:"cache_builds"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
