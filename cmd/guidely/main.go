// Command guidely runs an end-to-end walk simulation: load walkways,
// compute a route, replay positions along it through the progress tracker,
// and log every instruction and event a walker would hear.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"guidely/pkg/config"
	"guidely/pkg/geo"
	"guidely/pkg/graph"
	"guidely/pkg/guidance"
	"guidely/pkg/routing"
	"guidely/pkg/tracker"
	"guidely/pkg/walkway"
)

func main() {
	dataPath := flag.String("data", "", "Path to walkway data (.geojson, .pbf, or encoded polylines)")
	configPath := flag.String("config", "", "Path to optional YAML tuning file")
	from := flag.String("from", "", "Start coordinate as lat,lng")
	to := flag.String("to", "", "Destination coordinate as lat,lng")
	dest := flag.String("dest", "", "Destination name for instructions")
	speed := flag.Float64("speed", 1.4, "Walking speed in m/s")
	interval := flag.Duration("interval", time.Second, "Simulated GPS sample interval")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(log, *dataPath, *configPath, *from, *to, *dest, *speed, *interval); err != nil {
		log.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, dataPath, configPath, from, to, dest string, speed float64, interval time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.Path != "" && dataPath == "" {
		dataPath = cfg.Data.Path
	}
	if dest == "" {
		dest = cfg.Data.DestinationName
	}
	if dataPath == "" {
		return errors.New("no walkway data, pass -data or set data.path in the config file")
	}

	start, err := parseLatLng(from)
	if err != nil {
		return fmt.Errorf("parse -from: %w", err)
	}
	end, err := parseLatLng(to)
	if err != nil {
		return fmt.Errorf("parse -to: %w", err)
	}

	walkways, err := walkway.LoadFile(context.Background(), dataPath)
	if err != nil {
		return err
	}
	log.Info("walkways loaded", "polylines", len(walkways), "points", walkway.TotalPoints(walkways))

	buildCfg := graph.DefaultBuildConfig()
	if cfg.Graph.SnapToleranceMeters > 0 {
		buildCfg.SnapToleranceMeters = cfg.Graph.SnapToleranceMeters
	}
	engine := routing.NewEngineWithConfig(graph.NewCacheWithConfig(buildCfg), routing.DefaultConfig())

	result, err := engine.ComputeRoute(context.Background(), walkways, start, end)
	if err != nil {
		if !errors.Is(err, routing.ErrNoRoute) {
			return err
		}
		log.Warn("no walkway route, falling back to straight line")
		result = routing.FallbackRoute(start, end)
	}
	log.Info("route computed", "distance_m", fmt.Sprintf("%.1f", result.DistanceMeters), "points", len(result.Points))

	guideCfg := guidance.DefaultConfig()
	if cfg.Guidance.SimplifyToleranceMeters > 0 {
		guideCfg.SimplifyToleranceMeters = cfg.Guidance.SimplifyToleranceMeters
	}
	if cfg.Guidance.LookAheadMeters > 0 {
		guideCfg.LookAheadMeters = cfg.Guidance.LookAheadMeters
	}
	if cfg.Guidance.MinTurnAngleDegrees > 0 {
		guideCfg.MinTurnAngleDegrees = cfg.Guidance.MinTurnAngleDegrees
	}
	if cfg.Guidance.MergeDistanceMeters > 0 {
		guideCfg.MergeDistanceMeters = cfg.Guidance.MergeDistanceMeters
	}
	turns := guidance.NewDetector(guideCfg).DetectTurns(result.Points, dest)
	for _, turn := range turns {
		log.Info("maneuver",
			"type", turn.Type.String(),
			"at_m", fmt.Sprintf("%.0f", turn.DistanceFromStart),
			"instruction", turn.Instruction)
	}

	trackCfg := tracker.DefaultConfig()
	if cfg.Tracker.ApproachingMeters > 0 {
		trackCfg.ApproachingMeters = cfg.Tracker.ApproachingMeters
	}
	if cfg.Tracker.ArrivalMeters > 0 {
		trackCfg.ArrivalMeters = cfg.Tracker.ArrivalMeters
	}
	if cfg.Tracker.HeartbeatInterval > 0 {
		trackCfg.HeartbeatInterval = cfg.Tracker.HeartbeatInterval
	}

	// Simulated wall clock: one tick per GPS sample.
	simTime := time.Now()
	tr := tracker.New(
		tracker.WithConfig(trackCfg),
		tracker.WithClock(func() time.Time { return simTime }),
		tracker.WithLogger(log),
	)
	tr.SetRoute(result.Points, turns)

	cum := cumulative(result.Points)
	step := speed * interval.Seconds()
	samples := 0
	for traveled := 0.0; ; traveled += step {
		if traveled > result.DistanceMeters {
			traveled = result.DistanceMeters
		}
		u := tr.Update(pointAt(result.Points, cum, traveled))
		samples++
		for _, ev := range u.Events {
			log.Info("event",
				"kind", ev.Kind.String(),
				"message", ev.Message,
				"traveled_m", fmt.Sprintf("%.0f", u.DistanceTraveled),
				"remaining_m", fmt.Sprintf("%.0f", u.DistanceRemaining))
		}
		if u.State == tracker.StateArrived {
			log.Info("walk complete",
				"samples", samples,
				"sim_elapsed", (time.Duration(samples-1) * interval).String())
			return nil
		}
		if traveled >= result.DistanceMeters {
			return errors.New("reached route end without arrival event")
		}
		simTime = simTime.Add(interval)
	}
}

// parseLatLng parses a "lat,lng" flag value.
func parseLatLng(s string) (geo.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.LatLng{}, fmt.Errorf("want lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.LatLng{}, err
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.LatLng{}, err
	}
	return geo.LatLng{Lat: lat, Lng: lng}, nil
}

// cumulative returns the path length up to each point.
func cumulative(points []geo.LatLng) []float64 {
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + geo.Dist(points[i-1], points[i])
	}
	return cum
}

// pointAt interpolates the position a given distance along the path.
func pointAt(points []geo.LatLng, cum []float64, d float64) geo.LatLng {
	if len(points) == 0 {
		return geo.LatLng{}
	}
	if d <= 0 {
		return points[0]
	}
	for i := 1; i < len(points); i++ {
		if d <= cum[i] {
			segLen := cum[i] - cum[i-1]
			if segLen == 0 {
				return points[i]
			}
			r := (d - cum[i-1]) / segLen
			return geo.LatLng{
				Lat: points[i-1].Lat + (points[i].Lat-points[i-1].Lat)*r,
				Lng: points[i-1].Lng + (points[i].Lng-points[i-1].Lng)*r,
			}
		}
	}
	return points[len(points)-1]
}
