package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"guidely/pkg/api"
	"guidely/pkg/config"
	"guidely/pkg/graph"
	"guidely/pkg/routing"
	"guidely/pkg/walkway"
)

func main() {
	dataPath := flag.String("data", "", "Path to walkway data (.geojson, .pbf, or encoded polylines)")
	configPath := flag.String("config", "", "Path to optional YAML tuning file")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	if cfg.Data.Path != "" && *dataPath == "" {
		*dataPath = cfg.Data.Path
	}
	if *dataPath == "" {
		log.Error("no walkway data, pass -data or set data.path in the config file")
		os.Exit(1)
	}

	start := time.Now()
	walkways, err := walkway.LoadFile(context.Background(), *dataPath)
	if err != nil {
		log.Error("load walkways", "path", *dataPath, "err", err)
		os.Exit(1)
	}
	log.Info("walkways loaded",
		"path", *dataPath,
		"polylines", len(walkways),
		"points", walkway.TotalPoints(walkways))

	buildCfg := graph.DefaultBuildConfig()
	if cfg.Graph.SnapToleranceMeters > 0 {
		buildCfg.SnapToleranceMeters = cfg.Graph.SnapToleranceMeters
	}
	routeCfg := routing.DefaultConfig()
	if cfg.Routing.EndpointSpliceMeters > 0 {
		routeCfg.EndpointSpliceMeters = cfg.Routing.EndpointSpliceMeters
	}
	engine := routing.NewEngineWithConfig(graph.NewCacheWithConfig(buildCfg), routeCfg)

	// Warm the graph cache before accepting requests.
	nodes, edges, _ := engine.GraphStats(walkways)
	log.Info("graph ready",
		"nodes", nodes,
		"edges", edges,
		"elapsed", time.Since(start).Round(time.Millisecond).String())

	addr := fmt.Sprintf(":%d", *port)
	if cfg.Server.Addr != "" {
		addr = cfg.Server.Addr
	}
	srvCfg := api.DefaultConfig(addr)
	srvCfg.CORSOrigin = *corsOrigin
	if cfg.Server.CORSOrigin != "" {
		srvCfg.CORSOrigin = cfg.Server.CORSOrigin
	}

	handlers := api.NewHandlers(engine, walkways)
	srv := api.NewServer(srvCfg, handlers, log)

	if err := api.ListenAndServe(srv, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
