// Package config loads the optional YAML tuning file for the binaries.
// Library packages take plain config structs; this package only maps a
// file onto them.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config collects the tunables of every component. Zero or missing fields
// fall back to the component defaults.
type Config struct {
	Server struct {
		Addr       string `koanf:"addr"`
		CORSOrigin string `koanf:"corsOrigin"`
	} `koanf:"server"`

	Data struct {
		// Path to the walkway data file. Format is chosen by extension:
		// .geojson/.json, .pbf, or a text file of encoded polylines.
		Path            string `koanf:"path"`
		DestinationName string `koanf:"destinationName"`
	} `koanf:"data"`

	Graph struct {
		SnapToleranceMeters float64 `koanf:"snapToleranceMeters"`
	} `koanf:"graph"`

	Routing struct {
		EndpointSpliceMeters float64 `koanf:"endpointSpliceMeters"`
	} `koanf:"routing"`

	Guidance struct {
		SimplifyToleranceMeters float64 `koanf:"simplifyToleranceMeters"`
		LookAheadMeters         float64 `koanf:"lookAheadMeters"`
		MinTurnAngleDegrees     float64 `koanf:"minTurnAngleDegrees"`
		MergeDistanceMeters     float64 `koanf:"mergeDistanceMeters"`
	} `koanf:"guidance"`

	Tracker struct {
		ApproachingMeters float64       `koanf:"approachingMeters"`
		ArrivalMeters     float64       `koanf:"arrivalMeters"`
		HeartbeatInterval time.Duration `koanf:"heartbeatInterval"`
	} `koanf:"tracker"`
}

// Load reads the YAML file at path into a Config. A missing file is not an
// error when the path is empty; the zero Config means "all defaults".
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return cfg, nil
}
