package walkway

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LoadFile reads walkways from a data file, with the format chosen by
// extension: .geojson/.json, .pbf, or a text file with one encoded
// polyline per line.
func LoadFile(ctx context.Context, path string) ([]Polyline, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return FromGeoJSON(data)
	case ".pbf":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		return FromPBF(ctx, f)
	default:
		return loadEncodedFile(path)
	}
}

func loadEncodedFile(path string) ([]Polyline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan %s", path)
	}
	return FromEncoded(lines)
}
