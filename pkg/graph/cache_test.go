package graph

import (
	"testing"

	"guidely/pkg/walkway"
)

func twoSegmentData() []walkway.Polyline {
	return []walkway.Polyline{{pt(0, 0), pt(0, 100), pt(0, 200)}}
}

func TestCacheReusesGraphForSameInput(t *testing.T) {
	c := NewCache()
	data := twoSegmentData()

	g1 := c.Get(data)
	g2 := c.Get(data)

	if g1 != g2 {
		t.Error("expected the same *Graph instance on a fingerprint match")
	}
	if c.Builds() != 1 {
		t.Errorf("Builds = %d, want 1", c.Builds())
	}
}

func TestCacheRebuildsOnChangedInput(t *testing.T) {
	c := NewCache()

	g1 := c.Get(twoSegmentData())
	changed := []walkway.Polyline{{pt(0, 0), pt(0, 100), pt(0, 200), pt(100, 200)}}
	g2 := c.Get(changed)

	if g1 == g2 {
		t.Error("expected a rebuild for structurally different input")
	}
	if c.Builds() != 2 {
		t.Errorf("Builds = %d, want 2", c.Builds())
	}
}

func TestCacheInvalidateForcesRebuild(t *testing.T) {
	c := NewCache()
	data := twoSegmentData()

	g1 := c.Get(data)
	c.Invalidate()
	g2 := c.Get(data)

	if g1 == g2 {
		t.Error("expected a rebuild after Invalidate")
	}
	if c.Builds() != 2 {
		t.Errorf("Builds = %d, want 2", c.Builds())
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := twoSegmentData()

	tests := []struct {
		name     string
		mutate   func([]walkway.Polyline) []walkway.Polyline
		wantSame bool
	}{
		{
			name:     "identical input",
			mutate:   func(p []walkway.Polyline) []walkway.Polyline { return p },
			wantSame: true,
		},
		{
			name: "extra polyline",
			mutate: func(p []walkway.Polyline) []walkway.Polyline {
				return append(p, walkway.Polyline{pt(50, 0), pt(50, 100)})
			},
			wantSame: false,
		},
		{
			name: "moved endpoint",
			mutate: func(p []walkway.Polyline) []walkway.Polyline {
				out := []walkway.Polyline{append(walkway.Polyline{}, p[0]...)}
				out[0][len(out[0])-1] = pt(0, 300)
				return out
			},
			wantSame: false,
		},
	}

	fp := FingerprintOf(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FingerprintOf(tt.mutate(twoSegmentData()))
			if (got == fp) != tt.wantSame {
				t.Errorf("fingerprint equality = %v, want %v", got == fp, tt.wantSame)
			}
		})
	}
}
