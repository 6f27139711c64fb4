// Package tracker follows a walker's live position along an active route
// and emits turn-approach, milestone, heartbeat and arrival events. One
// tracker serves one navigation session; feed it each GPS sample and act
// on the returned events.
package tracker

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"guidely/pkg/geo"
	"guidely/pkg/guidance"
)

// State is the lifecycle of a tracking session.
type State int

const (
	StateNotStarted State = iota
	StateTracking
	StateArrived
)

// String returns the stable wire name of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateTracking:
		return "tracking"
	case StateArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// EventKind classifies a progress event.
type EventKind int

const (
	EventApproachingTurn EventKind = iota
	EventReachedTurn
	EventMilestone
	EventHeartbeat
	EventArrived
)

// String returns the stable wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventApproachingTurn:
		return "approaching_turn"
	case EventReachedTurn:
		return "reached_turn"
	case EventMilestone:
		return "milestone"
	case EventHeartbeat:
		return "heartbeat"
	case EventArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Event is one announcement produced by an Update call. Turn and TurnIndex
// are set for the turn-related kinds; Meters carries the milestone value,
// or the remaining distance for heartbeat and arrival.
type Event struct {
	Kind      EventKind
	Turn      *guidance.Turn
	TurnIndex int
	Meters    float64
	Message   string
}

// ProgressUpdate is the result of feeding one position sample. Distance
// traveled is the raw closest-segment projection: GPS noise can make it
// regress between samples, and the tracker reports that honestly. Callers
// that display a remaining distance should only refresh the shown value
// when the new one differs meaningfully.
type ProgressUpdate struct {
	State              State
	DistanceTraveled   float64
	DistanceRemaining  float64
	NextTurn           *guidance.Turn
	NextTurnIndex      int
	DistanceToNextTurn float64
	Throttled          bool
	Events             []Event
}

// Config holds the tracking thresholds, tuned for walking speed and
// consumer GPS accuracy.
type Config struct {
	// BehindToleranceMeters is how far behind the current travel distance
	// a turn may sit and still count as the next turn.
	BehindToleranceMeters float64

	// StartTurnSkipMeters: once this far along, the synthetic start turn
	// is no longer announced as upcoming.
	StartTurnSkipMeters float64

	// ApproachingMeters is the gap at which the next turn is announced.
	ApproachingMeters float64

	// ReachedMeters is the gap at which the next turn counts as taken.
	ReachedMeters float64

	// ArrivalMeters is the straight-line distance to the destination at
	// which the session arrives.
	ArrivalMeters float64

	// Milestones are remaining-distance values, descending, each
	// announced once as the walker crosses it.
	Milestones []float64

	// HeartbeatInterval: when no other event has fired for this long, a
	// generic progress event is emitted.
	HeartbeatInterval time.Duration

	// ThrottleInterval and ThrottleDistanceMeters gate the per-sample
	// recompute: a sample arriving sooner than the interval and closer
	// than the distance to the previous one is skipped.
	ThrottleInterval       time.Duration
	ThrottleDistanceMeters float64

	// NearDestinationMeters and NearTurnMeters disable throttling close
	// to the destination or the next turn, where precision matters more
	// than battery.
	NearDestinationMeters float64
	NearTurnMeters        float64
}

// DefaultConfig returns thresholds tuned for pedestrian campus routes.
func DefaultConfig() Config {
	return Config{
		BehindToleranceMeters:  5.0,
		StartTurnSkipMeters:    10.0,
		ApproachingMeters:      20.0,
		ReachedMeters:          5.0,
		ArrivalMeters:          8.0,
		Milestones:             []float64{200, 150, 120, 100, 80, 60, 50, 40, 30, 20, 10},
		HeartbeatInterval:      25 * time.Second,
		ThrottleInterval:       500 * time.Millisecond,
		ThrottleDistanceMeters: 2.0,
		NearDestinationMeters:  15.0,
		NearTurnMeters:         25.0,
	}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithConfig replaces the default thresholds.
func WithConfig(cfg Config) Option {
	return func(t *Tracker) { t.cfg = cfg }
}

// WithClock injects the time source. Tests use this to drive throttling
// and heartbeats deterministically.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets a structured logger for emitted events. If not set,
// events are not logged.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// Tracker holds the mutable progress state for one active route. All
// methods are safe for concurrent use; each Update is one synchronous
// pass, samples are never processed concurrently for the same route.
type Tracker struct {
	cfg Config
	now func() time.Time
	log *slog.Logger

	mu sync.Mutex

	route  []geo.LatLng
	segCum []float64 // length of the route before segment i
	total  float64
	turns  []guidance.Turn

	state            State
	distanceTraveled float64
	lastRemaining    float64
	nextTurn         int
	approached       map[int]bool
	milestoneCrossed []bool

	haveSample    bool
	lastSampleAt  time.Time
	lastSamplePos geo.LatLng
	lastEventAt   time.Time
}

// New creates a tracker with no active route.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		cfg: DefaultConfig(),
		now: time.Now,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// SetRoute replaces all route-derived state in one step, so a caller never
// observes a route paired with another route's turn list. A route with
// fewer than 2 points is treated as already arrived.
func (t *Tracker) SetRoute(points []geo.LatLng, turns []guidance.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.route = points
	t.turns = turns
	t.distanceTraveled = 0
	t.nextTurn = 0
	t.approached = make(map[int]bool)
	t.milestoneCrossed = make([]bool, len(t.cfg.Milestones))
	t.haveSample = false
	t.lastEventAt = time.Time{}

	if len(points) < 2 {
		t.segCum = nil
		t.total = 0
		t.lastRemaining = 0
		t.state = StateArrived
		return
	}

	t.segCum = make([]float64, len(points)-1)
	cum := 0.0
	for i := 0; i < len(points)-1; i++ {
		t.segCum[i] = cum
		cum += geo.Dist(points[i], points[i+1])
	}
	t.total = cum
	t.lastRemaining = cum
	t.state = StateNotStarted
}

// State returns the current session state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Update processes one position sample and returns the resulting progress
// snapshot plus any events that fired. Samples arriving faster than the
// throttle window with negligible movement are skipped, unless the walker
// is close to the destination or the next turn.
func (t *Tracker) Update(pos geo.LatLng) ProgressUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.route) < 2 || t.state == StateArrived {
		return t.snapshot(false, nil)
	}

	now := t.now()
	if t.haveSample && t.shouldThrottle(now, pos) {
		return t.snapshot(true, nil)
	}
	t.haveSample = true
	t.lastSampleAt = now
	t.lastSamplePos = pos

	if t.state == StateNotStarted {
		t.state = StateTracking
		t.lastEventAt = now
	}

	t.distanceTraveled = t.project(pos)
	remaining := t.total - t.distanceTraveled

	var events []Event
	t.advanceNextTurn()
	events = t.turnEvents(events)

	if geo.Dist(pos, t.route[len(t.route)-1]) < t.cfg.ArrivalMeters {
		t.state = StateArrived
		events = append(events, Event{
			Kind:    EventArrived,
			Meters:  remaining,
			Message: t.arrivalMessage(),
		})
	} else {
		events = t.milestoneEvents(events, remaining)
		if len(events) == 0 && now.Sub(t.lastEventAt) >= t.cfg.HeartbeatInterval {
			events = append(events, Event{
				Kind:    EventHeartbeat,
				Meters:  remaining,
				Message: fmt.Sprintf("Continue for %d meters", int(math.Round(remaining))),
			})
		}
	}

	if len(events) > 0 {
		t.lastEventAt = now
		for _, ev := range events {
			t.log.Debug("progress event",
				"kind", ev.Kind.String(),
				"meters", ev.Meters,
				"traveled", t.distanceTraveled)
		}
	}
	t.lastRemaining = remaining

	return t.snapshot(false, events)
}

// shouldThrottle applies the sampling gate. Called with the lock held.
func (t *Tracker) shouldThrottle(now time.Time, pos geo.LatLng) bool {
	if now.Sub(t.lastSampleAt) >= t.cfg.ThrottleInterval {
		return false
	}
	if geo.Dist(pos, t.lastSamplePos) >= t.cfg.ThrottleDistanceMeters {
		return false
	}
	if geo.Dist(pos, t.route[len(t.route)-1]) <= t.cfg.NearDestinationMeters {
		return false
	}
	if i := t.nextTurn; i < len(t.turns) &&
		geo.Dist(pos, t.turns[i].Position) <= t.cfg.NearTurnMeters {
		return false
	}
	return true
}

// project returns the distance traveled along the route for pos: full
// segments before the closest segment, plus the clamped projection onto
// it. O(N) over the route's points, which stays in the tens for campus
// routes.
func (t *Tracker) project(pos geo.LatLng) float64 {
	bestDist := math.Inf(1)
	traveled := 0.0
	for i := 0; i < len(t.route)-1; i++ {
		d, ratio := geo.PointToSegmentDist(pos, t.route[i], t.route[i+1])
		if d < bestDist {
			bestDist = d
			segLen := geo.Dist(t.route[i], t.route[i+1])
			traveled = t.segCum[i] + segLen*ratio
		}
	}
	return traveled
}

// advanceNextTurn moves the next-turn index past turns left behind. The
// index only moves forward, so a noisy sample that momentarily regresses
// the projection cannot re-announce a passed turn.
func (t *Tracker) advanceNextTurn() {
	for t.nextTurn < len(t.turns) {
		turn := t.turns[t.nextTurn]
		if t.nextTurn == 0 && t.distanceTraveled > t.cfg.StartTurnSkipMeters {
			t.nextTurn++
			continue
		}
		if turn.DistanceFromStart < t.distanceTraveled-t.cfg.BehindToleranceMeters {
			t.nextTurn++
			continue
		}
		return
	}
}

// turnEvents emits approaching and reached events for the next turn. The
// arrived turn is excluded; arrival has its own straight-line check.
func (t *Tracker) turnEvents(events []Event) []Event {
	i := t.nextTurn
	if i == 0 || i >= len(t.turns) || t.turns[i].Type == guidance.TurnArrived {
		return events
	}

	turn := &t.turns[i]
	gap := turn.DistanceFromStart - t.distanceTraveled
	if math.Abs(gap) <= t.cfg.ReachedMeters {
		events = append(events, Event{
			Kind:      EventReachedTurn,
			Turn:      turn,
			TurnIndex: i,
			Meters:    gap,
			Message:   turn.Instruction,
		})
		t.nextTurn++
		return events
	}
	if gap <= t.cfg.ApproachingMeters && !t.approached[i] {
		t.approached[i] = true
		events = append(events, Event{
			Kind:      EventApproachingTurn,
			Turn:      turn,
			TurnIndex: i,
			Meters:    gap,
			Message:   fmt.Sprintf("In %d meters: %s", int(math.Round(gap)), turn.Instruction),
		})
	}
	return events
}

// milestoneEvents emits each milestone the remaining distance crossed
// since the previous sample, in descending order, each at most once per
// route.
func (t *Tracker) milestoneEvents(events []Event, remaining float64) []Event {
	for i, m := range t.cfg.Milestones {
		if t.milestoneCrossed[i] {
			continue
		}
		if remaining <= m && t.lastRemaining > m {
			t.milestoneCrossed[i] = true
			events = append(events, Event{
				Kind:    EventMilestone,
				Meters:  m,
				Message: fmt.Sprintf("%d meters remaining", int(m)),
			})
		}
	}
	return events
}

func (t *Tracker) arrivalMessage() string {
	if n := len(t.turns); n > 0 && t.turns[n-1].Type == guidance.TurnArrived {
		return t.turns[n-1].Instruction
	}
	return "You have arrived"
}

// snapshot builds the ProgressUpdate for the current state. Called with
// the lock held.
func (t *Tracker) snapshot(throttled bool, events []Event) ProgressUpdate {
	u := ProgressUpdate{
		State:             t.state,
		DistanceTraveled:  t.distanceTraveled,
		DistanceRemaining: t.total - t.distanceTraveled,
		NextTurnIndex:     -1,
		Throttled:         throttled,
		Events:            events,
	}
	if i := t.nextTurn; i < len(t.turns) {
		u.NextTurn = &t.turns[i]
		u.NextTurnIndex = i
		u.DistanceToNextTurn = t.turns[i].DistanceFromStart - t.distanceTraveled
	}
	return u
}
