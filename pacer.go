package offcanvas

import "time"

// Decision is the outcome of a pacer tick.
type Decision uint8

const (
	Skip    Decision = iota // interval not elapsed yet
	Proceed                 // build and send a render
	Blocked                 // interval elapsed but the last render is unacknowledged
)

var decisionNames = [...]string{"skip", "proceed", "blocked"}

func (d Decision) String() string {
	if int(d) < len(decisionNames) {
		return decisionNames[d]
	}
	return "unknown"
}

// Resize describes a change of the host box or zoom since the last
// observation.
type Resize struct {
	Box      Size
	Zoom     float64
	LastBox  Size
	LastZoom float64
}

// ZoomChanged reports whether the zoom factor differs.
func (r Resize) ZoomChanged() bool { return r.Zoom != r.LastZoom }

// Pacer gates renders to a target interval and to one unacknowledged render
// at a time. It also tracks the last seen host box and zoom.
type Pacer struct {
	interval  time.Duration
	remaining time.Duration
	awaiting  bool

	lastBox  Size
	lastZoom float64
	observed bool
}

// NewPacer returns a pacer with the given interval. The first render is due
// one interval after creation.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, remaining: interval, lastZoom: 1}
}

// IntervalForFPS converts a target frame rate into a pacing interval.
// Non-positive rates use 60.
func IntervalForFPS(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Tick advances the pacer clock by elapsed.
func (p *Pacer) Tick(elapsed time.Duration) Decision {
	p.remaining -= elapsed
	if p.remaining > 0 {
		return Skip
	}
	if p.awaiting {
		return Blocked
	}
	return Proceed
}

// Dispatched records that a render was sent: the interval restarts and
// further renders are blocked until Acknowledge.
func (p *Pacer) Dispatched() {
	p.remaining = p.interval
	p.awaiting = true
}

// Hold blocks renders until Acknowledge without restarting the interval.
func (p *Pacer) Hold() {
	p.awaiting = true
}

// Acknowledge clears the outstanding render.
func (p *Pacer) Acknowledge() {
	p.awaiting = false
}

// Awaiting reports whether an acknowledgement is outstanding.
func (p *Pacer) Awaiting() bool { return p.awaiting }

// Interval returns the pacing interval.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Remaining returns the time left until the next render is due.
func (p *Pacer) Remaining() time.Duration { return p.remaining }

// Observe compares box and zoom with the previous observation. It records the
// new values and reports whether either changed. The first observation only
// records.
func (p *Pacer) Observe(box Size, zoom float64) (Resize, bool) {
	if !p.observed {
		p.observed = true
		p.lastBox = box
		p.lastZoom = zoom
		return Resize{}, false
	}
	if box == p.lastBox && zoom == p.lastZoom {
		return Resize{}, false
	}
	r := Resize{Box: box, Zoom: zoom, LastBox: p.lastBox, LastZoom: p.lastZoom}
	p.lastBox = box
	p.lastZoom = zoom
	return r, true
}
