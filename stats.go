package offcanvas

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// FrameRecord is the per-frame telemetry of one render round trip.
type FrameRecord struct {
	Frame         int64   `csv:"frame"`
	Nodes         int     `csv:"nodes"`
	BuildMs       float64 `csv:"build_ms"`
	EncodeMs      float64 `csv:"encode_ms"`
	WorkerMs      float64 `csv:"worker_ms"`
	RoundTripMs   float64 `csv:"round_trip_ms"`
	PoolAllocated int     `csv:"pool_allocated"`
}

// StatsSummary aggregates the records in the rolling window.
type StatsSummary struct {
	Frames        int64
	Window        int
	MeanRoundTrip float64
	StdRoundTrip  float64
	P50RoundTrip  float64
	P95RoundTrip  float64
	MeanBuild     float64
	MeanWorker    float64
}

// FPS estimates the achievable frame rate from the mean round trip.
func (s StatsSummary) FPS() float64 {
	if s.MeanRoundTrip <= 0 {
		return 0
	}
	return 1000 / s.MeanRoundTrip
}

// Stats keeps a rolling window of frame records and optionally appends every
// record to a CSV file.
type Stats struct {
	window  int
	records []FrameRecord
	next    int
	frames  int64

	csvFile       *os.File
	headerWritten bool
	scratch       []float64
}

// NewStats returns stats with the given window size. A non-empty csvPath
// creates (or truncates) the CSV file.
func NewStats(window int, csvPath string) (*Stats, error) {
	if window <= 0 {
		window = 120
	}
	s := &Stats{window: window, records: make([]FrameRecord, 0, window)}
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", csvPath, err)
		}
		s.csvFile = f
	}
	return s, nil
}

// Add records a frame.
func (s *Stats) Add(r FrameRecord) error {
	s.frames++
	r.Frame = s.frames
	if len(s.records) < s.window {
		s.records = append(s.records, r)
	} else {
		s.records[s.next] = r
		s.next = (s.next + 1) % s.window
	}
	if s.csvFile == nil {
		return nil
	}
	rows := []FrameRecord{r}
	if !s.headerWritten {
		if err := gocsv.Marshal(rows, s.csvFile); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, s.csvFile); err != nil {
		return fmt.Errorf("writing frame stats: %w", err)
	}
	return nil
}

// Frames returns the number of records ever added.
func (s *Stats) Frames() int64 { return s.frames }

// Summary computes aggregates over the window.
func (s *Stats) Summary() StatsSummary {
	sum := StatsSummary{Frames: s.frames, Window: len(s.records)}
	if len(s.records) == 0 {
		return sum
	}
	rt := s.column(func(r *FrameRecord) float64 { return r.RoundTripMs })
	sum.MeanRoundTrip, sum.StdRoundTrip = stat.MeanStdDev(rt, nil)
	slices.Sort(rt)
	sum.P50RoundTrip = stat.Quantile(0.5, stat.Empirical, rt, nil)
	sum.P95RoundTrip = stat.Quantile(0.95, stat.Empirical, rt, nil)
	sum.MeanBuild = stat.Mean(s.column(func(r *FrameRecord) float64 { return r.BuildMs }), nil)
	sum.MeanWorker = stat.Mean(s.column(func(r *FrameRecord) float64 { return r.WorkerMs }), nil)
	return sum
}

func (s *Stats) column(get func(*FrameRecord) float64) []float64 {
	s.scratch = s.scratch[:0]
	for i := range s.records {
		s.scratch = append(s.scratch, get(&s.records[i]))
	}
	return slices.Clone(s.scratch)
}

// Close flushes and closes the CSV file, if any.
func (s *Stats) Close() error {
	if s.csvFile == nil {
		return nil
	}
	err := s.csvFile.Close()
	s.csvFile = nil
	return err
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
