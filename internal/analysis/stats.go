package analysis

import (
	"errors"
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoReleaseTimes = errors.New("analysis: file has no release times")
	ErrBinWidth       = errors.New("analysis: bin width must be positive and finite")
	ErrTooManyBins    = errors.New("analysis: bin width too small for release range")
)

// MaxBins bounds the length of a release histogram.
const MaxBins = 1_000_000

type AxisStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

type Summary struct {
	Count   int
	FirstID int
	LastID  int
	// GapFree is true when ids increase by exactly one from FirstID.
	GapFree  bool
	FirstGap int // index of the first out-of-sequence record, -1 if none
	Axes     [3]AxisStats
	TimeMin  float64
	TimeMax  float64
	HasTimes bool
}

func Summarize(f *File) Summary {
	s := Summary{Count: len(f.Particles), GapFree: true, FirstGap: -1}
	if s.Count == 0 {
		return s
	}

	s.FirstID = f.Particles[0].ID
	s.LastID = f.Particles[s.Count-1].ID
	for i, p := range f.Particles {
		if p.ID != s.FirstID+i {
			s.GapFree = false
			s.FirstGap = i
			break
		}
	}

	col := make([]float64, s.Count)
	for axis := 0; axis < 3; axis++ {
		for i, p := range f.Particles {
			col[i] = p.Pos[axis]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if s.Count < 2 {
			std = 0
		}
		s.Axes[axis] = AxisStats{Mean: mean, StdDev: std, Min: floats.Min(col), Max: floats.Max(col)}
	}

	s.TimeMin, s.TimeMax = math.Inf(1), math.Inf(-1)
	for _, p := range f.Particles {
		if !p.HasTime {
			continue
		}
		s.HasTimes = true
		s.TimeMin = math.Min(s.TimeMin, p.Time)
		s.TimeMax = math.Max(s.TimeMax, p.Time)
	}
	if !s.HasTimes {
		s.TimeMin, s.TimeMax = 0, 0
	}
	return s
}

// Bin is one release-time histogram bucket covering [Start, End).
type Bin struct {
	Start float64 `csv:"start_s"`
	End   float64 `csv:"end_s"`
	Count int     `csv:"count"`
}

// ReleaseHistogram buckets particles by release time from 0 up to the last
// release.
func ReleaseHistogram(f *File, width float64) ([]Bin, error) {
	if !(width > 0) || math.IsInf(width, 1) {
		return nil, ErrBinWidth
	}

	maxT := -1.0
	for _, p := range f.Particles {
		if p.HasTime && p.Time > maxT {
			maxT = p.Time
		}
	}
	if maxT < 0 {
		return nil, ErrNoReleaseTimes
	}

	if !(maxT/width < MaxBins) {
		return nil, ErrTooManyBins
	}
	n := int(math.Floor(maxT/width)) + 1
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Start: float64(i) * width, End: float64(i+1) * width}
	}
	for _, p := range f.Particles {
		if !p.HasTime || !(p.Time >= 0) {
			continue
		}
		idx := int(math.Floor(p.Time / width))
		if idx >= n {
			idx = n - 1
		}
		bins[idx].Count++
	}
	return bins, nil
}

// Counts returns the bin counts as a plottable series.
func Counts(bins []Bin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = float64(b.Count)
	}
	return out
}

func WriteHistogramCSV(w io.Writer, bins []Bin) error {
	return gocsv.Marshal(bins, w)
}
