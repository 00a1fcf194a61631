package viz

import (
	"fmt"
	"time"

	"github.com/san-kum/breathseed/internal/analysis"
	"github.com/san-kum/breathseed/internal/emit"
	"github.com/san-kum/breathseed/internal/sampler"
)

const barWidth = 20

// RenderSummary reports a finished emission run.
func RenderSummary(path string, s *emit.Summary, acceptance float64, elapsed time.Duration) string {
	rows := []Row{
		{"output", path},
		{"particles", fmt.Sprintf("%d", s.Particles)},
		{"steps", fmt.Sprintf("%d (%d active)", s.Steps, s.ActiveSteps)},
	}
	for _, r := range sampler.Regions {
		n := s.PerRegion[r]
		share := 0.0
		if s.Particles > 0 {
			share = float64(n) / float64(s.Particles)
		}
		rows = append(rows, Row{r.String(), fmt.Sprintf("%-6d %s", n, ShareBar(share, barWidth))})
	}
	rows = append(rows,
		Row{"acceptance", fmt.Sprintf("%.4f", acceptance)},
		Row{"elapsed", elapsed.Round(time.Millisecond).String()},
	)
	return RenderPanel("breathseed run", rows)
}

// RenderInspection reports the contents of a particle file.
func RenderInspection(path string, f *analysis.File, s analysis.Summary) string {
	ids := OK.Render("gap free")
	if !s.GapFree {
		ids = Warn.Render(fmt.Sprintf("out of sequence at record %d", s.FirstGap))
	}

	rows := []Row{
		{"file", path},
		{"schema", f.Schema.String()},
		{"particles", fmt.Sprintf("%d", s.Count)},
		{"ids", fmt.Sprintf("%d..%d %s", s.FirstID, s.LastID, ids)},
	}
	for axis, name := range []string{"x", "y", "z"} {
		a := s.Axes[axis]
		rows = append(rows, Row{name, fmt.Sprintf("[%.6f, %.6f] mean %.6f sd %.6f", a.Min, a.Max, a.Mean, a.StdDev)})
	}
	if s.HasTimes {
		rows = append(rows, Row{"release", fmt.Sprintf("%.3f s .. %.3f s", s.TimeMin, s.TimeMax)})
	}
	return RenderPanel("particle file", rows)
}
