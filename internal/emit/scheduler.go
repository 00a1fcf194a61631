package emit

import (
	"context"
	"fmt"

	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/record"
	"github.com/san-kum/breathseed/internal/sampler"
)

type Scheduler struct {
	cfg       *config.Config
	mouth     *sampler.MouthSampler
	left      *sampler.Nostril
	right     *sampler.Nostril
	out       *record.Writer
	observers []Observer
}

// New validates cfg and builds the samplers for a run. All samplers share
// one random source seeded with seed.
func New(cfg *config.Config, out *record.Writer, seed uint64) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	cfg = cfg.Clone()
	src := sampler.NewSource(seed)
	m := cfg.Mouth
	n := cfg.Nostril

	return &Scheduler{
		cfg:       cfg,
		mouth:     sampler.NewMouth(m.X, m.YMin, m.YMax, m.ZMin, m.ZMax, src),
		left:      sampler.NewNostril(sampler.LeftNostril, n.Radius, cfg.LeftTransform(), n.MaxRetries, src),
		right:     sampler.NewNostril(sampler.RightNostril, n.Radius, cfg.RightTransform(), n.MaxRetries, src),
		out:       out,
		observers: make([]Observer, 0),
	}, nil
}

func (s *Scheduler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Active reports whether step ti lies in the exhale window of its cycle.
func (s *Scheduler) Active(ti int) bool {
	return Active(s.cfg, ti)
}

func Active(cfg *config.Config, ti int) bool {
	return ti%cfg.Timing.CycleMs < cfg.Timing.ExhaleMs
}

// Expected counts the particles a run of cfg writes without sampling.
func Expected(cfg *config.Config) int {
	total := 0
	for ti := 0; ti < cfg.Timing.RunMs; ti += cfg.Timing.StepMs {
		if Active(cfg, ti) {
			total += cfg.ParticlesPerStep()
		}
	}
	return total
}

// AcceptanceRate is the combined rejection-sampling acceptance rate of both
// nostrils so far.
func (s *Scheduler) AcceptanceRate() float64 {
	lc, la := s.left.Stats()
	rc, ra := s.right.Stats()
	if lc+rc == 0 {
		return 0
	}
	return float64(la+ra) / float64(lc+rc)
}

// Run emits every batch and flushes the writer. The caller owns the
// underlying stream and must close it on every path.
func (s *Scheduler) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{PerRegion: make(map[sampler.Region]int)}

	for _, o := range s.observers {
		o.OnStart(s.cfg)
	}

	t := s.cfg.Timing
	for ti := 0; ti < t.RunMs; ti += t.StepMs {
		select {
		case <-ctx.Done():
			return summary, fmt.Errorf("emission interrupted at t=%d ms: %w", ti, ctx.Err())
		default:
		}

		summary.Steps++
		if !s.Active(ti) {
			continue
		}
		summary.ActiveSteps++

		if err := s.emitBatch(ti, summary); err != nil {
			return summary, err
		}
	}

	if err := s.out.Flush(); err != nil {
		return summary, fmt.Errorf("%w: flush: %w", ErrIO, err)
	}
	return summary, nil
}

func (s *Scheduler) emitBatch(ti int, summary *Summary) error {
	if err := s.write(ti, s.mouth.Draw(s.cfg.Mouth.Count), summary); err != nil {
		return err
	}

	for _, n := range []*sampler.Nostril{s.left, s.right} {
		samples, err := n.Draw(s.cfg.Nostril.Count)
		if err != nil {
			return &RunError{Step: ti, Region: n.Region, Kind: ErrSampling, Wrapped: err}
		}
		if err := s.write(ti, samples, summary); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) write(ti int, samples []sampler.Sample, summary *Summary) error {
	for _, smp := range samples {
		id, err := s.out.Write(ti, smp.Global)
		if err != nil {
			return &RunError{Step: ti, Region: smp.Region, Kind: ErrIO, Wrapped: err}
		}
		summary.Particles++
		summary.PerRegion[smp.Region]++

		if len(s.observers) == 0 {
			continue
		}
		ev := Event{Step: ti, Region: smp.Region, Local: smp.Local, Global: smp.Global, ID: id}
		for _, o := range s.observers {
			o.OnEmit(ev)
		}
	}
	return nil
}
