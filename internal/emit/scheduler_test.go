package emit_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/emit"
	"github.com/san-kum/breathseed/internal/record"
	"github.com/san-kum/breathseed/internal/sampler"
)

type recorder struct {
	starts int
	events []emit.Event
}

func (r *recorder) OnStart(cfg *config.Config) { r.starts++ }
func (r *recorder) OnEmit(ev emit.Event)       { r.events = append(r.events, ev) }

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Timing.RunMs = 10000
	return cfg
}

var _ = Describe("Scheduler", func() {
	var (
		cfg *config.Config
		buf *bytes.Buffer
		rec *recorder
	)

	run := func(schema record.Schema, seed uint64) (*emit.Summary, error) {
		w := record.NewWriter(buf, schema)
		s, err := emit.New(cfg, w, seed)
		Expect(err).NotTo(HaveOccurred())
		s.AddObserver(rec)
		return s.Run(context.Background())
	}

	BeforeEach(func() {
		cfg = shortConfig()
		buf = &bytes.Buffer{}
		rec = &recorder{}
	})

	Describe("Active", func() {
		It("is true only inside the exhale window", func() {
			Expect(emit.Active(cfg, 0)).To(BeTrue())
			Expect(emit.Active(cfg, 2495)).To(BeTrue())
			Expect(emit.Active(cfg, 2500)).To(BeFalse())
			Expect(emit.Active(cfg, 4995)).To(BeFalse())
			Expect(emit.Active(cfg, 5000)).To(BeTrue())
			Expect(emit.Active(cfg, 7499)).To(BeTrue())
			Expect(emit.Active(cfg, 7500)).To(BeFalse())
		})

		It("emits on every step when the exhale window fills the cycle", func() {
			cfg.Timing.ExhaleMs = cfg.Timing.CycleMs
			for ti := 0; ti < 20000; ti += 5 {
				Expect(emit.Active(cfg, ti)).To(BeTrue())
			}
		})
	})

	Describe("a ten second run", func() {
		It("writes 9000 particles in exhale windows only", func() {
			summary, err := run(record.Full, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Steps).To(Equal(2000))
			Expect(summary.ActiveSteps).To(Equal(1000))
			Expect(summary.Particles).To(Equal(9000))
			Expect(emit.Expected(cfg)).To(Equal(9000))
			Expect(summary.PerRegion).To(Equal(map[sampler.Region]int{
				sampler.Mouth:        5000,
				sampler.LeftNostril:  2000,
				sampler.RightNostril: 2000,
			}))

			Expect(rec.starts).To(Equal(1))
			Expect(rec.events).To(HaveLen(9000))
			for _, ev := range rec.events {
				phase := ev.Step % 5000
				Expect(phase).To(BeNumerically("<", 2500))
			}
		})

		It("emits mouth, left and right batches in order each step", func() {
			_, err := run(record.Full, 2)
			Expect(err).NotTo(HaveOccurred())

			order := []sampler.Region{
				sampler.Mouth, sampler.Mouth, sampler.Mouth, sampler.Mouth, sampler.Mouth,
				sampler.LeftNostril, sampler.LeftNostril,
				sampler.RightNostril, sampler.RightNostril,
			}

			steps := map[int]bool{}
			for i := 0; i < len(rec.events); i += 9 {
				batch := rec.events[i : i+9]
				for j, ev := range batch {
					Expect(ev.Step).To(Equal(batch[0].Step))
					Expect(ev.Region).To(Equal(order[j]))
				}
				steps[batch[0].Step] = true
			}

			Expect(steps).To(HaveLen(1000))
			for ti := 0; ti < 2500; ti += 5 {
				Expect(steps).To(HaveKey(ti))
				Expect(steps).To(HaveKey(ti + 5000))
			}
		})

		It("assigns gap-free identifiers starting at zero in the full schema", func() {
			_, err := run(record.Full, 3)
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(9000))
			for i, line := range lines {
				fields := strings.Split(line, "\t")
				Expect(fields).To(HaveLen(10))
				Expect(fields[9]).To(Equal(strconv.Itoa(i)))
				Expect(rec.events[i].ID).To(Equal(i))
			}
		})

		It("assigns gap-free identifiers starting at one in the compact schema", func() {
			_, err := run(record.Compact, 3)
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(9000))
			for i, line := range lines {
				Expect(line).To(HavePrefix("v, " + strconv.Itoa(i+1) + ", "))
			}
		})

		It("keeps every particle inside its source region", func() {
			_, err := run(record.Full, 4)
			Expect(err).NotTo(HaveOccurred())

			left, err := cfg.LeftTransform().Inverse()
			Expect(err).NotTo(HaveOccurred())
			right, err := cfg.RightTransform().Inverse()
			Expect(err).NotTo(HaveOccurred())
			r2 := cfg.Nostril.Radius * cfg.Nostril.Radius

			for _, ev := range rec.events {
				switch ev.Region {
				case sampler.Mouth:
					Expect(ev.Global.X()).To(Equal(cfg.Mouth.X))
					Expect(ev.Global.Y()).To(BeNumerically(">=", cfg.Mouth.YMin))
					Expect(ev.Global.Y()).To(BeNumerically("<=", cfg.Mouth.YMax+1e-12))
					Expect(ev.Global.Z()).To(BeNumerically(">=", cfg.Mouth.ZMin))
					Expect(ev.Global.Z()).To(BeNumerically("<=", cfg.Mouth.ZMax+1e-12))
				case sampler.LeftNostril:
					p := left.Apply(ev.Global)
					Expect(p.X()*p.X() + p.Y()*p.Y()).To(BeNumerically("<", r2+1e-12))
				case sampler.RightNostril:
					p := right.Apply(ev.Global)
					Expect(p.X()*p.X() + p.Y()*p.Y()).To(BeNumerically("<", r2+1e-12))
				}
			}
		})

		It("is reproducible for a seed", func() {
			_, err := run(record.Full, 9)
			Expect(err).NotTo(HaveOccurred())
			first := buf.String()

			buf = &bytes.Buffer{}
			_, err = run(record.Full, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(Equal(first))
		})
	})

	Describe("batch sizes", func() {
		It("honours configured counts", func() {
			cfg.Mouth.Count = 1
			cfg.Nostril.Count = 3
			cfg.Timing.RunMs = 50

			summary, err := run(record.Full, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.ActiveSteps).To(Equal(10))
			Expect(summary.Particles).To(Equal(70))
			Expect(emit.Expected(cfg)).To(Equal(70))
		})

		It("runs a single step when the run is shorter than one step", func() {
			cfg.Timing.RunMs = 1
			cfg.Timing.StepMs = 5

			summary, err := run(record.Full, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Steps).To(Equal(1))
			Expect(summary.Particles).To(Equal(9))
		})
	})

	Describe("faults", func() {
		It("rejects an invalid configuration before writing", func() {
			cfg.Nostril.Radius = 0
			_, err := emit.New(cfg, record.NewWriter(buf, record.Full), 1)
			Expect(err).To(MatchError(emit.ErrConfig))
			Expect(err).To(MatchError(config.ErrInvalid))
			Expect(buf.Len()).To(BeZero())
		})

		It("aborts with an output fault when writes fail", func() {
			s, err := emit.New(cfg, record.NewWriter(failingWriter{}, record.Full), 1)
			Expect(err).NotTo(HaveOccurred())

			summary, err := s.Run(context.Background())
			Expect(err).To(MatchError(emit.ErrIO))
			Expect(summary.Particles).To(BeNumerically("<", 9000))

			var runErr *emit.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Step).To(BeNumerically(">=", 0))
		})

		It("aborts with a sampling fault when the retry bound is hit", func() {
			cfg.Nostril.MaxRetries = 1
			summary, err := run(record.Full, 6)
			Expect(err).To(MatchError(emit.ErrSampling))
			Expect(err).To(MatchError(sampler.ErrRejectionExhausted))
			Expect(summary.Particles).To(BeNumerically("<", 9000))

			var runErr *emit.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Region).NotTo(Equal(sampler.Mouth))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			s, err := emit.New(cfg, record.NewWriter(buf, record.Full), 1)
			Expect(err).NotTo(HaveOccurred())
			summary, err := s.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(summary.Particles).To(BeZero())
		})
	})

	Describe("nostril acceptance", func() {
		It("stays close to pi/4", func() {
			w := record.NewWriter(buf, record.Full)
			s, err := emit.New(cfg, w, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AcceptanceRate()).To(BeZero())

			_, err = s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AcceptanceRate()).To(BeNumerically("~", 0.785, 0.03))
		})
	})

	Describe("LogObserver", func() {
		It("logs the start and one line per exhale window at debug level", func() {
			var logs bytes.Buffer
			logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

			w := record.NewWriter(buf, record.Full)
			s, err := emit.New(cfg, w, 1)
			Expect(err).NotTo(HaveOccurred())
			s.AddObserver(emit.NewLogObserver(logger))

			_, err = s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			out := logs.String()
			Expect(strings.Count(out, "emission starting")).To(Equal(1))
			Expect(strings.Count(out, "exhale window")).To(Equal(2))
		})

		It("logs every window when steps do not land on cycle boundaries", func() {
			var logs bytes.Buffer
			logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

			cfg.Timing.StepMs = 3
			cfg.Timing.RunMs = 15000
			w := record.NewWriter(buf, record.Full)
			s, err := emit.New(cfg, w, 1)
			Expect(err).NotTo(HaveOccurred())
			s.AddObserver(emit.NewLogObserver(logger))

			_, err = s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(logs.String(), "exhale window")).To(Equal(3))
		})
	})
})
