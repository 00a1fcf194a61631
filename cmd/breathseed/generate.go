package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/emit"
	"github.com/san-kum/breathseed/internal/record"
	"github.com/san-kum/breathseed/internal/sampler"
	"github.com/san-kum/breathseed/internal/storage"
	"github.com/san-kum/breathseed/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	replay     string
	seed       uint64
	recordRun  bool
	quiet      bool

	stepMs   int
	runMs    int
	cycleMs  int
	exhaleMs int

	mouthX     float64
	mouthYMin  float64
	mouthYMax  float64
	mouthZMin  float64
	mouthZMax  float64
	mouthCount int

	radius       float64
	nostrilCount int
	maxRetries   int
	leftRows     []float64
	rightRows    []float64

	output string
	schema string
	header bool
	debug  bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "write the initial particle file",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	f.StringVar(&preset, "preset", "default", "base preset")
	f.StringVar(&replay, "replay", "", "regenerate a recorded run by id")
	f.Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.BoolVar(&recordRun, "record", false, "store run metadata in the registry")
	f.BoolVarP(&quiet, "quiet", "q", false, "only print the final particle count")

	f.IntVar(&stepMs, "step", config.DefaultStepMs, "time step (ms)")
	f.IntVar(&runMs, "run", config.DefaultRunMs, "run length (ms)")
	f.IntVar(&cycleMs, "cycle", config.DefaultCycleMs, "breathing cycle period (ms)")
	f.IntVar(&exhaleMs, "exhale", config.DefaultExhaleMs, "exhale window per cycle (ms)")

	f.Float64Var(&mouthX, "mouth-x", config.DefaultMouthX, "mouth plane x")
	f.Float64Var(&mouthYMin, "mouth-ymin", config.DefaultMouthYMin, "mouth y lower bound")
	f.Float64Var(&mouthYMax, "mouth-ymax", config.DefaultMouthYMax, "mouth y upper bound")
	f.Float64Var(&mouthZMin, "mouth-zmin", config.DefaultMouthZMin, "mouth z lower bound")
	f.Float64Var(&mouthZMax, "mouth-zmax", config.DefaultMouthZMax, "mouth z upper bound")
	f.IntVar(&mouthCount, "mouth-count", config.DefaultMouthCount, "mouth particles per active step")

	f.Float64Var(&radius, "radius", config.DefaultRadius, "nostril radius")
	f.IntVar(&nostrilCount, "nostril-count", config.DefaultNostrilCount, "particles per nostril per active step")
	f.IntVar(&maxRetries, "max-retries", sampler.DefaultMaxRetries, "rejection sampling bound per particle")
	f.Float64SliceVar(&leftRows, "left", nil, "left nostril 3x4 transform, 12 values row-major")
	f.Float64SliceVar(&rightRows, "right", nil, "right nostril 3x4 transform, 12 values row-major")

	f.StringVarP(&output, "output", "o", config.DefaultOutput, "output file")
	f.StringVar(&schema, "schema", config.DefaultSchema, "output schema: full or compact")
	f.BoolVar(&header, "header", true, "write the comment header (full schema)")
	f.BoolVar(&debug, "debug", false, "trace the run start and exhale windows")

	return cmd
}

// resolveConfig layers preset, config file or replayed run, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case replay != "":
		loaded, err := storage.New(dataDir).LoadConfig(replay)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	default:
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("step") {
		cfg.Timing.StepMs = stepMs
	}
	if flags.Changed("run") {
		cfg.Timing.RunMs = runMs
	}
	if flags.Changed("cycle") {
		cfg.Timing.CycleMs = cycleMs
	}
	if flags.Changed("exhale") {
		cfg.Timing.ExhaleMs = exhaleMs
	}
	if flags.Changed("mouth-x") {
		cfg.Mouth.X = mouthX
	}
	if flags.Changed("mouth-ymin") {
		cfg.Mouth.YMin = mouthYMin
	}
	if flags.Changed("mouth-ymax") {
		cfg.Mouth.YMax = mouthYMax
	}
	if flags.Changed("mouth-zmin") {
		cfg.Mouth.ZMin = mouthZMin
	}
	if flags.Changed("mouth-zmax") {
		cfg.Mouth.ZMax = mouthZMax
	}
	if flags.Changed("mouth-count") {
		cfg.Mouth.Count = mouthCount
	}
	if flags.Changed("radius") {
		cfg.Nostril.Radius = radius
	}
	if flags.Changed("nostril-count") {
		cfg.Nostril.Count = nostrilCount
	}
	if flags.Changed("max-retries") {
		cfg.Nostril.MaxRetries = maxRetries
	}
	if flags.Changed("left") {
		rows, err := parseRows(leftRows)
		if err != nil {
			return nil, fmt.Errorf("--left: %w", err)
		}
		cfg.Nostril.Left = rows
	}
	if flags.Changed("right") {
		rows, err := parseRows(rightRows)
		if err != nil {
			return nil, fmt.Errorf("--right: %w", err)
		}
		cfg.Nostril.Right = rows
	}
	if flags.Changed("output") {
		cfg.Output.Path = output
	}
	if flags.Changed("schema") {
		cfg.Output.Schema = schema
	}
	if flags.Changed("header") {
		cfg.Output.Header = header
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

func parseRows(values []float64) ([3][4]float64, error) {
	var rows [3][4]float64
	if len(values) != 12 {
		return rows, fmt.Errorf("expected 12 values, got %d", len(values))
	}
	for i := 0; i < 3; i++ {
		copy(rows[i][:], values[i*4:i*4+4])
	}
	return rows, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration rejected", "err", err)
		return fmt.Errorf("%w: %w", emit.ErrConfig, err)
	}
	if cfg.Debug {
		logger.SetLevel(charmlog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("generating particles", "output", cfg.Output.Path, "schema", cfg.Output.Schema,
		"expected", emit.Expected(cfg), "seed", cfg.Seed)
	prog := newProgress(logger)

	summary, acceptance, err := writeParticles(ctx, cfg, logger)
	if err != nil {
		logger.Error("run aborted", "err", err)
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d particles", summary.Particles))

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), viz.RenderSummary(cfg.Output.Path, summary, acceptance, prog.elapsed()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Particle data written to %s with %d particles.\n", cfg.Output.Path, summary.Particles)

	if recordRun {
		id, err := saveRun(cfg, summary, acceptance, prog.elapsed())
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		logger.Info("run recorded", "id", id, "data", dataDir)
	}
	return nil
}

// writeParticles owns the output file for the whole run: it is flushed and
// closed on every return path, including aborts.
func writeParticles(ctx context.Context, cfg *config.Config, logger *charmlog.Logger) (summary *emit.Summary, acceptance float64, err error) {
	outSchema, err := cfg.OutputSchema()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", emit.ErrConfig, err)
	}

	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", emit.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", emit.ErrIO, cfg.Output.Path, cerr)
		}
	}()

	w := record.NewWriter(f, outSchema)
	defer w.Flush()

	if cfg.Output.Header {
		if err := w.WriteHeader(); err != nil {
			return nil, 0, fmt.Errorf("%w: header: %w", emit.ErrIO, err)
		}
	}

	s, err := emit.New(cfg, w, cfg.Seed)
	if err != nil {
		return nil, 0, err
	}
	if cfg.Debug || verbose {
		s.AddObserver(emit.NewLogObserver(logger))
	}

	summary, err = s.Run(ctx)
	return summary, s.AcceptanceRate(), err
}

func saveRun(cfg *config.Config, summary *emit.Summary, acceptance float64, elapsed time.Duration) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	perRegion := make(map[string]int, len(summary.PerRegion))
	for r, n := range summary.PerRegion {
		perRegion[r.String()] = n
	}

	meta := storage.RunMetadata{
		Seed:           cfg.Seed,
		Output:         cfg.Output.Path,
		Schema:         cfg.Output.Schema,
		Steps:          summary.Steps,
		ActiveSteps:    summary.ActiveSteps,
		Particles:      summary.Particles,
		PerRegion:      perRegion,
		AcceptanceRate: acceptance,
		ElapsedMs:      float64(elapsed) / float64(time.Millisecond),
	}
	if replay != "" {
		meta.Labels = map[string]string{"replay_of": replay}
	} else if configFile == "" {
		meta.Preset = preset
	}
	return st.Save(meta, cfg)
}
