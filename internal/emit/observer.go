package emit

import (
	"github.com/charmbracelet/log"
	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/sampler"
)

// LogObserver traces a run at debug level: the configuration once, then the
// first particle of every exhale window.
type LogObserver struct {
	logger  *log.Logger
	cycleMs int
	last    int
}

func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger, last: -1}
}

func (o *LogObserver) OnStart(cfg *config.Config) {
	o.cycleMs = cfg.Timing.CycleMs
	o.logger.Debug("emission starting",
		"step_ms", cfg.Timing.StepMs,
		"run_ms", cfg.Timing.RunMs,
		"cycle_ms", cfg.Timing.CycleMs,
		"exhale_ms", cfg.Timing.ExhaleMs,
		"per_step", cfg.ParticlesPerStep(),
		"radius", cfg.Nostril.Radius,
		"schema", cfg.Output.Schema,
		"expected", Expected(cfg),
	)
}

func (o *LogObserver) OnEmit(ev Event) {
	if ev.Region != sampler.Mouth || o.cycleMs == 0 {
		return
	}
	cycle := ev.Step / o.cycleMs
	if cycle == o.last {
		return
	}
	o.last = cycle
	o.logger.Debug("exhale window",
		"cycle", cycle,
		"t_ms", ev.Step,
		"first_id", ev.ID,
	)
}
