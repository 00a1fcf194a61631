package emit

import (
	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/geom"
	"github.com/san-kum/breathseed/internal/sampler"
)

// Event describes one written particle. It is not retained by the scheduler.
type Event struct {
	Step   int
	Region sampler.Region
	Local  geom.Vec3
	Global geom.Vec3
	ID     int
}

// Observer receives the start of a run and every written particle.
type Observer interface {
	OnStart(cfg *config.Config)
	OnEmit(ev Event)
}

type Summary struct {
	Steps       int
	ActiveSteps int
	Particles   int
	PerRegion   map[sampler.Region]int
}
