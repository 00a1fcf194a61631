// Package emit drives particle emission over a breathing cycle.
//
// A [Scheduler] walks integer millisecond time steps from zero to the
// configured run length. On every step whose phase in the breathing cycle
// falls inside the exhale window it emits one batch, always in the same
// order:
//
//  1. the mouth samples
//  2. the left nostril samples
//  3. the right nostril samples
//
// Every sample is handed to a [record.Writer], which assigns the particle
// identifier, and then to any registered [Observer].
//
// # Thread Safety
//
// A Scheduler and its writer form a single linear owner of the output
// stream. They must not be shared between goroutines.
package emit
