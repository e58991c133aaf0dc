// Package state holds the components that (re)build simulation state at the
// start of every episode: agent placement on the grid and health assignment.
package state

import "errors"

// Component resets the part of the simulation state it is responsible for.
// A returned error means no valid episode was constructed; callers must not
// step a simulation after a failed reset.
type Component interface {
	Reset() error
}

var (
	// ErrInvalidConfig marks configuration problems surfaced at reset:
	// incomplete encoding partitions, fixed positions referencing cells that
	// were never eligible for the agent's encoding, and the like.
	ErrInvalidConfig = errors.New("invalid placement configuration")

	// ErrNoCellAvailable signals placement exhaustion: no cell remains for
	// an agent's encoding. A density problem, not a bug.
	ErrNoCellAvailable = errors.New("no cell available")

	// ErrInvariant marks placements that availability bookkeeping promised
	// would succeed but did not. These are defects, not user errors.
	ErrInvariant = errors.New("placement invariant violated")
)
