package integrators

import (
	"fmt"

	"github.com/frc-862/lightning-util/internal/dynamo"
)

// New returns a fresh integrator by name.
func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4", "":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}
