package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// StepError reports a system whose state left the finite reals.
type StepError struct {
	Time    float64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("t=%.4f: %s", e.Time, e.Message)
}

func (e StepError) Unwrap() error {
	return ErrInvalidState
}
