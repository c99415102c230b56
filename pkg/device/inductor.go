package device

import (
	"github.com/Baughn/sparky/internal/consts"
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// Inductor integrates with the Backward Euler companion model: per step a
// conductance Geq = dt/L in parallel with a current source carrying the
// previous step's current. At dt = 0 it stamps a large fixed conductance so
// the device behaves as a near-short at DC without an auxiliary equation;
// at dt < 0 it contributes nothing.
type Inductor struct {
	twoNode
	Inductance float64

	iPrev float64
}

var _ circuit.Component = (*Inductor)(nil)
var _ circuit.TimeDependent = (*Inductor)(nil)

func NewInductor(n1, n2 *circuit.Node, inductance float64) *Inductor {
	return &Inductor{
		twoNode:    twoNode{base: newBase(), Node1: n1, Node2: n2},
		Inductance: inductance,
	}
}

func (l *Inductor) RequiresPerStepRestamp() bool { return true }

func (l *Inductor) Stamp(sys *matrix.System, dt float64) error {
	n1, n2 := l.Node1.ID, l.Node2.ID

	if dt == 0 {
		stampConductance(sys, n1, n2, consts.InductorDCConductance)
		return nil
	}
	if dt < 0 {
		return nil
	}

	geq := dt / l.Inductance
	stampConductance(sys, n1, n2, geq)
	if n1 != 0 {
		sys.AddRHS(n1, -l.iPrev)
	}
	if n2 != 0 {
		sys.AddRHS(n2, l.iPrev)
	}
	return nil
}

// UpdateState advances the Backward Euler recurrence
// I_n = I_(n-1) + (dt/L)*V_n once a step is accepted.
func (l *Inductor) UpdateState(x []float64, dt float64) {
	if dt > 0 {
		l.iPrev += (dt / l.Inductance) * vAcross(x, l.Node1, l.Node2)
	}
}

// Current returns the stored current through the inductor, flowing Node1 to
// Node2, from the last accepted transient step.
func (l *Inductor) Current() float64 { return l.iPrev }
