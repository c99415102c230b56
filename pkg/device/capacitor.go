package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// Capacitor integrates with the Backward Euler companion model: per step a
// conductance Geq = C/dt in parallel with a current source Geq*Vprev, where
// Vprev is the voltage across from the previous accepted step. At dt <= 0
// it contributes nothing (DC open circuit).
type Capacitor struct {
	twoNode
	Capacitance float64

	vPrev float64
}

var _ circuit.Component = (*Capacitor)(nil)
var _ circuit.TimeDependent = (*Capacitor)(nil)

func NewCapacitor(n1, n2 *circuit.Node, capacitance float64) *Capacitor {
	return &Capacitor{
		twoNode:     twoNode{base: newBase(), Node1: n1, Node2: n2},
		Capacitance: capacitance,
	}
}

func (c *Capacitor) RequiresPerStepRestamp() bool { return true }

func (c *Capacitor) Stamp(sys *matrix.System, dt float64) error {
	if dt <= 0 {
		return nil
	}

	n1, n2 := c.Node1.ID, c.Node2.ID
	geq := c.Capacitance / dt
	ieq := geq * c.vPrev

	stampConductance(sys, n1, n2, geq)
	if n1 != 0 {
		sys.AddRHS(n1, ieq)
	}
	if n2 != 0 {
		sys.AddRHS(n2, -ieq)
	}
	return nil
}

func (c *Capacitor) UpdateState(x []float64, dt float64) {
	if dt > 0 {
		c.vPrev = vAcross(x, c.Node1, c.Node2)
	}
}

// Voltage returns the stored voltage across the capacitor from the last
// accepted transient step.
func (c *Capacitor) Voltage() float64 { return c.vPrev }
