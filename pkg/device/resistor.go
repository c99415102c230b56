package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// Resistor is a linear conductance between two nodes. Resistance is public
// and may be changed between Solve calls for switched loads; circuits doing
// so should hold a restamping component so fresh stamps are emitted.
type Resistor struct {
	twoNode
	Resistance float64
}

var _ circuit.Component = (*Resistor)(nil)

func NewResistor(n1, n2 *circuit.Node, resistance float64) *Resistor {
	return &Resistor{
		twoNode:    twoNode{base: newBase(), Node1: n1, Node2: n2},
		Resistance: resistance,
	}
}

// Conductance returns 1/R.
func (r *Resistor) Conductance() float64 { return 1.0 / r.Resistance }

func (r *Resistor) Stamp(sys *matrix.System, dt float64) error {
	stampConductance(sys, r.Node1.ID, r.Node2.ID, r.Conductance())
	return nil
}

// Current returns the branch current flowing Node1 to Node2 at the last
// published voltages.
func (r *Resistor) Current() float64 {
	return (r.Node1.Voltage - r.Node2.Voltage) * r.Conductance()
}
