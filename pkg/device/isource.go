package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// CurrentSource is an ideal source driving Current amperes out of its Node1
// terminal, around the external circuit, and back into Node2. It stamps
// only the right-hand side.
//
// Current is public and mutable between Solve calls; the source restamps
// every step. A Waveform, when set, is evaluated by the transient driver.
type CurrentSource struct {
	twoNode
	Current  float64
	Waveform Waveform
}

var _ circuit.Component = (*CurrentSource)(nil)

func NewCurrentSource(n1, n2 *circuit.Node, current float64) *CurrentSource {
	return &CurrentSource{
		twoNode: twoNode{base: newBase(), Node1: n1, Node2: n2},
		Current: current,
	}
}

func (i *CurrentSource) RequiresPerStepRestamp() bool { return true }

func (i *CurrentSource) Stamp(sys *matrix.System, dt float64) error {
	n1, n2 := i.Node1.ID, i.Node2.ID
	if n1 != 0 {
		sys.AddRHS(n1, i.Current)
	}
	if n2 != 0 {
		sys.AddRHS(n2, -i.Current)
	}
	return nil
}
