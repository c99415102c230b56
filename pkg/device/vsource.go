package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// VoltageSource is an ideal source enforcing V(Node1) - V(Node2) = Voltage
// through an auxiliary branch equation. The auxiliary unknown is the branch
// current flowing Node1 to Node2, observable through Current for power
// accounting.
//
// Voltage is public and mutable between Solve calls; the source restamps
// every step so the new value takes effect without a rebuild. A Waveform,
// when set, is evaluated by the transient driver, not by the engine.
type VoltageSource struct {
	twoNode
	Voltage  float64
	Waveform Waveform

	current float64
}

var _ circuit.Component = (*VoltageSource)(nil)
var _ circuit.TimeDependent = (*VoltageSource)(nil)

func NewVoltageSource(n1, n2 *circuit.Node, voltage float64) *VoltageSource {
	return &VoltageSource{
		twoNode: twoNode{base: newBase(), Node1: n1, Node2: n2},
		Voltage: voltage,
	}
}

func (v *VoltageSource) HasExtraEquation() bool       { return true }
func (v *VoltageSource) RequiresPerStepRestamp() bool { return true }

func (v *VoltageSource) Stamp(sys *matrix.System, dt float64) error {
	k := v.matrixIndex
	if k < 0 {
		return nil
	}

	n1, n2 := v.Node1.ID, v.Node2.ID
	if n1 != 0 {
		sys.AddElement(n1, k, 1)
		sys.AddElement(k, n1, 1)
	}
	if n2 != 0 {
		sys.AddElement(n2, k, -1)
		sys.AddElement(k, n2, -1)
	}
	sys.SetRHS(k, v.Voltage)

	return nil
}

// UpdateState captures the branch current from the accepted solution.
func (v *VoltageSource) UpdateState(x []float64, dt float64) {
	if v.matrixIndex >= 0 {
		v.current = x[v.matrixIndex]
	}
}

// Current returns the branch current flowing Node1 to Node2 through the
// source at the last accepted solve. A source delivering power into the
// circuit from its Node1 terminal reads negative.
func (v *VoltageSource) Current() float64 { return v.current }
