// Package device provides the closed set of circuit components: Resistor,
// VoltageSource, CurrentSource, Capacitor, Inductor, Diode and Transformer.
// Each contributes additive stamps to the MNA system during assembly and
// optionally carries per-step or per-iteration state.
package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// base carries the auxiliary-row assignment shared by all devices and the
// default flag set (no extra equation, linear, stamp-once). Devices that
// differ override the relevant methods.
type base struct {
	matrixIndex int
}

func newBase() base { return base{matrixIndex: -1} }

func (b *base) HasExtraEquation() bool       { return false }
func (b *base) RequiresIteration() bool      { return false }
func (b *base) RequiresPerStepRestamp() bool { return false }
func (b *base) MatrixIndex() int             { return b.matrixIndex }
func (b *base) SetMatrixIndex(idx int)       { b.matrixIndex = idx }

// twoNode is the common shape of an edge between two primary nodes.
type twoNode struct {
	base
	Node1 *circuit.Node
	Node2 *circuit.Node
}

// stampConductance writes the standard 2x2 conductance block between nodes
// n1 and n2, skipping any write whose row or column is ground.
func stampConductance(sys *matrix.System, n1, n2 int, g float64) {
	if n1 != 0 {
		sys.AddElement(n1, n1, g)
		if n2 != 0 {
			sys.AddElement(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			sys.AddElement(n2, n1, -g)
		}
		sys.AddElement(n2, n2, g)
	}
}

// vAcross reads the branch voltage x[n1]-x[n2] from a solution vector.
// Ground carries index 0, whose solution entry is pinned to zero, so no
// special-casing is needed.
func vAcross(x []float64, n1, n2 *circuit.Node) float64 {
	return x[n1.ID] - x[n2.ID]
}
