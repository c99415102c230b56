package device

import (
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// Transformer is an ideal 4-terminal transformer with ratio n = Ns/Np.
// Primary winding spans Node1-Node2, secondary spans Node3-Node4. A single
// auxiliary unknown carries the primary current; the voltage constraint
// (V1-V2) - (1/n)(V3-V4) = 0 and the coupled current injections follow
// from it. There is no RHS contribution and no per-step state.
//
// A ratio of 0 divides by zero; callers must enforce ratio != 0.
type Transformer struct {
	base
	Node1 *circuit.Node
	Node2 *circuit.Node
	Node3 *circuit.Node
	Node4 *circuit.Node

	Ratio float64

	primaryCurrent float64
}

var _ circuit.Component = (*Transformer)(nil)
var _ circuit.TimeDependent = (*Transformer)(nil)

func NewTransformer(p1, p2, s1, s2 *circuit.Node, ratio float64) *Transformer {
	return &Transformer{
		base:  newBase(),
		Node1: p1,
		Node2: p2,
		Node3: s1,
		Node4: s2,
		Ratio: ratio,
	}
}

func (t *Transformer) HasExtraEquation() bool { return true }

func (t *Transformer) Stamp(sys *matrix.System, dt float64) error {
	k := t.matrixIndex
	if k < 0 {
		return nil
	}

	n1, n2, n3, n4 := t.Node1.ID, t.Node2.ID, t.Node3.ID, t.Node4.ID
	rn := 1.0 / t.Ratio

	// Voltage constraint row and primary current injections.
	if n1 != 0 {
		sys.AddElement(k, n1, 1)
		sys.AddElement(n1, k, 1)
	}
	if n2 != 0 {
		sys.AddElement(k, n2, -1)
		sys.AddElement(n2, k, -1)
	}

	// Secondary side carries -(1/n) times the primary current.
	if n3 != 0 {
		sys.AddElement(k, n3, -rn)
		sys.AddElement(n3, k, -rn)
	}
	if n4 != 0 {
		sys.AddElement(k, n4, rn)
		sys.AddElement(n4, k, rn)
	}

	return nil
}

// UpdateState captures the primary current from the accepted solution.
func (t *Transformer) UpdateState(x []float64, dt float64) {
	if t.matrixIndex >= 0 {
		t.primaryCurrent = x[t.matrixIndex]
	}
}

// PrimaryCurrent returns the primary branch current from the last accepted
// solve. The secondary carries -(1/Ratio) times this value.
func (t *Transformer) PrimaryCurrent() float64 { return t.primaryCurrent }
