package device

import (
	"math"

	"github.com/Baughn/sparky/internal/consts"
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/matrix"
)

// Diode is a Shockley junction resolved by Newton iteration. Each stamp
// linearizes the exponential around the stored junction voltage; each
// iteration re-reads the junction voltage from the fresh solution. The
// linearization point is clamped to (-5, 0.9) V, which bounds the
// exponential argument and limits the step between iterations the way
// SPICE junction limiting does.
type Diode struct {
	twoNode

	vd float64
}

var _ circuit.Component = (*Diode)(nil)
var _ circuit.NonLinear = (*Diode)(nil)

func NewDiode(n1, n2 *circuit.Node) *Diode {
	return &Diode{
		twoNode: twoNode{base: newBase(), Node1: n1, Node2: n2},
		vd:      consts.DiodeVdInit,
	}
}

func (d *Diode) RequiresIteration() bool      { return true }
func (d *Diode) RequiresPerStepRestamp() bool { return true }

func (d *Diode) Stamp(sys *matrix.System, dt float64) error {
	n1, n2 := d.Node1.ID, d.Node2.ID

	vd := clampJunction(d.vd)
	nvt := consts.DiodeN * consts.DiodeVt
	e := math.Exp(math.Min(vd/nvt, consts.MaxExpArg))
	geq := consts.DiodeIs / nvt * e
	id := consts.DiodeIs * (e - 1)
	ieq := id - geq*vd

	stampConductance(sys, n1, n2, geq)
	if n1 != 0 {
		sys.AddRHS(n1, -ieq)
	}
	if n2 != 0 {
		sys.AddRHS(n2, ieq)
	}
	return nil
}

// UpdateOperatingPoint re-linearizes from the freshly published voltages.
// The clamp doubles as damping: a reverse-biased device seeing a momentary
// large forward estimate cannot run away between iterations.
func (d *Diode) UpdateOperatingPoint(x []float64) {
	d.vd = clampJunction(vAcross(x, d.Node1, d.Node2))
}

// JunctionVoltage returns the current linearization point.
func (d *Diode) JunctionVoltage() float64 { return d.vd }

func clampJunction(v float64) float64 {
	if v < consts.DiodeVdMin {
		return consts.DiodeVdMin
	}
	if v > consts.DiodeVdMax {
		return consts.DiodeVdMax
	}
	return v
}
