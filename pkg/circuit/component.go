package circuit

import "github.com/Baughn/sparky/pkg/matrix"

// Component is the stamp contract every device implements. A component is
// an edge between nodes that contributes linear entries to the coefficient
// matrix and source vector during assembly. Stamps accumulate: writing the
// same coordinate twice adds. Stamps must suppress any write whose row or
// column is 0; the engine pins row 0 to the identity equation V0 = 0.
//
// The three flags must be declared truthfully: misdeclaration either wastes
// solves or produces stale results.
type Component interface {
	// HasExtraEquation reports whether the component needs an auxiliary
	// unknown row/column in the system (voltage-defined elements).
	HasExtraEquation() bool
	// RequiresIteration reports whether the stamp depends on the current
	// solution, forcing the Newton loop to run.
	RequiresIteration() bool
	// RequiresPerStepRestamp reports whether the stamp depends on dt or on
	// mutable public parameters and must be re-emitted every Solve.
	RequiresPerStepRestamp() bool

	// MatrixIndex is the auxiliary row assigned by BuildSystem, or -1.
	MatrixIndex() int
	SetMatrixIndex(idx int)

	// Stamp writes the component's contribution for one Newton iteration.
	// dt = 0 selects DC semantics per device.
	Stamp(sys *matrix.System, dt float64) error
}

// NonLinear components re-linearize from the freshly published node
// voltages after every Newton iteration.
type NonLinear interface {
	UpdateOperatingPoint(x []float64)
}

// TimeDependent components advance their transient history once a step is
// accepted. The engine never calls this on a failed Solve.
type TimeDependent interface {
	UpdateState(x []float64, dt float64)
}
