package analysis

import (
	"fmt"

	"github.com/Baughn/sparky/pkg/circuit"
)

// OperatingPoint computes the DC solution of the circuit (Solve at dt = 0:
// capacitors open, inductors near-shorts) and records one value per probe.
type OperatingPoint struct {
	baseAnalysis
}

func NewOperatingPoint(ckt *circuit.Circuit, probes ...Probe) *OperatingPoint {
	return &OperatingPoint{baseAnalysis: newBaseAnalysis(ckt, probes)}
}

func (op *OperatingPoint) Execute() error {
	if err := op.ckt.Solve(0); err != nil {
		return fmt.Errorf("operating point: %w", err)
	}
	op.record()
	return nil
}
