package circuit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/device"
	"github.com/Baughn/sparky/pkg/matrix"
)

func TestVoltageDivider(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()
	n2 := ckt.AddNode()

	ckt.AddComponent(device.NewVoltageSource(n1, ckt.Ground(), 10))
	ckt.AddComponent(device.NewResistor(n1, n2, 100))
	ckt.AddComponent(device.NewResistor(n2, ckt.Ground(), 100))

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("solve: %v", err)
	}

	if ckt.Ground().Voltage != 0 {
		t.Errorf("ground voltage = %g, want exactly 0", ckt.Ground().Voltage)
	}
	if math.Abs(n1.Voltage-10) > 1e-6 {
		t.Errorf("V(n1) = %g, want 10", n1.Voltage)
	}
	if math.Abs(n2.Voltage-5) > 1e-6 {
		t.Errorf("V(n2) = %g, want 5", n2.Voltage)
	}
	if ckt.LastIterations != 1 {
		t.Errorf("LastIterations = %d, want 1", ckt.LastIterations)
	}
}

func TestRepeatedLinearSolveIsStable(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()
	n2 := ckt.AddNode()

	ckt.AddComponent(device.NewVoltageSource(n1, ckt.Ground(), 10))
	ckt.AddComponent(device.NewResistor(n1, n2, 100))
	ckt.AddComponent(device.NewResistor(n2, ckt.Ground(), 100))

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("first solve: %v", err)
	}
	v1, v2 := n1.Voltage, n2.Voltage

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("second solve: %v", err)
	}
	if n1.Voltage != v1 || n2.Voltage != v2 {
		t.Errorf("voltages moved on an unchanged circuit: (%g, %g) then (%g, %g)",
			v1, v2, n1.Voltage, n2.Voltage)
	}
}

// A circuit whose stamps depend on neither the solution nor dt hits the
// fast path on re-solve: the cached solution is republished without a
// single assembly or factorization.
func TestStaticFastPath(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()
	n2 := ckt.AddNode()

	ckt.AddComponent(device.NewResistor(n1, ckt.Ground(), 50))
	ckt.AddComponent(device.NewResistor(n2, ckt.Ground(), 50))
	ckt.AddComponent(device.NewTransformer(n1, ckt.Ground(), n2, ckt.Ground(), 2.0))

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("first solve: %v", err)
	}
	if ckt.LastIterations != 1 {
		t.Fatalf("first solve LastIterations = %d, want 1", ckt.LastIterations)
	}

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("second solve: %v", err)
	}
	if ckt.LastIterations != 0 {
		t.Errorf("second solve LastIterations = %d, want 0 (fast path)", ckt.LastIterations)
	}

	// Adding a component dirties the circuit and ends the fast path.
	ckt.AddComponent(device.NewResistor(n1, n2, 50))
	if err := ckt.Solve(0); err != nil {
		t.Fatalf("third solve: %v", err)
	}
	if ckt.LastIterations != 1 {
		t.Errorf("post-mutation LastIterations = %d, want 1", ckt.LastIterations)
	}
}

func TestCurrentSourceWithGmin(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()

	ckt.AddComponent(device.NewCurrentSource(ckt.Ground(), n1, 1.0))
	ckt.AddComponent(device.NewResistor(n1, ckt.Ground(), 100))

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if math.Abs(n1.Voltage+100) > 1e-6 {
		t.Errorf("V(n1) = %g, want -100", n1.Voltage)
	}
}

func TestGminShuntInvisible(t *testing.T) {
	build := func(extraShunt bool) float64 {
		ckt := circuit.New()
		n1 := ckt.AddNode()
		n2 := ckt.AddNode()
		ckt.AddComponent(device.NewVoltageSource(n1, ckt.Ground(), 10))
		ckt.AddComponent(device.NewResistor(n1, n2, 100))
		ckt.AddComponent(device.NewResistor(n2, ckt.Ground(), 100))
		if extraShunt {
			ckt.AddComponent(device.NewResistor(n2, ckt.Ground(), 1e12))
		}
		if err := ckt.Solve(0); err != nil {
			t.Fatalf("solve: %v", err)
		}
		return n2.Voltage
	}

	plain := build(false)
	shunted := build(true)
	if math.Abs(plain-shunted)/math.Abs(plain) > 1e-6 {
		t.Errorf("gmin-scale shunt moved V(n2) from %g to %g", plain, shunted)
	}
}

func TestConflictingSourcesReportSingular(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()

	ckt.AddComponent(device.NewVoltageSource(n1, ckt.Ground(), 5))
	ckt.AddComponent(device.NewVoltageSource(n1, ckt.Ground(), 3))

	err := ckt.Solve(0)
	if !errors.Is(err, matrix.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}

	// The same topology with one source and a load in its place solves.
	ckt2 := circuit.New()
	n := ckt2.AddNode()
	ckt2.AddComponent(device.NewVoltageSource(n, ckt2.Ground(), 5))
	ckt2.AddComponent(device.NewResistor(n, ckt2.Ground(), 100))
	if err := ckt2.Solve(0); err != nil {
		t.Fatalf("consistent circuit failed: %v", err)
	}
}

// oscillator is a pathological component whose stamp flips sign on every
// iteration, so the Newton step never settles.
type oscillator struct {
	node *circuit.Node
	idx  int
	sign float64
}

func (o *oscillator) HasExtraEquation() bool       { return false }
func (o *oscillator) RequiresIteration() bool      { return true }
func (o *oscillator) RequiresPerStepRestamp() bool { return false }
func (o *oscillator) MatrixIndex() int             { return o.idx }
func (o *oscillator) SetMatrixIndex(idx int)       { o.idx = idx }

func (o *oscillator) Stamp(sys *matrix.System, dt float64) error {
	o.sign = -o.sign
	sys.AddRHS(o.node.ID, o.sign)
	return nil
}

func TestNonConvergence(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()

	ckt.AddComponent(device.NewResistor(n1, ckt.Ground(), 1))
	ckt.AddComponent(&oscillator{node: n1, idx: -1, sign: 1})

	err := ckt.Solve(0)
	var convErr *circuit.ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConvergenceError, got %v", err)
	}
	if convErr.Iterations != ckt.MaxIterations {
		t.Errorf("Iterations = %d, want %d", convErr.Iterations, ckt.MaxIterations)
	}
	if convErr.StepNorm <= 1 {
		t.Errorf("StepNorm = %g, expected the full oscillation amplitude", convErr.StepNorm)
	}
}

func TestMutableParameterRestamps(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode()

	src := device.NewVoltageSource(n1, ckt.Ground(), 5)
	ckt.AddComponent(src)
	ckt.AddComponent(device.NewResistor(n1, ckt.Ground(), 100))

	if err := ckt.Solve(0); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if math.Abs(n1.Voltage-5) > 1e-9 {
		t.Fatalf("V(n1) = %g, want 5", n1.Voltage)
	}

	src.Voltage = -7
	if err := ckt.Solve(0); err != nil {
		t.Fatalf("re-solve: %v", err)
	}
	if math.Abs(n1.Voltage+7) > 1e-9 {
		t.Errorf("V(n1) = %g after mutation, want -7", n1.Voltage)
	}
}
