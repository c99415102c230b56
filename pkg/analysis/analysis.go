// Package analysis provides drivers on top of the solver engine: operating
// point and fixed-step transient. Drivers call Solve and collect probed
// values into a result store keyed by probe name; the transient driver also
// evaluates source waveforms before each step. The operating point uses the
// sources' current parameter values.
package analysis

import (
	"github.com/Baughn/sparky/pkg/circuit"
)

// Analysis is the common driver contract.
type Analysis interface {
	Execute() error
	Results() map[string][]float64
}

// Probe names a scalar read from the circuit after each accepted solve.
type Probe struct {
	Name  string
	Value func() float64
}

// NodeProbe records a node voltage as "V(name)".
func NodeProbe(name string, n *circuit.Node) Probe {
	return Probe{
		Name:  "V(" + name + ")",
		Value: func() float64 { return n.Voltage },
	}
}

// CurrentProbe records a branch current as "I(name)".
func CurrentProbe(name string, value func() float64) Probe {
	return Probe{Name: "I(" + name + ")", Value: value}
}

type baseAnalysis struct {
	ckt     *circuit.Circuit
	probes  []Probe
	results map[string][]float64
}

func newBaseAnalysis(ckt *circuit.Circuit, probes []Probe) baseAnalysis {
	return baseAnalysis{
		ckt:     ckt,
		probes:  probes,
		results: make(map[string][]float64),
	}
}

func (a *baseAnalysis) record() {
	for _, p := range a.probes {
		a.results[p.Name] = append(a.results[p.Name], p.Value())
	}
}

func (a *baseAnalysis) Results() map[string][]float64 {
	return a.results
}
