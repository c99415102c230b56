package analysis

import (
	"fmt"

	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/device"
)

// Transient runs a fixed-step Backward Euler sweep from t = 0 to Stop.
// Before each step the drivers evaluate source waveforms at the end-of-step
// time and assign the sources' mutable parameters, which the engine then
// restamps. Unless UseIC is set, a Solve(0) operating point runs first; it
// settles nonlinear linearization points and source branch currents but
// does not seed capacitor or inductor histories, which advance only on
// steps with dt > 0. The sweep therefore starts from the reactive
// components' current histories (zero for fresh components) either way.
type Transient struct {
	baseAnalysis
	Step  float64
	Stop  float64
	UseIC bool
}

func NewTransient(ckt *circuit.Circuit, step, stop float64, probes ...Probe) *Transient {
	return &Transient{
		baseAnalysis: newBaseAnalysis(ckt, probes),
		Step:         step,
		Stop:         stop,
	}
}

func (tr *Transient) Execute() error {
	if tr.Step <= 0 || tr.Stop <= 0 {
		return fmt.Errorf("transient: step and stop must be positive")
	}

	if !tr.UseIC {
		tr.applyWaveforms(0)
		if err := tr.ckt.Solve(0); err != nil {
			return fmt.Errorf("transient: initial operating point: %w", err)
		}
	}

	for t := 0.0; t < tr.Stop; {
		dt := tr.Step
		if t+dt > tr.Stop {
			dt = tr.Stop - t
		}
		t += dt

		tr.applyWaveforms(t)
		if err := tr.ckt.Solve(dt); err != nil {
			return fmt.Errorf("transient: step at t=%g: %w", t, err)
		}

		tr.results["TIME"] = append(tr.results["TIME"], t)
		tr.record()
	}

	return nil
}

func (tr *Transient) applyWaveforms(t float64) {
	for _, comp := range tr.ckt.Components() {
		switch src := comp.(type) {
		case *device.VoltageSource:
			if src.Waveform != nil {
				src.Voltage = src.Waveform.At(t)
			}
		case *device.CurrentSource:
			if src.Waveform != nil {
				src.Current = src.Waveform.At(t)
			}
		}
	}
}
