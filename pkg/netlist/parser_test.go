package netlist_test

import (
	"math"
	"strings"
	"testing"

	"github.com/Baughn/sparky/pkg/device"
	"github.com/Baughn/sparky/pkg/netlist"
)

const dividerDeck = `* simple divider
V1 in 0 10
R1 in out 10k
R2 out gnd 10k
.op
`

func TestParseAndRunOperatingPoint(t *testing.T) {
	deck, err := netlist.Parse(dividerDeck)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if deck.Title != "simple divider" {
		t.Errorf("title = %q", deck.Title)
	}
	if deck.Analysis != netlist.AnalysisOP {
		t.Errorf("analysis = %v, want OP", deck.Analysis)
	}

	r, ok := deck.Devices["R1"].(*device.Resistor)
	if !ok {
		t.Fatal("R1 did not parse as a resistor")
	}
	if r.Resistance != 10000 {
		t.Errorf("R1 = %g, want 10k", r.Resistance)
	}

	a, err := deck.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	results := a.Results()
	if got := results["V(out)"][0]; math.Abs(got-5) > 1e-6 {
		t.Errorf("V(out) = %g, want 5", got)
	}
	if got := results["I(V1)"][0]; math.Abs(got+0.0005) > 1e-9 {
		t.Errorf("I(V1) = %g, want -0.5mA", got)
	}
}

func TestParseTransientWithSinSource(t *testing.T) {
	deck, err := netlist.Parse(`* sin drive
V1 in 0 SIN(0 5 50 0)
R1 in out 100
R2 out 0 100
.tran 1m 20m
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if deck.Analysis != netlist.AnalysisTran {
		t.Fatalf("analysis = %v, want transient", deck.Analysis)
	}
	if deck.TranStep != 1e-3 || deck.TranStop != 20e-3 {
		t.Errorf("tran times = %g/%g, want 1m/20m", deck.TranStep, deck.TranStop)
	}

	src := deck.Devices["V1"].(*device.VoltageSource)
	wf, ok := src.Waveform.(device.Sin)
	if !ok {
		t.Fatal("V1 did not parse as a sine source")
	}
	if wf.Amplitude != 5 || wf.Freq != 50 {
		t.Errorf("sine params = %+v", wf)
	}

	a, err := deck.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	times := a.Results()["TIME"]
	outs := a.Results()["V(out)"]
	for i, tm := range times {
		want := 2.5 * math.Sin(2*math.Pi*50*tm)
		if math.Abs(outs[i]-want) > 1e-6 {
			t.Fatalf("t=%g: V(out) = %g, want %g", tm, outs[i], want)
		}
	}
}

func TestParseDeviceKinds(t *testing.T) {
	deck, err := netlist.Parse(`* one of each
V1 a 0 DC 5
I1 a b 1m
R1 b c 1k
C1 c 0 2.2u
L1 c d 10m
D1 d 0
T1 a 0 e 0 2
R2 e 0 100
.op
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, ok := deck.Devices["C1"].(*device.Capacitor); !ok {
		t.Error("C1 did not parse as a capacitor")
	}
	if _, ok := deck.Devices["L1"].(*device.Inductor); !ok {
		t.Error("L1 did not parse as an inductor")
	}
	if _, ok := deck.Devices["D1"].(*device.Diode); !ok {
		t.Error("D1 did not parse as a diode")
	}
	xfmr, ok := deck.Devices["T1"].(*device.Transformer)
	if !ok {
		t.Fatal("T1 did not parse as a transformer")
	}
	if xfmr.Ratio != 2 {
		t.Errorf("T1 ratio = %g, want 2", xfmr.Ratio)
	}
	if c := deck.Devices["C1"].(*device.Capacitor); c.Capacitance != 2.2e-6 {
		t.Errorf("C1 = %g, want 2.2u", c.Capacitance)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown card":     "X1 a 0 5",
		"zero ratio":       "T1 a 0 b 0 0",
		"duplicate device": "R1 a 0 1k\nR1 a 0 2k",
		"bad value":        "R1 a 0 bogus",
		"short card":       "R1 a",
		"bad directive":    ".ac 1 10",
		"tran missing":     ".tran 1m",
		"pwl odd params":   "V1 a 0 PWL(0 1 2)",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := netlist.Parse("* t\n" + body + "\n"); err == nil {
				t.Errorf("expected a parse error for %q", body)
			}
		})
	}
}

func TestGroundAliases(t *testing.T) {
	deck, err := netlist.Parse(`* gnd alias
V1 a gnd 1
R1 a 0 1
.op
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(deck.Nodes) != 1 {
		t.Errorf("expected a single named node, got %d", len(deck.Nodes))
	}
	if !strings.Contains(deck.Title, "gnd alias") {
		t.Errorf("title = %q", deck.Title)
	}
}
