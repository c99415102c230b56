// Package netlist parses SPICE-style decks into ready-to-solve circuits.
// Supported cards: R, C, L, V, I, D, T (ideal transformer), plus the .op
// and .tran directives. The first line is the deck title; lines starting
// with '*' are comments.
package netlist

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/Baughn/sparky/pkg/analysis"
	"github.com/Baughn/sparky/pkg/circuit"
	"github.com/Baughn/sparky/pkg/device"
	"github.com/Baughn/sparky/pkg/util"
)

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisTran
)

// Deck is a parsed netlist: the built circuit, name lookups, and the
// requested analysis.
type Deck struct {
	Title    string
	Circuit  *circuit.Circuit
	Nodes    map[string]*circuit.Node
	Devices  map[string]circuit.Component
	Analysis AnalysisType
	TranStep float64
	TranStop float64

	nodeOrder   []string
	deviceOrder []string
}

// Parse reads a netlist and builds the circuit. Node "0" or "gnd" is
// ground; every other node name maps to a dense id in first-seen order.
func Parse(input string) (*Deck, error) {
	d := &Deck{
		Circuit: circuit.New(),
		Nodes:   make(map[string]*circuit.Node),
		Devices: make(map[string]circuit.Component),
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	first := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if first {
			first = false
			d.Title = strings.TrimSpace(strings.TrimPrefix(line, "*"))
			continue
		}
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		var err error
		if strings.HasPrefix(line, ".") {
			err = d.parseDirective(line)
		} else {
			err = d.parseCard(line)
		}
		if err != nil {
			return nil, fmt.Errorf("netlist line %d: %w", lineNo, err)
		}
	}

	return d, nil
}

func (d *Deck) parseDirective(line string) error {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".op":
		d.Analysis = AnalysisOP
	case ".tran":
		if len(fields) < 3 {
			return fmt.Errorf(".tran requires step and stop times")
		}
		step, err := util.ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf(".tran step: %w", err)
		}
		stop, err := util.ParseValue(fields[2])
		if err != nil {
			return fmt.Errorf(".tran stop: %w", err)
		}
		if step <= 0 || stop <= 0 {
			return fmt.Errorf(".tran times must be positive")
		}
		d.Analysis = AnalysisTran
		d.TranStep = step
		d.TranStop = stop
	case ".end":
		// Accepted and ignored.
	default:
		return fmt.Errorf("unknown directive %s", fields[0])
	}
	return nil
}

func (d *Deck) parseCard(line string) error {
	tokens := tokenize(line)
	if len(tokens) < 3 {
		return fmt.Errorf("malformed card %q", line)
	}

	name := tokens[0]
	if _, exists := d.Devices[name]; exists {
		return fmt.Errorf("duplicate device %s", name)
	}

	var comp circuit.Component
	switch strings.ToUpper(name[:1]) {
	case "R", "C", "L":
		if len(tokens) != 4 {
			return fmt.Errorf("%s: expected 2 nodes and a value", name)
		}
		n1, n2 := d.node(tokens[1]), d.node(tokens[2])
		value, err := util.ParseValue(tokens[3])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch strings.ToUpper(name[:1]) {
		case "R":
			comp = device.NewResistor(n1, n2, value)
		case "C":
			comp = device.NewCapacitor(n1, n2, value)
		case "L":
			comp = device.NewInductor(n1, n2, value)
		}

	case "V", "I":
		if len(tokens) < 4 {
			return fmt.Errorf("%s: expected 2 nodes and a source spec", name)
		}
		n1, n2 := d.node(tokens[1]), d.node(tokens[2])
		initial, wf, err := parseSource(tokens[3:])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if strings.ToUpper(name[:1]) == "V" {
			src := device.NewVoltageSource(n1, n2, initial)
			src.Waveform = wf
			comp = src
		} else {
			src := device.NewCurrentSource(n1, n2, initial)
			src.Waveform = wf
			comp = src
		}

	case "D":
		if len(tokens) != 3 {
			return fmt.Errorf("%s: expected 2 nodes", name)
		}
		comp = device.NewDiode(d.node(tokens[1]), d.node(tokens[2]))

	case "T":
		if len(tokens) != 6 {
			return fmt.Errorf("%s: expected 4 nodes and a ratio", name)
		}
		ratio, err := util.ParseValue(tokens[5])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if ratio == 0 {
			return fmt.Errorf("%s: ratio must not be zero", name)
		}
		comp = device.NewTransformer(
			d.node(tokens[1]), d.node(tokens[2]),
			d.node(tokens[3]), d.node(tokens[4]), ratio)

	default:
		return fmt.Errorf("unknown card %s", name)
	}

	d.Circuit.AddComponent(comp)
	d.Devices[name] = comp
	d.deviceOrder = append(d.deviceOrder, name)
	return nil
}

// node resolves a node name, creating the node on first sight.
func (d *Deck) node(name string) *circuit.Node {
	lower := strings.ToLower(name)
	if lower == "0" || lower == "gnd" {
		return d.Circuit.Ground()
	}
	if n, ok := d.Nodes[name]; ok {
		return n
	}
	n := d.Circuit.AddNode()
	d.Nodes[name] = n
	d.nodeOrder = append(d.nodeOrder, name)
	return n
}

// parseSource reads a V/I source spec: a plain value, an optional DC
// keyword, or a SIN/PULSE/PWL waveform.
func parseSource(tokens []string) (float64, device.Waveform, error) {
	tok := tokens[0]
	upper := strings.ToUpper(tok)

	if upper == "DC" {
		if len(tokens) < 2 {
			return 0, nil, fmt.Errorf("DC requires a value")
		}
		tok = tokens[1]
		upper = strings.ToUpper(tok)
	}

	switch {
	case strings.HasPrefix(upper, "SIN("):
		params, err := parenParams(tok)
		if err != nil {
			return 0, nil, err
		}
		if len(params) < 3 || len(params) > 4 {
			return 0, nil, fmt.Errorf("SIN requires offset, amplitude, freq and optional phase")
		}
		wf := device.Sin{Offset: params[0], Amplitude: params[1], Freq: params[2]}
		if len(params) == 4 {
			wf.PhaseDeg = params[3]
		}
		return wf.At(0), wf, nil

	case strings.HasPrefix(upper, "PULSE("):
		params, err := parenParams(tok)
		if err != nil {
			return 0, nil, err
		}
		if len(params) != 7 {
			return 0, nil, fmt.Errorf("PULSE requires v1, v2, delay, rise, fall, width, period")
		}
		wf := device.Pulse{
			V1: params[0], V2: params[1], Delay: params[2],
			Rise: params[3], Fall: params[4], Width: params[5], Period: params[6],
		}
		return wf.At(0), wf, nil

	case strings.HasPrefix(upper, "PWL("):
		params, err := parenParams(tok)
		if err != nil {
			return 0, nil, err
		}
		if len(params) < 2 || len(params)%2 != 0 {
			return 0, nil, fmt.Errorf("PWL requires time/value pairs")
		}
		wf := device.PWL{}
		for i := 0; i < len(params); i += 2 {
			wf.Times = append(wf.Times, params[i])
			wf.Values = append(wf.Values, params[i+1])
		}
		return wf.At(0), wf, nil
	}

	value, err := util.ParseValue(tok)
	if err != nil {
		return 0, nil, err
	}
	return value, nil, nil
}

// parenParams parses "NAME(a b c)" into its numeric parameters.
func parenParams(tok string) ([]float64, error) {
	open := strings.Index(tok, "(")
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return nil, fmt.Errorf("malformed source spec %q", tok)
	}
	fields := strings.Fields(tok[open+1 : len(tok)-1])
	params := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := util.ParseValue(f)
		if err != nil {
			return nil, fmt.Errorf("source parameter %q: %w", f, err)
		}
		params = append(params, v)
	}
	return params, nil
}

// tokenize splits a card on whitespace, keeping parenthesized groups like
// "SIN(0 5 1k)" as single tokens.
func tokenize(line string) []string {
	var tokens []string
	var b strings.Builder
	depth := 0
	for _, r := range line {
		switch {
		case r == '(':
			depth++
			b.WriteRune(r)
		case r == ')':
			depth--
			b.WriteRune(r)
		case (r == ' ' || r == '\t') && depth == 0:
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// Probes builds the standard probe set: every named node's voltage plus
// the branch currents of voltage sources and transformers, in deck order.
func (d *Deck) Probes() []analysis.Probe {
	var probes []analysis.Probe
	for _, name := range d.nodeOrder {
		probes = append(probes, analysis.NodeProbe(name, d.Nodes[name]))
	}
	for _, name := range d.deviceOrder {
		switch dev := d.Devices[name].(type) {
		case *device.VoltageSource:
			probes = append(probes, analysis.CurrentProbe(name, dev.Current))
		case *device.Transformer:
			probes = append(probes, analysis.CurrentProbe(name, dev.PrimaryCurrent))
		}
	}
	return probes
}

// Run executes the deck's requested analysis with the standard probes.
func (d *Deck) Run() (analysis.Analysis, error) {
	var a analysis.Analysis
	switch d.Analysis {
	case AnalysisTran:
		a = analysis.NewTransient(d.Circuit, d.TranStep, d.TranStop, d.Probes()...)
	default:
		a = analysis.NewOperatingPoint(d.Circuit, d.Probes()...)
	}
	if err := a.Execute(); err != nil {
		return nil, err
	}
	return a, nil
}
