package util

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"10k", 10e3},
		{"2.2u", 2.2e-6},
		{"1meg", 1e6},
		{"1M", 1e-3}, // SPICE: M is milli, meg is mega
		{"5V", 5},
		{"10kohm", 10e3},
		{"1e-6", 1e-6},
		{"-3.3n", -3.3e-9},
		{"4p", 4e-12},
		{"2f", 2e-15},
		{"1T", 1e12},
		{"7G", 7e9},
	}
	for _, c := range cases {
		got, err := ParseValue(c.in)
		if err != nil {
			t.Errorf("ParseValue(%q): %v", c.in, err)
			continue
		}
		if math.Abs(got-c.want) > math.Abs(c.want)*1e-12 {
			t.Errorf("ParseValue(%q) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestParseValueErrors(t *testing.T) {
	for _, in := range []string{"", "bogus", "k10"} {
		if _, err := ParseValue(in); err == nil {
			t.Errorf("ParseValue(%q): expected an error", in)
		}
	}
}

func TestFormatValueFactor(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		want  string
	}{
		{2.5, "V", "2.500 V"},
		{0.0032, "V", "3.200 mV"},
		{4.7e-6, "A", "4.700 uA"},
		{1.2e-9, "s", "1.200 ns"},
		{3e-12, "F", "3.000 pF"},
		{0, "V", "0.000 V"},
	}
	for _, c := range cases {
		if got := FormatValueFactor(c.value, c.unit); got != c.want {
			t.Errorf("FormatValueFactor(%g, %q) = %q, want %q", c.value, c.unit, got, c.want)
		}
	}
}
