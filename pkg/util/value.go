// Package util holds engineering-notation helpers shared by the netlist
// parser and the CLI.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValueFactor renders a value with an engineering prefix, e.g.
// 0.0032 with unit "V" becomes "3.200 mV".
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1 || value == 0:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// ParseValue reads a SPICE-style value: a float optionally followed by an
// engineering suffix (T, G, meg, k, m, u, n, p, f). Letters after the
// suffix are ignored, so "10kohm" and "5V" both parse.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	i := len(s)
	for i > 0 {
		if _, err := strconv.ParseFloat(s[:i], 64); err == nil {
			break
		}
		i--
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid value %q", s)
	}

	num, _ := strconv.ParseFloat(s[:i], 64)
	return num * suffixFactor(s[i:]), nil
}

func suffixFactor(suffix string) float64 {
	suffix = strings.ToLower(suffix)
	if strings.HasPrefix(suffix, "meg") {
		return 1e6
	}
	switch suffix[0] {
	case 't':
		return 1e12
	case 'g':
		return 1e9
	case 'k':
		return 1e3
	case 'm':
		return 1e-3
	case 'u':
		return 1e-6
	case 'n':
		return 1e-9
	case 'p':
		return 1e-12
	case 'f':
		return 1e-15
	}
	return 1
}
