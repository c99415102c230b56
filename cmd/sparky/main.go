// Command sparky reads a SPICE-style netlist, runs the analysis it
// requests, and prints the probed voltages and currents. Transient runs can
// additionally be rendered to a PNG with -plot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Baughn/sparky/pkg/netlist"
	"github.com/Baughn/sparky/pkg/util"
)

func main() {
	plotPath := flag.String("plot", "", "write transient node voltages to a PNG file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-plot out.png] netlist-file\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading netlist: %v", err)
	}

	deck, err := netlist.Parse(string(data))
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}
	defer deck.Circuit.Destroy()

	a, err := deck.Run()
	if err != nil {
		log.Fatalf("running %s: %v", deck.Title, err)
	}
	results := a.Results()

	if deck.Analysis == netlist.AnalysisTran {
		printTransient(deck.Title, results)
		if *plotPath != "" {
			if err := writePlot(deck.Title, results, *plotPath); err != nil {
				log.Fatalf("writing plot: %v", err)
			}
			fmt.Printf("\nwrote %s\n", *plotPath)
		}
		return
	}
	printOperatingPoint(deck.Title, results)
}

func printOperatingPoint(title string, results map[string][]float64) {
	fmt.Printf("%s\nOperating Point\n===============\n", title)
	for _, name := range sortedKeys(results) {
		fmt.Printf("  %-10s = %s\n", name, util.FormatValueFactor(results[name][0], unitFor(name)))
	}
}

func printTransient(title string, results map[string][]float64) {
	times := results["TIME"]
	names := sortedKeys(results)

	fmt.Printf("%s\nTransient (%d points)\n=====================\n", title, len(times))
	fmt.Printf("%-14s", "TIME")
	for _, name := range names {
		if name != "TIME" {
			fmt.Printf("%-14s", name)
		}
	}
	fmt.Println()

	for i := range times {
		fmt.Printf("%-14.6g", times[i])
		for _, name := range names {
			if name != "TIME" {
				fmt.Printf("%-14.6g", results[name][i])
			}
		}
		fmt.Println()
	}
}

func writePlot(title string, results map[string][]float64, path string) error {
	times := results["TIME"]

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "V"
	p.Legend.Top = true

	for _, name := range sortedKeys(results) {
		if !strings.HasPrefix(name, "V(") {
			continue
		}
		series := results[name]
		pts := make(plotter.XYs, len(times))
		for i := range times {
			pts[i].X = times[i]
			pts[i].Y = series[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unitFor(name string) string {
	if strings.HasPrefix(name, "I(") {
		return "A"
	}
	return "V"
}
