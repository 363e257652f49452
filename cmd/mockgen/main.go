package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"revcast/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", engine.ScenarioSteady, "Scenario to generate: steady, seasonal, declining")
	distribution := flag.String("distribution", "uniform", "Noise distribution: uniform, normal")
	outDir := flag.String("out", "./data", "Output directory (becomes DATA_PATH)")
	months := flag.Int("months", 24, "Number of months to generate, ending with the current month")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Months:       *months,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Months: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Months, *outDir)

	catalog, entries := engine.Generate(cfg)
	if err := engine.Save(*outDir, catalog, entries); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d sources, %d entries.\n", len(catalog.Sources), len(entries))
}
