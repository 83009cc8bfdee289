// Package main runs a single solve over a JSON instance file and prints
// the resulting report (and schedule, if feasible) to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"mslscheduler/internal/httpapi"
	"mslscheduler/internal/orchestrator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "solve error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	instancePath := flag.String("instance", "", "path to a JSON instance file")
	strategy := flag.String("strategy", "", "override the solve strategy (repair|tabu|alns|cp)")
	timeLimit := flag.Int("time-limit", 0, "override the time limit in seconds")
	flag.Parse()

	if *instancePath == "" {
		return fmt.Errorf("-instance is required")
	}

	body, err := os.ReadFile(*instancePath)
	if err != nil {
		return fmt.Errorf("failed to read instance file: %w", err)
	}

	req, err := httpapi.ParseSolveRequest(body)
	if err != nil {
		return fmt.Errorf("failed to parse instance: %w", err)
	}

	inst, err := req.ToInstance()
	if err != nil {
		return fmt.Errorf("failed to convert instance: %w", err)
	}

	cfg := orchestrator.DefaultConfig()
	if req.Options != nil {
		cfg = httpapi.ApplyOptions(cfg, req.Options)
	}
	if *strategy != "" {
		cfg.Strategy = orchestrator.Strategy(*strategy)
	}
	if *timeLimit > 0 {
		cfg.TimeLimitSeconds = *timeLimit
	}

	outcome, err := orchestrator.Solve(context.Background(), inst, cfg)
	if err != nil {
		// The report is populated even on failure (attempts, backtracks,
		// failure histogram, hardest units), so it's printed alongside the
		// error rather than discarded.
		result := map[string]interface{}{"error": err.Error(), "report": outcome.Report}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return err
	}

	result := httpapi.RenderOutcome(outcome)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
