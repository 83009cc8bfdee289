// Package orchestrator dispatches a solve across the four strategies and
// enforces the global wall-clock budget (spec §4.6).
package orchestrator

import "mslscheduler/internal/cpadapter"

// Strategy names the four dispatchable search strategies (spec §4.6).
type Strategy string

const (
	StrategyRepair Strategy = "repair"
	StrategyTabu   Strategy = "tabu"
	StrategyALNS   Strategy = "alns"
	StrategyCP     Strategy = "cp"
)

// Config is the solve-time configuration (spec §6).
type Config struct {
	Strategy                  Strategy
	SeedRatio                 float64
	TabuTenure                int
	TabuIterations            int
	StopAtFirstSolution       bool
	RandomSeed                *uint32
	DisableLNS                bool
	DisableTeacherEdgePenalty bool
	TeacherSpreadWeight       float64
	TeacherEdgeWeight         float64
	AllowBlockRelaxation      bool
	CPPrefs                   cpadapter.Preferences
	AllowFallback             bool
	TimeLimitSeconds          int
	CPBackendURL              string
	SeedBacktrackBudget       int
	DefaultMaxConsec          int
}

// DefaultConfig mirrors spec §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:                  StrategyCP,
		SeedRatio:                 0.15,
		TabuTenure:                50,
		TabuIterations:            2000,
		StopAtFirstSolution:       true,
		DisableLNS:                true,
		DisableTeacherEdgePenalty: true,
		TeacherSpreadWeight:       1,
		TeacherEdgeWeight:         1,
		TimeLimitSeconds:          150,
		SeedBacktrackBudget:       500,
		DefaultMaxConsec:          3,
	}
}
