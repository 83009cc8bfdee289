package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mslscheduler/internal/cpadapter"
	"mslscheduler/internal/feasibility"
	"mslscheduler/internal/improve"
	"mslscheduler/internal/model"
	"mslscheduler/internal/report"
	"mslscheduler/internal/seeder"
)

// Outcome is the boundary-shaped solve result (spec §6 "Response shape").
type Outcome struct {
	Schedule map[uuid.UUID][model.Days][]*model.BoundaryAssignment
	Report   report.Report
}

// Solve compiles the instance, runs the configured strategy chain under
// the global wall-clock budget, and returns the boundary-shaped schedule
// plus a report — even on failure, per spec §4.7 "Returned with every
// solve, whether successful or not." The builder is started before
// compilation so that a report — empty, but present — accompanies even a
// compile-time validation failure or a pre-search infeasibility verdict.
func Solve(ctx context.Context, inst *model.Instance, cfg Config) (Outcome, error) {
	builder := report.NewBuilder(string(cfg.Strategy))

	compiled, errs := model.Compile(inst, cfg.DefaultMaxConsec)
	if len(errs) > 0 {
		rep := builder.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &ValidationErrors{Errors: errs}
	}

	feasRep := feasibility.Analyze(compiled)
	if feasRep.Fatal {
		builder.MergeFailureHistogram(feasibilityHistogram(feasRep))
		builder.Note(feasRep.FatalReason)
		rep := builder.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &InfeasibleError{Reason: feasRep.FatalReason}
	}

	if cfg.TimeLimitSeconds <= 0 {
		cfg.TimeLimitSeconds = 150
	}
	deadline := time.Now().Add(time.Duration(cfg.TimeLimitSeconds) * time.Second)
	solveCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	cancelCh := ctxDoneChan(solveCtx)

	switch cfg.Strategy {
	case StrategyRepair:
		return runRepair(compiled, cfg, builder, cancelCh)
	case StrategyTabu:
		return runTabu(compiled, cfg, builder, cancelCh)
	case StrategyALNS:
		return runALNS(compiled, cfg, builder, cancelCh)
	case StrategyCP:
		return runCP(solveCtx, compiled, cfg, builder, cancelCh)
	default:
		rep := builder.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, fmt.Errorf("orchestrator: unknown strategy %q", cfg.Strategy)
	}
}

// feasibilityHistogram buckets the Pre-Analyzer's necessary-condition
// violations under the same failure-reason names the seeder uses, so a
// fatal pre-search verdict (spec's Scenario C) still lands in the
// report's failure histogram rather than only its Notes.
func feasibilityHistogram(feasRep feasibility.Report) map[string]int {
	h := make(map[string]int)
	for _, tl := range feasRep.TeacherLoads {
		if tl.Demand > tl.Capacity {
			h[string(seeder.FailTeacherBusy)]++
		}
	}
	for _, cl := range feasRep.ClassroomLoads {
		if cl.Demand > cl.Capacity {
			h[string(seeder.FailClassBusy)]++
		}
	}
	for _, sf := range feasRep.SubjectReports {
		if !sf.Feasible {
			h[string(seeder.FailBlockBoundary)]++
		}
	}
	return h
}

func ctxDoneChan(ctx context.Context) <-chan struct{} {
	return ctx.Done()
}

func improveConfig(cfg Config) improve.Config {
	weights := improve.DefaultWeights()
	weights.TeacherSpread = cfg.TeacherSpreadWeight
	weights.TeacherEdge = cfg.TeacherEdgeWeight
	return improve.Config{
		Weights:                   weights,
		AllowSameDaySplit:         cfg.CPPrefs.AllowSameDaySplit,
		TeacherDailyMaxHours:      cfg.CPPrefs.TeacherDailyMaxHours,
		TabuTenure:                cfg.TabuTenure,
		TabuIterations:            cfg.TabuIterations,
		DisableLNS:                cfg.DisableLNS,
		RandomSeed:                cfg.RandomSeed,
	}
}

func runRepair(c *model.Compiled, cfg Config, b *report.Builder, cancel <-chan struct{}) (Outcome, error) {
	res := seeder.Run(c, seeder.Config{
		RandomSeed:                cfg.RandomSeed,
		BacktrackBudget:           cfg.SeedBacktrackBudget,
		Cancel:                    cancel,
		DisableTeacherEdgePenalty: cfg.DisableTeacherEdgePenalty,
	})
	b.AddAttempts(res.Attempts)
	b.AddBacktracks(res.Backtracks)
	b.MergeFailureHistogram(seederHistogram(res))
	b.MergeUnitFailures(res.UnitFailureCounts)

	if res.Cancelled {
		rep := b.Finish(false, true, 0, nil)
		return Outcome{Report: rep}, &CancelledError{}
	}
	if !res.Complete {
		rep := b.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &InfeasibleError{Reason: "seeder exhausted its backtrack budget"}
	}
	b.MarkFirstFeasible()

	icfg := improveConfig(cfg)
	objective := improve.FullCost(c, res.Schedule, icfg)
	breakdown := improve.Breakdown(c, res.Schedule, icfg)
	rep := b.Finish(true, false, objective, breakdown)
	return Outcome{Schedule: model.Decompile(c, res.Schedule), Report: rep}, nil
}

func runTabu(c *model.Compiled, cfg Config, b *report.Builder, cancel <-chan struct{}) (Outcome, error) {
	seedRes := seeder.Run(c, seeder.Config{
		RandomSeed:                cfg.RandomSeed,
		BacktrackBudget:           cfg.SeedBacktrackBudget,
		Cancel:                    cancel,
		DisableTeacherEdgePenalty: cfg.DisableTeacherEdgePenalty,
	})
	b.AddAttempts(seedRes.Attempts)
	b.AddBacktracks(seedRes.Backtracks)
	b.MergeFailureHistogram(seederHistogram(seedRes))
	b.MergeUnitFailures(seedRes.UnitFailureCounts)

	if seedRes.Cancelled {
		rep := b.Finish(false, true, 0, nil)
		return Outcome{Report: rep}, &CancelledError{}
	}
	if !seedRes.Complete {
		rep := b.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &InfeasibleError{Reason: "seeder exhausted its backtrack budget"}
	}
	b.MarkFirstFeasible()

	icfg := improveConfig(cfg)
	icfg.Cancel = cancel
	tabuRes := improve.TabuSearch(c, seedRes.Schedule, icfg)

	breakdown := improve.Breakdown(c, tabuRes.Schedule, icfg)
	rep := b.Finish(true, tabuRes.Cancelled, tabuRes.Cost, breakdown)
	return Outcome{Schedule: model.Decompile(c, tabuRes.Schedule), Report: rep}, nil
}

func runALNS(c *model.Compiled, cfg Config, b *report.Builder, cancel <-chan struct{}) (Outcome, error) {
	seedRes := seeder.Run(c, seeder.Config{
		RandomSeed:                cfg.RandomSeed,
		BacktrackBudget:           cfg.SeedBacktrackBudget,
		Cancel:                    cancel,
		DisableTeacherEdgePenalty: cfg.DisableTeacherEdgePenalty,
	})
	b.AddAttempts(seedRes.Attempts)
	b.AddBacktracks(seedRes.Backtracks)
	b.MergeFailureHistogram(seederHistogram(seedRes))
	b.MergeUnitFailures(seedRes.UnitFailureCounts)

	if seedRes.Cancelled {
		rep := b.Finish(false, true, 0, nil)
		return Outcome{Report: rep}, &CancelledError{}
	}
	if !seedRes.Complete {
		rep := b.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &InfeasibleError{Reason: "seeder exhausted its backtrack budget"}
	}
	b.MarkFirstFeasible()

	icfg := improveConfig(cfg)
	icfg.Cancel = cancel
	alnsRes := improve.ALNS(c, seedRes.Schedule, icfg)

	breakdown := improve.Breakdown(c, alnsRes.Schedule, icfg)
	rep := b.Finish(true, alnsRes.Cancelled, alnsRes.Cost, breakdown)
	return Outcome{Schedule: model.Decompile(c, alnsRes.Schedule), Report: rep}, nil
}

func runCP(ctx context.Context, c *model.Compiled, cfg Config, b *report.Builder, cancel <-chan struct{}) (Outcome, error) {
	client := cpadapter.NewClient(cfg.CPBackendURL, time.Duration(cfg.TimeLimitSeconds)*time.Second)
	res, err := client.Solve(ctx, c, cfg.CPPrefs, cfg.TimeLimitSeconds, cfg.StopAtFirstSolution)
	if err == nil {
		b.MarkFirstFeasible()
		icfg := improveConfig(cfg)
		breakdown := improve.Breakdown(c, res.Schedule, icfg)
		objective := improve.FullCost(c, res.Schedule, icfg)
		rep := b.Finish(true, false, objective, breakdown)
		return Outcome{Schedule: model.Decompile(c, res.Schedule), Report: rep}, nil
	}

	if !cfg.AllowFallback {
		rep := b.Finish(false, false, 0, nil)
		return Outcome{Report: rep}, &BackendUnavailableError{Cause: err}
	}

	b.Note(fmt.Sprintf("cp backend failed (%v); falling back to tabu", err))
	fallbackCfg := cfg
	fallbackCfg.Strategy = StrategyTabu
	return runTabu(c, fallbackCfg, b, cancel)
}

func seederHistogram(res seeder.Result) map[string]int {
	out := make(map[string]int, len(res.FailureHistogram))
	for k, v := range res.FailureHistogram {
		out[string(k)] = v
	}
	return out
}
