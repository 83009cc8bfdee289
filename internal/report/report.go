// Package report assembles the Solver Report returned with every solve,
// whether or not it succeeded (spec §4.7).
package report

import (
	"container/heap"
	"time"
)

// HardestUnit names a lesson unit and how many times placement failed
// against its eligibility/availability checks.
type HardestUnit struct {
	UnitID       int32 `json:"unitId"`
	FailureCount int   `json:"failureCount"`
}

// Report is returned with every solve attempt.
type Report struct {
	WallClock           time.Duration      `json:"wallClockNanos"`
	TimeToFirstFeasible *time.Duration     `json:"timeToFirstFeasibleNanos,omitempty"`
	Attempts            int                `json:"attempts"`
	Backtracks          int                `json:"backtracks"`
	FailureHistogram    map[string]int     `json:"failureHistogram"`
	HardestUnits        []HardestUnit      `json:"hardestUnits"`
	ObjectiveValue       float64            `json:"objectiveValue"`
	ObjectiveBreakdown   map[string]float64 `json:"objectiveBreakdown"`
	Notes               []string           `json:"notes"`
	Strategy             string             `json:"strategy"`
	Feasible             bool               `json:"feasible"`
	Cancelled             bool              `json:"cancelled"`
}

// Builder accumulates a report's fields across the orchestrator's
// strategy chain before being finalized.
type Builder struct {
	start      time.Time
	firstFound *time.Duration
	attempts   int
	backtracks int
	failures   map[string]int
	unitFails  map[int32]int
	notes      []string
	strategy   string
}

// NewBuilder starts a report clocked from now.
func NewBuilder(strategy string) *Builder {
	return &Builder{
		start:    timeNow(),
		failures: make(map[string]int),
		unitFails: make(map[int32]int),
		strategy: strategy,
	}
}

// timeNow is a seam so tests could inject a clock; production always uses
// the wall clock.
var timeNow = time.Now

// MarkFirstFeasible records the elapsed time to the first feasible
// solution, if not already recorded.
func (b *Builder) MarkFirstFeasible() {
	if b.firstFound != nil {
		return
	}
	d := timeNow().Sub(b.start)
	b.firstFound = &d
}

// AddAttempts adds to the running placement-attempt counter.
func (b *Builder) AddAttempts(n int) { b.attempts += n }

// AddBacktracks adds to the running backtrack counter.
func (b *Builder) AddBacktracks(n int) { b.backtracks += n }

// AddFailure records one occurrence of a bucketed failure reason.
func (b *Builder) AddFailure(reason string) {
	if reason == "" {
		return
	}
	b.failures[reason]++
}

// MergeFailureHistogram merges a full histogram, e.g. from a seeder.Result.
func (b *Builder) MergeFailureHistogram(h map[string]int) {
	for k, v := range h {
		b.failures[k] += v
	}
}

// AddUnitFailure records one failure against a specific lesson unit, for
// the hardest-units ranking.
func (b *Builder) AddUnitFailure(unitID int32, count int) {
	b.unitFails[unitID] += count
}

// MergeUnitFailures merges a full per-unit failure map.
func (b *Builder) MergeUnitFailures(m map[int32]int) {
	for k, v := range m {
		b.unitFails[k] += v
	}
}

// Note appends a free-form diagnostic (spec §4.7 "e.g. relaxed block
// integrity for units X, Y").
func (b *Builder) Note(n string) { b.notes = append(b.notes, n) }

const defaultHardestN = 10

// Finish assembles the final Report.
func (b *Builder) Finish(feasible, cancelled bool, objective float64, breakdown map[string]float64) Report {
	return Report{
		WallClock:          timeNow().Sub(b.start),
		TimeToFirstFeasible: b.firstFound,
		Attempts:            b.attempts,
		Backtracks:          b.backtracks,
		FailureHistogram:    b.failures,
		HardestUnits:        hardestUnits(b.unitFails, defaultHardestN),
		ObjectiveValue:      objective,
		ObjectiveBreakdown:  breakdown,
		Notes:               b.notes,
		Strategy:            b.strategy,
		Feasible:            feasible,
		Cancelled:           cancelled,
	}
}

// unitHeap is a min-heap over FailureCount, used to keep only the top-N
// hardest units without sorting the full set (spec §4.7 "Top-N hardest
// lesson units").
type unitHeap []HardestUnit

func (h unitHeap) Len() int            { return len(h) }
func (h unitHeap) Less(i, j int) bool  { return h[i].FailureCount < h[j].FailureCount }
func (h unitHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *unitHeap) Push(x interface{}) { *h = append(*h, x.(HardestUnit)) }
func (h *unitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func hardestUnits(fails map[int32]int, n int) []HardestUnit {
	if len(fails) == 0 {
		return nil
	}
	h := &unitHeap{}
	heap.Init(h)
	for id, count := range fails {
		heap.Push(h, HardestUnit{UnitID: id, FailureCount: count})
		if h.Len() > n {
			heap.Pop(h)
		}
	}
	out := make([]HardestUnit, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(HardestUnit)
	}
	return out
}
