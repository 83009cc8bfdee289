// Package seeder implements the Constructive Seeder: a greedy
// most-constrained-first placement heuristic with bounded chronological
// backtracking, used standalone as the "repair" strategy and to
// warm-start the metaheuristic improvers (spec §4.3).
package seeder

import (
	"math/rand"
	"time"

	"mslscheduler/internal/model"
)

// FailureReason buckets a placement dead-end for the solver report
// (spec §4.3).
type FailureReason string

const (
	FailLevelMismatch FailureReason = "levelMismatch"
	FailAvailability  FailureReason = "availability"
	FailClassBusy     FailureReason = "classBusy"
	FailTeacherBusy   FailureReason = "teacherBusy"
	FailLocationBusy  FailureReason = "locationBusy"
	FailBlockBoundary FailureReason = "blockBoundary"
)

// Config parameterizes one Seeder run.
type Config struct {
	// RandomSeed, when set, routes every tie-break through a seeded PRNG
	// so the trajectory is reproducible (spec §4.3 "Determinism").
	RandomSeed *uint32
	// BacktrackBudget bounds how many chronological backtracks the search
	// may take before giving up. Zero means no backtracking is attempted.
	BacktrackBudget int
	// Deadline is a wall-clock cutoff; the zero value means no deadline.
	Deadline time.Time
	// Cancel is polled between placements (spec §5 "Suspension points").
	Cancel <-chan struct{}
	// DisableTeacherEdgePenalty turns off the preference against the
	// first/last period of a day's window when ranking candidates.
	DisableTeacherEdgePenalty bool
}

// Result is returned whether or not the search completed.
type Result struct {
	Schedule          *model.Schedule
	Complete          bool
	Cancelled         bool
	Attempts          int
	Backtracks        int
	FailureHistogram  map[FailureReason]int
	UnitFailureCounts map[int32]int
}

// frame records one placement so it can be undone during backtracking.
type frame struct {
	unitID       int32
	classrooms   []int32
	day          int
	start        int
	span         int
	tuple        []int32
	locationID   int32
	candidateKey string
}

type search struct {
	c   *model.Compiled
	cfg Config
	sched *model.Schedule

	teacherBusy  [][model.Days]uint32
	locationBusy [][model.Days]uint32

	unassigned map[int32]bool
	banned     map[int32]map[string]bool
	stack      []frame

	nextBlockID int32
	rng         *rand.Rand

	attempts   int
	backtracks int
	failures   map[FailureReason]int
	unitFails  map[int32]int
}

// Run executes the Constructive Seeder over a compiled model, stopping on
// the first complete assignment, cancellation, deadline, or exhausted
// backtrack budget (spec §4.3).
func Run(c *model.Compiled, cfg Config) Result {
	s := &search{
		c:            c,
		cfg:          cfg,
		sched:        model.NewSchedule(c),
		teacherBusy:  make([][model.Days]uint32, len(c.Teachers)),
		locationBusy: make([][model.Days]uint32, len(c.Locations)),
		unassigned:   make(map[int32]bool, len(c.Units)),
		banned:       make(map[int32]map[string]bool),
		failures:     make(map[FailureReason]int),
		unitFails:    make(map[int32]int),
	}
	if cfg.RandomSeed != nil {
		s.rng = rand.New(rand.NewSource(int64(*cfg.RandomSeed)))
	}
	for _, d := range c.Duties {
		if d.Period == model.AllDay {
			s.teacherBusy[d.TeacherID][d.Day] = ^uint32(0)
		} else if d.Period < 32 {
			s.teacherBusy[d.TeacherID][d.Day] |= 1 << uint(d.Period)
		}
	}
	for _, u := range c.Units {
		s.unassigned[u.ID] = true
	}

	for len(s.unassigned) > 0 {
		if s.cancelled() {
			return s.result(false, true)
		}
		if s.deadlineHit() {
			return s.result(false, false)
		}

		unit := s.pickMostUrgent()
		cands := s.candidates(unit)
		s.attempts++

		if len(cands) == 0 {
			s.recordFailure(unit)
			if !s.backtrack() {
				return s.result(false, false)
			}
			continue
		}

		best := s.rankAndPick(cands)
		s.place(unit, best)
	}

	return s.result(true, false)
}

func (s *search) cancelled() bool {
	if s.cfg.Cancel == nil {
		return false
	}
	select {
	case <-s.cfg.Cancel:
		return true
	default:
		return false
	}
}

func (s *search) deadlineHit() bool {
	return !s.cfg.Deadline.IsZero() && time.Now().After(s.cfg.Deadline)
}

func (s *search) result(complete, cancelled bool) Result {
	return Result{
		Schedule:          s.sched,
		Complete:          complete,
		Cancelled:         cancelled,
		Attempts:          s.attempts,
		Backtracks:        s.backtracks,
		FailureHistogram:  s.failures,
		UnitFailureCounts: s.unitFails,
	}
}

func (s *search) recordFailure(unitID int32) {
	s.unitFails[unitID]++
	s.failures[s.dominantReason(unitID)]++
}

// backtrack undoes the most recent placement and forbids that exact
// choice from being retried at the same unit, per spec §4.3's "forbid
// that choice at that depth" dead-end handling.
func (s *search) backtrack() bool {
	if len(s.stack) == 0 || s.backtracks >= s.cfg.BacktrackBudget {
		return false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.undo(top)

	if s.banned[top.unitID] == nil {
		s.banned[top.unitID] = make(map[string]bool)
	}
	s.banned[top.unitID][top.candidateKey] = true
	s.unassigned[top.unitID] = true
	s.backtracks++
	return true
}
