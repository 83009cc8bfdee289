package improve

import (
	"fmt"
	"math/rand"

	"mslscheduler/internal/model"
)

// Result is returned by both Tabu Search and ALNS.
type Result struct {
	Schedule     *model.Schedule
	Cost         float64
	Iterations   int
	Improvements int
	Cancelled    bool
}

// candidateMove is one fully-evaluated neighborhood move, ready to apply.
type candidateMove struct {
	fingerprint string
	apply       func() (affectedTeachers, affectedClassrooms []int32, affectedDays []int)
}

// TabuSearch runs Tabu Search from a feasible starting schedule
// (spec §4.4 "Tabu Search").
func TabuSearch(c *model.Compiled, start *model.Schedule, cfg Config) Result {
	sched := start.Clone()
	cs := NewCostState(c, sched, cfg)
	best := sched.Clone()
	bestCost := cs.Total()

	tabu := make(map[string]int)
	var rng *rand.Rand
	if cfg.RandomSeed != nil {
		rng = rand.New(rand.NewSource(int64(*cfg.RandomSeed)))
	} else {
		rng = rand.New(rand.NewSource(1))
	}

	stagnant := 0
	improvements := 0
	iter := 0
	for ; iter < cfg.TabuIterations; iter++ {
		if iter%256 == 0 {
			if cancelled(cfg.Cancel) {
				sched = best.Clone()
				return Result{Schedule: sched, Cost: bestCost, Iterations: iter, Improvements: improvements, Cancelled: true}
			}
			assertConsistent(c, sched, cs)
		}

		moves := neighborhood(c, sched, rng, 24)
		if len(moves) == 0 {
			stagnant++
		} else {
			chosen, delta, ok := pickBest(cs, sched, moves, tabu, iter, bestCost)
			if !ok {
				stagnant++
			} else {
				teachers, classrooms, days := chosen.apply()
				cs.Update(teachers, classrooms, days)
				assertConsistent(c, sched, cs)
				tabu[chosen.fingerprint] = iter + cfg.TabuTenure
				if cs.Total() < bestCost-1e-9 {
					bestCost = cs.Total()
					best = sched.Clone()
					improvements++
					stagnant = 0
				} else if delta >= 0 {
					stagnant++
				}
			}
		}

		if !cfg.DisableLNS && stagnant >= cfg.TabuIterations/10+10 {
			diversify(c, sched, cs, rng)
			stagnant = 0
		}
	}

	return Result{Schedule: best, Cost: bestCost, Iterations: iter, Improvements: improvements}
}

func cancelled(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// neighborhood samples a bounded set of Relocate/Swap/Teacher-reassign
// moves, each wrapped so applying it mutates the schedule in place and
// reports the affected keys for delta evaluation.
func neighborhood(c *model.Compiled, s *model.Schedule, rng *rand.Rand, sampleSize int) []candidateMove {
	all := blocks(c, s)
	if len(all) == 0 {
		return nil
	}
	var out []candidateMove
	for i := 0; i < sampleSize && i < len(all)*3; i++ {
		b := all[rng.Intn(len(all))]
		switch rng.Intn(3) {
		case 0:
			day := rng.Intn(model.Days)
			start := rng.Intn(c.Grid.MaxDailyHours)
			b := b
			out = append(out, candidateMove{
				fingerprint: fmt.Sprintf("relocate:%d->%d,%d", b.unitID, day, start),
				apply: func() ([]int32, []int32, []int) {
					oldDay := b.day
					if !relocate(c, s, b, day, start) {
						return nil, nil, nil
					}
					return b.a.TeacherIDs, []int32{b.classroom}, dedupDays(oldDay, day)
				},
			})
		case 1:
			y := all[rng.Intn(len(all))]
			x := b
			out = append(out, candidateMove{
				fingerprint: fmt.Sprintf("swap:%d<->%d", x.unitID, y.unitID),
				apply: func() ([]int32, []int32, []int) {
					if x.unitID == y.unitID || !swap(c, s, x, y) {
						return nil, nil, nil
					}
					teachers := append(append([]int32(nil), x.a.TeacherIDs...), y.a.TeacherIDs...)
					classrooms := []int32{x.classroom, y.classroom}
					return teachers, classrooms, dedupDays(x.day, y.day)
				},
			})
		default:
			u := &c.Units[b.unitID]
			if len(u.EligibleTuples) < 2 {
				continue
			}
			newTuple := u.EligibleTuples[rng.Intn(len(u.EligibleTuples))]
			oldTuple := b.a.TeacherIDs
			bb := b
			out = append(out, candidateMove{
				fingerprint: fmt.Sprintf("reassign:%d", bb.unitID),
				apply: func() ([]int32, []int32, []int) {
					if !teacherReassign(c, s, bb, newTuple) {
						return nil, nil, nil
					}
					teachers := append(append([]int32(nil), oldTuple...), newTuple...)
					return teachers, []int32{bb.classroom}, []int{bb.day}
				},
			})
		}
	}
	return out
}

func dedupDays(a, b int) []int {
	if a == b {
		return []int{a}
	}
	return []int{a, b}
}

// pickBest evaluates every sampled move by speculative apply/measure/undo
// and returns the lowest-cost one that is either non-tabu or beats the
// incumbent (aspiration, spec §4.4).
func pickBest(cs *CostState, s *model.Schedule, moves []candidateMove, tabu map[string]int, iter int, bestCost float64) (candidateMove, float64, bool) {
	type scored struct {
		mv    candidateMove
		delta float64
	}
	var best *scored
	for _, mv := range moves {
		snapshot := s.Clone()
		teachers, classrooms, days := mv.apply()
		if teachers == nil && classrooms == nil && days == nil {
			restoreInto(s, snapshot)
			continue
		}
		delta := cs.Update(teachers, classrooms, days)
		tabuUntil, isTabu := tabu[mv.fingerprint]
		aspirated := cs.Total() < bestCost-1e-9

		// Revert the trial: restore the schedule, then recompute the same
		// keys so the cost cache reflects the reverted state exactly.
		restoreInto(s, snapshot)
		cs.Update(teachers, classrooms, days)

		if isTabu && tabuUntil > iter && !aspirated {
			continue
		}
		if best == nil || delta < best.delta {
			mvCopy := mv
			best = &scored{mv: mvCopy, delta: delta}
		}
	}
	if best == nil {
		return candidateMove{}, 0, false
	}
	return best.mv, best.delta, true
}

// restoreInto copies src's cells into dst, period slice by period slice, so
// dst never ends up sharing backing arrays with src: a later write through
// dst must not be visible through src (or any other snapshot still holding
// a reference to it).
func restoreInto(dst, src *model.Schedule) {
	for i := range dst.Cells {
		for d := 0; d < model.Days; d++ {
			dst.Cells[i][d] = append(dst.Cells[i][d][:0], src.Cells[i][d]...)
		}
	}
}

// diversify forces a Ruin-and-Recreate of the worst-cost 10% of units on
// stagnation (spec §4.4 "Diversification").
func diversify(c *model.Compiled, s *model.Schedule, cs *CostState, rng *rand.Rand) {
	all := blocks(c, s)
	if len(all) == 0 {
		return
	}
	victims := selectVictims(c, s, cs, removeWorstCost, rng, 0.1)
	ruinAndRecreate(c, s, cs, victims)
}
