package improve

import (
	"math"
	"math/rand"

	"mslscheduler/internal/model"
)

// removalOperator names one of ALNS's destroy strategies (spec §4.4
// "Ruin-and-Recreate").
type removalOperator int

const (
	removeWorstCost removalOperator = iota
	removeRandom
	removeDayShaw
	removeTeacherShaw
)

var removalOperators = []removalOperator{removeWorstCost, removeRandom, removeDayShaw, removeTeacherShaw}

// ruinAndRecreate clears a set of victim blocks and reinserts their units
// with this package's first-fit reinsert, into a schedule already holding
// every other unit fixed. The Constructive Seeder's ranking and
// backtracking are not used here. It mutates s and cs in place.
func ruinAndRecreate(c *model.Compiled, s *model.Schedule, cs *CostState, victims []blockRef) {
	affectedTeachers := make(map[int32]bool)
	affectedClassrooms := make(map[int32]bool)
	affectedDays := make(map[int]bool)

	for _, v := range victims {
		s.ClearBlock(v.classroom, v.day, v.start, v.span)
		for _, tid := range v.a.TeacherIDs {
			affectedTeachers[tid] = true
		}
		affectedClassrooms[v.classroom] = true
		affectedDays[v.day] = true
	}

	reinserted := reinsert(c, s, victims)

	for _, v := range reinserted {
		for _, tid := range v.a.TeacherIDs {
			affectedTeachers[tid] = true
		}
		affectedClassrooms[v.classroom] = true
		affectedDays[v.day] = true
	}

	cs.Update(keysOf(affectedTeachers), keysOf(affectedClassrooms), intKeysOf(affectedDays))
}

// reinsert places each removed unit into the first feasible window found
// by scanning days and start periods in order — the same constraints the
// seeder enforces, reused here at a smaller scale.
func reinsert(c *model.Compiled, s *model.Schedule, victims []blockRef) []blockRef {
	var placed []blockRef
	for _, v := range victims {
		u := &c.Units[v.unitID]
		span := u.Kind.Span()
		found := false
		for day := 0; day < model.Days && !found; day++ {
			if u.FixedDay != model.NoID && u.FixedDay != day {
				continue
			}
			for start := 0; start+span <= c.Grid.MaxDailyHours && !found; start++ {
				if u.FixedPeriod != model.NoID && u.FixedPeriod != model.AllDay && start != u.FixedPeriod {
					continue
				}
				if !gridFits(c, v.classroom, day, start, span) {
					continue
				}
				if !cellsFree(s, v.classroom, day, start, span, c.Grid.MaxDailyHours) {
					continue
				}
				if !maxConsecOKAt(c, s, u.SubjectID, v.classroom, day, start, span) {
					continue
				}
				for _, tuple := range u.EligibleTuples {
					if !teachersFreeAt(c, s, tuple, day, start, span) {
						continue
					}
					if !locationFreeAt(c, s, u.LocationID, day, start, span) {
						continue
					}
					a := &model.Assignment{
						UnitID:     v.unitID,
						SubjectID:  u.SubjectID,
						TeacherIDs: append([]int32(nil), tuple...),
						LocationID: u.LocationID,
						BlockID:    v.a.BlockID,
						Span:       span,
					}
					s.PlaceBlock(v.classroom, day, start, a)
					placed = append(placed, blockRef{classroom: v.classroom, day: day, start: start, span: span, unitID: v.unitID, a: a})
					found = true
					break
				}
			}
		}
		if !found {
			// No feasible window remained; restore the unit exactly where
			// it was rather than leaving the schedule short a lesson.
			s.PlaceBlock(v.classroom, v.day, v.start, v.a)
			placed = append(placed, v)
		}
	}
	return placed
}

func selectVictims(c *model.Compiled, s *model.Schedule, cs *CostState, op removalOperator, rng *rand.Rand, ratio float64) []blockRef {
	all := blocks(c, s)
	n := int(float64(len(all)) * ratio)
	if n < 1 {
		n = 1
	}
	if n > len(all) {
		n = len(all)
	}

	switch op {
	case removeRandom:
		rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		return all[:n]
	case removeDayShaw:
		day := rng.Intn(model.Days)
		var sameDay []blockRef
		for _, b := range all {
			if b.day == day {
				sameDay = append(sameDay, b)
			}
		}
		if len(sameDay) == 0 {
			return all[:n]
		}
		if n > len(sameDay) {
			n = len(sameDay)
		}
		return sameDay[:n]
	case removeTeacherShaw:
		pivot := all[rng.Intn(len(all))]
		var tid int32 = model.NoID
		if len(pivot.a.TeacherIDs) > 0 {
			tid = pivot.a.TeacherIDs[0]
		}
		var sameTeacher []blockRef
		for _, b := range all {
			for _, t := range b.a.TeacherIDs {
				if t == tid {
					sameTeacher = append(sameTeacher, b)
					break
				}
			}
		}
		if n > len(sameTeacher) {
			n = len(sameTeacher)
		}
		return sameTeacher[:n]
	default: // removeWorstCost: units belonging to the teacher/day pairs
		// with the highest current cost contribution.
		type scored struct {
			b    blockRef
			cost float64
		}
		scoredAll := make([]scored, len(all))
		for i, b := range all {
			var cost float64
			for _, tid := range b.a.TeacherIDs {
				cost += cs.teacherDayCost[[2]int32{tid, int32(b.day)}]
			}
			cost += cs.classDaySplit[[2]int32{b.classroom, int32(b.day)}]
			scoredAll[i] = scored{b, cost}
		}
		for i := 0; i < len(scoredAll); i++ {
			for j := i + 1; j < len(scoredAll); j++ {
				if scoredAll[j].cost > scoredAll[i].cost {
					scoredAll[i], scoredAll[j] = scoredAll[j], scoredAll[i]
				}
			}
		}
		out := make([]blockRef, n)
		for i := 0; i < n; i++ {
			out[i] = scoredAll[i].b
		}
		return out
	}
}

func keysOf(m map[int32]bool) []int32 {
	out := make([]int32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func intKeysOf(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ALNS runs Adaptive Large Neighborhood Search from a feasible starting
// schedule (spec §4.4 "ALNS"): adaptive operator weights and simulated
// annealing acceptance over repeated ruin-and-recreate rounds.
func ALNS(c *model.Compiled, start *model.Schedule, cfg Config) Result {
	sched := start.Clone()
	cs := NewCostState(c, sched, cfg)
	best := sched.Clone()
	bestCost := cs.Total()

	var rng *rand.Rand
	if cfg.RandomSeed != nil {
		rng = rand.New(rand.NewSource(int64(*cfg.RandomSeed)))
	} else {
		rng = rand.New(rand.NewSource(1))
	}

	weights := make([]float64, len(removalOperators))
	for i := range weights {
		weights[i] = 1
	}

	temp := initialTemperature(c, sched, cs, rng)
	cooling := 0.995
	improvements := 0

	iter := 0
	for ; iter < cfg.TabuIterations; iter++ {
		if iter%256 == 0 {
			if cancelled(cfg.Cancel) {
				return Result{Schedule: best, Cost: bestCost, Iterations: iter, Improvements: improvements, Cancelled: true}
			}
			assertConsistent(c, sched, cs)
		}

		opIdx := pickWeighted(weights, rng)
		victims := selectVictims(c, sched, cs, removalOperators[opIdx], rng, 0.2)
		before := cs.Total()
		ruinAndRecreate(c, sched, cs, victims)
		after := cs.Total()
		delta := after - before

		accept := delta < 0 || rng.Float64() < math.Exp(-delta/math.Max(temp, 1e-6))
		if accept {
			assertConsistent(c, sched, cs)
			reward := 0.0
			if after < bestCost-1e-9 {
				bestCost = after
				best = sched.Clone()
				improvements++
				reward = 3
			} else if after < before {
				reward = 1
			}
			weights[opIdx] = weights[opIdx]*0.9 + reward*0.1
		} else {
			// Reject: the schedule already reflects the ruin-and-recreate
			// result, so roll back to the prior incumbent snapshot.
			restoreInto(sched, best)
			cs = NewCostState(c, sched, cfg)
		}
		temp *= cooling
	}

	return Result{Schedule: best, Cost: bestCost, Iterations: iter, Improvements: improvements}
}

// initialTemperature samples the cost deltas of 50 random single-unit
// ruin-and-recreate rounds, per spec §4.4's "initial temperature derived
// from the first 50 random moves' cost deltas".
func initialTemperature(c *model.Compiled, s *model.Schedule, cs *CostState, rng *rand.Rand) float64 {
	sample := s.Clone()
	sampleCS := NewCostState(c, sample, cs.cfg)
	sum := 0.0
	n := 0
	for i := 0; i < 50; i++ {
		all := blocks(c, sample)
		if len(all) == 0 {
			break
		}
		victim := all[rng.Intn(len(all))]
		before := sampleCS.Total()
		ruinAndRecreate(c, sample, sampleCS, []blockRef{victim})
		after := sampleCS.Total()
		sum += math.Abs(after - before)
		n++
	}
	if n == 0 {
		return 1
	}
	avg := sum / float64(n)
	if avg <= 0 {
		return 1
	}
	return avg
}

func pickWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}
