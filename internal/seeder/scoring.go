package seeder

import (
	"sort"

	"mslscheduler/internal/model"
)

// pickMostUrgent selects the unassigned unit with the fewest feasible
// placements, breaking ties by largest block span, then fewest eligible
// teacher-tuples, then lexicographically by (classroom, subject) dense id
// — the order spec §4.3 names for "most constrained first". Candidates
// are visited in sorted unit-id order rather than map iteration order, so
// two fully-symmetric units (same count, span, tuple count, classroom,
// subject) still resolve deterministically instead of by Go's randomized
// map order.
func (s *search) pickMostUrgent() int32 {
	ids := make([]int32, 0, len(s.unassigned))
	for unitID := range s.unassigned {
		ids = append(ids, unitID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var best int32 = -1
	var bestCount = -1
	var bestUnit *model.LessonUnit

	for _, unitID := range ids {
		count := len(s.candidates(unitID))
		u := &s.c.Units[unitID]
		if best == -1 || moreUrgent(count, u, bestCount, bestUnit) {
			best, bestCount, bestUnit = unitID, count, u
		}
	}
	return best
}

func moreUrgent(count int, u *model.LessonUnit, bestCount int, best *model.LessonUnit) bool {
	if count != bestCount {
		return count < bestCount
	}
	if u.Kind.Span() != best.Kind.Span() {
		return u.Kind.Span() > best.Kind.Span()
	}
	if len(u.EligibleTuples) != len(best.EligibleTuples) {
		return len(u.EligibleTuples) < len(best.EligibleTuples)
	}
	uc, bc := firstClassroom(u), firstClassroom(best)
	if uc != bc {
		return uc < bc
	}
	return u.SubjectID < best.SubjectID
}

func firstClassroom(u *model.LessonUnit) int32 {
	cls := u.Classrooms()
	if len(cls) == 0 {
		return model.NoID
	}
	return cls[0]
}

// rankAndPick scores every candidate and returns the best, breaking ties
// through the seeded PRNG when one is configured (spec §4.3
// "Determinism").
func (s *search) rankAndPick(cands []candidate) candidate {
	type scored struct {
		cand  candidate
		score int
	}
	scoredCands := make([]scored, len(cands))
	best := 1<<31 - 1
	for i, cand := range cands {
		sc := s.score(cand)
		scoredCands[i] = scored{cand, sc}
		if sc < best {
			best = sc
		}
	}

	var tied []candidate
	for _, sc := range scoredCands {
		if sc.score == best {
			tied = append(tied, sc.cand)
		}
	}
	if len(tied) == 1 || s.rng == nil {
		return tied[0]
	}
	return tied[s.rng.Intn(len(tied))]
}

// score ranks a candidate lower (better) when it avoids the edges of a
// teacher's daily window and keeps classroom load balanced across days
// (spec §4.3 "candidate ranking").
func (s *search) score(cand candidate) int {
	score := 0
	if !s.cfg.DisableTeacherEdgePenalty {
		for _, tid := range cand.tuple {
			if cand.start == 0 {
				score += 2
			}
			hours := s.teacherDayHours(tid, cand.day)
			if hours > 0 && cand.start+1 == hours {
				score += 2
			}
		}
	}
	for _, cid := range cand.classrooms {
		score += s.dayLoad(cid, cand.day)
	}
	return score
}

func (s *search) teacherDayHours(teacher int32, day int) int {
	max := 0
	for _, cl := range s.c.Classrooms {
		if h := s.c.Grid.Hours[cl.Level][day]; h > max {
			max = h
		}
	}
	return max
}

func (s *search) dayLoad(classroom int32, day int) int {
	load := 0
	for p := 0; p < s.c.Grid.MaxDailyHours; p++ {
		if s.sched.Get(classroom, day, p) != nil {
			load++
		}
	}
	return load
}
