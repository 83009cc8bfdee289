package seeder

import (
	"fmt"

	"mslscheduler/internal/model"
)

// candidate is one fully-validated placement option for a unit. classrooms
// holds every classroom the unit occupies: a single entry for an ordinary
// unit, or every member of a lesson group's classroom set for a group unit
// (spec §4.1 "one unit shared across all member classrooms") — either way
// the unit is placed into (or undone from) every listed classroom together.
type candidate struct {
	classrooms []int32
	day        int
	start      int
	tuple      []int32
	locationID int32
}

func (cand candidate) key() string {
	return fmt.Sprintf("%v|%d|%d|%v|%d", cand.classrooms, cand.day, cand.start, cand.tuple, cand.locationID)
}

// candidates enumerates every placement satisfying the hard constraints
// for a unit: grid validity, block contiguity, classroom/teacher/location
// freedom, fixed-assignment pinning and maxConsec (spec §4.1, §4.3). A
// group unit's (day, start) must be simultaneously free across every
// member classroom, since it is placed into all of them at once.
func (s *search) candidates(unitID int32) []candidate {
	u := &s.c.Units[unitID]
	span := u.Kind.Span()
	banned := s.banned[unitID]
	classrooms := u.Classrooms()

	days := dayRange(u)
	var out []candidate

	for _, day := range days {
		for start := 0; start+span <= s.c.Grid.MaxDailyHours; start++ {
			if u.FixedPeriod != model.NoID && u.FixedPeriod != model.AllDay && start != u.FixedPeriod {
				continue
			}
			if !s.allClassroomsFit(u, classrooms, day, start, span) {
				continue
			}
			for _, tuple := range u.EligibleTuples {
				if !s.teachersFree(tuple, day, start, span) {
					continue
				}
				loc := u.LocationID
				if loc != model.NoID && !s.locationFree(loc, day, start, span) {
					continue
				}
				cand := candidate{classrooms: append([]int32(nil), classrooms...), day: day, start: start, tuple: tuple, locationID: loc}
				if banned[cand.key()] {
					continue
				}
				out = append(out, cand)
			}
		}
	}
	return out
}

// allClassroomsFit reports whether every classroom a unit occupies has the
// window (day, start..start+span) simultaneously free and grid-valid.
func (s *search) allClassroomsFit(u *model.LessonUnit, classrooms []int32, day, start, span int) bool {
	for _, cid := range classrooms {
		if cid == model.NoID {
			continue
		}
		cl := &s.c.Classrooms[cid]
		if !s.gridFits(cl, day, start, span) {
			return false
		}
		if !s.classroomFree(cid, day, start, span) {
			return false
		}
		if !s.maxConsecOK(u, cid, day, start, span) {
			return false
		}
	}
	return true
}

func dayRange(u *model.LessonUnit) []int {
	if u.FixedDay != model.NoID {
		return []int{u.FixedDay}
	}
	days := make([]int, model.Days)
	for d := range days {
		days[d] = d
	}
	return days
}

func (s *search) gridFits(cl *model.CompiledClassroom, day, start, span int) bool {
	for p := start; p < start+span; p++ {
		if cl.ValidCells[day]&(uint32(1)<<uint(p)) == 0 {
			return false
		}
	}
	return true
}

func (s *search) classroomFree(classroom int32, day, start, span int) bool {
	for p := start; p < start+span; p++ {
		if s.sched.Get(classroom, day, p) != nil {
			return false
		}
	}
	return true
}

func (s *search) teachersFree(tuple []int32, day, start, span int) bool {
	for _, tid := range tuple {
		for p := start; p < start+span; p++ {
			if p >= 32 {
				return false
			}
			if s.teacherBusy[tid][day]&(uint32(1)<<uint(p)) != 0 {
				return false
			}
			if !s.c.Teachers[tid].Free(day, p) {
				return false
			}
		}
	}
	return true
}

func (s *search) locationFree(loc int32, day, start, span int) bool {
	for p := start; p < start+span; p++ {
		if p >= 32 {
			return false
		}
		if s.locationBusy[loc][day]&(uint32(1)<<uint(p)) != 0 {
			return false
		}
	}
	return true
}

// maxConsecOK reports whether placing this unit would keep the subject's
// same-classroom run of consecutive periods at or under MaxConsec
// (spec §3 invariant I4).
func (s *search) maxConsecOK(u *model.LessonUnit, classroom int32, day, start, span int) bool {
	subj := &s.c.Subjects[u.SubjectID]
	if subj.MaxConsec <= 0 {
		return true
	}
	run := span
	for p := start - 1; p >= 0; p-- {
		if a := s.sched.Get(classroom, day, p); a != nil && a.SubjectID == u.SubjectID {
			run++
		} else {
			break
		}
	}
	for p := start + span; p < s.c.Grid.MaxDailyHours; p++ {
		if a := s.sched.Get(classroom, day, p); a != nil && a.SubjectID == u.SubjectID {
			run++
		} else {
			break
		}
	}
	return run <= subj.MaxConsec
}

// dominantReason picks the single most informative failure bucket for a
// unit that had zero candidates, by re-probing the constraints in the
// order spec §4.3 lists them.
func (s *search) dominantReason(unitID int32) FailureReason {
	u := &s.c.Units[unitID]
	span := u.Kind.Span()

	sawAvailability, sawClassBusy, sawTeacherBusy, sawLocationBusy := false, false, false, false

	for _, cid := range u.Classrooms() {
		if cid == model.NoID {
			continue
		}
		cl := &s.c.Classrooms[cid]
		for _, day := range dayRange(u) {
			for start := 0; start+span <= s.c.Grid.MaxDailyHours; start++ {
				if u.FixedDay != model.NoID && u.FixedPeriod != model.NoID &&
					u.FixedPeriod != model.AllDay && start != u.FixedPeriod {
					sawAvailability = true
					continue
				}
				if !s.gridFits(cl, day, start, span) {
					continue
				}
				if !s.classroomFree(cid, day, start, span) {
					sawClassBusy = true
					continue
				}
				anyTeacherOK := false
				for _, tuple := range u.EligibleTuples {
					if s.teachersFree(tuple, day, start, span) {
						anyTeacherOK = true
						if u.LocationID != model.NoID && !s.locationFree(u.LocationID, day, start, span) {
							sawLocationBusy = true
							continue
						}
						return ""
					}
				}
				if !anyTeacherOK {
					sawTeacherBusy = true
				}
			}
		}
	}

	switch {
	case len(u.EligibleTuples) == 0:
		return FailLevelMismatch
	case sawLocationBusy:
		return FailLocationBusy
	case sawTeacherBusy:
		return FailTeacherBusy
	case sawClassBusy:
		return FailClassBusy
	case sawAvailability:
		return FailAvailability
	default:
		return FailBlockBoundary
	}
}
