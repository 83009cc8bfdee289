// Package feasibility computes necessary conditions over a compiled model
// and surfaces infeasibilities before the search begins (spec §4.2).
package feasibility

import "mslscheduler/internal/model"

// TeacherLoad reports a teacher's demand-versus-capacity ratio.
type TeacherLoad struct {
	TeacherID id32
	Demand    int // sum of unit-hours for which this teacher is the only candidate
	Capacity  int // count of true cells in the teacher's availability
}

// id32 is a dense compiled-model id (teacher, classroom, or subject).
type id32 = int32

// ClassroomCapacity reports a classroom's weekly-hour demand versus its
// grid capacity.
type ClassroomCapacity struct {
	ClassroomID id32
	Demand      int
	Capacity    int
}

// SubjectFeasibility reports, for one (subject, classroom) pair, whether
// the count of free cells covers its weekly hours. Block structure is not
// checked: the cells are not required to form consecutive windows of the
// subject's block lengths.
type SubjectFeasibility struct {
	SubjectID    id32
	ClassroomID  id32
	NeededHours  int
	FreeWindows  int
	Feasible     bool
}

// Report is the Pre-Analyzer's output: non-fatal warnings unless Fatal is
// set, in which case the caller should abort before search (spec §4.2).
type Report struct {
	TeacherLoads    []TeacherLoad
	ClassroomLoads  []ClassroomCapacity
	SubjectReports  []SubjectFeasibility
	Fatal           bool
	FatalReason     string
}

// Analyze computes the Feasibility Pre-Analyzer's necessary conditions
// over a compiled model.
func Analyze(c *model.Compiled) Report {
	var r Report

	r.TeacherLoads = teacherLoads(c)
	r.ClassroomLoads = classroomCapacities(c)
	r.SubjectReports = subjectFeasibilities(c)

	for _, tl := range r.TeacherLoads {
		if tl.Demand > tl.Capacity {
			r.Fatal = true
			r.FatalReason = "a teacher's sole-candidate demand exceeds their availability"
		}
	}
	for _, cl := range r.ClassroomLoads {
		if cl.Demand > cl.Capacity {
			r.Fatal = true
			r.FatalReason = "a classroom's scheduled demand exceeds its weekly capacity"
		}
	}
	for _, sf := range r.SubjectReports {
		if !sf.Feasible {
			r.Fatal = true
			r.FatalReason = "a subject has no sufficient window for its required hours"
		}
	}
	return r
}

// teacherLoads computes, per teacher, the sum of unit-hours for which
// they are the only eligible candidate versus their availability count
// (spec §4.2).
func teacherLoads(c *model.Compiled) []TeacherLoad {
	demand := make([]int, len(c.Teachers))
	for _, u := range c.Units {
		if len(u.EligibleTuples) != 1 || len(u.EligibleTuples[0]) != 1 {
			continue
		}
		tid := u.EligibleTuples[0][0]
		demand[tid] += u.Kind.Span()
	}

	loads := make([]TeacherLoad, len(c.Teachers))
	for _, t := range c.Teachers {
		capacity := 0
		for d := 0; d < model.Days; d++ {
			capacity += popcount(t.Availability[d])
		}
		loads[t.ID] = TeacherLoad{TeacherID: t.ID, Demand: demand[t.ID], Capacity: capacity}
	}
	return loads
}

// classroomCapacities computes, per classroom, the sum of weekly hours
// demanded by its lesson units versus the grid's weekly period count.
func classroomCapacities(c *model.Compiled) []ClassroomCapacity {
	demand := make([]int, len(c.Classrooms))
	for _, u := range c.Units {
		for _, cid := range u.Classrooms() {
			if cid == model.NoID {
				continue
			}
			demand[cid] += u.Kind.Span()
		}
	}

	loads := make([]ClassroomCapacity, len(c.Classrooms))
	for _, cl := range c.Classrooms {
		capacity := 0
		for d := 0; d < model.Days; d++ {
			capacity += c.Grid.Hours[cl.Level][d]
		}
		loads[cl.ID] = ClassroomCapacity{ClassroomID: cl.ID, Demand: demand[cl.ID], Capacity: capacity}
	}
	return loads
}

// subjectFeasibilities estimates, for each (subject, classroom) pair
// appearing in the compiled units, whether enough free (day, period)
// windows exist — with at least one eligible teacher unencumbered by a
// duty — to fit the subject's remaining hours.
func subjectFeasibilities(c *model.Compiled) []SubjectFeasibility {
	type key struct{ subject, classroom int32 }
	needed := make(map[key]int)
	tuplesOf := make(map[key][][]int32)
	for _, u := range c.Units {
		for _, cid := range u.Classrooms() {
			k := key{u.SubjectID, cid}
			needed[k] += u.Kind.Span()
			tuplesOf[k] = u.EligibleTuples
		}
	}

	reports := make([]SubjectFeasibility, 0, len(needed))
	for k, need := range needed {
		if k.classroom == model.NoID {
			continue
		}
		cl := c.Classrooms[k.classroom]
		free := 0
		for day := 0; day < model.Days; day++ {
			hours := c.Grid.Hours[cl.Level][day]
			for p := 0; p < hours; p++ {
				if anyTeacherFree(c, tuplesOf[k], day, p, dutiesAt(c, day, p)) {
					free++
				}
			}
		}
		reports = append(reports, SubjectFeasibility{
			SubjectID:   k.subject,
			ClassroomID: k.classroom,
			NeededHours: need,
			FreeWindows: free,
			Feasible:    free >= need,
		})
	}
	return reports
}

// dutiesAt returns the set of teachers on duty at (day, period).
func dutiesAt(c *model.Compiled, day, period int) map[int32]bool {
	busy := make(map[int32]bool)
	for _, d := range c.Duties {
		if d.Day != day {
			continue
		}
		if d.Period == model.AllDay || d.Period == period {
			busy[d.TeacherID] = true
		}
	}
	return busy
}

func anyTeacherFree(c *model.Compiled, tuples [][]int32, day, period int, onDuty map[int32]bool) bool {
	for _, tuple := range tuples {
		ok := true
		for _, tid := range tuple {
			t := c.Teachers[tid]
			if !t.Free(day, period) || onDuty[tid] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func popcount(mask uint32) int {
	count := 0
	for mask != 0 {
		mask &= mask - 1
		count++
	}
	return count
}
