package cpadapter

import "mslscheduler/internal/model"

// Problem is the wire encoding of a compiled model sent to the CP-SAT
// backend: interval-per-unit domains plus the no-overlap, channeling,
// synchronization and rolling-sum constraints spec §4.5 enumerates. The
// backend owns the actual CP-SAT model construction; this package only
// flattens the compiled model into the shapes it needs.
type Problem struct {
	ClassroomCount int           `json:"classroomCount"`
	TeacherCount   int           `json:"teacherCount"`
	LocationCount  int           `json:"locationCount"`
	Days           int           `json:"days"`
	MaxDailyHours  int           `json:"maxDailyHours"`
	Units          []UnitSpec    `json:"units"`
	Fixed          []FixedSpec   `json:"fixed"`
	Duties         []DutySpec    `json:"duties"`
	Groups         []GroupSpec   `json:"lessonGroupSync"`
	MaxConsec      []ConsecSpec  `json:"maxConsec"`
}

// UnitSpec is one decision variable family: start_u over FeasibleStarts,
// plus the admissible teacher-tuples for the channeling constraint
// (spec §4.5 "decision variables").
type UnitSpec struct {
	ID             int32   `json:"id"`
	Span           int     `json:"span"`
	Classrooms     []int32 `json:"classrooms"`
	EligibleTuples [][]int32 `json:"eligibleTuples"`
	LocationID     int32   `json:"locationId"`
	FeasibleStarts []int   `json:"feasibleStarts"` // flattened day*maxDailyHours+period
	LessonGroupID  int32   `json:"lessonGroupId"`
}

// FixedSpec pins an interval by classroom/subject/day/period
// (spec §4.5 "Fixed assignments").
type FixedSpec struct {
	ClassroomID int32 `json:"classroomId"`
	SubjectID   int32 `json:"subjectId"`
	Day         int   `json:"day"`
	Period      int   `json:"period"`
}

// DutySpec removes a teacher's flattened slot from every interval domain
// that would use them.
type DutySpec struct {
	TeacherID int32 `json:"teacherId"`
	Day       int   `json:"day"`
	Period    int   `json:"period"`
}

// GroupSpec lists the unit ids that must share a synchronized start
// (spec §4.5 "Lesson groups").
type GroupSpec struct {
	LessonGroupID int32   `json:"lessonGroupId"`
	UnitIDs       []int32 `json:"unitIds"`
}

// ConsecSpec encodes one subject/classroom's rolling-sum at-most-k
// constraint (spec §4.5 "maxConsec").
type ConsecSpec struct {
	SubjectID   int32 `json:"subjectId"`
	ClassroomID int32 `json:"classroomId"`
	MaxConsec   int   `json:"maxConsec"`
}

// Encode flattens a compiled model into the CP backend's wire shape.
func Encode(c *model.Compiled) Problem {
	p := Problem{
		ClassroomCount: len(c.Classrooms),
		TeacherCount:   len(c.Teachers),
		LocationCount:  len(c.Locations),
		Days:           model.Days,
		MaxDailyHours:  c.Grid.MaxDailyHours,
	}

	groupUnits := make(map[int32][]int32)
	for i := range c.Units {
		u := &c.Units[i]
		p.Units = append(p.Units, UnitSpec{
			ID:             u.ID,
			Span:           u.Kind.Span(),
			Classrooms:     u.Classrooms(),
			EligibleTuples: u.EligibleTuples,
			LocationID:     u.LocationID,
			FeasibleStarts: feasibleStarts(c, u),
			LessonGroupID:  u.LessonGroupID,
		})
		if u.LessonGroupID != model.NoID {
			groupUnits[u.LessonGroupID] = append(groupUnits[u.LessonGroupID], u.ID)
		}
	}
	for gid, ids := range groupUnits {
		if len(ids) > 1 {
			p.Groups = append(p.Groups, GroupSpec{LessonGroupID: gid, UnitIDs: ids})
		}
	}

	for _, f := range c.Fixed {
		p.Fixed = append(p.Fixed, FixedSpec{ClassroomID: f.ClassroomID, SubjectID: f.SubjectID, Day: f.Day, Period: f.Period})
	}
	for _, d := range c.Duties {
		p.Duties = append(p.Duties, DutySpec{TeacherID: d.TeacherID, Day: d.Day, Period: d.Period})
	}

	seen := make(map[[2]int32]bool)
	for i := range c.Units {
		u := &c.Units[i]
		subj := &c.Subjects[u.SubjectID]
		if subj.MaxConsec <= 0 {
			continue
		}
		for _, cid := range u.Classrooms() {
			key := [2]int32{u.SubjectID, cid}
			if seen[key] {
				continue
			}
			seen[key] = true
			p.MaxConsec = append(p.MaxConsec, ConsecSpec{SubjectID: u.SubjectID, ClassroomID: cid, MaxConsec: subj.MaxConsec})
		}
	}

	return p
}

// feasibleStarts flattens every (day, start) honoring the ragged time
// grid and any fixed pin into a single day*maxDailyHours+period index
// list, for every classroom the unit occupies (spec §4.5 "Ragged time
// grid: forbidden starts removed from each interval's domain").
func feasibleStarts(c *model.Compiled, u *model.LessonUnit) []int {
	span := u.Kind.Span()
	var starts []int
	for day := 0; day < model.Days; day++ {
		if u.FixedDay != model.NoID && u.FixedDay != day {
			continue
		}
		for _, cid := range u.Classrooms() {
			if cid == model.NoID {
				continue
			}
			cl := &c.Classrooms[cid]
			for start := 0; start+span <= c.Grid.MaxDailyHours; start++ {
				if u.FixedPeriod != model.NoID && u.FixedPeriod != model.AllDay && start != u.FixedPeriod {
					continue
				}
				ok := true
				for p := start; p < start+span; p++ {
					if p >= 32 || cl.ValidCells[day]&(uint32(1)<<uint(p)) == 0 {
						ok = false
						break
					}
				}
				if ok {
					starts = append(starts, day*c.Grid.MaxDailyHours+start)
				}
			}
		}
	}
	return starts
}
