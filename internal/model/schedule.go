package model

// Assignment occupies a cell in the working schedule (spec §3
// "Assignment"). A k-block shares one Assignment across its consecutive
// periods; BlockID distinguishes one block's identity from another's
// without relying on pointer equality (spec §9).
type Assignment struct {
	UnitID     int32
	SubjectID  int32
	TeacherIDs []int32
	LocationID int32 // NoID when the unit has none
	BlockID    int32
	Span       int
}

// Schedule is the working assignment grid: Cells[classroom][day][period].
// Cells beyond a classroom's level-specific period count are never
// written (ragged grid, spec §3 invariant I1).
type Schedule struct {
	Cells [][Days][]*Assignment
}

// NewSchedule allocates an empty schedule sized to the compiled model.
func NewSchedule(c *Compiled) *Schedule {
	s := &Schedule{Cells: make([][Days][]*Assignment, len(c.Classrooms))}
	for i := range s.Cells {
		for d := 0; d < Days; d++ {
			s.Cells[i][d] = make([]*Assignment, c.Grid.MaxDailyHours)
		}
	}
	return s
}

// Get returns the assignment occupying a cell, or nil if empty.
func (s *Schedule) Get(classroom int32, day, period int) *Assignment {
	return s.Cells[classroom][day][period]
}

// Set writes (or clears, with a nil assignment) a cell.
func (s *Schedule) Set(classroom int32, day, period int, a *Assignment) {
	s.Cells[classroom][day][period] = a
}

// PlaceBlock writes the same assignment into every period of a block's
// span, starting at startPeriod.
func (s *Schedule) PlaceBlock(classroom int32, day, startPeriod int, a *Assignment) {
	for p := startPeriod; p < startPeriod+a.Span; p++ {
		s.Set(classroom, day, p, a)
	}
}

// ClearBlock removes a block's assignment from every period of its span.
func (s *Schedule) ClearBlock(classroom int32, day, startPeriod, span int) {
	for p := startPeriod; p < startPeriod+span; p++ {
		s.Set(classroom, day, p, nil)
	}
}

// Clone returns a deep copy of the schedule, safe for a strategy to
// mutate independently of the original (spec §9 "the working schedule is
// owned by the active strategy only").
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{Cells: make([][Days][]*Assignment, len(s.Cells))}
	for i, days := range s.Cells {
		for d := 0; d < Days; d++ {
			out.Cells[i][d] = append([]*Assignment(nil), days[d]...)
		}
	}
	return out
}
