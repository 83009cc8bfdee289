package improve

import "mslscheduler/internal/model"

// blockRef identifies one placed block: the classroom/day/start it
// currently occupies plus the assignment it carries.
type blockRef struct {
	classroom int32
	day       int
	start     int
	span      int
	unitID    int32
	a         *model.Assignment
}

// blocks enumerates every distinct block in the schedule by walking each
// classroom/day and grouping consecutive cells sharing a BlockID.
//
// Lesson-group units are placed into every member classroom at once by
// the seeder and excluded here: relocate/swap/teacher-reassign/ruin-and-
// recreate each act on a single classroom's copy of a block, and applying
// one of them to just one member would desynchronize the group's shared
// (day, start) from its other classrooms. Group units are left exactly as
// the seeder placed them through every subsequent improvement pass.
func blocks(c *model.Compiled, s *model.Schedule) []blockRef {
	var out []blockRef
	for cid := range c.Classrooms {
		for d := 0; d < model.Days; d++ {
			p := 0
			for p < c.Grid.MaxDailyHours {
				a := s.Get(int32(cid), d, p)
				if a == nil {
					p++
					continue
				}
				if len(c.Units[a.UnitID].GroupClassrooms) > 0 {
					p += a.Span
					continue
				}
				out = append(out, blockRef{classroom: int32(cid), day: d, start: p, span: a.Span, unitID: a.UnitID, a: a})
				p += a.Span
			}
		}
	}
	return out
}

func gridFits(c *model.Compiled, classroom int32, day, start, span int) bool {
	cl := &c.Classrooms[classroom]
	for p := start; p < start+span; p++ {
		if p >= 32 || cl.ValidCells[day]&(uint32(1)<<uint(p)) == 0 {
			return false
		}
	}
	return true
}

func cellsFree(s *model.Schedule, classroom int32, day, start, span int, maxDaily int) bool {
	if start+span > maxDaily {
		return false
	}
	for p := start; p < start+span; p++ {
		if s.Get(classroom, day, p) != nil {
			return false
		}
	}
	return true
}

func teachersFreeAt(c *model.Compiled, s *model.Schedule, tuple []int32, day, start, span int) bool {
	for _, tid := range tuple {
		t := &c.Teachers[tid]
		for p := start; p < start+span; p++ {
			if p >= 32 || !t.Free(day, p) {
				return false
			}
		}
	}
	for _, d := range c.Duties {
		if d.Day != day || d.Period < start || d.Period >= start+span {
			continue
		}
		for _, want := range tuple {
			if d.TeacherID == want {
				return false
			}
		}
	}
	for cid := range c.Classrooms {
		for p := start; p < start+span; p++ {
			a := s.Get(int32(cid), day, p)
			if a == nil {
				continue
			}
			for _, tid := range a.TeacherIDs {
				for _, want := range tuple {
					if tid == want {
						return false
					}
				}
			}
		}
	}
	return true
}

func locationFreeAt(c *model.Compiled, s *model.Schedule, location int32, day, start, span int) bool {
	if location == model.NoID {
		return true
	}
	for cid := range c.Classrooms {
		for p := start; p < start+span; p++ {
			a := s.Get(int32(cid), day, p)
			if a != nil && a.LocationID == location {
				return false
			}
		}
	}
	return true
}

func maxConsecOKAt(c *model.Compiled, s *model.Schedule, subjectID, classroom int32, day, start, span int) bool {
	subj := &c.Subjects[subjectID]
	if subj.MaxConsec <= 0 {
		return true
	}
	run := span
	for p := start - 1; p >= 0; p-- {
		if a := s.Get(classroom, day, p); a != nil && a.SubjectID == subjectID {
			run++
		} else {
			break
		}
	}
	for p := start + span; p < c.Grid.MaxDailyHours; p++ {
		if a := s.Get(classroom, day, p); a != nil && a.SubjectID == subjectID {
			run++
		} else {
			break
		}
	}
	return run <= subj.MaxConsec
}

// relocate moves a block to another empty, eligible window in the same
// classroom (spec §4.4 "Relocate"). It returns whether a destination was
// found; on failure the schedule is left unchanged.
func relocate(c *model.Compiled, s *model.Schedule, b blockRef, day, start int) bool {
	if day == b.day && start == b.start {
		return false
	}
	if !gridFits(c, b.classroom, day, start, b.span) {
		return false
	}
	s.ClearBlock(b.classroom, b.day, b.start, b.span)
	ok := cellsFree(s, b.classroom, day, start, b.span, c.Grid.MaxDailyHours) &&
		teachersFreeAt(c, s, b.a.TeacherIDs, day, start, b.span) &&
		locationFreeAt(c, s, b.a.LocationID, day, start, b.span) &&
		maxConsecOKAt(c, s, b.a.SubjectID, b.classroom, day, start, b.span)
	if !ok {
		s.PlaceBlock(b.classroom, b.day, b.start, b.a)
		return false
	}
	s.PlaceBlock(b.classroom, day, start, b.a)
	return true
}

// swap exchanges two equal-span blocks' positions (spec §4.4 "Swap"). Both
// blocks keep their own teacher-tuples; the move is rejected if either
// tuple is unavailable in the other's slot.
func swap(c *model.Compiled, s *model.Schedule, x, y blockRef) bool {
	if x.span != y.span {
		return false
	}
	s.ClearBlock(x.classroom, x.day, x.start, x.span)
	s.ClearBlock(y.classroom, y.day, y.start, y.span)

	xFitsAtY := gridFits(c, y.classroom, y.day, y.start, x.span) &&
		teachersFreeAt(c, s, x.a.TeacherIDs, y.day, y.start, x.span) &&
		locationFreeAt(c, s, x.a.LocationID, y.day, y.start, x.span) &&
		maxConsecOKAt(c, s, x.a.SubjectID, y.classroom, y.day, y.start, x.span)
	yFitsAtX := gridFits(c, x.classroom, x.day, x.start, y.span) &&
		teachersFreeAt(c, s, y.a.TeacherIDs, x.day, x.start, y.span) &&
		locationFreeAt(c, s, y.a.LocationID, x.day, x.start, y.span) &&
		maxConsecOKAt(c, s, y.a.SubjectID, x.classroom, x.day, x.start, y.span)

	if !xFitsAtY || !yFitsAtX {
		s.PlaceBlock(x.classroom, x.day, x.start, x.a)
		s.PlaceBlock(y.classroom, y.day, y.start, y.a)
		return false
	}
	s.PlaceBlock(y.classroom, y.day, y.start, x.a)
	s.PlaceBlock(x.classroom, x.day, x.start, y.a)
	return true
}

// teacherReassign swaps a block's teacher-tuple for another eligible one
// (spec §4.4 "Teacher-reassign").
func teacherReassign(c *model.Compiled, s *model.Schedule, b blockRef, newTuple []int32) bool {
	s.ClearBlock(b.classroom, b.day, b.start, b.span)
	ok := teachersFreeAt(c, s, newTuple, b.day, b.start, b.span)
	if !ok {
		s.PlaceBlock(b.classroom, b.day, b.start, b.a)
		return false
	}
	next := &model.Assignment{
		UnitID:     b.a.UnitID,
		SubjectID:  b.a.SubjectID,
		TeacherIDs: append([]int32(nil), newTuple...),
		LocationID: b.a.LocationID,
		BlockID:    b.a.BlockID,
		Span:       b.a.Span,
	}
	s.PlaceBlock(b.classroom, b.day, b.start, next)
	return true
}
