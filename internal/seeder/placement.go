package seeder

import "mslscheduler/internal/model"

// place commits a candidate to the working schedule and records a frame
// for possible later backtracking. A group unit's candidate lists every
// member classroom; the same assignment is written into all of them at
// once so the group never ends up placed in only one (spec §4.1 "one
// unit shared across all member classrooms").
func (s *search) place(unitID int32, cand candidate) {
	u := &s.c.Units[unitID]
	span := u.Kind.Span()
	blockID := s.nextBlockID
	s.nextBlockID++

	a := &model.Assignment{
		UnitID:     unitID,
		SubjectID:  u.SubjectID,
		TeacherIDs: append([]int32(nil), cand.tuple...),
		LocationID: cand.locationID,
		BlockID:    blockID,
		Span:       span,
	}
	for _, cid := range cand.classrooms {
		s.sched.PlaceBlock(cid, cand.day, cand.start, a)
	}

	for _, tid := range cand.tuple {
		for p := cand.start; p < cand.start+span; p++ {
			s.teacherBusy[tid][cand.day] |= uint32(1) << uint(p)
		}
	}
	if cand.locationID != model.NoID {
		for p := cand.start; p < cand.start+span; p++ {
			s.locationBusy[cand.locationID][cand.day] |= uint32(1) << uint(p)
		}
	}

	delete(s.unassigned, unitID)
	s.stack = append(s.stack, frame{
		unitID:       unitID,
		classrooms:   cand.classrooms,
		day:          cand.day,
		start:        cand.start,
		span:         span,
		tuple:        cand.tuple,
		locationID:   cand.locationID,
		candidateKey: cand.key(),
	})
}

// undo reverses a previously placed frame, restoring the schedule and
// occupancy bitmasks to their prior state, across every classroom the
// frame's unit occupies.
func (s *search) undo(f frame) {
	for _, cid := range f.classrooms {
		s.sched.ClearBlock(cid, f.day, f.start, f.span)
	}
	for _, tid := range f.tuple {
		for p := f.start; p < f.start+f.span; p++ {
			s.teacherBusy[tid][f.day] &^= uint32(1) << uint(p)
		}
	}
	if f.locationID != model.NoID {
		for p := f.start; p < f.start+f.span; p++ {
			s.locationBusy[f.locationID][f.day] &^= uint32(1) << uint(p)
		}
	}
}
