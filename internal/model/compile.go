package model

import "github.com/google/uuid"

// Compile validates a raw instance and produces a dense, solver-friendly
// model plus the bulk list of validation errors found (spec §4.1).
// defaultMaxConsec is applied to any subject that leaves MaxConsec unset
// (spec §6 "maxConsec default = 3").
func Compile(inst *Instance, defaultMaxConsec int) (*Compiled, []*ValidationError) {
	var errs []*ValidationError

	c := &Compiled{Grid: newTimeGrid(inst.SchoolHours)}

	c.teacherIndex = make(map[uuid.UUID]int32, len(inst.Teachers))
	for _, t := range inst.Teachers {
		id := int32(len(c.Teachers))
		c.teacherIndex[t.ID] = id
		c.teacherUUID = append(c.teacherUUID, t.ID)

		levels := make(map[Level]bool, len(t.Levels))
		for _, lvl := range t.Levels {
			levels[lvl] = true
		}
		branches := make(map[string]bool, len(t.Branches))
		for _, b := range t.Branches {
			branches[b] = true
		}
		var avail [Days]uint32
		for day := 0; day < Days && day < len(t.Availability); day++ {
			for p, free := range t.Availability[day] {
				if free && p < 32 {
					avail[day] |= uint32(1) << uint(p)
				}
			}
		}
		c.Teachers = append(c.Teachers, CompiledTeacher{
			ID:           id,
			Name:         t.Name,
			Branches:     branches,
			Levels:       levels,
			Availability: avail,
		})
	}

	c.classroomIndex = make(map[uuid.UUID]int32, len(inst.Classrooms))
	for _, cl := range inst.Classrooms {
		id := int32(len(c.Classrooms))
		c.classroomIndex[cl.ID] = id
		c.classroomUUID = append(c.classroomUUID, cl.ID)

		homeroom := NoID
		if cl.HomeroomTeacherID != nil {
			if hr, ok := c.teacherIndex[*cl.HomeroomTeacherID]; ok {
				homeroom = hr
			}
		}
		var validCells [Days]uint32
		for d := 0; d < Days; d++ {
			validCells[d] = c.Grid.ValidMask(cl.Level, d)
		}
		c.Classrooms = append(c.Classrooms, CompiledClassroom{
			ID:                id,
			Name:              cl.Name,
			Level:             cl.Level,
			Group:             cl.Group,
			HomeroomTeacherID: homeroom,
			ValidCells:        validCells,
		})
	}

	c.locationIndex = make(map[uuid.UUID]int32, len(inst.Locations))
	for _, loc := range inst.Locations {
		id := int32(len(c.Locations))
		c.locationIndex[loc.ID] = id
		c.locationUUID = append(c.locationUUID, loc.ID)
		c.Locations = append(c.Locations, CompiledLocation{ID: id, Name: loc.Name})
	}

	c.subjectIndex = make(map[uuid.UUID]int32, len(inst.Subjects))
	for _, s := range inst.Subjects {
		id := int32(len(c.Subjects))
		c.subjectIndex[s.ID] = id
		c.subjectUUID = append(c.subjectUUID, s.ID)

		maxConsec := defaultMaxConsec
		if s.MaxConsec != nil {
			maxConsec = *s.MaxConsec
		}

		locationID := NoID
		if s.LocationID != nil {
			if lid, ok := c.locationIndex[*s.LocationID]; ok {
				locationID = lid
			}
		}

		assigned := make([]int32, 0, len(s.AssignedClassIDs))
		for _, clID := range s.AssignedClassIDs {
			if cid, ok := c.classroomIndex[clID]; ok {
				assigned = append(assigned, cid)
			}
		}

		pins := make(map[int32]int32, len(s.PinnedTeacherByClassroom))
		for clID, tID := range s.PinnedTeacherByClassroom {
			cid, okC := c.classroomIndex[clID]
			tid, okT := c.teacherIndex[tID]
			if okC && okT {
				pins[cid] = tid
			}
		}

		required := s.RequiredTeacherCount
		if required <= 0 {
			required = 1
		}

		c.Subjects = append(c.Subjects, CompiledSubject{
			ID:                       id,
			Name:                     s.Name,
			Branch:                   s.Branch,
			WeeklyHours:              s.WeeklyHours,
			BlockHours:               s.BlockHours,
			TripleBlockHours:         s.TripleBlockHours,
			MaxConsec:                maxConsec,
			AssignedClassrooms:       assigned,
			LocationID:               locationID,
			PinnedTeacherByClassroom: pins,
			RequiredTeacherCount:     required,
		})

		if !validBlockSum(s.WeeklyHours, s.BlockHours, s.TripleBlockHours) {
			errs = append(errs, newError(BlockSumInvalid, s.ID.String(),
				"weeklyHours/blockHours/tripleBlockHours are inconsistent"))
		}
	}

	// Fixed assignments, indexed by (classroom, subject) for attachment to
	// expanded units below.
	fixedByPair := make(map[[2]int32][]CompiledFixed)
	for _, fa := range inst.FixedAssignments {
		cid, okC := c.classroomIndex[fa.ClassroomID]
		sid, okS := c.subjectIndex[fa.SubjectID]
		if !okC || !okS {
			continue
		}
		if fa.Period != AllDay {
			level := c.Classrooms[cid].Level
			if !c.Grid.Valid(level, fa.Day, fa.Period) {
				errs = append(errs, newError(FixedOutOfRange, fa.SubjectID.String(),
					"fixed assignment targets an out-of-range period"))
				continue
			}
		}
		cf := CompiledFixed{ClassroomID: cid, SubjectID: sid, Day: fa.Day, Period: fa.Period}
		c.Fixed = append(c.Fixed, cf)
		fixedByPair[[2]int32{cid, sid}] = append(fixedByPair[[2]int32{cid, sid}], cf)
	}

	for _, d := range inst.Duties {
		tid, ok := c.teacherIndex[d.TeacherID]
		if !ok {
			continue
		}
		c.Duties = append(c.Duties, CompiledDuty{TeacherID: tid, Day: d.Day, Period: d.Period})
	}

	// Capacity check per classroom: sum of weeklyHours assigned to it
	// versus the grid's weekly period count for its level.
	demand := make(map[int32]int, len(c.Classrooms))
	for si := range c.Subjects {
		s := &c.Subjects[si]
		for _, cid := range s.AssignedClassrooms {
			demand[cid] += s.WeeklyHours
		}
	}
	for _, cl := range c.Classrooms {
		capacity := 0
		for d := 0; d < Days; d++ {
			capacity += c.Grid.Hours[cl.Level][d]
		}
		if demand[cl.ID] > capacity {
			errs = append(errs, newError(CapacityExceeded, c.classroomUUID[cl.ID].String(),
				"classroom demand exceeds weekly period capacity"))
		}
	}

	// Expand ordinary subject×classroom requirements into lesson units.
	for si := range c.Subjects {
		s := &c.Subjects[si]
		for _, cid := range s.AssignedClassrooms {
			cl := &c.Classrooms[cid]
			ids, branchMatches, pinned, pinOK := eligibleSingles(s, cl, c.Teachers)
			if pinned && !pinOK {
				errs = append(errs, newError(PinUnqualified, c.subjectUUID[s.ID].String(),
					"pinned teacher lacks level authorization"))
				continue
			}
			if len(ids) == 0 {
				code := NoEligibleTeacher
				if branchMatches > 0 {
					code = LevelMismatch
				}
				errs = append(errs, newError(code, c.subjectUUID[s.ID].String(),
					"no eligible teacher for assigned classroom"))
				continue
			}

			var pinnedID int32
			if pinned {
				pinnedID = ids[0]
			}
			tuples := eligibleTuples(ids, pinnedID, pinned, s.RequiredTeacherCount)
			if len(tuples) == 0 {
				errs = append(errs, newError(NoEligibleTeacher, c.subjectUUID[s.ID].String(),
					"not enough eligible teachers to form a co-teaching tuple"))
				continue
			}

			fixes := fixedByPair[[2]int32{cid, s.ID}]
			kinds := expandUnits(s.WeeklyHours, s.BlockHours, s.TripleBlockHours)
			for ui, kind := range kinds {
				unit := LessonUnit{
					ID:             int32(len(c.Units)),
					SubjectID:      s.ID,
					ClassroomID:    cid,
					Kind:           kind,
					EligibleTuples: tuples,
					LocationID:     s.LocationID,
					FixedDay:       NoID,
					FixedPeriod:    NoID,
					LessonGroupID:  NoID,
				}
				if ui < len(fixes) {
					unit.FixedDay = fixes[ui].Day
					unit.FixedPeriod = fixes[ui].Period
				}
				c.Units = append(c.Units, unit)
			}
		}
	}

	// Expand lesson-group requirements: one unit shared across all member
	// classrooms per occurrence.
	for groupIdx, lg := range inst.LessonGroups {
		sid, okS := c.subjectIndex[lg.SubjectID]
		if !okS {
			continue
		}
		s := &c.Subjects[sid]

		groupClassrooms := make([]int32, 0, len(lg.ClassroomIDs))
		for _, clID := range lg.ClassroomIDs {
			if cid, ok := c.classroomIndex[clID]; ok {
				groupClassrooms = append(groupClassrooms, cid)
			}
		}
		if len(groupClassrooms) == 0 {
			continue
		}

		// Eligibility is computed against the first member classroom;
		// lesson groups synchronize one subject across classrooms that
		// share the same track, so eligibility does not vary per member.
		refClassroom := &c.Classrooms[groupClassrooms[0]]
		ids, branchMatches, pinned, pinOK := eligibleSingles(s, refClassroom, c.Teachers)
		if pinned && !pinOK {
			errs = append(errs, newError(PinUnqualified, lg.ID.String(),
				"pinned teacher lacks level authorization"))
			continue
		}
		if len(ids) == 0 {
			code := NoEligibleTeacher
			if branchMatches > 0 {
				code = LevelMismatch
			}
			errs = append(errs, newError(code, lg.ID.String(), "no eligible teacher for lesson group"))
			continue
		}
		var pinnedID int32
		if pinned {
			pinnedID = ids[0]
		}
		tuples := eligibleTuples(ids, pinnedID, pinned, s.RequiredTeacherCount)
		if len(tuples) == 0 {
			errs = append(errs, newError(NoEligibleTeacher, lg.ID.String(),
				"not enough eligible teachers to form a co-teaching tuple"))
			continue
		}

		kind := UnitSingle
		if lg.IsBlock {
			kind = UnitBlock2
		}
		for occ := 0; occ < lg.WeeklyHours; occ++ {
			c.Units = append(c.Units, LessonUnit{
				ID:              int32(len(c.Units)),
				SubjectID:       sid,
				ClassroomID:     NoID,
				Kind:            kind,
				EligibleTuples:  tuples,
				LocationID:      s.LocationID,
				FixedDay:        NoID,
				FixedPeriod:     NoID,
				GroupClassrooms: groupClassrooms,
				LessonGroupID:   int32(groupIdx),
			})
		}
	}

	return c, errs
}
