package model

import "github.com/google/uuid"

// BoundaryAssignment is the UUID-keyed, caller-facing rendering of an
// Assignment (spec §6 response shape).
type BoundaryAssignment struct {
	SubjectID  uuid.UUID
	TeacherIDs []uuid.UUID
	LocationID *uuid.UUID
	BlockSpan  int
}

// Decompile reconstructs a boundary-shaped schedule — classroom UUID to a
// ragged [day][period] grid of assignments — from the compiled model's
// internal representation. Compiling then decompiling must preserve ids
// and cardinalities (spec §8 round-trip law).
func Decompile(c *Compiled, s *Schedule) map[uuid.UUID][Days][]*BoundaryAssignment {
	out := make(map[uuid.UUID][Days][]*BoundaryAssignment, len(c.Classrooms))
	for ci, cl := range c.Classrooms {
		var days [Days][]*BoundaryAssignment
		hours := c.Grid.Hours[cl.Level]
		for d := 0; d < Days; d++ {
			row := make([]*BoundaryAssignment, hours[d])
			for p := 0; p < hours[d]; p++ {
				a := s.Get(int32(ci), d, p)
				if a == nil {
					continue
				}
				row[p] = decompileAssignment(c, a)
			}
			days[d] = row
		}
		out[c.classroomUUID[ci]] = days
	}
	return out
}

func decompileAssignment(c *Compiled, a *Assignment) *BoundaryAssignment {
	teacherIDs := make([]uuid.UUID, len(a.TeacherIDs))
	for i, tid := range a.TeacherIDs {
		teacherIDs[i] = c.TeacherUUID(tid)
	}
	var loc *uuid.UUID
	if a.LocationID != NoID {
		id := c.LocationUUID(a.LocationID)
		loc = &id
	}
	return &BoundaryAssignment{
		SubjectID:  c.SubjectUUID(a.SubjectID),
		TeacherIDs: teacherIDs,
		LocationID: loc,
		BlockSpan:  a.Span,
	}
}
