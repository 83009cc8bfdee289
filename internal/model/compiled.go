package model

import "github.com/google/uuid"

// NoID marks the absence of an optional dense reference (location,
// classroom, fixed day/period, homeroom teacher, etc).
const NoID int32 = -1

// CompiledTeacher is a teacher with dense id and precomputed
// availability bitmask (spec §4.1).
type CompiledTeacher struct {
	ID           int32
	Name         string
	Branches     map[string]bool
	Levels       map[Level]bool
	Availability [Days]uint32 // bit p set => teacher free at (day, p)
}

// Authorized reports whether the teacher may teach at the given level.
func (t CompiledTeacher) Authorized(level Level) bool {
	return t.Levels[level]
}

// Free reports whether the teacher's availability mask has the given
// period open on day.
func (t CompiledTeacher) Free(day, period int) bool {
	if period < 0 || period >= 32 {
		return false
	}
	return t.Availability[day]&(uint32(1)<<uint(period)) != 0
}

// CompiledClassroom is a classroom with dense id.
type CompiledClassroom struct {
	ID                int32
	Name              string
	Level             Level
	Group             ClassGroup
	HomeroomTeacherID int32
	// ValidCells[day] is the bitmask of periods permitted by the ragged
	// time grid for this classroom's level (spec §4.1 "valid-cell
	// bitmask").
	ValidCells [Days]uint32
}

// CompiledLocation is a location with dense id.
type CompiledLocation struct {
	ID   int32
	Name string
}

// CompiledSubject is a subject with dense ids for its classrooms,
// location and pinned teachers.
type CompiledSubject struct {
	ID                       int32
	Name                     string
	Branch                   string
	WeeklyHours              int
	BlockHours               int
	TripleBlockHours         int
	MaxConsec                int // Compile fills in the configured default; 0 or less means no limit
	AssignedClassrooms       []int32
	LocationID               int32
	PinnedTeacherByClassroom map[int32]int32
	RequiredTeacherCount     int
}

// UnitKind names the block span of a lesson unit.
type UnitKind int

const (
	UnitSingle UnitKind = iota
	UnitBlock2
	UnitBlock3
)

// Span returns the number of consecutive periods the unit occupies.
func (k UnitKind) Span() int {
	switch k {
	case UnitBlock2:
		return 2
	case UnitBlock3:
		return 3
	default:
		return 1
	}
}

// LessonUnit is one atomic scheduling requirement: a singleton, a 2-block
// or a 3-block for a (subject, classroom) pair, or shared across the
// classrooms of a lesson group (spec §3 "Lesson unit").
type LessonUnit struct {
	ID          int32
	SubjectID   int32
	ClassroomID int32   // NoID when GroupClassrooms is populated instead
	Kind        UnitKind
	// EligibleTuples lists the admissible teacher-tuples, each of length
	// RequiredTeacherCount, honoring pins then branch-match then level
	// authorization (spec §4.1).
	EligibleTuples [][]int32
	LocationID     int32 // NoID when the subject has none
	FixedDay       int   // NoID when unpinned
	FixedPeriod    int   // NoID when unpinned at a day but not a period; AllDay for whole-day pins
	// GroupClassrooms holds the classrooms sharing this unit when it was
	// derived from a LessonGroup; nil for an ordinary subject×classroom
	// unit (use ClassroomID instead).
	GroupClassrooms []int32
	LessonGroupID   int32 // NoID when not from a lesson group
}

// Classrooms returns the classroom(s) this unit occupies.
func (u LessonUnit) Classrooms() []int32 {
	if len(u.GroupClassrooms) > 0 {
		return u.GroupClassrooms
	}
	return []int32{u.ClassroomID}
}

// CompiledFixed is a fixed assignment retargeted at dense ids.
type CompiledFixed struct {
	ClassroomID int32
	SubjectID   int32
	Day         int
	Period      int
}

// CompiledDuty is a duty retargeted at the dense teacher id.
type CompiledDuty struct {
	TeacherID int32
	Day       int
	Period    int
}

// Compiled is the solver-friendly view of an Instance: dense ids, an
// eligibility matrix per unit, and the ragged time grid.
type Compiled struct {
	Teachers   []CompiledTeacher
	Classrooms []CompiledClassroom
	Subjects   []CompiledSubject
	Locations  []CompiledLocation
	Units      []LessonUnit
	Grid       TimeGrid
	Fixed      []CompiledFixed
	Duties     []CompiledDuty

	teacherUUID   []uuid.UUID
	classroomUUID []uuid.UUID
	subjectUUID   []uuid.UUID
	locationUUID  []uuid.UUID

	teacherIndex   map[uuid.UUID]int32
	classroomIndex map[uuid.UUID]int32
	subjectIndex   map[uuid.UUID]int32
	locationIndex  map[uuid.UUID]int32
}

// TeacherUUID returns the external id for a dense teacher id.
func (c *Compiled) TeacherUUID(id int32) uuid.UUID { return c.teacherUUID[id] }

// ClassroomUUID returns the external id for a dense classroom id.
func (c *Compiled) ClassroomUUID(id int32) uuid.UUID { return c.classroomUUID[id] }

// SubjectUUID returns the external id for a dense subject id.
func (c *Compiled) SubjectUUID(id int32) uuid.UUID { return c.subjectUUID[id] }

// LocationUUID returns the external id for a dense location id; id may be
// NoID, in which case the zero UUID is returned.
func (c *Compiled) LocationUUID(id int32) uuid.UUID {
	if id == NoID {
		return uuid.UUID{}
	}
	return c.locationUUID[id]
}
