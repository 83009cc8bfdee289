// Package httpapi exposes the solver over HTTP: a job-oriented solve
// endpoint plus liveness/readiness/metrics probes, grounded on this
// codebase's handlers/dto split (request DTOs with binding tags,
// response DTOs with camelCase json tags, conversion functions between
// the two).
package httpapi

import (
	"github.com/google/uuid"
)

// SolveRequest is the wire-shaped timetable instance plus optional
// per-request solver overrides (spec §1 "Instance", spec §6 "Config").
type SolveRequest struct {
	Teachers         []TeacherDTO         `json:"teachers" binding:"required,dive"`
	Classrooms       []ClassroomDTO       `json:"classrooms" binding:"required,dive"`
	Subjects         []SubjectDTO         `json:"subjects" binding:"required,dive"`
	Locations        []LocationDTO        `json:"locations,omitempty" binding:"dive"`
	FixedAssignments []FixedAssignmentDTO `json:"fixedAssignments,omitempty" binding:"dive"`
	LessonGroups     []LessonGroupDTO     `json:"lessonGroups,omitempty" binding:"dive"`
	Duties           []DutyDTO            `json:"duties,omitempty" binding:"dive"`
	SchoolHours      SchoolHoursDTO       `json:"schoolHours" binding:"required"`
	Options          *SolveOptionsDTO     `json:"options,omitempty"`
}

// TeacherDTO describes one teacher's branches, authorized levels, and
// weekly availability grid ([day][period]).
type TeacherDTO struct {
	ID           uuid.UUID  `json:"id" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	Branches     []string   `json:"branches,omitempty"`
	Levels       []string   `json:"levels" binding:"required,dive,oneof=middle high"`
	Availability [][]bool   `json:"availability" binding:"required"`
}

// ClassroomDTO describes one classroom.
type ClassroomDTO struct {
	ID                uuid.UUID  `json:"id" binding:"required"`
	Name              string     `json:"name" binding:"required"`
	Level             string     `json:"level" binding:"required,oneof=middle high"`
	Group             string     `json:"group,omitempty" binding:"omitempty,oneof=general TM FEN SOS DIL none"`
	HomeroomTeacherID *uuid.UUID `json:"homeroomTeacherId,omitempty"`
}

// SubjectDTO describes one subject's weekly-hour and block-structure
// requirements. PinnedTeacherByClassroom is keyed by classroom UUID
// string since JSON object keys must be strings.
type SubjectDTO struct {
	ID                       uuid.UUID            `json:"id" binding:"required"`
	Name                     string                `json:"name" binding:"required"`
	Branch                   string                `json:"branch,omitempty"`
	WeeklyHours              int                   `json:"weeklyHours" binding:"required,gte=1"`
	BlockHours               int                   `json:"blockHours,omitempty" binding:"gte=0"`
	TripleBlockHours         int                   `json:"tripleBlockHours,omitempty" binding:"gte=0"`
	MaxConsec                *int                  `json:"maxConsec,omitempty"`
	AssignedClassIDs         []uuid.UUID           `json:"assignedClassIds" binding:"required"`
	LocationID               *uuid.UUID            `json:"locationId,omitempty"`
	PinnedTeacherByClassroom map[string]uuid.UUID  `json:"pinnedTeacherByClassroom,omitempty"`
	RequiredTeacherCount     int                   `json:"requiredTeacherCount" binding:"gte=0"`
}

// LocationDTO describes one shared physical resource.
type LocationDTO struct {
	ID   uuid.UUID `json:"id" binding:"required"`
	Name string    `json:"name" binding:"required"`
}

// FixedAssignmentDTO mandates a (classroom, subject, day, period)
// placement. Period -1 pins the entire day (model.AllDay).
type FixedAssignmentDTO struct {
	ClassroomID uuid.UUID `json:"classroomId" binding:"required"`
	SubjectID   uuid.UUID `json:"subjectId" binding:"required"`
	Day         int       `json:"day" binding:"gte=0,lte=4"`
	Period      int       `json:"period" binding:"gte=-1"`
}

// LessonGroupDTO synchronizes one subject across classrooms at the same
// (day, period) block.
type LessonGroupDTO struct {
	ID           uuid.UUID   `json:"id" binding:"required"`
	SubjectID    uuid.UUID   `json:"subjectId" binding:"required"`
	ClassroomIDs []uuid.UUID `json:"classroomIds" binding:"required"`
	IsBlock      bool        `json:"isBlock"`
	WeeklyHours  int         `json:"weeklyHours" binding:"gte=0"`
}

// DutyDTO is a non-teaching obligation that blocks lesson placement.
// Period -1 means the whole day.
type DutyDTO struct {
	TeacherID uuid.UUID `json:"teacherId" binding:"required"`
	Day       int       `json:"day" binding:"gte=0,lte=4"`
	Period    int       `json:"period" binding:"gte=-1"`
}

// SchoolHoursDTO holds the per-level, per-day period counts of the
// ragged time grid (spec §3, hours in [4,16]).
type SchoolHoursDTO struct {
	Middle [5]int `json:"middle" binding:"required,dive,gte=4,lte=16"`
	High   [5]int `json:"high" binding:"required,dive,gte=4,lte=16"`
}

// SolveOptionsDTO overrides the server's default orchestrator.Config for
// one request (spec §6).
type SolveOptionsDTO struct {
	Strategy            string   `json:"strategy,omitempty" binding:"omitempty,solverstrategy"`
	SeedRatio            float64  `json:"seedRatio,omitempty" binding:"omitempty,seedratio"`
	TimeLimitSeconds      int      `json:"timeLimitSeconds,omitempty" binding:"omitempty,gte=1"`
	StopAtFirstSolution   *bool    `json:"stopAtFirstSolution,omitempty"`
	DisableLNS            *bool    `json:"disableLns,omitempty"`
	AllowFallback         *bool    `json:"allowFallback,omitempty"`
	RandomSeed            *uint32  `json:"randomSeed,omitempty"`
}

// SolveAcceptedResponse is returned for a newly submitted job.
type SolveAcceptedResponse struct {
	JobID  uuid.UUID `json:"jobId"`
	Status string    `json:"status"`
}

// AssignmentDTO is the caller-facing rendering of a model.BoundaryAssignment.
type AssignmentDTO struct {
	SubjectID  uuid.UUID   `json:"subjectId"`
	TeacherIDs []uuid.UUID `json:"teacherIds"`
	LocationID *uuid.UUID  `json:"locationId,omitempty"`
	BlockSpan  int         `json:"blockSpan"`
}

// JobResponse reports a solve job's current status, and once finished,
// its report and (if feasible) the resulting schedule.
type JobResponse struct {
	JobID      uuid.UUID                     `json:"jobId"`
	Strategy   string                        `json:"strategy"`
	Status     string                        `json:"status"`
	CreatedAt  string                        `json:"createdAt"`
	FinishedAt string                        `json:"finishedAt,omitempty"`
	Error      string                        `json:"error,omitempty"`
	Report     interface{}                   `json:"report,omitempty"`
	Schedule   map[string][5][]*AssignmentDTO `json:"schedule,omitempty"`
}
