package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"mslscheduler/internal/model"
	"mslscheduler/internal/orchestrator"
)

// ParseSolveRequest decodes a JSON-encoded SolveRequest, used by both the
// HTTP handler and the one-shot solve CLI.
func ParseSolveRequest(body []byte) (*SolveRequest, error) {
	var req SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// RenderOutcome converts a finished orchestrator.Outcome into the same
// wire shape GetSolve returns for a feasible job.
func RenderOutcome(outcome orchestrator.Outcome) JobResponse {
	rep := outcome.Report
	return JobResponse{
		Strategy: rep.Strategy,
		Status:   string(JobFeasible),
		Report:   &rep,
		Schedule: toScheduleDTO(outcome.Schedule),
	}
}

func parseLevel(s string) model.Level {
	if s == "high" {
		return model.LevelHigh
	}
	return model.LevelMiddle
}

func parseGroup(s string) model.ClassGroup {
	if s == "" {
		return model.GroupNone
	}
	return model.ClassGroup(s)
}

// ToInstance converts the wire-shaped request into a model.Instance.
// Structural problems (malformed UUID map keys) are reported directly;
// domain validity (eligibility, capacity, block sums) is left to
// model.Compile.
func (r *SolveRequest) ToInstance() (*model.Instance, error) {
	teachers := make([]model.Teacher, len(r.Teachers))
	for i, t := range r.Teachers {
		levels := make([]model.Level, len(t.Levels))
		for j, l := range t.Levels {
			levels[j] = parseLevel(l)
		}
		var avail [model.Days][]bool
		for d := 0; d < model.Days && d < len(t.Availability); d++ {
			avail[d] = append([]bool(nil), t.Availability[d]...)
		}
		teachers[i] = model.Teacher{
			ID:           t.ID,
			Name:         t.Name,
			Branches:     t.Branches,
			Levels:       levels,
			Availability: avail,
		}
	}

	classrooms := make([]model.Classroom, len(r.Classrooms))
	for i, c := range r.Classrooms {
		classrooms[i] = model.Classroom{
			ID:                c.ID,
			Name:              c.Name,
			Level:             parseLevel(c.Level),
			Group:             parseGroup(c.Group),
			HomeroomTeacherID: c.HomeroomTeacherID,
		}
	}

	subjects := make([]model.Subject, len(r.Subjects))
	for i, s := range r.Subjects {
		var pinned map[uuid.UUID]uuid.UUID
		if len(s.PinnedTeacherByClassroom) > 0 {
			pinned = make(map[uuid.UUID]uuid.UUID, len(s.PinnedTeacherByClassroom))
			for classroomKey, teacherID := range s.PinnedTeacherByClassroom {
				classroomID, err := uuid.Parse(classroomKey)
				if err != nil {
					return nil, fmt.Errorf("subject %s: pinnedTeacherByClassroom key %q is not a uuid: %w", s.ID, classroomKey, err)
				}
				pinned[classroomID] = teacherID
			}
		}
		subjects[i] = model.Subject{
			ID:                       s.ID,
			Name:                     s.Name,
			Branch:                   s.Branch,
			WeeklyHours:              s.WeeklyHours,
			BlockHours:               s.BlockHours,
			TripleBlockHours:         s.TripleBlockHours,
			MaxConsec:                s.MaxConsec,
			AssignedClassIDs:         s.AssignedClassIDs,
			LocationID:               s.LocationID,
			PinnedTeacherByClassroom: pinned,
			RequiredTeacherCount:     s.RequiredTeacherCount,
		}
	}

	locations := make([]model.Location, len(r.Locations))
	for i, l := range r.Locations {
		locations[i] = model.Location{ID: l.ID, Name: l.Name}
	}

	fixed := make([]model.FixedAssignment, len(r.FixedAssignments))
	for i, f := range r.FixedAssignments {
		fixed[i] = model.FixedAssignment{
			ClassroomID: f.ClassroomID,
			SubjectID:   f.SubjectID,
			Day:         f.Day,
			Period:      f.Period,
		}
	}

	groups := make([]model.LessonGroup, len(r.LessonGroups))
	for i, g := range r.LessonGroups {
		groups[i] = model.LessonGroup{
			ID:           g.ID,
			SubjectID:    g.SubjectID,
			ClassroomIDs: g.ClassroomIDs,
			IsBlock:      g.IsBlock,
			WeeklyHours:  g.WeeklyHours,
		}
	}

	duties := make([]model.Duty, len(r.Duties))
	for i, d := range r.Duties {
		duties[i] = model.Duty{TeacherID: d.TeacherID, Day: d.Day, Period: d.Period}
	}

	return &model.Instance{
		Teachers:         teachers,
		Classrooms:       classrooms,
		Subjects:         subjects,
		Locations:        locations,
		FixedAssignments: fixed,
		LessonGroups:     groups,
		Duties:           duties,
		SchoolHours: model.SchoolHours{
			Middle: r.SchoolHours.Middle,
			High:   r.SchoolHours.High,
		},
	}, nil
}

// ApplyOptions overlays the request's per-solve overrides onto a base
// orchestrator.Config (the server's configured defaults).
func ApplyOptions(base orchestrator.Config, opts *SolveOptionsDTO) orchestrator.Config {
	cfg := base
	if opts == nil {
		return cfg
	}
	if opts.Strategy != "" {
		cfg.Strategy = orchestrator.Strategy(opts.Strategy)
	}
	if opts.SeedRatio > 0 {
		cfg.SeedRatio = opts.SeedRatio
	}
	if opts.TimeLimitSeconds > 0 {
		cfg.TimeLimitSeconds = opts.TimeLimitSeconds
	}
	if opts.StopAtFirstSolution != nil {
		cfg.StopAtFirstSolution = *opts.StopAtFirstSolution
	}
	if opts.DisableLNS != nil {
		cfg.DisableLNS = *opts.DisableLNS
	}
	if opts.AllowFallback != nil {
		cfg.AllowFallback = *opts.AllowFallback
	}
	if opts.RandomSeed != nil {
		cfg.RandomSeed = opts.RandomSeed
	}
	return cfg
}

// toScheduleDTO renders a decompiled schedule for JSON responses.
func toScheduleDTO(sched map[uuid.UUID][model.Days][]*model.BoundaryAssignment) map[string][5][]*AssignmentDTO {
	if sched == nil {
		return nil
	}
	out := make(map[string][5][]*AssignmentDTO, len(sched))
	for classroomID, days := range sched {
		var row [5][]*AssignmentDTO
		for d := 0; d < model.Days; d++ {
			periods := make([]*AssignmentDTO, len(days[d]))
			for p, a := range days[d] {
				if a == nil {
					continue
				}
				periods[p] = &AssignmentDTO{
					SubjectID:  a.SubjectID,
					TeacherIDs: a.TeacherIDs,
					LocationID: a.LocationID,
					BlockSpan:  a.BlockSpan,
				}
			}
			row[d] = periods
		}
		out[classroomID.String()] = row
	}
	return out
}
