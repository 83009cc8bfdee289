package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mslscheduler/internal/model"
)

func fullAvailability(hours int) []bool {
	a := make([]bool, hours)
	for i := range a {
		a[i] = true
	}
	return a
}

func uniformHours(n int) [model.Days]int {
	var h [model.Days]int
	for d := range h {
		h[d] = n
	}
	return h
}

func singleTeacherInstance(t *testing.T, weeklyHours int) *model.Instance {
	t.Helper()
	teacher := model.Teacher{ID: uuid.New(), Name: "Gul", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = fullAvailability(5)
	}
	classroom := model.Classroom{ID: uuid.New(), Name: "9A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Matematik",
		WeeklyHours:          weeklyHours,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	return &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(5)},
	}
}

func TestSolveRepairStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyRepair
	cfg.SeedBacktrackBudget = 50

	out, err := Solve(context.Background(), singleTeacherInstance(t, 5), cfg)
	require.NoError(t, err)
	assert.True(t, out.Report.Feasible)
	assert.Equal(t, "repair", out.Report.Strategy)
	require.Len(t, out.Schedule, 1)
}

func TestSolveTabuStrategyImprovesAndReports(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyTabu
	cfg.SeedBacktrackBudget = 50
	cfg.TabuIterations = 50
	seed := uint32(7)
	cfg.RandomSeed = &seed

	out, err := Solve(context.Background(), singleTeacherInstance(t, 5), cfg)
	require.NoError(t, err)
	assert.True(t, out.Report.Feasible)
	require.NotNil(t, out.Report.TimeToFirstFeasible)
	assert.Contains(t, out.Report.ObjectiveBreakdown, "teacherGap")
}

func TestSolveALNSStrategyImprovesAndReports(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyALNS
	cfg.SeedBacktrackBudget = 50
	cfg.TabuIterations = 50
	seed := uint32(3)
	cfg.RandomSeed = &seed

	out, err := Solve(context.Background(), singleTeacherInstance(t, 5), cfg)
	require.NoError(t, err)
	assert.True(t, out.Report.Feasible)
	assert.Equal(t, "alns", out.Report.Strategy)
}

func TestSolveCPStrategyFallsBackToTabuOnBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"internal","message":"boom"}}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Strategy = StrategyCP
	cfg.CPBackendURL = srv.URL
	cfg.AllowFallback = true
	cfg.SeedBacktrackBudget = 50
	cfg.TabuIterations = 20
	cfg.TimeLimitSeconds = 5

	out, err := Solve(context.Background(), singleTeacherInstance(t, 5), cfg)
	require.NoError(t, err)
	assert.True(t, out.Report.Feasible)
	// Strategy label records the requested strategy; the fallback is noted in Notes.
	assert.Equal(t, "cp", out.Report.Strategy)
	require.NotEmpty(t, out.Report.Notes)
}

func TestSolveCPStrategyReturnsBackendUnavailableWithoutFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"internal","message":"boom"}}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Strategy = StrategyCP
	cfg.CPBackendURL = srv.URL
	cfg.AllowFallback = false
	cfg.TimeLimitSeconds = 5

	_, err := Solve(context.Background(), singleTeacherInstance(t, 5), cfg)
	require.Error(t, err)
	var beu *BackendUnavailableError
	require.ErrorAs(t, err, &beu)
}

func TestSolveReturnsValidationErrors(t *testing.T) {
	classroom := model.Classroom{ID: uuid.New(), Name: "9A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Matematik",
		WeeklyHours:          2,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(5)},
	} // no teachers at all: subject has no eligible teacher
	cfg := DefaultConfig()
	cfg.Strategy = StrategyRepair

	_, err := Solve(context.Background(), inst, cfg)
	require.Error(t, err)
	var ve *ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestSolveReturnsInfeasibleWhenSeederExhaustsBudget(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Deniz", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = make([]bool, 2)
	}
	teacher.Availability[0][0] = true
	teacher.Availability[0][1] = true

	classA := model.Classroom{ID: uuid.New(), Name: "A", Level: model.LevelHigh}
	classB := model.Classroom{ID: uuid.New(), Name: "B", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Tarih",
		WeeklyHours:          2,
		AssignedClassIDs:     []uuid.UUID{classA.ID, classB.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classA, classB},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(2)},
	}

	cfg := DefaultConfig()
	cfg.Strategy = StrategyRepair
	cfg.SeedBacktrackBudget = 10

	_, err := Solve(context.Background(), inst, cfg)
	require.Error(t, err)
	var ie *InfeasibleError
	require.ErrorAs(t, err, &ie)
}
