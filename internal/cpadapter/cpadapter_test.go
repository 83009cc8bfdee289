package cpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mslscheduler/internal/model"
)

func fullAvail(hours int) []bool {
	a := make([]bool, hours)
	for i := range a {
		a[i] = true
	}
	return a
}

func sampleCompiled(t *testing.T) *model.Compiled {
	t.Helper()
	teacher := model.Teacher{ID: uuid.New(), Name: "Hasan", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = fullAvail(4)
	}
	classroom := model.Classroom{ID: uuid.New(), Name: "11B", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Biyoloji",
		WeeklyHours:          2,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: [model.Days]int{4, 4, 4, 4, 4}},
	}
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)
	return compiled
}

func TestEncodeProducesFeasibleStarts(t *testing.T) {
	compiled := sampleCompiled(t)
	problem := Encode(compiled)

	require.Len(t, problem.Units, 2)
	for _, u := range problem.Units {
		assert.NotEmpty(t, u.FeasibleStarts)
		assert.Len(t, u.EligibleTuples, 1)
	}
}

func TestClientSolveDecodesAssignments(t *testing.T) {
	compiled := sampleCompiled(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := wireResponse{
			Assignments: []wireAssignment{
				{ClassroomID: 0, Day: 0, Start: 0, UnitID: 0, SubjectID: 0, TeacherIDs: []int32{0}, LocationID: -1, Span: 1},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	cl := NewClient(server.URL, 2*time.Second)
	res, err := cl.Solve(context.Background(), compiled, Preferences{}, 5, true)
	require.NoError(t, err)
	require.NotNil(t, res.Schedule)
	assert.NotNil(t, res.Schedule.Get(0, 0, 0))
}

func TestClientSolveSurfacesBackendError(t *testing.T) {
	compiled := sampleCompiled(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := wireResponse{Error: &wireError{Code: CodeInfeasible, Message: "no solution"}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	cl := NewClient(server.URL, 2*time.Second)
	_, err := cl.Solve(context.Background(), compiled, Preferences{}, 5, true)
	require.Error(t, err)
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, CodeInfeasible, backendErr.Code)
}
