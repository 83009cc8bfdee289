package feasibility

import (
	"testing"

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

func TestAnalyzeFeasibleInstance(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Ada", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = fullAvail(4)
	}
	classroom := model.Classroom{ID: uuid.New(), Name: "11A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Kimya",
		WeeklyHours:          4,
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

	report := Analyze(compiled)
	assert.False(t, report.Fatal)
	require.Len(t, report.TeacherLoads, 1)
	assert.Equal(t, 4, report.TeacherLoads[0].Demand)
	assert.Equal(t, 20, report.TeacherLoads[0].Capacity)
}

// TestAnalyzeOverloadedTeacher reproduces spec §8 Scenario C: two
// classrooms sharing one teacher, both needing more hours than the
// teacher can give given a single shared availability window.
func TestAnalyzeOverloadedTeacher(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Can", Levels: []model.Level{model.LevelHigh}}
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
		SchoolHours: model.SchoolHours{High: [model.Days]int{2, 2, 2, 2, 2}},
	}

	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	report := Analyze(compiled)
	assert.True(t, report.Fatal)
}
