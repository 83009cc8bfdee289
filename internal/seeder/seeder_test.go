package seeder

import (
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

// TestSeederScenarioA reproduces spec §8 Scenario A: a single fully
// available teacher filling every cell, zero gaps.
func TestSeederScenarioA(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Ayse", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = fullAvailability(2)
	}
	classroom := model.Classroom{ID: uuid.New(), Name: "9A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Matematik",
		WeeklyHours:          10,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(2)},
	}
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	res := Run(compiled, Config{BacktrackBudget: 50})
	require.True(t, res.Complete)

	for d := 0; d < model.Days; d++ {
		for p := 0; p < 2; p++ {
			a := res.Schedule.Get(0, d, p)
			require.NotNil(t, a)
			assert.Equal(t, int32(0), a.SubjectID)
		}
	}
}

// TestSeederScenarioB reproduces spec §8 Scenario B: a teacher available
// only in two disjoint 2-period windows must receive exactly two 2-blocks
// there.
func TestSeederScenarioB(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Can", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = make([]bool, 5)
	}
	teacher.Availability[0][1] = true
	teacher.Availability[0][2] = true
	teacher.Availability[2][3] = true
	teacher.Availability[2][4] = true

	classroom := model.Classroom{ID: uuid.New(), Name: "9A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Fizik",
		WeeklyHours:          4,
		BlockHours:           4,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(5)},
	}
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	res := Run(compiled, Config{BacktrackBudget: 50})
	require.True(t, res.Complete)

	assert.NotNil(t, res.Schedule.Get(0, 0, 1))
	assert.NotNil(t, res.Schedule.Get(0, 0, 2))
	assert.NotNil(t, res.Schedule.Get(0, 2, 3))
	assert.NotNil(t, res.Schedule.Get(0, 2, 4))
}

// TestSeederScenarioC reproduces spec §8 Scenario C: two classrooms
// sharing one teacher who is only available for one of the two required
// windows. The seeder must exhaust its backtrack budget without
// completing, and the teacherBusy bucket must capture the contention.
func TestSeederScenarioC(t *testing.T) {
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
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	res := Run(compiled, Config{BacktrackBudget: 20})
	assert.False(t, res.Complete)
	assert.Greater(t, res.FailureHistogram[FailTeacherBusy], 0)
}

// TestSeederScenarioD reproduces spec §8 Scenario D: a teacher's only
// available period collides with a standing duty, so the lesson can never
// be placed.
func TestSeederScenarioD(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Elif", Levels: []model.Level{model.LevelHigh}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = make([]bool, 5)
	}
	teacher.Availability[0][2] = true

	classroom := model.Classroom{ID: uuid.New(), Name: "A", Level: model.LevelHigh}
	subject := model.Subject{
		ID:                   uuid.New(),
		Name:                 "Cografya",
		WeeklyHours:          1,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{subject},
		SchoolHours: model.SchoolHours{High: uniformHours(5)},
		Duties:      []model.Duty{{TeacherID: teacher.ID, Day: 0, Period: 2}},
	}
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	res := Run(compiled, Config{BacktrackBudget: 10})
	assert.False(t, res.Complete)
	assert.Greater(t, res.FailureHistogram[FailTeacherBusy]+res.FailureHistogram[FailAvailability], 0)
}

// TestSeederDeterministicWithSeed asserts that two runs with the same
// RandomSeed produce byte-identical schedules.
func TestSeederDeterministicWithSeed(t *testing.T) {
	teacher := model.Teacher{ID: uuid.New(), Name: "Fatma", Levels: []model.Level{model.LevelMiddle}}
	for d := 0; d < model.Days; d++ {
		teacher.Availability[d] = fullAvailability(3)
	}
	classroom := model.Classroom{ID: uuid.New(), Name: "6A", Level: model.LevelMiddle}
	s1 := model.Subject{ID: uuid.New(), Name: "Turkce", WeeklyHours: 3, AssignedClassIDs: []uuid.UUID{classroom.ID}, RequiredTeacherCount: 1}
	s2 := model.Subject{ID: uuid.New(), Name: "Ingilizce", WeeklyHours: 3, AssignedClassIDs: []uuid.UUID{classroom.ID}, RequiredTeacherCount: 1}
	inst := &model.Instance{
		Teachers:    []model.Teacher{teacher},
		Classrooms:  []model.Classroom{classroom},
		Subjects:    []model.Subject{s1, s2},
		SchoolHours: model.SchoolHours{Middle: uniformHours(3)},
	}
	compiled, errs := model.Compile(inst, 3)
	require.Empty(t, errs)

	seed := uint32(42)
	r1 := Run(compiled, Config{BacktrackBudget: 50, RandomSeed: &seed})
	r2 := Run(compiled, Config{BacktrackBudget: 50, RandomSeed: &seed})
	require.True(t, r1.Complete)
	require.True(t, r2.Complete)

	for d := 0; d < model.Days; d++ {
		for p := 0; p < 3; p++ {
			a1 := r1.Schedule.Get(0, d, p)
			a2 := r2.Schedule.Get(0, d, p)
			require.NotNil(t, a1)
			require.NotNil(t, a2)
			assert.Equal(t, a1.SubjectID, a2.SubjectID)
		}
	}
}
