package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullAvailability(hours int) []bool {
	a := make([]bool, hours)
	for i := range a {
		a[i] = true
	}
	return a
}

func uniformHours(n int) [Days]int {
	var h [Days]int
	for d := range h {
		h[d] = n
	}
	return h
}

// scenarioA builds the "trivial" instance from spec §8 Scenario A: one
// classroom, one subject filling every cell, one fully available teacher.
func scenarioA() *Instance {
	teacher := Teacher{ID: uuid.New(), Name: "Ayse", Levels: []Level{LevelHigh}}
	for d := 0; d < Days; d++ {
		teacher.Availability[d] = fullAvailability(2)
	}
	classroom := Classroom{ID: uuid.New(), Name: "10A", Level: LevelHigh}
	subject := Subject{
		ID:                   uuid.New(),
		Name:                 "Matematik",
		WeeklyHours:          10,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	return &Instance{
		Teachers:    []Teacher{teacher},
		Classrooms:  []Classroom{classroom},
		Subjects:    []Subject{subject},
		SchoolHours: SchoolHours{High: uniformHours(2)},
	}
}

func TestCompileScenarioA(t *testing.T) {
	inst := scenarioA()
	compiled, errs := Compile(inst, 3)
	require.Empty(t, errs)
	require.Len(t, compiled.Units, 10)

	for _, u := range compiled.Units {
		assert.Equal(t, UnitSingle, u.Kind)
		require.Len(t, u.EligibleTuples, 1)
		assert.Equal(t, []int32{0}, u.EligibleTuples[0])
	}
}

func TestCompileBlockSumInvalid(t *testing.T) {
	inst := scenarioA()
	inst.Subjects[0].BlockHours = 3 // odd, must be even
	_, errs := Compile(inst, 3)
	require.NotEmpty(t, errs)
	assert.Equal(t, BlockSumInvalid, errs[0].Code)
}

func TestCompileLevelMismatch(t *testing.T) {
	inst := scenarioA()
	inst.Teachers[0].Levels = []Level{LevelMiddle} // wrong level for the high-school classroom
	_, errs := Compile(inst, 3)
	require.NotEmpty(t, errs)
	assert.Equal(t, LevelMismatch, errs[0].Code)
}

func TestCompileCapacityExceeded(t *testing.T) {
	inst := scenarioA()
	inst.Subjects[0].WeeklyHours = 99
	_, errs := Compile(inst, 3)
	require.NotEmpty(t, errs)

	var found bool
	for _, e := range errs {
		if e.Code == CapacityExceeded {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileFixedOutOfRange(t *testing.T) {
	inst := scenarioA()
	inst.FixedAssignments = []FixedAssignment{
		{ClassroomID: inst.Classrooms[0].ID, SubjectID: inst.Subjects[0].ID, Day: 0, Period: 99},
	}
	_, errs := Compile(inst, 3)
	require.NotEmpty(t, errs)

	var found bool
	for _, e := range errs {
		if e.Code == FixedOutOfRange {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompilePinUnqualified(t *testing.T) {
	inst := scenarioA()
	inst.Teachers[0].Levels = []Level{LevelMiddle}
	inst.Subjects[0].PinnedTeacherByClassroom = map[uuid.UUID]uuid.UUID{
		inst.Classrooms[0].ID: inst.Teachers[0].ID,
	}
	_, errs := Compile(inst, 3)
	require.NotEmpty(t, errs)
	assert.Equal(t, PinUnqualified, errs[0].Code)
}

// scenarioB builds spec §8 Scenario B: block integrity with a
// tightly-constrained teacher.
func scenarioB() *Instance {
	teacher := Teacher{ID: uuid.New(), Name: "Mert", Levels: []Level{LevelHigh}}
	for d := 0; d < Days; d++ {
		teacher.Availability[d] = make([]bool, 4)
	}
	teacher.Availability[0][0] = true
	teacher.Availability[0][1] = true
	teacher.Availability[2][2] = true
	teacher.Availability[2][3] = true

	classroom := Classroom{ID: uuid.New(), Name: "9B", Level: LevelHigh}
	subject := Subject{
		ID:                   uuid.New(),
		Name:                 "Fizik",
		WeeklyHours:          4,
		BlockHours:           4,
		AssignedClassIDs:     []uuid.UUID{classroom.ID},
		RequiredTeacherCount: 1,
	}
	return &Instance{
		Teachers:    []Teacher{teacher},
		Classrooms:  []Classroom{classroom},
		Subjects:    []Subject{subject},
		SchoolHours: SchoolHours{High: uniformHours(4)},
	}
}

func TestCompileScenarioB(t *testing.T) {
	inst := scenarioB()
	compiled, errs := Compile(inst, 3)
	require.Empty(t, errs)
	require.Len(t, compiled.Units, 2)
	for _, u := range compiled.Units {
		assert.Equal(t, UnitBlock2, u.Kind)
		assert.Equal(t, 2, u.Kind.Span())
	}
}

func TestDecompileRoundTrip(t *testing.T) {
	inst := scenarioA()
	compiled, errs := Compile(inst, 3)
	require.Empty(t, errs)

	sched := NewSchedule(compiled)
	unit := compiled.Units[0]
	a := &Assignment{
		UnitID:     unit.ID,
		SubjectID:  unit.SubjectID,
		TeacherIDs: unit.EligibleTuples[0],
		LocationID: NoID,
		BlockID:    0,
		Span:       1,
	}
	sched.Set(0, 0, 0, a)

	out := Decompile(compiled, sched)
	days, ok := out[inst.Classrooms[0].ID]
	require.True(t, ok)
	require.NotNil(t, days[0][0])
	assert.Equal(t, inst.Subjects[0].ID, days[0][0].SubjectID)
	assert.Equal(t, []uuid.UUID{inst.Teachers[0].ID}, days[0][0].TeacherIDs)
}
