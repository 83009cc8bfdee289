package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardestUnitsKeepsTopN(t *testing.T) {
	fails := map[int32]int{0: 5, 1: 9, 2: 1, 3: 20, 4: 3}
	out := hardestUnits(fails, 3)
	require.Len(t, out, 3)
	assert.Equal(t, int32(3), out[0].UnitID)
	assert.Equal(t, int32(1), out[1].UnitID)
	assert.Equal(t, int32(0), out[2].UnitID)
}

func TestBuilderFinishAssemblesReport(t *testing.T) {
	b := NewBuilder("tabu")
	b.AddAttempts(10)
	b.AddBacktracks(2)
	b.AddFailure("teacherBusy")
	b.MergeFailureHistogram(map[string]int{"teacherBusy": 1, "availability": 4})
	b.AddUnitFailure(7, 3)
	b.Note("relaxed block integrity for unit 7")
	b.MarkFirstFeasible()

	r := b.Finish(true, false, 12.5, map[string]float64{"teacherGap": 12.5})

	assert.True(t, r.Feasible)
	assert.False(t, r.Cancelled)
	assert.Equal(t, 10, r.Attempts)
	assert.Equal(t, 2, r.Backtracks)
	assert.Equal(t, 2, r.FailureHistogram["teacherBusy"])
	assert.Equal(t, 4, r.FailureHistogram["availability"])
	require.Len(t, r.HardestUnits, 1)
	assert.Equal(t, int32(7), r.HardestUnits[0].UnitID)
	assert.Equal(t, "tabu", r.Strategy)
	require.NotNil(t, r.TimeToFirstFeasible)
	assert.Equal(t, 12.5, r.ObjectiveValue)
}
