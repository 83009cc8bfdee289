// Package improve implements the Metaheuristic Improver: Tabu Search and
// ALNS local search over a feasible schedule produced by the seeder,
// using a weighted, incrementally-maintained soft-cost objective
// (spec §4.4).
package improve

import "mslscheduler/internal/model"

// Weights scales each soft-cost component of the objective (spec §4.4,
// §6 defaults).
type Weights struct {
	TeacherGap     float64
	TeacherEdge    float64
	TeacherSpread  float64
	DailyOverrun   float64
	SameDaySplit   float64
	BlockIntegrity float64
}

// DefaultWeights mirrors spec §6's configuration defaults for the two
// weights it names explicitly; the remaining components use modest
// in-package defaults since the spec leaves them to the implementation.
func DefaultWeights() Weights {
	return Weights{
		TeacherGap:     1,
		TeacherEdge:    1,
		TeacherSpread:  1,
		DailyOverrun:   5,
		SameDaySplit:   3,
		BlockIntegrity: 2,
	}
}

// Config parameterizes an improvement run.
type Config struct {
	Weights               Weights
	AllowSameDaySplit     bool
	TeacherDailyMaxHours  *int // nil disables the cap entirely
	HardTeacherDailyMax   bool // reject moves that would overrun instead of penalizing
	TabuTenure            int
	TabuIterations        int
	DisableLNS            bool
	RandomSeed            *uint32
	Cancel                <-chan struct{}
}

// CostState maintains the objective incrementally: every move reports the
// teachers, classrooms and days it touched, and only those contributions
// are recomputed (spec §4.4 "Delta evaluation").
type CostState struct {
	c   *model.Compiled
	s   *model.Schedule
	cfg Config

	teacherDayCost map[[2]int32]float64
	classDaySplit  map[[2]int32]float64
	teacherSpread  map[int32]float64
	total          float64
}

// NewCostState computes the objective from scratch.
func NewCostState(c *model.Compiled, s *model.Schedule, cfg Config) *CostState {
	cs := &CostState{
		c:              c,
		s:              s,
		cfg:            cfg,
		teacherDayCost: make(map[[2]int32]float64),
		classDaySplit:  make(map[[2]int32]float64),
		teacherSpread:  make(map[int32]float64),
	}
	for t := range c.Teachers {
		for d := 0; d < model.Days; d++ {
			k := [2]int32{int32(t), int32(d)}
			v := cs.teacherDayCostValue(int32(t), d)
			cs.teacherDayCost[k] = v
			cs.total += v
		}
		v := cs.teacherSpreadValue(int32(t))
		cs.teacherSpread[int32(t)] = v
		cs.total += v
	}
	for cl := range c.Classrooms {
		for d := 0; d < model.Days; d++ {
			k := [2]int32{int32(cl), int32(d)}
			v := cs.classDaySplitValue(int32(cl), d)
			cs.classDaySplit[k] = v
			cs.total += v
		}
	}
	return cs
}

// Total returns the current objective value.
func (cs *CostState) Total() float64 { return cs.total }

// Update recomputes only the given teachers/classrooms over the given
// days, after the schedule has already been mutated, and returns the net
// change in total cost.
func (cs *CostState) Update(teachers, classrooms []int32, days []int) float64 {
	before := cs.total

	for _, t := range teachers {
		for _, d := range days {
			k := [2]int32{t, int32(d)}
			nv := cs.teacherDayCostValue(t, d)
			cs.total += nv - cs.teacherDayCost[k]
			cs.teacherDayCost[k] = nv
		}
		nv := cs.teacherSpreadValue(t)
		cs.total += nv - cs.teacherSpread[t]
		cs.teacherSpread[t] = nv
	}
	for _, cl := range classrooms {
		for _, d := range days {
			k := [2]int32{cl, int32(d)}
			nv := cs.classDaySplitValue(cl, d)
			cs.total += nv - cs.classDaySplit[k]
			cs.classDaySplit[k] = nv
		}
	}
	return cs.total - before
}

// FullCost recomputes the objective from scratch; used by tests and the
// solverdebug consistency assertion to catch delta-evaluation drift.
func FullCost(c *model.Compiled, s *model.Schedule, cfg Config) float64 {
	return NewCostState(c, s, cfg).total
}

func (cs *CostState) dayWindow(day int) int {
	max := 0
	for lvl := 0; lvl < 2; lvl++ {
		if cs.c.Grid.Hours[lvl][day] > max {
			max = cs.c.Grid.Hours[lvl][day]
		}
	}
	return max
}

// teacherPeriodsOnDay returns the sorted periods a teacher teaches on a
// given day, scanning every classroom's cell.
func (cs *CostState) teacherPeriodsOnDay(teacher int32, day int) []int {
	var periods []int
	for cid := range cs.c.Classrooms {
		for p := 0; p < cs.c.Grid.MaxDailyHours; p++ {
			a := cs.s.Get(int32(cid), day, p)
			if a == nil {
				continue
			}
			for _, tid := range a.TeacherIDs {
				if tid == teacher {
					periods = append(periods, p)
					break
				}
			}
		}
	}
	return periods
}

func (cs *CostState) teacherDayCostValue(teacher int32, day int) float64 {
	periods := cs.teacherPeriodsOnDay(teacher, day)
	if len(periods) == 0 {
		return 0
	}
	first, last := periods[0], periods[len(periods)-1]
	gap := (last - first + 1) - len(periods)

	edge := 0.0
	window := cs.dayWindow(day)
	if first == 0 {
		edge++
	}
	if window > 0 && last == window-1 {
		edge++
	}

	overrun := 0
	if cs.cfg.TeacherDailyMaxHours != nil && len(periods) > *cs.cfg.TeacherDailyMaxHours {
		overrun = len(periods) - *cs.cfg.TeacherDailyMaxHours
	}

	w := cs.cfg.Weights
	return w.TeacherGap*float64(gap) + w.TeacherEdge*edge + w.DailyOverrun*float64(overrun)
}

// teacherSpreadValue is the variance of a teacher's per-day hour counts,
// pushing toward an even weekly distribution (spec §4.4 "Teacher spread
// cost").
func (cs *CostState) teacherSpreadValue(teacher int32) float64 {
	var counts [model.Days]int
	total := 0
	for d := 0; d < model.Days; d++ {
		counts[d] = len(cs.teacherPeriodsOnDay(teacher, d))
		total += counts[d]
	}
	mean := float64(total) / float64(model.Days)
	variance := 0.0
	for d := 0; d < model.Days; d++ {
		diff := float64(counts[d]) - mean
		variance += diff * diff
	}
	variance /= float64(model.Days)
	return cs.cfg.Weights.TeacherSpread * variance
}

// classDaySplitValue sums, over every distinct subject taught in a
// classroom on a day, a flat penalty when that subject's periods are not
// contiguous (spec §4.4 "Same-day split cost").
func (cs *CostState) classDaySplitValue(classroom int32, day int) float64 {
	if cs.cfg.AllowSameDaySplit {
		return 0
	}
	periodsBySubject := make(map[int32][]int)
	for p := 0; p < cs.c.Grid.MaxDailyHours; p++ {
		a := cs.s.Get(classroom, day, p)
		if a == nil {
			continue
		}
		periodsBySubject[a.SubjectID] = append(periodsBySubject[a.SubjectID], p)
	}
	cost := 0.0
	for _, ps := range periodsBySubject {
		if len(ps) <= 1 {
			continue
		}
		if ps[len(ps)-1]-ps[0]+1 != len(ps) {
			cost += cs.cfg.Weights.SameDaySplit
		}
	}
	return cost
}

// Breakdown recomputes the objective's components separately, for
// reporting rather than for the hot delta-evaluation loop (spec §4.7
// "Final objective value and a per-component breakdown").
func Breakdown(c *model.Compiled, s *model.Schedule, cfg Config) map[string]float64 {
	cs := &CostState{c: c, s: s, cfg: cfg}
	out := map[string]float64{
		"teacherGap":     0,
		"teacherEdge":    0,
		"teacherSpread":  0,
		"dailyOverrun":   0,
		"sameDaySplit":   0,
		"blockIntegrity": 0,
	}
	for t := range c.Teachers {
		for d := 0; d < model.Days; d++ {
			periods := cs.teacherPeriodsOnDay(int32(t), d)
			if len(periods) == 0 {
				continue
			}
			first, last := periods[0], periods[len(periods)-1]
			out["teacherGap"] += cfg.Weights.TeacherGap * float64((last-first+1)-len(periods))

			window := cs.dayWindow(d)
			if first == 0 {
				out["teacherEdge"] += cfg.Weights.TeacherEdge
			}
			if window > 0 && last == window-1 {
				out["teacherEdge"] += cfg.Weights.TeacherEdge
			}
			if cfg.TeacherDailyMaxHours != nil && len(periods) > *cfg.TeacherDailyMaxHours {
				out["dailyOverrun"] += cfg.Weights.DailyOverrun * float64(len(periods)-*cfg.TeacherDailyMaxHours)
			}
		}
		out["teacherSpread"] += cs.teacherSpreadValue(int32(t))
	}
	for cl := range c.Classrooms {
		for d := 0; d < model.Days; d++ {
			out["sameDaySplit"] += cs.classDaySplitValue(int32(cl), d)
		}
	}
	return out
}
