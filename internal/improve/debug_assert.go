//go:build solverdebug

package improve

import "mslscheduler/internal/model"

// assertConsistent recomputes the objective from scratch and panics if it
// disagrees with the incrementally-maintained total, catching delta
// evaluation drift in development builds (spec §7 "programmer error",
// §9 "round-trip law" in spirit). Built only with -tags solverdebug.
func assertConsistent(c *model.Compiled, s *model.Schedule, cs *CostState) {
	full := FullCost(c, s, cs.cfg)
	if diff := full - cs.total; diff > 1e-6 || diff < -1e-6 {
		panic("improve: delta-evaluated cost diverged from full recomputation")
	}
}
