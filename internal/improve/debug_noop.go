//go:build !solverdebug

package improve

import "mslscheduler/internal/model"

func assertConsistent(*model.Compiled, *model.Schedule, *CostState) {}
