package model

// expandUnits decomposes a subject×classroom weekly-hour requirement into
// lesson units by greedily allocating 3-blocks first, then 2-blocks, then
// singletons (spec §4.1).
func expandUnits(weeklyHours, blockHours, tripleBlockHours int) []UnitKind {
	units := make([]UnitKind, 0, weeklyHours)
	for h := 0; h < tripleBlockHours; h += 3 {
		units = append(units, UnitBlock3)
	}
	for h := 0; h < blockHours; h += 2 {
		units = append(units, UnitBlock2)
	}
	singles := weeklyHours - blockHours - tripleBlockHours
	for h := 0; h < singles; h++ {
		units = append(units, UnitSingle)
	}
	return units
}

// validBlockSum reports whether the block-structure invariants hold
// (spec §3 Subject invariants).
func validBlockSum(weeklyHours, blockHours, tripleBlockHours int) bool {
	if blockHours < 0 || tripleBlockHours < 0 || weeklyHours < 0 {
		return false
	}
	if blockHours%2 != 0 {
		return false
	}
	if tripleBlockHours%3 != 0 {
		return false
	}
	if blockHours > weeklyHours {
		return false
	}
	if blockHours+tripleBlockHours > weeklyHours {
		return false
	}
	return true
}
