package model

// eligibleSingles returns the dense teacher ids eligible to teach subject
// s in classroom c, honoring pins first, then branch-match, then level
// authorization (spec §4.1). ok is false only when a pin exists but the
// pinned teacher is not level-authorized (PinUnqualified). branchMatches
// counts branch-matched teachers regardless of level, letting the caller
// tell "no branch match at all" (NoEligibleTeacher) apart from "branch
// matches exist but none are level-authorized" (LevelMismatch).
func eligibleSingles(subject *CompiledSubject, classroom *CompiledClassroom, teachers []CompiledTeacher) (ids []int32, branchMatches int, pinned bool, ok bool) {
	if pinnedID, has := subject.PinnedTeacherByClassroom[classroom.ID]; has {
		if !teachers[pinnedID].Authorized(classroom.Level) {
			return nil, 0, true, false
		}
		return []int32{pinnedID}, 1, true, true
	}

	for _, t := range teachers {
		if subject.Branch != "" && !t.Branches[subject.Branch] {
			continue
		}
		branchMatches++
		if !t.Authorized(classroom.Level) {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids, branchMatches, false, true
}

// eligibleTuples expands a pool of eligible single teachers into every
// combination of the required size. A pinned teacher, when present, is
// forced into every tuple.
func eligibleTuples(pool []int32, pinned int32, hasPinned bool, size int) [][]int32 {
	if size <= 0 {
		return nil
	}
	if size == 1 {
		if hasPinned {
			return [][]int32{{pinned}}
		}
		tuples := make([][]int32, 0, len(pool))
		for _, id := range pool {
			tuples = append(tuples, []int32{id})
		}
		return tuples
	}

	others := pool
	if hasPinned {
		others = make([]int32, 0, len(pool))
		for _, id := range pool {
			if id != pinned {
				others = append(others, id)
			}
		}
	}

	remaining := size
	if hasPinned {
		remaining = size - 1
	}
	if remaining > len(others) {
		return nil
	}

	var tuples [][]int32
	combos(others, remaining, func(combo []int32) {
		tuple := make([]int32, 0, size)
		if hasPinned {
			tuple = append(tuple, pinned)
		}
		tuple = append(tuple, combo...)
		tuples = append(tuples, tuple)
	})
	return tuples
}

// combos calls fn with every k-combination of items, in lexicographic
// order of index.
func combos(items []int32, k int, fn func([]int32)) {
	n := len(items)
	if k == 0 {
		fn(nil)
		return
	}
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int32, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		fn(combo)

		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
