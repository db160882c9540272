package scheduling

// RosterPlan is the change set that turns an existing roster into a desired one
type RosterPlan struct {
	Insert     []uint64
	Retain     []uint64
	SoftDelete []uint64
}

// Empty reports whether applying the plan would change nothing
func (p RosterPlan) Empty() bool {
	return len(p.Insert) == 0 && len(p.SoftDelete) == 0
}

// Reconcile partitions desired and existing member IDs. Insert and Retain
// keep the order of desired, SoftDelete the order of existing. Duplicates in
// either input are ignored.
func Reconcile(desired, existing []uint64) RosterPlan {
	desired = Unique(desired)
	existing = Unique(existing)

	current := make(map[uint64]struct{}, len(existing))
	for _, id := range existing {
		current[id] = struct{}{}
	}
	want := make(map[uint64]struct{}, len(desired))

	plan := RosterPlan{
		Insert:     []uint64{},
		Retain:     []uint64{},
		SoftDelete: []uint64{},
	}
	for _, id := range desired {
		want[id] = struct{}{}
		if _, ok := current[id]; ok {
			plan.Retain = append(plan.Retain, id)
		} else {
			plan.Insert = append(plan.Insert, id)
		}
	}
	for _, id := range existing {
		if _, ok := want[id]; !ok {
			plan.SoftDelete = append(plan.SoftDelete, id)
		}
	}

	return plan
}

// Unique removes duplicate values, keeping the first occurrence
func Unique(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
