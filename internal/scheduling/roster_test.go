package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile_Partition(t *testing.T) {
	plan := Reconcile([]uint64{2, 3}, []uint64{1, 2})

	assert.Equal(t, []uint64{3}, plan.Insert)
	assert.Equal(t, []uint64{2}, plan.Retain)
	assert.Equal(t, []uint64{1}, plan.SoftDelete)
}

func TestReconcile_Properties(t *testing.T) {
	cases := []struct {
		desired  []uint64
		existing []uint64
	}{
		{nil, nil},
		{[]uint64{1, 2, 3}, nil},
		{nil, []uint64{4, 5}},
		{[]uint64{1, 2, 2, 9}, []uint64{2, 3, 3, 9}},
		{[]uint64{5, 4, 3}, []uint64{3, 4, 5}},
	}

	for _, tc := range cases {
		plan := Reconcile(tc.desired, tc.existing)

		union := append(append([]uint64{}, plan.Insert...), plan.Retain...)
		assert.ElementsMatch(t, Unique(tc.desired), union)

		for _, id := range plan.Insert {
			assert.NotContains(t, plan.SoftDelete, id)
		}
		for _, id := range plan.SoftDelete {
			assert.Contains(t, tc.existing, id)
			assert.NotContains(t, tc.desired, id)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	desired := []uint64{4, 8, 15}

	first := Reconcile(desired, []uint64{8, 16})
	applied := append(append([]uint64{}, first.Insert...), first.Retain...)
	second := Reconcile(desired, applied)

	assert.Empty(t, second.Insert)
	assert.Empty(t, second.SoftDelete)
	assert.True(t, second.Empty())
	assert.ElementsMatch(t, desired, second.Retain)
}
