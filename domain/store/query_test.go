package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCollectsConditions(t *testing.T) {
	q := Build(
		WithVideoID("dQw4w9WgXcQ"),
		WithCondition("uploader", "Rick Astley"),
		WithLimit(10),
		WithOffset(5),
		WithOrderDesc("created_at"),
	)

	conds := q.Conditions()
	assert.Len(t, conds, 2)
	assert.Equal(t, "video_id", conds[0].Field())
	assert.Equal(t, "dQw4w9WgXcQ", conds[0].Value())
	assert.False(t, conds[0].In())

	orders := q.Orders()
	assert.Len(t, orders, 1)
	assert.Equal(t, "created_at", orders[0].Field())
	assert.False(t, orders[0].Ascending())

	assert.Equal(t, 10, q.LimitValue())
	assert.Equal(t, 5, q.OffsetValue())
}

func TestWithVideoIDIn(t *testing.T) {
	q := Build(WithVideoIDIn([]string{"a", "b"}))
	conds := q.Conditions()
	assert.Len(t, conds, 1)
	assert.True(t, conds[0].In())
	assert.Equal(t, "video_id IN [a b]", conds[0].String())
}

func TestWithParam(t *testing.T) {
	q := Build(WithParam("threshold", 0.25))
	v, ok := q.Param("threshold")
	assert.True(t, ok)
	assert.Equal(t, 0.25, v)

	_, ok = q.Param("missing")
	assert.False(t, ok)
}

func TestWithPagination(t *testing.T) {
	q := Build(WithPagination(20, 40)...)
	assert.Equal(t, 20, q.LimitValue())
	assert.Equal(t, 40, q.OffsetValue())
}
