package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinSplitCursor(t *testing.T) {
	assert.Equal(t, "2024-01-02T10:00:00Z|post-1", JoinCursor("2024-01-02T10:00:00Z", "post-1"))
	assert.Equal(t, "1700000000000", JoinCursor("1700000000000", ""))

	key, id := SplitCursor("2024-01-02T10:00:00Z|tag:a|b")
	assert.Equal(t, "2024-01-02T10:00:00Z", key)
	assert.Equal(t, "tag:a|b", id)

	key, id = SplitCursor("1700000000000")
	assert.Equal(t, "1700000000000", key)
	assert.Empty(t, id)
}

func TestCursorOrdering(t *testing.T) {
	// newest-first order: x(key 2), a(key 1), b(key 1), y(key 0)
	assert.Negative(t, CompareNewestFirst(1, "x", "a"))
	assert.Negative(t, CompareNewestFirst(0, "a", "b"))
	assert.Positive(t, CompareNewestFirst(-1, "y", "b"))

	// cursor at a
	assert.True(t, OlderThanCursor(0, "b", "a"))
	assert.True(t, OlderThanCursor(-1, "y", "a"))
	assert.False(t, OlderThanCursor(0, "a", "a"))
	assert.False(t, OlderThanCursor(1, "x", "a"))

	// cursor at b
	assert.True(t, NewerThanCursor(0, "a", "b"))
	assert.True(t, NewerThanCursor(1, "x", "b"))
	assert.False(t, NewerThanCursor(0, "b", "b"))
	assert.False(t, NewerThanCursor(-1, "y", "b"))
}

func TestCursorOrdering_BareKeyExcludesTies(t *testing.T) {
	assert.False(t, OlderThanCursor(0, "b", ""))
	assert.False(t, NewerThanCursor(0, "a", ""))
	assert.True(t, OlderThanCursor(-1, "b", ""))
	assert.True(t, NewerThanCursor(1, "a", ""))
}
