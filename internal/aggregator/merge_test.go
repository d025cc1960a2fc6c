package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedhub/internal/domain"
)

func set(accountID string, posts []domain.Post) AccountItems[domain.Post] {
	return AccountItems[domain.Post]{AccountID: accountID, Provider: "fake", Items: posts}
}

func assertSorted(t *testing.T, posts []domain.Post) {
	t.Helper()
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt),
			"post %d (%s) is newer than post %d (%s)", i, posts[i].ID, i-1, posts[i-1].ID)
	}
}

func countBy(posts []domain.Post) map[string]int {
	out := map[string]int{}
	for _, p := range posts {
		out[p.AccountID]++
	}
	return out
}

func TestMerge_CutOffExample(t *testing.T) {
	a := makePosts("a", 10, baseTime, time.Minute)
	b := makePosts("b", 7, baseTime.Add(-30*time.Second), time.Minute)
	c := makePosts("c", 20, baseTime.Add(-time.Hour), time.Minute)

	res := Merge([]AccountItems[domain.Post]{set("a", a), set("b", b), set("c", c)}, MergeOptions{CutOff: true})

	require.Len(t, res.Items, 7)
	assertSorted(t, res.Items)
	assert.Equal(t, map[string]int{"a": 4, "b": 3}, countBy(res.Items))

	require.Len(t, res.Pagination, 3)
	assert.Equal(t, domain.PaginationEntry{ProviderID: "a", Since: "a-00", Until: "a-03"}, res.Pagination[0])
	assert.Equal(t, domain.PaginationEntry{ProviderID: "b", Since: "b-00", Until: "b-02"}, res.Pagination[1])
	assert.Equal(t, domain.PaginationEntry{ProviderID: "c", Since: "c-00", Until: "c-00"}, res.Pagination[2])
}

func TestMerge_CutOffLengthIsSmallestFetchedCount(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{name: "single account", counts: []int{5}, want: 5},
		{name: "uneven", counts: []int{10, 7, 20}, want: 7},
		{name: "equal", counts: []int{3, 3}, want: 3},
		{name: "one empty account", counts: []int{4, 0, 9}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets := make([]AccountItems[domain.Post], len(tt.counts))
			for i, n := range tt.counts {
				id := string(rune('a' + i))
				sets[i] = set(id, makePosts(id, n, baseTime.Add(-time.Duration(i)*time.Second), time.Minute))
			}

			res := Merge(sets, MergeOptions{CutOff: true})

			assert.Len(t, res.Items, tt.want)
			assert.Len(t, res.Pagination, len(tt.counts))
			assertSorted(t, res.Items)
		})
	}
}

func TestMerge_WithoutCutOffKeepsEverything(t *testing.T) {
	a := makePosts("a", 10, baseTime, 2*time.Minute)
	b := makePosts("b", 3, baseTime.Add(-time.Minute), 2*time.Minute)

	res := Merge([]AccountItems[domain.Post]{set("a", a), set("b", b)}, MergeOptions{})

	require.Len(t, res.Items, 13)
	assertSorted(t, res.Items)
	assert.Equal(t, "a-09", res.Pagination[0].Until)
	assert.Equal(t, "b-02", res.Pagination[1].Until)
}

func TestMerge_EmptyAccountIsHarmless(t *testing.T) {
	a := makePosts("a", 4, baseTime, time.Minute)
	b := makePosts("b", 4, baseTime.Add(-30*time.Second), time.Minute)

	withEmpty := Merge([]AccountItems[domain.Post]{
		set("a", a),
		{AccountID: "empty", Provider: "fake", Since: "prev-cursor"},
		set("b", b),
	}, MergeOptions{})
	without := Merge([]AccountItems[domain.Post]{set("a", a), set("b", b)}, MergeOptions{})

	assert.Equal(t, without.Items, withEmpty.Items)
	require.Len(t, withEmpty.Pagination, 3)
	assert.Equal(t, domain.PaginationEntry{ProviderID: "empty", Since: "prev-cursor"}, withEmpty.Pagination[1])
	for _, p := range withEmpty.Items {
		assert.NotEqual(t, "empty", p.AccountID)
	}
}

func TestMerge_EmptyAccountWithoutPriorCursor(t *testing.T) {
	res := Merge([]AccountItems[domain.Post]{{AccountID: "fresh"}}, MergeOptions{CutOff: true})

	assert.Empty(t, res.Items)
	assert.Equal(t, []domain.PaginationEntry{{ProviderID: "fresh"}}, res.Pagination)
}

func TestMerge_NoInput(t *testing.T) {
	res := Merge[domain.Post](nil, MergeOptions{CutOff: true})

	assert.Empty(t, res.Items)
	assert.Empty(t, res.Pagination)
}

func TestMerge_SinceIsCapturedBeforeCutOff(t *testing.T) {
	old := makePosts("old", 5, baseTime.Add(-24*time.Hour), time.Minute)
	recent := makePosts("recent", 2, baseTime, time.Minute)

	res := Merge([]AccountItems[domain.Post]{set("old", old), set("recent", recent)}, MergeOptions{CutOff: true})

	require.Len(t, res.Items, 2)
	assert.Equal(t, "old-00", res.Pagination[0].Since)
	assert.Equal(t, "old-00", res.Pagination[0].Until)
	assert.Equal(t, "recent-00", res.Pagination[1].Since)
	assert.Equal(t, "recent-01", res.Pagination[1].Until)
}

func TestMerge_TiesAreDeterministic(t *testing.T) {
	a := makePosts("a", 3, baseTime, 0)
	b := makePosts("b", 3, baseTime, 0)

	first := Merge([]AccountItems[domain.Post]{set("b", b), set("a", a)}, MergeOptions{})
	second := Merge([]AccountItems[domain.Post]{set("a", a), set("b", b)}, MergeOptions{})

	ids := func(posts []domain.Post) []string {
		out := make([]string, len(posts))
		for i, p := range posts {
			out[i] = p.ID
		}
		return out
	}
	want := []string{"a-00", "a-01", "a-02", "b-00", "b-01", "b-02"}
	assert.Equal(t, want, ids(first.Items))
	assert.Equal(t, want, ids(second.Items))
}

func TestMerge_PreservesAdapterOrderOnEqualTimestamps(t *testing.T) {
	posts := makePosts("a", 3, baseTime, 0)
	posts[0].ID, posts[2].ID = "z", "a"

	res := Merge([]AccountItems[domain.Post]{set("a", posts)}, MergeOptions{})

	assert.Equal(t, "z", res.Items[0].ID)
	assert.Equal(t, "a", res.Items[2].ID)
}

func TestMerge_Notifications(t *testing.T) {
	x := makeNotifications("x", 3, baseTime, time.Minute)
	y := makeNotifications("y", 2, baseTime.Add(-30*time.Second), time.Minute)

	res := Merge([]AccountItems[domain.Notification]{
		{AccountID: "x", Items: x},
		{AccountID: "y", Items: y},
	}, MergeOptions{})

	require.Len(t, res.Items, 5)
	assert.Equal(t, "x-n00", res.Items[0].ID)
	assert.Equal(t, "y-n00", res.Items[1].ID)
	assert.Equal(t, "x-n02", res.Pagination[0].Until)
}

func TestBuildEnvelope_NeverNil(t *testing.T) {
	env := BuildEnvelope(MergeResult[domain.Post]{})

	assert.NotNil(t, env.Posts)
	assert.NotNil(t, env.Pagination)
}
