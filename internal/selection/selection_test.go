// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Set ---

func TestToggleTwiceRestoresSet(t *testing.T) {
	starts := [][]string{
		nil,
		{"111"},
		{"111", "222", "333"},
	}
	for _, start := range starts {
		for _, x := range []string{"111", "222", "999"} {
			t.Run(fmt.Sprintf("%v/%s", start, x), func(t *testing.T) {
				s := NewSet(start...)
				before := s.Items()

				s.Toggle(x)
				s.Toggle(x)

				if s.Len() != len(before) {
					t.Fatalf("Len() = %d, want %d", s.Len(), len(before))
				}
				// A previously selected id comes back at the end, so only
				// membership is preserved; an unselected id leaves order intact.
				assert.ElementsMatch(t, before, s.Items())
				if !NewSet(start...).Has(x) {
					assert.Equal(t, before, s.Items())
				}
			})
		}
	}
}

func TestToggleReportsState(t *testing.T) {
	s := NewSet[string]()
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Has("a"))
	assert.False(t, s.Toggle("a"))
	assert.False(t, s.Has("a"))
}

func TestInsertionOrderAndNoDuplicates(t *testing.T) {
	s := NewSet("c", "a", "c", "b", "a")
	assert.Equal(t, []string{"c", "a", "b"}, s.Items())
	assert.Equal(t, 3, s.Len())

	assert.False(t, s.Add("a"))
	assert.True(t, s.Remove("c"))
	assert.False(t, s.Remove("c"))
	assert.Equal(t, []string{"a", "b"}, s.Items())

	// Re-adding appends at the end.
	s.Toggle("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Items())
	assert.True(t, s.Has("b"))
}

func TestClearAndZeroValue(t *testing.T) {
	var s Set[int]
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Items())
	assert.False(t, s.Remove(1))

	s.Add(1)
	s.Add(2)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())
	assert.False(t, s.Has(1))

	s.Add(3)
	assert.Equal(t, []int{3}, s.Items())
}

func TestItemsIsACopy(t *testing.T) {
	s := NewSet("x", "y")
	items := s.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"x", "y"}, s.Items())
}

type pub struct{ id, title string }

func TestPickFollowsSelectionOrder(t *testing.T) {
	results := []pub{{"1", "one"}, {"2", "two"}, {"3", "three"}}
	s := NewSet("3", "1", "404")

	got := Pick(s, results, func(p pub) string { return p.id })
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].title)
	assert.Equal(t, "one", got[1].title)
}

// --- Prefetcher ---

type recordingFetcher struct {
	calls [][]string
	err   error
}

func (r *recordingFetcher) fetch(_ context.Context, ids []string) (map[string]string, error) {
	r.calls = append(r.calls, append([]string(nil), ids...))
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = "abstract " + id
	}
	return out, nil
}

func TestSyncFetchesOnlyNewIDs(t *testing.T) {
	rf := &recordingFetcher{}
	p := NewPrefetcher(rf.fetch)
	ctx := context.Background()

	requested, err := p.Sync(ctx, []string{"111", "222"})
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, requested)

	// Select three more; two already cached.
	requested, err = p.Sync(ctx, []string{"111", "222", "333", "444", "555"})
	require.NoError(t, err)
	assert.Equal(t, []string{"333", "444", "555"}, requested)

	require.Len(t, rf.calls, 2)
	assert.Len(t, rf.calls[1], 3, "N new ids must produce exactly N fetches")

	v, ok := p.Get("444")
	assert.True(t, ok)
	assert.Equal(t, "abstract 444", v)
	assert.Equal(t, 5, p.Len())
}

func TestSyncNoCallWhenNothingMissing(t *testing.T) {
	rf := &recordingFetcher{}
	p := NewPrefetcher(rf.fetch)
	ctx := context.Background()

	_, err := p.Sync(ctx, []string{"1"})
	require.NoError(t, err)
	requested, err := p.Sync(ctx, []string{"1"})
	require.NoError(t, err)
	assert.Nil(t, requested)

	requested, err = p.Sync(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, requested)
	assert.Len(t, rf.calls, 1)
}

func TestSyncErrorLeavesCacheUntouched(t *testing.T) {
	rf := &recordingFetcher{err: errors.New("offline")}
	p := NewPrefetcher(rf.fetch)

	_, err := p.Sync(context.Background(), []string{"1", "2"})
	require.Error(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, []string{"1", "2"}, p.Missing([]string{"1", "2"}))
}

func TestSyncPartialResponse(t *testing.T) {
	p := NewPrefetcher(func(_ context.Context, ids []string) (map[string]string, error) {
		return map[string]string{ids[0]: "only first"}, nil
	})
	_, err := p.Sync(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, p.Missing([]string{"a", "b"}))
}

func TestMissingDedupes(t *testing.T) {
	p := NewPrefetcher(func(context.Context, []string) (map[string]string, error) { return nil, nil })
	assert.Equal(t, []string{"a", "b"}, p.Missing([]string{"a", "b", "a"}))
}
