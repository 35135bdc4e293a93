// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regdesk/internal/apperr"
)

func TestTrackerBeginCancelsPrevious(t *testing.T) {
	var tr Tracker
	first := tr.Begin(context.Background())
	second := tr.Begin(context.Background())
	defer second.Done()

	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
	assert.ErrorIs(t, first.Ctx.Err(), context.Canceled)
	assert.NoError(t, second.Ctx.Err())

	assert.False(t, first.Current())
	assert.True(t, second.Current())

	applied := false
	assert.False(t, first.Commit(func() { applied = true }))
	assert.False(t, applied)
	assert.True(t, second.Commit(func() { applied = true }))
	assert.True(t, applied)
}

// gatedFetch returns a SearchFunc whose calls block until released, so tests
// control completion order.
type gatedFetch struct {
	started chan string
	release map[string]chan struct{}
}

func newGatedFetch(queries ...string) *gatedFetch {
	g := &gatedFetch{started: make(chan string, len(queries)), release: map[string]chan struct{}{}}
	for _, q := range queries {
		g.release[q] = make(chan struct{})
	}
	return g
}

func (g *gatedFetch) fetch(_ context.Context, q string) ([]string, error) {
	g.started <- q
	<-g.release[q]
	if q == "fail" {
		return nil, errors.New("backend down")
	}
	return []string{q + "-1", q + "-2"}, nil
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	g := newGatedFetch("slow", "fast")
	s := NewSearch(g.fetch, func(s string) string { return s })

	type outcome struct {
		res []string
		err error
	}
	slowDone := make(chan outcome, 1)
	go func() {
		res, err := s.Run(context.Background(), "slow")
		slowDone <- outcome{res, err}
	}()
	require.Equal(t, "slow", <-g.started)

	fastDone := make(chan outcome, 1)
	go func() {
		res, err := s.Run(context.Background(), "fast")
		fastDone <- outcome{res, err}
	}()
	require.Equal(t, "fast", <-g.started)

	// The later request completes first.
	close(g.release["fast"])
	fast := <-fastDone
	require.NoError(t, fast.err)
	assert.Equal(t, []string{"fast-1", "fast-2"}, fast.res)

	// The earlier, slower response arrives afterwards and is discarded.
	close(g.release["slow"])
	slow := <-slowDone
	assert.ErrorIs(t, slow.err, apperr.ErrStale)
	assert.Nil(t, slow.res)

	assert.Equal(t, []string{"fast-1", "fast-2"}, s.Results())
	assert.Equal(t, "fast", s.Query())
	assert.False(t, s.Loading())
}

func TestFailedRunKeepsPreviousResults(t *testing.T) {
	g := newGatedFetch("ok", "fail")
	close(g.release["ok"])
	close(g.release["fail"])
	s := NewSearch(g.fetch, func(s string) string { return s })

	_, err := s.Run(context.Background(), "ok")
	require.NoError(t, err)
	<-g.started

	_, err = s.Run(context.Background(), "fail")
	require.Error(t, err)
	<-g.started

	assert.Equal(t, []string{"ok-1", "ok-2"}, s.Results())
	assert.EqualError(t, s.Err(), "backend down")
}

func TestLoadingFlag(t *testing.T) {
	g := newGatedFetch("q")
	s := NewSearch(g.fetch, func(s string) string { return s })

	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), "q")
		close(done)
	}()
	<-g.started
	assert.True(t, s.Loading())

	close(g.release["q"])
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search did not finish")
	}
	assert.False(t, s.Loading())
}

type item struct {
	ID   string
	Name string
}

func TestFindAndIDs(t *testing.T) {
	s := NewSearch(func(_ context.Context, q string) ([]item, error) {
		return []item{{"111", "a"}, {"222", "b"}}, nil
	}, func(it item) string { return it.ID })

	_, err := s.Run(context.Background(), "pacemaker safety")
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222"}, s.IDs())
	it, ok := s.Find("222")
	require.True(t, ok)
	assert.Equal(t, "b", it.Name)
	_, ok = s.Find("333")
	assert.False(t, ok)
}

func TestResetCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	s := NewSearch(func(ctx context.Context, q string) ([]string, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, func(s string) string { return s })

	errc := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), "x")
		errc <- err
	}()
	<-started
	s.Reset()

	assert.ErrorIs(t, <-errc, apperr.ErrStale)
	assert.Empty(t, s.Results())
	assert.NoError(t, s.Err())
}

func TestQueryFollowsLatestRun(t *testing.T) {
	const runs = 50
	var (
		mu      sync.Mutex
		ctxs    = map[int]context.Context{}
		entered sync.WaitGroup
		release = make(chan struct{})
	)
	entered.Add(runs)
	s := NewSearch(func(ctx context.Context, q int) ([]string, error) {
		mu.Lock()
		ctxs[q] = ctx
		mu.Unlock()
		entered.Done()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return []string{"ok"}, nil
		}
	}, func(s string) string { return s })

	var finished sync.WaitGroup
	for i := 0; i < runs; i++ {
		finished.Add(1)
		go func(q int) {
			defer finished.Done()
			s.Run(context.Background(), q)
		}(i)
	}
	entered.Wait()

	mu.Lock()
	var live []int
	for q, ctx := range ctxs {
		if ctx.Err() == nil {
			live = append(live, q)
		}
	}
	mu.Unlock()
	require.Len(t, live, 1)
	assert.Equal(t, live[0], s.Query())
	assert.True(t, s.Loading())

	close(release)
	finished.Wait()
	assert.Equal(t, live[0], s.Query())
	assert.False(t, s.Loading())
}
