// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/notify"
)

// --- Form ---

func TestCanSubmitOverAllFieldCombinations(t *testing.T) {
	fields := []string{"device name", "manufacturer", "intended use"}

	// Every subset of filled fields: enabled only when all are filled.
	for mask := 0; mask < 1<<len(fields); mask++ {
		t.Run(strconv.Itoa(mask), func(t *testing.T) {
			f := NewForm(fields...)
			for i, name := range fields {
				if mask&(1<<i) != 0 {
					f.Set(name, "value")
				} else if i%2 == 0 {
					f.Set(name, "   ") // whitespace counts as empty
				}
			}
			want := mask == 1<<len(fields)-1
			assert.Equal(t, want, f.CanSubmit())
			assert.Equal(t, !want, f.Validate() != nil)
		})
	}
}

func TestRequireFunc(t *testing.T) {
	selected := 0
	f := NewForm("device name")
	f.RequireFunc("literature", func() string {
		if selected == 0 {
			return ""
		}
		return strconv.Itoa(selected)
	})

	f.Set("device name", "Pacer X")
	assert.Equal(t, []string{"literature"}, f.Missing())

	selected = 1
	assert.True(t, f.CanSubmit())
	assert.Empty(t, f.Missing())
}

func TestMissingOrder(t *testing.T) {
	f := NewForm("b", "a")
	f.RequireFunc("c", func() string { return "" })
	assert.Equal(t, []string{"b", "a", "c"}, f.Missing())
	assert.Equal(t, []string{"b", "a", "c"}, f.Validate().(*apperr.ValidationError).Fields)
}

func TestValuesCopy(t *testing.T) {
	f := NewForm()
	f.Set("indication", "NSCLC")
	v := f.Values()
	v["indication"] = "changed"
	assert.Equal(t, "NSCLC", f.Get("indication"))
}

// --- Flow ---

func TestFlowSuccess(t *testing.T) {
	f := NewForm("name")
	f.Set("name", "x")
	flow := NewFlow[string]("gen", f, nil)
	assert.Equal(t, Idle, flow.State())
	assert.True(t, flow.Enabled())

	res, err := flow.Submit(context.Background(), func(context.Context) (string, error) {
		return "report-1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "report-1", res)
	assert.Equal(t, Success, flow.State())

	got, ok := flow.Result()
	assert.True(t, ok)
	assert.Equal(t, "report-1", got)
}

func TestFlowValidationDoesNotDispatch(t *testing.T) {
	n := &notify.Inline{}
	flow := NewFlow[string]("gen", NewForm("device name"), n)
	assert.False(t, flow.Enabled())

	called := false
	_, err := flow.Submit(context.Background(), func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.False(t, called)
	assert.Equal(t, Idle, flow.State())
	require.Len(t, n.Errors(), 1)
}

func TestFailedSubmitKeepsPreviousResult(t *testing.T) {
	n := &notify.Inline{}
	flow := NewFlow[map[string]string]("gen", NewForm(), n)

	_, err := flow.Submit(context.Background(), func(context.Context) (map[string]string, error) {
		return map[string]string{"id": "first"}, nil
	})
	require.NoError(t, err)

	failure := &apperr.ServerError{StatusCode: 500}
	_, err = flow.Submit(context.Background(), func(context.Context) (map[string]string, error) {
		// A partially built result must never leak into state.
		return map[string]string{"id": "partial"}, failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, Failure, flow.State())
	assert.Equal(t, failure, flow.Err())

	res, ok := flow.Result()
	require.True(t, ok)
	assert.Equal(t, "first", res["id"])
	require.Len(t, n.Errors(), 1)
	assert.Equal(t, apperr.KindServer, n.Errors()[0].Kind)

	// Resubmitting from Failure is allowed.
	_, err = flow.Submit(context.Background(), func(context.Context) (map[string]string, error) {
		return map[string]string{"id": "second"}, nil
	})
	require.NoError(t, err)
	assert.Nil(t, flow.Err())
	res, _ = flow.Result()
	assert.Equal(t, "second", res["id"])
}

func TestConcurrentSubmitRejected(t *testing.T) {
	f := NewForm("name")
	f.Set("name", "x")
	flow := NewFlow[int]("gen", f, nil)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), func(context.Context) (int, error) {
			close(inFlight)
			<-release
			return 1, nil
		})
		done <- err
	}()
	<-inFlight

	assert.Equal(t, Submitting, flow.State())
	assert.False(t, flow.Enabled())

	// Inputs stay editable while submitting.
	f.Set("name", "edited")
	assert.Equal(t, "edited", f.Get("name"))

	_, err := flow.Submit(context.Background(), func(context.Context) (int, error) { return 2, nil })
	assert.ErrorIs(t, err, apperr.ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	res, _ := flow.Result()
	assert.Equal(t, 1, res)
}

func TestFlowReset(t *testing.T) {
	flow := NewFlow[string]("gen", NewForm(), nil)
	_, err := flow.Submit(context.Background(), func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	require.Error(t, err)
	flow.Reset()
	assert.Equal(t, Idle, flow.State())
	assert.NoError(t, flow.Err())
	_, ok := flow.Result()
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Submitting: "submitting", Success: "success", Failure: "failure", State(9): "unknown"} {
		assert.Equal(t, want, fmt.Sprint(s))
	}
}
