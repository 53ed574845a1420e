package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_AllStepsSucceed(t *testing.T) {
	var order []string
	step := func(name string) sagaStep {
		return sagaStep{
			name:       name,
			run:        func(context.Context) error { order = append(order, name); return nil },
			compensate: func(context.Context) error { order = append(order, "undo-"+name); return nil },
		}
	}

	stepErr, compErr := newSaga(step("a"), step("b"), step("c")).execute(context.Background())
	require.NoError(t, stepErr)
	require.NoError(t, compErr)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSaga_FailureCompensatesInReverse(t *testing.T) {
	var order []string
	ok := func(name string) sagaStep {
		return sagaStep{
			name:       name,
			run:        func(context.Context) error { order = append(order, name); return nil },
			compensate: func(context.Context) error { order = append(order, "undo-"+name); return nil },
		}
	}
	boom := errors.New("boom")
	failing := sagaStep{
		name: "c",
		run:  func(context.Context) error { return boom },
	}

	stepErr, compErr := newSaga(ok("a"), ok("b"), failing).execute(context.Background())
	require.ErrorIs(t, stepErr, boom)
	require.NoError(t, compErr)
	assert.Equal(t, []string{"a", "b", "undo-b", "undo-a"}, order,
		"completed steps unwound newest first, failed step not compensated")
}

func TestSaga_CompensationFailureIsReported(t *testing.T) {
	undoErr := errors.New("undo failed")
	var undoneA bool

	a := sagaStep{
		name:       "a",
		run:        func(context.Context) error { return nil },
		compensate: func(context.Context) error { undoneA = true; return nil },
	}
	b := sagaStep{
		name:       "b",
		run:        func(context.Context) error { return nil },
		compensate: func(context.Context) error { return undoErr },
	}
	c := sagaStep{
		name: "c",
		run:  func(context.Context) error { return errors.New("boom") },
	}

	stepErr, compErr := newSaga(a, b, c).execute(context.Background())
	require.Error(t, stepErr)
	require.ErrorIs(t, compErr, undoErr)
	assert.True(t, undoneA, "one failed compensation must not stop the rest")
}

func TestSaga_NilCompensationSkipped(t *testing.T) {
	a := sagaStep{
		name: "a",
		run:  func(context.Context) error { return nil },
	}
	b := sagaStep{
		name: "b",
		run:  func(context.Context) error { return errors.New("boom") },
	}

	stepErr, compErr := newSaga(a, b).execute(context.Background())
	require.Error(t, stepErr)
	assert.NoError(t, compErr)
}
