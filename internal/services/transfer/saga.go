package transfer

import (
	"context"
	"fmt"
	"log"
)

// sagaStep is one local operation with its compensating action.
// Compensation may be nil for steps that have nothing to undo.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs an ordered list of steps and, on any step failure, runs
// the compensations of the completed steps in reverse order. This is
// a best-effort in-process coordinator, not a distributed transaction:
// the window between a completed step and its compensation is the
// documented inconsistency window.
type saga struct {
	steps []sagaStep
}

func newSaga(steps ...sagaStep) *saga {
	return &saga{steps: steps}
}

// execute returns the failing step's error and, separately, the first
// compensation error if unwinding itself failed. A non-nil compErr
// means the system is left inconsistent and the caller must record it
// for reconciliation.
func (s *saga) execute(ctx context.Context) (stepErr error, compErr error) {
	var done []sagaStep
	for _, step := range s.steps {
		if err := step.run(ctx); err != nil {
			stepErr = fmt.Errorf("%s: %w", step.name, err)
			break
		}
		done = append(done, step)
	}
	if stepErr == nil {
		return nil, nil
	}

	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Printf("saga: compensation for %s failed: %v", step.name, err)
			if compErr == nil {
				compErr = fmt.Errorf("compensate %s: %w", step.name, err)
			}
		}
	}
	return stepErr, compErr
}
