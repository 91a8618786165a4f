package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

// Operations that reach outside the service run in five steps:
//
//	validate  check inputs and preconditions; nothing has happened yet
//	perform   do the work, usually an upstream call
//	verify    inspect what perform produced and keep only what is acceptable
//	archive   persist the verified result
//	respond   shape the result for the caller
//
// Nothing is persisted unless verify accepted it.

// ExecutionStep names one step of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in.
// It unwraps to the cause, so domain error checks still apply.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// FailedStep reports the step err came from, if it came from Execute.
func FailedStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation bundles the step functions. Any of them may be nil to skip the step.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op for input, stopping at the first failing step.
func Execute[I, P, V, O any](ctx context.Context, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContext(ctx).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) (O, error) {
		level := slog.LevelError
		if step == StepValidate {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "operation step failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return zero, &ExecutionError{Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	var performed P

	if op.Perform != nil {
		var err error
		if performed, err = op.Perform(ctx, input); err != nil {
			return fail(StepPerform, err)
		}
	}

	var verified V

	if op.Verify != nil {
		var err error
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			return fail(StepArchive, err)
		}
	}

	result := zero

	if op.Respond != nil {
		var err error
		if result, err = op.Respond(ctx, input, verified); err != nil {
			return fail(StepRespond, err)
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}
