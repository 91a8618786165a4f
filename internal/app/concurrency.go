package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel2 runs both calls concurrently. The first error cancels the context
// passed to the other call and is returned unwrapped.
func Parallel2[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a, err = fa(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = fb(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)

		return zeroA, zeroB, err
	}

	return a, b, nil
}

// Parallel3 is Parallel2 for three calls.
func Parallel3[A, B, C any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
	fc func(context.Context) (C, error),
) (A, B, C, error) {
	var (
		a A
		b B
		c C
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a, err = fa(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = fb(gctx)
		return err
	})
	g.Go(func() (err error) {
		c, err = fc(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
			zeroC C
		)

		return zeroA, zeroB, zeroC, err
	}

	return a, b, c, nil
}

// Repeat calls fn n times with at most limit calls in flight and returns the
// results in call order. It stops at the first error.
func Repeat[T any](ctx context.Context, n, limit int, fn func(context.Context) (T, error)) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]T, n)

	for i := range n {
		g.Go(func() (err error) {
			results[i], err = fn(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
