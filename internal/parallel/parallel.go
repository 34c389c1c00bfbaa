// Package parallel provides small helpers for fanning a batch of tasks out
// to goroutines and joining the results: all of them, a completion-order
// fold, or an early exit once a predicate over the partial results holds.
package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of concurrent work.
type Task[T any] func(ctx context.Context) (T, error)

// JoinAll runs all tasks concurrently and returns their results in input
// order. The first failure cancels the shared context; the error is returned
// after the remaining tasks settle. limit bounds concurrency, <= 0 means
// unbounded.
func JoinAll[T any](ctx context.Context, limit int, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			v, err := task(ctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// JoinReduce runs all tasks concurrently and folds their results in
// completion order, not input order. fold receives the accumulator, the
// task's result and its input index. The first failure cancels the shared
// context and is returned; folds applied before the failure are kept in the
// returned accumulator.
func JoinReduce[T, B any](ctx context.Context, init B, tasks []Task[T], fold func(acc B, result T, index int) B) (B, error) {
	var mu sync.Mutex
	acc := init

	g, ctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			v, err := task(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			acc = fold(acc, v, i)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return acc, err
}

// Result is one slot of a JoinUntil join. Done marks settled tasks; the
// others still carry zero values when the join exits early.
type Result[T any] struct {
	Value T
	Err   error
	Done  bool
}

// JoinUntil runs all tasks concurrently and consults happy over the partial
// results after each completion. Once satisfied, the remaining tasks are
// canceled and the join waits for them to settle before returning the final
// verdict alongside all results. With no tasks the verdict is false and
// happy is never consulted.
func JoinUntil[T any](ctx context.Context, tasks []Task[T], happy func(done []Result[T]) bool) (bool, []Result[T]) {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return false, results
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		satisfied bool
	)
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := task(ctx)
			mu.Lock()
			results[i] = Result[T]{Value: v, Err: err, Done: true}
			if !satisfied && happy(results) {
				satisfied = true
				cancel()
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return satisfied, results
}
