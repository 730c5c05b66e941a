// Package taskpool 提供一个有界并发的批量任务原语：
// 固定上限的 worker 并发执行互不依赖的任务，收集全部结果，
// 单个任务失败或超时不影响其余任务，也不中断整批。
package taskpool

import (
	"context"
	"sync"
	"time"
)

// Outcome 单个任务的执行结果
type Outcome[R any] struct {
	Value R
	Err   error
}

// Map 以最多 limit 个 worker 并发地对 inputs 逐项执行 fn，
// 每个任务独立携带 timeout 超时。返回切片与 inputs 等长且下标一一对应。
// worker 数不会超过任务数；limit 不足 1 时按 1 处理。
func Map[T, R any](ctx context.Context, limit int, timeout time.Duration, inputs []T, fn func(context.Context, T) (R, error)) []Outcome[R] {
	outcomes := make([]Outcome[R], len(inputs))
	if len(inputs) == 0 {
		return outcomes
	}

	if limit < 1 {
		limit = 1
	}
	if limit > len(inputs) {
		limit = len(inputs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = runOne(ctx, timeout, inputs[i], fn)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func runOne[T, R any](ctx context.Context, timeout time.Duration, input T, fn func(context.Context, T) (R, error)) Outcome[R] {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	value, err := fn(ctx, input)
	return Outcome[R]{Value: value, Err: err}
}
