// Package worker runs CPU-heavy batch solving on a fixed pool sized to the
// machine. The recovery solvers are pure functions, so fanning a batch of
// them across cores needs no coordination beyond the pool itself.
package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var queue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go work()
	}
}

func work() {
	defer sentry.Recover()

	for {
		f, ok := <-queue
		if !ok {
			return
		}

		f()
	}
}

// Submit schedules f on the pool. To be used by a function that may be CPU
// intensive.
func Submit(f func()) {
	queue <- f
}

// Each runs f for every index in [0, n) on the pool and blocks until all
// invocations have returned. Must not be called from inside a submitted
// task, since the pool would then wait on itself.
func Each(n int, f func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		Submit(func() {
			defer wg.Done()
			f(i)
		})
	}
	wg.Wait()
}
