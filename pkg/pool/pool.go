package pool

import (
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrBudgetExhausted is returned by Search when the attempt budget runs out
// before enough successes were found.
var ErrBudgetExhausted = errors.New("pool: search budget exhausted")

// Pool represents a pool of workers, used for parallelizing searches.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	// The common channel used to send tasks to the workers.
	tasks       chan func()
	workerCount int
	closeOnce   sync.Once
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		tasks:       make(chan func()),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go func() {
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Workers returns the number of goroutines backing the pool, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() { close(p.tasks) })
}

// run executes task on every worker and waits for all of them to return.
func (p *Pool) run(task func()) {
	var wg sync.WaitGroup
	wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.tasks <- func() {
			defer wg.Done()
			task()
		}
	}
	wg.Wait()
}

// Search calls f until count calls have reported success, and returns those results.
//
// At most budget calls are made in total, across all workers. When the budget
// runs out first, ErrBudgetExhausted is returned along with nothing.
func Search[T any](p *Pool, count, budget int, f func() (T, bool)) ([]T, error) {
	results := make([]T, count)
	if count <= 0 {
		return results, nil
	}

	if p == nil {
		found := 0
		for attempt := 0; attempt < budget && found < count; attempt++ {
			if res, ok := f(); ok {
				results[found] = res
				found++
			}
		}
		if found < count {
			return nil, ErrBudgetExhausted
		}
		return results, nil
	}

	// remaining counts the results still needed, attempts the calls left in the budget.
	remaining := int64(count)
	attempts := int64(budget)
	p.run(func() {
		for atomic.LoadInt64(&remaining) > 0 {
			if atomic.AddInt64(&attempts, -1) < 0 {
				return
			}
			res, ok := f()
			if !ok {
				continue
			}
			i := atomic.AddInt64(&remaining, -1)
			if i < 0 {
				return
			}
			results[i] = res
		}
	})
	if atomic.LoadInt64(&remaining) > 0 {
		return nil, ErrBudgetExhausted
	}
	return results, nil
}

// Parallelize calls f count times, passing in indices from 0..count-1.
//
// The result is [f(0), f(1), ..., f(count - 1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	results := make([]T, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}
	next := int64(-1)
	p.run(func() {
		for {
			i := int(atomic.AddInt64(&next, 1))
			if i >= count {
				return
			}
			results[i] = f(i)
		}
	})
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// Concurrent callers race for which bytes they get, but no byte is handed out twice.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	if lr, ok := r.(*LockedReader); ok {
		return lr
	}
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
