// Package batch runs independent jobs across a worker pool and
// reassembles their results in submission order. It generalizes the
// teacher's Annotator.ParallelAnnotate/OrderedCollect, which fanned VCF
// rows out across goroutines and stitched annotation results back
// together by sequence number, to any job/result pair so the CLI's
// "compare" and "annotate" commands can share one pool implementation.
package batch

import (
	"runtime"
	"sync"
	"time"
)

// Job pairs a caller-supplied value with the sequence number it was
// submitted under, so results can be reassembled in order regardless of
// which worker finishes first.
type Job[T any] struct {
	Seq   int
	Value T
}

// Result holds one job's output.
type Result[T, R any] struct {
	Seq   int
	Value T
	Out   R
	Err   error
}

// Run processes jobs with workers goroutines, each calling fn once per
// job. Results arrive on the returned channel in completion order, not
// submission order; use Collect to restore submission order. If workers
// is 0, runtime.NumCPU() is used. The jobs channel must be closed by the
// caller once all jobs have been sent.
func Run[T, R any](jobs <-chan Job[T], workers int, fn func(T) (R, error)) <-chan Result[T, R] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan Result[T, R], 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for job := range jobs {
				out, err := fn(job.Value)
				results <- Result[T, R]{Seq: job.Seq, Value: job.Value, Out: out, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Collect calls fn for each result in submission-sequence order,
// buffering out-of-order arrivals until their turn comes. It blocks
// until results is closed, or until fn returns an error, in which case
// Collect drains the remaining results (to unblock any still-running
// workers) before returning that error.
func Collect[T, R any](results <-chan Result[T, R], fn func(Result[T, R]) error) error {
	return CollectWithProgress(results, 0, nil, fn)
}

// CollectWithProgress is like Collect but invokes progress with the
// count of results emitted so far, at most once per interval. If
// interval is 0 or progress is nil, no progress reporting happens.
func CollectWithProgress[T, R any](results <-chan Result[T, R], interval time.Duration, progress func(int), fn func(Result[T, R]) error) error {
	pending := make(map[int]Result[T, R])
	nextSeq := 0

	var tickC <-chan time.Time
	if interval > 0 && progress != nil {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for r := range results {
		pending[r.Seq] = r

		for {
			next, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(next); err != nil {
				for range results {
				}
				return err
			}
		}

		if tickC != nil {
			select {
			case <-tickC:
				progress(nextSeq)
			default:
			}
		}
	}

	return nil
}
