// Package parallel provides small helpers for fanning work out over
// goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Parallelize divides items across workers sized to the CPU count and runs
// fn for each (start, end) chunk.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ForEach runs fn for each index in [0, items) using at most workers
// goroutines. Work not yet started when ctx is cancelled is skipped; items
// already running are allowed to finish. workers <= 0 means one goroutine
// per item.
func ForEach(ctx context.Context, items, workers int, fn func(i int)) {
	if items == 0 {
		return
	}
	if workers <= 0 || workers > items {
		workers = items
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}

	for i := 0; i < items; i++ {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
}
