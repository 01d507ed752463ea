// Package parallel splits index ranges across goroutines for elementwise kernels.
package parallel

import (
	"runtime"
	"sync"
)

// MinChunk is the smallest range handed to a separate goroutine. Ranges
// shorter than this run inline on the caller.
var MinChunk = 4096

// For calls fn over disjoint [start, end) chunks covering [0, n) and waits
// for all of them.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if maxWorkers := (n + MinChunk - 1) / MinChunk; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
