package shared

import "sync"

// ForEachBounded calls f for every index in [0, n) with at most limit calls
// running at once. A limit below one runs the calls one at a time.
func ForEachBounded(limit, n int, f func(i int)) {
	if limit < 1 {
		limit = 1
	}
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		guard <- struct{}{} // would block if guard channel is already filled
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f(i)
			<-guard
		}(i)
	}
	wg.Wait()
}
