package bounce

import "sync"

// task splits data in workersCount chunks and calls fn on each element, one goroutine per chunk.
// fn receives the element index, so that results can be written to a slot owned by the element.
func task[T any](workersCount int, data []T, fn func(i int, data T)) {
	if workersCount <= 1 || len(data) <= 1 {
		for i, d := range data {
			fn(i, d)
		}
		return
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
