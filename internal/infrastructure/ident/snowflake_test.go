package ident

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsMonotonic(t *testing.T) {
	factory, err := NewSnowflakeFactory("STATION-01")
	require.NoError(t, err)

	prev := factory.Next()
	for i := 0; i < 100; i++ {
		next := factory.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestConcurrentNextIsUnique(t *testing.T) {
	factory, err := NewSnowflakeFactory("STATION-01")
	require.NoError(t, err)

	const workers, perWorker = 8, 200

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := factory.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestStationsMapToStableNodes(t *testing.T) {
	a1, err := NewSnowflakeFactory("STATION-A")
	require.NoError(t, err)
	a2, err := NewSnowflakeFactory("STATION-A")
	require.NoError(t, err)

	// Same station, same node component.
	const nodeMask = int64(0x3FF << 12)
	assert.Equal(t, a1.Next()&nodeMask, a2.Next()&nodeMask)
}
