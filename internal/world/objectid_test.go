package world

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerator_Sequential(t *testing.T) {
	g := NewIDGenerator()

	assert.Equal(t, uint32(1), g.Next())
	assert.Equal(t, uint32(2), g.Next())
}

func TestIDGenerator_SetOnce(t *testing.T) {
	g := NewIDGenerator()
	g.Next()

	g.SetOnce(40)
	assert.Equal(t, uint32(40), g.Next())
	assert.Equal(t, uint32(41), g.Next(), "counter continues after a restored ID")

	g.SetOnce(5)
	g.ClearOnce()
	assert.Equal(t, uint32(42), g.Next())
}

func TestIDGenerator_Concurrent(t *testing.T) {
	g := NewIDGenerator()
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[uint32]bool, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id := g.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
