package igraph

import "testing"

func TestMemoryEngine(t *testing.T) {
	t.Parallel()

	graphTest(t, MemoryEngine{}, 10_000)
}
