package engine

import "sync/atomic"

const counterBatch = 1024

// BatchCounter is a per-worker node counter that commits to a shared atomic
// in batches of 1024, keeping the hot path contention free.
type BatchCounter struct {
	buffer    int
	global    *atomic.Uint64
	localIn1K int
}

// NewBatchCounter creates a counter committing into the shared total.
func NewBatchCounter(global *atomic.Uint64) *BatchCounter {
	return &BatchCounter{global: global}
}

// AddSingle counts one node.
func (c *BatchCounter) AddSingle() {
	c.addAmount(1)
}

// AddPair counts two nodes.
func (c *BatchCounter) AddPair() {
	c.addAmount(2)
}

func (c *BatchCounter) addAmount(amount int) {
	c.buffer += amount
	if c.buffer >= counterBatch {
		c.global.Add(1)
		c.localIn1K++
		c.buffer = 0
	}
}

// ClearLocal resets the worker-local tally.
func (c *BatchCounter) ClearLocal() {
	c.buffer = 0
	c.localIn1K = 0
}

// LocalTotal approximates the nodes counted by this worker.
func (c *BatchCounter) LocalTotal() int {
	return c.localIn1K*counterBatch + c.buffer
}
