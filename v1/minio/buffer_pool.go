package minio

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// BufferPoolConfig limits the buffers kept by a BufferPool.
type BufferPoolConfig struct {
	// MaxBufferSize is the largest buffer returned to the pool; bigger ones are dropped.
	MaxBufferSize int
	// InitialBufferSize is the capacity of newly allocated buffers.
	InitialBufferSize int
}

// DefaultBufferPoolConfig suits small JSON documents.
func DefaultBufferPoolConfig() BufferPoolConfig {
	return BufferPoolConfig{
		MaxBufferSize:     1024 * 1024,
		InitialBufferSize: 4 * 1024,
	}
}

// BufferPool is a sync.Pool of bytes.Buffers that refuses to retain
// oversized buffers.
type BufferPool struct {
	pool   sync.Pool
	config BufferPoolConfig

	created   int64
	reused    int64
	discarded int64
}

// NewBufferPool returns a pool with DefaultBufferPoolConfig.
func NewBufferPool() *BufferPool {
	return NewBufferPoolWithConfig(DefaultBufferPoolConfig())
}

// NewBufferPoolWithConfig returns a pool with the given limits.
func NewBufferPoolWithConfig(config BufferPoolConfig) *BufferPool {
	bp := &BufferPool{config: config}
	bp.pool.New = func() interface{} {
		atomic.AddInt64(&bp.created, 1)
		return bytes.NewBuffer(make([]byte, 0, bp.config.InitialBufferSize))
	}
	return bp
}

// Get returns an empty buffer.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	atomic.AddInt64(&bp.reused, 1)
	return buf
}

// Put returns buf to the pool unless it grew past MaxBufferSize.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > bp.config.MaxBufferSize {
		atomic.AddInt64(&bp.discarded, 1)
		return
	}
	bp.pool.Put(buf)
}

// BufferPoolStats is a snapshot of the pool counters.
type BufferPoolStats struct {
	Created   int64
	Gets      int64
	Discarded int64
}

// Stats returns the current counters.
func (bp *BufferPool) Stats() BufferPoolStats {
	return BufferPoolStats{
		Created:   atomic.LoadInt64(&bp.created),
		Gets:      atomic.LoadInt64(&bp.reused),
		Discarded: atomic.LoadInt64(&bp.discarded),
	}
}
