// Package telemetry provides adapters for collecting and processing telemetry data.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

var errBatcherClosed = zerr.New("module output is closed")

const (
	// DefaultSizeLimit is the batch size that triggers a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is how long complete lines wait before they are flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

// LineBatcher groups the output of one module into batches that always end on
// a line boundary. A single write, such as a compile line followed by its
// diagnostics, is never split between two batches unless it alone exceeds the
// size limit. A trailing partial line waits for its newline or for Close.
type LineBatcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewLineBatcher starts a batcher handing batches to onFlush. Non-positive
// limits select the defaults. Close stops its ticker.
func NewLineBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	lb := &LineBatcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		stopCh:    make(chan struct{}),
		ticker:    time.NewTicker(timeLimit),
	}
	go lb.run()

	return lb
}

// Write queues p. Pending output is flushed first when p would push the batch
// past the size limit.
func (lb *LineBatcher) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return 0, errBatcherClosed
	}

	if lb.buffer.Len() > 0 && lb.buffer.Len()+len(p) > lb.sizeLimit {
		lb.flushLinesLocked()
	}
	lb.buffer.Write(p)

	if lb.buffer.Len() >= lb.sizeLimit {
		if !lb.flushLinesLocked() {
			// One oversized line; holding it would stall the module's output.
			lb.flushAllLocked()
		}
		lb.ticker.Reset(lb.timeLimit)
	}

	return len(p), nil
}

// Flush hands every complete line to the callback.
func (lb *LineBatcher) Flush() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return
	}
	lb.flushLinesLocked()
}

// Close stops the ticker and flushes everything, including a partial line.
func (lb *LineBatcher) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return nil
	}

	lb.closed = true
	close(lb.stopCh)
	lb.flushAllLocked()
	return nil
}

func (lb *LineBatcher) run() {
	for {
		select {
		case <-lb.ticker.C:
			lb.Flush()
		case <-lb.stopCh:
			lb.ticker.Stop()
			return
		}
	}
}

// flushLinesLocked flushes up to the last newline and reports whether anything
// was flushed. mu must be held.
func (lb *LineBatcher) flushLinesLocked() bool {
	end := bytes.LastIndexByte(lb.buffer.Bytes(), '\n')
	if end < 0 {
		return false
	}
	lb.emitLocked(lb.buffer.Next(end + 1))
	return true
}

func (lb *LineBatcher) flushAllLocked() {
	if lb.buffer.Len() == 0 {
		return
	}
	lb.emitLocked(lb.buffer.Next(lb.buffer.Len()))
}

// emitLocked copies data out of the buffer before the callback sees it. It runs
// under mu so batches of one module arrive in write order.
func (lb *LineBatcher) emitLocked(data []byte) {
	batch := bytes.Clone(data)
	if lb.onFlush != nil {
		lb.onFlush(batch)
	}
}
