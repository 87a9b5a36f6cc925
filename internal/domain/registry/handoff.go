package registry

import (
	"sync/atomic"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

// handoffNode is one link in the lock-free MPSC stack backing C5: the
// queue a participant is pushed onto when its configuration routine (C4)
// finishes, drained by the tick driver (C6a) to perform the actual
// CONFIG→PLAY transition on the single tick thread.
type handoffNode struct {
	participant *model.Participant
	next        *handoffNode
}

// handoffQueue is a Treiber-stack MPSC: any number of configuration
// goroutines push concurrently via one CAS each; only the tick driver
// ever drains, single-threaded, so the drain side needs no
// synchronization beyond the one atomic swap. Pushing onto a stack and
// reversing on drain keeps Drain FIFO in per-pusher order without
// needing a tail pointer or a lock, the same trade the original
// reference core's connection-manager makes for its pending-add queue.
type handoffQueue struct {
	head atomic.Pointer[handoffNode]
}

func newHandoffQueue() *handoffQueue {
	return &handoffQueue{}
}

// Push enqueues a participant for handoff. Safe to call from any number
// of concurrent configuration-routine goroutines.
func (q *handoffQueue) Push(p *model.Participant) {
	node := &handoffNode{participant: p}
	for {
		old := q.head.Load()
		node.next = old
		if q.head.CompareAndSwap(old, node) {
			return
		}
	}
}

// Drain atomically detaches every pending node and returns the
// participants in push order (oldest first). Intended to be called only
// from the tick driver (C6a); concurrent Drain calls would each see a
// disjoint subset of pushes racing in, which is never how this queue is used.
func (q *handoffQueue) Drain() []*model.Participant {
	head := q.head.Swap(nil)
	if head == nil {
		return nil
	}

	// head is last-pushed-first; reverse the list to restore push order.
	var reversed *handoffNode
	for n := head; n != nil; {
		next := n.next
		n.next = reversed
		reversed = n
		n = next
	}

	var out []*model.Participant
	for n := reversed; n != nil; n = n.next {
		out = append(out, n.participant)
	}
	return out
}
