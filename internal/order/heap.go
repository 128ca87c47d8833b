package order

import (
	"container/heap"

	"wfsim/internal/domain"
)

// keyedItem is a ready task tagged with its two-level sort key. Ties within
// equal (k1, k2) are always broken by id ascending, matching spec.md's
// "ties are always broken by task id" rule for every ordering policy.
type keyedItem struct {
	k1, k2 int64
	id     domain.TaskID
}

func itemLess(a, b keyedItem) bool {
	if a.k1 != b.k1 {
		return a.k1 < b.k1
	}
	if a.k2 != b.k2 {
		return a.k2 < b.k2
	}
	return a.id < b.id
}

type keyedHeap []keyedItem

func (h keyedHeap) Len() int            { return len(h) }
func (h keyedHeap) Less(i, j int) bool  { return itemLess(h[i], h[j]) }
func (h keyedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *keyedHeap) Push(x interface{}) { *h = append(*h, x.(keyedItem)) }
func (h *keyedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// readyQueue is the shared priority-view implementation behind FCFS, SJF,
// and EWF. Removal is lazy: Remove only flips a presence flag, and stale
// entries are discarded the next time NextCandidate walks past them. This
// keeps Remove O(log n) amortized without a decrease-key heap.
type readyQueue struct {
	h       keyedHeap
	present map[domain.TaskID]bool
}

func newReadyQueue() *readyQueue {
	q := &readyQueue{present: make(map[domain.TaskID]bool)}
	heap.Init(&q.h)
	return q
}

func (q *readyQueue) register(k1, k2 int64, id domain.TaskID) {
	heap.Push(&q.h, keyedItem{k1: k1, k2: k2, id: id})
	q.present[id] = true
}

func (q *readyQueue) remove(id domain.TaskID) {
	delete(q.present, id)
}

func (q *readyQueue) next() (domain.TaskID, bool) {
	for q.h.Len() > 0 {
		top := q.h[0]
		if !q.present[top.id] {
			heap.Pop(&q.h)
			continue
		}
		return top.id, true
	}
	return 0, false
}
