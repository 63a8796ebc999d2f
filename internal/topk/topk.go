// Package topk selects the k most extreme elements of a sequence without
// sorting all of it.
//
// Selection keeps a bounded binary heap of k entries whose root is the worst
// entry retained so far. Each further element is compared against the root
// and replaces it when better, so a pass over n elements costs O(n log k)
// instead of the O(n log n) of a full sort.
//
// The result is not ordered, and elements with equal keys may be kept or
// dropped in any order.
package topk

import (
	"cmp"
	"container/heap"
	"iter"
	"slices"
)

// All passed as k selects every element, fully sorted.
const All = -1

// TopK returns the k elements of items with the least keys, or the greatest
// keys when reverse is set. If k is negative the whole slice is returned
// sorted by key, ascending (descending when reverse is set). Each key is
// computed once.
func TopK[T any, K cmp.Ordered](items []T, k int, key func(T) K, reverse bool) []T {
	return TopKSeq(slices.Values(items), k, key, reverse)
}

// TopKSeq is TopK over an iterator.
func TopKSeq[T any, K cmp.Ordered](seq iter.Seq[T], k int, key func(T) K, reverse bool) []T {
	if k < 0 {
		return sortAll(seq, key, reverse)
	}
	if k == 0 {
		return []T{}
	}

	h := &boundedHeap[T, K]{reverse: reverse}
	for item := range seq {
		e := entry[T, K]{item: item, key: key(item)}
		switch {
		case len(h.entries) < k:
			heap.Push(h, e)
		case h.better(e.key, h.entries[0].key):
			h.entries[0] = e
			heap.Fix(h, 0)
		}
	}

	out := make([]T, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.item
	}
	return out
}

func sortAll[T any, K cmp.Ordered](seq iter.Seq[T], key func(T) K, reverse bool) []T {
	var entries []entry[T, K]
	for item := range seq {
		entries = append(entries, entry[T, K]{item: item, key: key(item)})
	}
	slices.SortStableFunc(entries, func(a, b entry[T, K]) int {
		if reverse {
			return cmp.Compare(b.key, a.key)
		}
		return cmp.Compare(a.key, b.key)
	})
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}

type entry[T any, K cmp.Ordered] struct {
	item T
	key  K
}

// boundedHeap keeps the worst retained entry at the root.
type boundedHeap[T any, K cmp.Ordered] struct {
	entries []entry[T, K]
	reverse bool
}

// better reports whether key a should be kept in preference to key b.
func (h *boundedHeap[T, K]) better(a, b K) bool {
	if h.reverse {
		return cmp.Less(b, a)
	}
	return cmp.Less(a, b)
}

func (h *boundedHeap[T, K]) Len() int { return len(h.entries) }

// Less orders worse entries first so the root is the first to be replaced.
func (h *boundedHeap[T, K]) Less(i, j int) bool {
	return h.better(h.entries[j].key, h.entries[i].key)
}

func (h *boundedHeap[T, K]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *boundedHeap[T, K]) Push(x any) { h.entries = append(h.entries, x.(entry[T, K])) }

func (h *boundedHeap[T, K]) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}
