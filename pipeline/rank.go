package pipeline

import (
	"cmp"
	"container/heap"
	"slices"
)

// Top yields the n largest values, largest first.
func Top[T cmp.Ordered](p *Pipeline[T], n int) *Pipeline[T] {
	return TopBy(p, n, By(identity[T]))
}

// TopBy yields the n values with the largest keys, largest first. Values
// with equal keys keep their encounter order.
func TopBy[T any, K cmp.Ordered](p *Pipeline[T], n int, key Key[T, K]) *Pipeline[T] {
	return rank(p, "top", n, key, true)
}

// Bottom yields the n smallest values, smallest first.
func Bottom[T cmp.Ordered](p *Pipeline[T], n int) *Pipeline[T] {
	return BottomBy(p, n, By(identity[T]))
}

// BottomBy yields the n values with the smallest keys, smallest first.
func BottomBy[T any, K cmp.Ordered](p *Pipeline[T], n int, key Key[T, K]) *Pipeline[T] {
	return rank(p, "bottom", n, key, false)
}

// rank keeps the best n values in a heap whose root is the worst retained
// one, so memory stays O(n) while the whole input is read.
func rank[T any, K cmp.Ordered](p *Pipeline[T], op string, n int, key Key[T, K], largest bool) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	fn, err := key.resolve()
	if err != nil {
		return p.fail(err)
	}
	if n <= 0 {
		return p.rebind(emptySeq[T]{})
	}
	up := p.source()
	if err := guardFinite(op, up); err != nil {
		return p.fail(err)
	}

	// better reports whether a ranks ahead of b.
	better := func(a, b ranked[T, K]) bool {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return (c > 0) == largest
		}
		return a.seq < b.seq
	}

	return p.rebind(&lazySeq[T]{open: func() Iterator[T] {
		it := up.Cursor()
		return &deferredIter[T]{
			fill: func() ([]T, error) {
				h := &rankHeap[T, K]{worse: func(a, b ranked[T, K]) bool { return better(b, a) }}
				seq := 0
				err := forEach(it, func(v T) {
					r := ranked[T, K]{item: v, key: fn(v), seq: seq}
					seq++
					if h.Len() < n {
						heap.Push(h, r)
					} else if better(r, h.items[0]) {
						h.items[0] = r
						heap.Fix(h, 0)
					}
				})
				if err != nil {
					return nil, err
				}
				slices.SortFunc(h.items, func(a, b ranked[T, K]) int {
					if better(a, b) {
						return -1
					}
					return 1
				})
				out := make([]T, len(h.items))
				for i, r := range h.items {
					out[i] = r.item
				}
				return out, nil
			},
			closer: it.Close,
		}
	}})
}

type ranked[T any, K cmp.Ordered] struct {
	item T
	key  K
	seq  int
}

// rankHeap is a container/heap with the worst retained value at the root.
type rankHeap[T any, K cmp.Ordered] struct {
	items []ranked[T, K]
	worse func(a, b ranked[T, K]) bool
}

func (h *rankHeap[T, K]) Len() int           { return len(h.items) }
func (h *rankHeap[T, K]) Less(i, j int) bool { return h.worse(h.items[i], h.items[j]) }
func (h *rankHeap[T, K]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *rankHeap[T, K]) Push(x any)         { h.items = append(h.items, x.(ranked[T, K])) }

func (h *rankHeap[T, K]) Pop() any {
	old := h.items
	last := old[len(old)-1]
	h.items = old[:len(old)-1]
	return last
}
