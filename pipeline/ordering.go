package pipeline

import (
	"cmp"
	"slices"
)

// Distinct drops repeated values. With preserveOrder it streams, keeping the
// first occurrence of each value, and works on infinite sources. Without it
// the input is deduplicated as a set and the output order is unspecified.
func Distinct[T comparable](p *Pipeline[T], preserveOrder bool) *Pipeline[T] {
	if preserveOrder {
		return DistinctBy(p, By(identity[T]))
	}
	if p.err != nil {
		return p
	}
	up := p.source()
	if err := guardFinite("distinct", up); err != nil {
		return p.fail(err)
	}
	return p.rebind(&lazySeq[T]{open: func() Iterator[T] {
		it := up.Cursor()
		return &deferredIter[T]{
			fill: func() ([]T, error) {
				set := make(map[T]struct{})
				if err := forEach(it, func(v T) { set[v] = struct{}{} }); err != nil {
					return nil, err
				}
				items := make([]T, 0, len(set))
				for v := range set {
					items = append(items, v)
				}
				return items, nil
			},
			closer: it.Close,
		}
	}})
}

// DistinctBy streams values whose key has not been seen before.
func DistinctBy[T any, K comparable](p *Pipeline[T], key Key[T, K]) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	fn, err := key.resolve()
	if err != nil {
		return p.fail(err)
	}
	return p.derive(func(up Sequence[T]) Iterator[T] {
		seen := make(map[K]struct{})
		return &filterIter[T]{source: up.Cursor(), fn: func(v T) bool {
			k := fn(v)
			if _, ok := seen[k]; ok {
				return false
			}
			seen[k] = struct{}{}
			return true
		}}
	})
}

// Order sorts values in their natural order.
func Order[T cmp.Ordered](p *Pipeline[T], ascending bool) *Pipeline[T] {
	return p.OrderFunc(cmp.Compare[T], ascending)
}

// OrderBy sorts values by key. The sort is stable.
func OrderBy[T any, K cmp.Ordered](p *Pipeline[T], key Key[T, K], ascending bool) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	fn, err := key.resolve()
	if err != nil {
		return p.fail(err)
	}
	return p.OrderFunc(func(a, b T) int { return cmp.Compare(fn(a), fn(b)) }, ascending)
}

// OrderFunc sorts values with compare. The sort is stable and happens on the
// first pull, so the source must be finite.
func (p *Pipeline[T]) OrderFunc(compare func(a, b T) int, ascending bool) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if compare == nil {
		return p.fail(invalidNil("compare"))
	}
	up := p.source()
	if err := guardFinite("order", up); err != nil {
		return p.fail(err)
	}
	if !ascending {
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	}
	return p.rebind(&lazySeq[T]{
		open: func() Iterator[T] {
			it := up.Cursor()
			return &deferredIter[T]{
				fill: func() ([]T, error) {
					items, err := drain(it)
					if err != nil {
						return nil, err
					}
					slices.SortStableFunc(items, compare)
					return items, nil
				},
				closer: it.Close,
			}
		},
		size: func() int { return sizeOf(up) },
	})
}

// GroupBy collects values with equal keys into groups, in order of each
// key's first appearance.
func GroupBy[T any, K comparable](p *Pipeline[T], key Key[T, K]) *Pipeline[[]T] {
	if p.err != nil {
		return failed[[]T](p.err)
	}
	fn, err := key.resolve()
	if err != nil {
		return failed[[]T](err)
	}
	up := p.source()
	if err := guardFinite("group_by", up); err != nil {
		return failed[[]T](err)
	}
	return newPipeline[[]T](&lazySeq[[]T]{open: func() Iterator[[]T] {
		it := up.Cursor()
		return &deferredIter[[]T]{
			fill: func() ([][]T, error) {
				_, groups, err := groupInto(it, fn)
				return groups, err
			},
			closer: it.Close,
		}
	}})
}

// groupInto drains it into groups keyed by fn, in first-seen key order.
func groupInto[T any, K comparable](it Iterator[T], fn func(T) K) ([]K, [][]T, error) {
	index := make(map[K]int)
	var keys []K
	var groups [][]T
	err := forEach(it, func(v T) {
		k := fn(v)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			keys = append(keys, k)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], v)
	})
	return keys, groups, err
}

// forEach pulls it to exhaustion, closing it at the end.
func forEach[T any](it Iterator[T], fn func(T)) error {
	for {
		v, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return it.Close()
		}
		fn(v)
	}
}
