package pipeline

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/validation"
)

// counter pulls from a terminal's handle and counts values for tracking.
type counter[T any] struct {
	h *Pipeline[T]
	n int
	// exhausted is set once the iterator reported its end.
	exhausted bool
}

func (c *counter[T]) next() (T, bool, error) {
	v, ok, err := c.h.pull()
	if ok {
		c.n++
	} else if err == nil {
		c.exhausted = true
	}
	return v, ok, err
}

// begin prepares a terminal: it picks the handle to consume, rejects a
// known-infinite input when finite is set, and starts tracking.
func begin[T any](p *Pipeline[T], op string, finite bool) (*counter[T], *observability.Tracker, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	t := p.terminal()
	if finite {
		if err := guardFinite(op, t.seq); err != nil {
			return nil, nil, err
		}
	}
	return &counter[T]{h: t}, observability.Track(op), nil
}

// finish closes an exhausted iterator and ends tracking. A close error is
// reported when the terminal itself succeeded.
func finish[T any](c *counter[T], tr *observability.Tracker, err *error) {
	if c.exhausted {
		if cerr := c.h.iter().Close(); cerr != nil && *err == nil {
			*err = cerr
		}
	}
	tr.Pulled(c.n)
	tr.End(*err)
}

// first pulls the first value matching pred (nil matches all). When required
// is set a miss is EMPTY_RESULT.
func (p *Pipeline[T]) first(op string, pred func(T) bool, required bool) (v T, found bool, err error) {
	c, tr, err := begin(p, op, false)
	if err != nil {
		return v, false, err
	}
	defer finish(c, tr, &err)
	for {
		v, ok, err := c.next()
		if err != nil {
			return v, false, err
		}
		if !ok {
			if required {
				return v, false, errors.EmptyResult(op)
			}
			return v, false, nil
		}
		if pred == nil || pred(v) {
			return v, true, nil
		}
	}
}

// First returns the first value, or EMPTY_RESULT.
func (p *Pipeline[T]) First() (T, error) {
	return p.FirstWhere(nil)
}

// FirstWhere returns the first value satisfying pred, or EMPTY_RESULT.
func (p *Pipeline[T]) FirstWhere(pred func(T) bool) (T, error) {
	v, _, err := p.first("first", pred, true)
	return v, err
}

// FirstOrDefault returns the first value satisfying pred (nil matches all),
// or def when there is none.
func (p *Pipeline[T]) FirstOrDefault(pred func(T) bool, def T) (T, error) {
	v, ok, err := p.first("first_or_default", pred, false)
	if err != nil {
		return v, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// single pulls up to two matching values. When required is set no match is
// EMPTY_RESULT.
func (p *Pipeline[T]) single(op string, pred func(T) bool, required bool) (v T, found bool, err error) {
	c, tr, err := begin(p, op, false)
	if err != nil {
		return v, false, err
	}
	defer finish(c, tr, &err)

	matches := make([]T, 0, 2)
	for len(matches) < 2 {
		item, ok, err := c.next()
		if err != nil {
			return v, false, err
		}
		if !ok {
			break
		}
		if pred == nil || pred(item) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		if required {
			return v, false, errors.EmptyResult(op)
		}
		return v, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return v, false, errors.MultiplicityViolation(matches[0], matches[1])
	}
}

// Single returns the only value. No value is EMPTY_RESULT; two or more is
// MULTIPLICITY_VIOLATION carrying the first two.
func (p *Pipeline[T]) Single() (T, error) {
	return p.SingleWhere(nil)
}

// SingleWhere returns the only value satisfying pred.
func (p *Pipeline[T]) SingleWhere(pred func(T) bool) (T, error) {
	v, _, err := p.single("single", pred, true)
	return v, err
}

// SingleOrDefault is SingleWhere returning def instead of EMPTY_RESULT.
// Two or more matches are still an error.
func (p *Pipeline[T]) SingleOrDefault(pred func(T) bool, def T) (T, error) {
	v, ok, err := p.single("single_or_default", pred, false)
	if err != nil {
		return v, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// at reads the value at index. When required is set a miss is
// ELEMENT_NOT_FOUND.
func (p *Pipeline[T]) at(index int, required bool) (v T, found bool, err error) {
	if err := validation.New().NonNegative("index", index).Error(); err != nil {
		return v, false, err
	}
	if p.err == nil && (p.snapPending || p.cur == nil) {
		if idx, ok := p.seq.(Indexed[T]); ok {
			if index < idx.Len() {
				return idx.At(index), true, nil
			}
			if required {
				return v, false, errors.ElementNotFound(index)
			}
			return v, false, nil
		}
	}

	c, tr, err := begin(p, "at", false)
	if err != nil {
		return v, false, err
	}
	defer finish(c, tr, &err)
	for i := 0; ; i++ {
		item, ok, err := c.next()
		if err != nil {
			return v, false, err
		}
		if !ok {
			if required {
				return v, false, errors.ElementNotFound(index)
			}
			return v, false, nil
		}
		if i == index {
			return item, true, nil
		}
	}
}

// At returns the value at index. Indexed sources are read directly; others
// are advanced past the preceding values. Out of range is ELEMENT_NOT_FOUND.
func (p *Pipeline[T]) At(index int) (T, error) {
	v, _, err := p.at(index, true)
	return v, err
}

// AtOrDefault is At returning def when index is out of range.
func (p *Pipeline[T]) AtOrDefault(index int, def T) (T, error) {
	v, ok, err := p.at(index, false)
	if err != nil {
		return v, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Count returns the number of values. Sized sources that have not been
// pulled from report their length without iterating.
func (p *Pipeline[T]) Count() (n int, err error) {
	if p.err != nil {
		return 0, p.err
	}
	if p.snapPending || p.cur == nil {
		if size := sizeOf(p.seq); size >= 0 {
			return size, nil
		}
	}
	c, tr, err := begin(p, "count", true)
	if err != nil {
		return 0, err
	}
	defer finish(c, tr, &err)
	for {
		_, ok, err := c.next()
		if err != nil {
			return c.n, err
		}
		if !ok {
			return c.n, nil
		}
	}
}

// Any reports whether some value satisfies pred. A nil pred asks whether
// the output is non-empty.
func (p *Pipeline[T]) Any(pred func(T) bool) (bool, error) {
	_, ok, err := p.first("any", pred, false)
	return ok, err
}

// All reports whether every value satisfies pred. It is true for an empty
// output.
func (p *Pipeline[T]) All(pred func(T) bool) (bool, error) {
	if pred == nil {
		if p.err != nil {
			return false, p.err
		}
		return false, invalidNil("predicate")
	}
	_, found, err := p.first("all", func(v T) bool { return !pred(v) }, false)
	return !found, err
}

// Aggregate folds the values with fn, seeding with the first value. An
// empty output is EMPTY_RESULT.
func (p *Pipeline[T]) Aggregate(fn func(acc, v T) T) (acc T, err error) {
	if p.err != nil {
		return acc, p.err
	}
	if fn == nil {
		return acc, invalidNil("by")
	}
	c, tr, err := begin(p, "aggregate", true)
	if err != nil {
		return acc, err
	}
	defer finish(c, tr, &err)

	acc, ok, err := c.next()
	if err != nil {
		return acc, err
	}
	if !ok {
		return acc, errors.EmptyResult("aggregate")
	}
	for {
		v, ok, err := c.next()
		if err != nil {
			return acc, err
		}
		if !ok {
			return acc, nil
		}
		acc = fn(acc, v)
	}
}

// AggregateFrom folds the values with fn starting from initial, which is
// also the result for an empty output.
func (p *Pipeline[T]) AggregateFrom(initial T, fn func(acc, v T) T) (T, error) {
	return fold(p, "aggregate", initial, fn)
}

// Fold folds the values into an accumulator of any type.
func Fold[T, R any](p *Pipeline[T], initial R, fn func(acc R, v T) R) (R, error) {
	return fold(p, "fold", initial, fn)
}

func fold[T, R any](p *Pipeline[T], op string, initial R, fn func(acc R, v T) R) (acc R, err error) {
	if p.err != nil {
		return acc, p.err
	}
	if fn == nil {
		return acc, invalidNil("by")
	}
	c, tr, err := begin(p, op, true)
	if err != nil {
		return acc, err
	}
	defer finish(c, tr, &err)

	acc = initial
	for {
		v, ok, err := c.next()
		if err != nil {
			return acc, err
		}
		if !ok {
			return acc, nil
		}
		acc = fn(acc, v)
	}
}

// CollectToList returns the remaining values as a slice.
func (p *Pipeline[T]) CollectToList() (items []T, err error) {
	c, tr, err := begin(p, "collect_to_list", true)
	if err != nil {
		return nil, err
	}
	defer finish(c, tr, &err)
	items = []T{}
	for {
		v, ok, err := c.next()
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, v)
	}
}

// CollectToMap groups the values by key.
func CollectToMap[T any, K comparable](p *Pipeline[T], key Key[T, K]) (out map[K][]T, err error) {
	fn, err := key.resolve()
	if err != nil {
		return nil, err
	}
	c, tr, err := begin(p, "collect_to_map", true)
	if err != nil {
		return nil, err
	}
	defer finish(c, tr, &err)

	keys, groups, err := groupInto(&countingIter[T]{c: c}, fn)
	if err != nil {
		return nil, err
	}
	out = make(map[K][]T, len(keys))
	for i, k := range keys {
		out[k] = groups[i]
	}
	return out, nil
}

// countingIter adapts a counter back to an Iterator. Close is a no-op so
// the handle's cursor stays open.
type countingIter[T any] struct {
	c *counter[T]
}

func (it *countingIter[T]) Next() (T, bool, error) { return it.c.next() }
func (it *countingIter[T]) Close() error           { return nil }

// Max returns the largest value, or EMPTY_RESULT.
func Max[T cmp.Ordered](p *Pipeline[T]) (T, error) {
	return MaxBy(p, By(identity[T]))
}

// MaxBy returns the first value with the largest key.
func MaxBy[T any, K cmp.Ordered](p *Pipeline[T], key Key[T, K]) (T, error) {
	return extreme(p, "max", key, 1)
}

// Min returns the smallest value, or EMPTY_RESULT.
func Min[T cmp.Ordered](p *Pipeline[T]) (T, error) {
	return MinBy(p, By(identity[T]))
}

// MinBy returns the first value with the smallest key.
func MinBy[T any, K cmp.Ordered](p *Pipeline[T], key Key[T, K]) (T, error) {
	return extreme(p, "min", key, -1)
}

func extreme[T any, K cmp.Ordered](p *Pipeline[T], op string, key Key[T, K], sign int) (best T, err error) {
	fn, err := key.resolve()
	if err != nil {
		return best, err
	}
	c, tr, err := begin(p, op, true)
	if err != nil {
		return best, err
	}
	defer finish(c, tr, &err)

	best, ok, err := c.next()
	if err != nil {
		return best, err
	}
	if !ok {
		return best, errors.EmptyResult(op)
	}
	bestKey := fn(best)
	for {
		v, ok, err := c.next()
		if err != nil {
			return best, err
		}
		if !ok {
			return best, nil
		}
		if k := fn(v); cmp.Compare(k, bestKey)*sign > 0 {
			best, bestKey = v, k
		}
	}
}

// Contains reports whether item occurs in the output. It stops at the first
// match, so it terminates on infinite sources that contain item.
func Contains[T comparable](p *Pipeline[T], item T) (bool, error) {
	_, ok, err := p.first("contains", func(v T) bool { return v == item }, false)
	return ok, err
}

// Equals compares the output with other value by value, in order; different
// lengths are unequal. With bagCompare the distinct values of both sides are
// compared as sets, ignoring order and repetition.
func Equals[T comparable](p *Pipeline[T], other Sequence[T], bagCompare bool) (equal bool, err error) {
	if other == nil {
		return false, invalidNil("other")
	}
	c, tr, err := begin(p, "equals", true)
	if err != nil {
		return false, err
	}
	defer finish(c, tr, &err)
	if err := guardFinite("equals", other); err != nil {
		return false, err
	}

	o := other.Cursor()
	if !bagCompare {
		for {
			a, okA, err := c.next()
			if err != nil {
				return false, err
			}
			b, okB, err := o.Next()
			if err != nil {
				return false, err
			}
			if okA != okB || (okA && a != b) {
				return false, nil
			}
			if !okA {
				return true, nil
			}
		}
	}

	mine := make(map[T]struct{})
	if err := forEach(&countingIter[T]{c: c}, func(v T) { mine[v] = struct{}{} }); err != nil {
		return false, err
	}
	theirs := make(map[T]struct{})
	if err := forEach(o, func(v T) { theirs[v] = struct{}{} }); err != nil {
		return false, err
	}
	if len(mine) != len(theirs) {
		return false, nil
	}
	for v := range mine {
		if _, ok := theirs[v]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// MostCommon returns the n most frequent distinct values, most frequent
// first; ties keep first-seen order. Fewer than n distinct values is
// INSUFFICIENT_ELEMENTS.
func MostCommon[T comparable](p *Pipeline[T], n int) (top []T, err error) {
	if err := validation.New().Positive("n", n).Error(); err != nil {
		return nil, err
	}
	c, tr, err := begin(p, "most_common", true)
	if err != nil {
		return nil, err
	}
	defer finish(c, tr, &err)

	keys, groups, err := groupInto(&countingIter[T]{c: c}, identity[T])
	if err != nil {
		return nil, err
	}
	if len(keys) < n {
		return nil, errors.InsufficientElements(n, len(keys))
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(len(groups[b]), len(groups[a]))
	})
	top = make([]T, n)
	for i := range top {
		top[i] = keys[order[i]]
	}
	return top, nil
}

// BinarySearch finds a value whose key equals target in output sorted
// ascending by key. Indexed sources are probed directly; others are
// materialised first. No match is ELEMENT_NOT_FOUND.
func BinarySearch[T any, K cmp.Ordered](p *Pipeline[T], target K, key Key[T, K]) (T, error) {
	v, ok, err := binarySearch(p, target, key)
	if err == nil && !ok {
		err = errors.New(errors.ErrCodeElementNotFound, fmt.Sprintf("no item with key %v", target)).
			WithDetail("target", target)
	}
	return v, err
}

// BinarySearchOrDefault is BinarySearch returning def when nothing matches.
func BinarySearchOrDefault[T any, K cmp.Ordered](p *Pipeline[T], target K, key Key[T, K], def T) (T, error) {
	v, ok, err := binarySearch(p, target, key)
	if err != nil {
		return v, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func binarySearch[T any, K cmp.Ordered](p *Pipeline[T], target K, key Key[T, K]) (v T, found bool, err error) {
	fn, err := key.resolve()
	if err != nil {
		return v, false, err
	}
	if p.err != nil {
		return v, false, p.err
	}

	var idx Indexed[T]
	t := p.terminal()
	if ix, ok := t.seq.(Indexed[T]); ok && t.cur == nil {
		idx = ix
	} else {
		items, err := t.CollectToList()
		if err != nil {
			return v, false, err
		}
		idx = &sliceSeq[T]{items: items}
	}

	lo, hi := 0, idx.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := cmp.Compare(fn(idx.At(mid)), target); {
		case c == 0:
			return idx.At(mid), true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return v, false, nil
}
