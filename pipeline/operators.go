package pipeline

import (
	"slices"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/validation"
)

// NoLimit as a Slice stop index means "until the source is exhausted".
const NoLimit = -1

// Where keeps only values that satisfy pred. A nil pred keeps everything.
func (p *Pipeline[T]) Where(pred func(T) bool) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if pred == nil {
		return p.rebind(p.source())
	}
	return p.derive(func(up Sequence[T]) Iterator[T] {
		return &filterIter[T]{source: up.Cursor(), fn: pred}
	})
}

// Exclude drops values that satisfy pred.
func (p *Pipeline[T]) Exclude(pred func(T) bool) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if pred == nil {
		return p.fail(invalidNil("predicate"))
	}
	return p.derive(func(up Sequence[T]) Iterator[T] {
		return &filterIter[T]{source: up.Cursor(), fn: func(v T) bool { return !pred(v) }}
	})
}

// Select maps each value through fn. The returned handle replaces p; keep
// using p only if it was snapped.
func Select[T, U any](p *Pipeline[T], fn func(T) U) *Pipeline[U] {
	if p.err != nil {
		return failed[U](p.err)
	}
	if fn == nil {
		return failed[U](invalidNil("selector"))
	}
	return retype(p, func(up Sequence[T]) Iterator[U] {
		return &mapIter[T, U]{source: up.Cursor(), fn: fn}
	})
}

// Slice yields the values at positions start, start+step, ... before stop.
// Pass NoLimit as stop to run to the end of the source.
func (p *Pipeline[T]) Slice(start, stop, step int) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	v := validation.New().
		NonNegative("start", start).
		Positive("step", step).
		Check(stop >= 0 || stop == NoLimit, "stop", "must be non-negative or NoLimit")
	if err := v.Error(); err != nil {
		return p.fail(err)
	}
	return p.slice(start, stop, step)
}

func (p *Pipeline[T]) slice(start, stop, step int) *Pipeline[T] {
	up := p.source()
	return p.rebind(&lazySeq[T]{
		open: func() Iterator[T] {
			return &sliceRangeIter[T]{source: up.Cursor(), start: start, stop: stop, step: step}
		},
		unbounded: stop == NoLimit && isUnbounded(up),
	})
}

// Take yields at most the first n values.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if err := validation.New().NonNegative("n", n).Error(); err != nil {
		return p.fail(err)
	}
	return p.slice(0, n, 1)
}

// TakeWhere yields at most the first n values that satisfy pred.
func (p *Pipeline[T]) TakeWhere(n int, pred func(T) bool) *Pipeline[T] {
	return p.Where(pred).Take(n)
}

// Skip drops the first n values.
func (p *Pipeline[T]) Skip(n int) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if err := validation.New().NonNegative("n", n).Error(); err != nil {
		return p.fail(err)
	}
	return p.slice(n, NoLimit, 1)
}

// Append yields the current output followed by items.
func (p *Pipeline[T]) Append(items ...T) *Pipeline[T] {
	return p.AppendMany(&sliceSeq[T]{items: slices.Clone(items)})
}

// AppendMany yields the current output followed by the values of other.
func (p *Pipeline[T]) AppendMany(other Sequence[T]) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if other == nil {
		return p.fail(invalidNil("items"))
	}
	return p.concat(false, other)
}

// Prepend yields items followed by the current output.
func (p *Pipeline[T]) Prepend(items ...T) *Pipeline[T] {
	return p.PrependMany(&sliceSeq[T]{items: slices.Clone(items)})
}

// PrependMany yields the values of other followed by the current output.
func (p *Pipeline[T]) PrependMany(other Sequence[T]) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if other == nil {
		return p.fail(invalidNil("items"))
	}
	return p.concat(true, other)
}

func (p *Pipeline[T]) concat(front bool, other Sequence[T]) *Pipeline[T] {
	up := p.source()
	first, second := up, other
	if front {
		first, second = other, up
	}
	size := func() int {
		a, b := sizeOf(first), sizeOf(second)
		if a < 0 || b < 0 {
			return -1
		}
		return a + b
	}
	return p.rebind(&lazySeq[T]{
		open: func() Iterator[T] {
			return &concatIter[T]{parts: []func() Iterator[T]{first.Cursor, second.Cursor}}
		},
		size:      size,
		unbounded: isUnbounded(first) || isUnbounded(second),
	})
}

// Reverse yields the output back to front. Indexed sources are walked
// backwards; other sources are materialised on the first pull. Set-shaped
// sources have no order to reverse.
func (p *Pipeline[T]) Reverse() *Pipeline[T] {
	if p.err != nil {
		return p
	}
	up := p.source()
	if isUnordered(up) {
		return p.fail(errors.Unsupported("reverse", "set-shaped sources have no order"))
	}
	if err := guardFinite("reverse", up); err != nil {
		return p.fail(err)
	}
	if idx, ok := up.(Indexed[T]); ok {
		return p.rebind(&lazySeq[T]{
			open: func() Iterator[T] { return &indexIter[T]{src: idx, n: idx.Len(), reverse: true} },
			size: idx.Len,
		})
	}
	return p.rebind(&lazySeq[T]{open: func() Iterator[T] {
		it := up.Cursor()
		return &deferredIter[T]{
			fill: func() ([]T, error) {
				items, err := drain(it)
				slices.Reverse(items)
				return items, err
			},
			closer: it.Close,
		}
	}})
}
