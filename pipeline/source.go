package pipeline

import (
	"context"
	"iter"

	"github.com/kbukum/seqkit/errors"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next() (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Sequence is a pull source. Each call to Cursor starts a traversal; single-pass
// sources return the same shared cursor every time.
type Sequence[T any] interface {
	Cursor() Iterator[T]
}

// Sized is implemented by sequences that know their length. A negative
// length means unknown.
type Sized interface {
	Len() int
}

// Indexed is implemented by sequences with constant-time random access.
type Indexed[T any] interface {
	Len() int
	At(i int) T
}

// Unordered is implemented by set-shaped sequences whose encounter order
// carries no meaning. Reverse is unsupported on them.
type Unordered interface {
	Unordered() bool
}

// Unbounded is implemented by sequences known to be infinite. Operators that
// must materialise their input fail fast on them.
type Unbounded interface {
	Unbounded() bool
}

// ContextIterator is a pull iterator that takes a context on every call.
type ContextIterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

func sizeOf[T any](s Sequence[T]) int {
	if sz, ok := s.(Sized); ok {
		return sz.Len()
	}
	return -1
}

func isUnbounded[T any](s Sequence[T]) bool {
	u, ok := s.(Unbounded)
	return ok && u.Unbounded()
}

func isUnordered[T any](s Sequence[T]) bool {
	u, ok := s.(Unordered)
	return ok && u.Unordered()
}

// --- Constructors ---

// Wrap creates a pipeline over any sequence.
func Wrap[T any](src Sequence[T]) *Pipeline[T] {
	if src == nil {
		return failed[T](errors.InvalidArgument("source", "must not be nil"))
	}
	return newPipeline(src)
}

// FromSlice creates a pipeline over a slice. The slice is not copied.
func FromSlice[T any](items []T) *Pipeline[T] {
	return newPipeline[T](&sliceSeq[T]{items: items})
}

// Of creates a pipeline over the given values.
func Of[T any](items ...T) *Pipeline[T] {
	return FromSlice(items)
}

// Range creates a pipeline over start, start+step, ... up to but excluding stop.
func Range(start, stop, step int) *Pipeline[int] {
	if step == 0 {
		return failed[int](errors.InvalidArgument("step", "must not be zero"))
	}
	return newPipeline[int](&rangeSeq{start: start, stop: stop, step: step})
}

// FromString creates a pipeline over the runes of s.
func FromString(s string) *Pipeline[rune] {
	return FromSlice([]rune(s))
}

// FromBytes creates a pipeline over a byte slice.
func FromBytes(b []byte) *Pipeline[byte] {
	return FromSlice(b)
}

// FromSet creates a set-shaped pipeline. Duplicates are dropped and the
// remaining items keep their first-seen order, but the sequence reports
// itself as unordered.
func FromSet[T comparable](items ...T) *Pipeline[T] {
	seen := make(map[T]struct{}, len(items))
	unique := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		unique = append(unique, item)
	}
	return newPipeline[T](&setSeq[T]{items: unique})
}

// FromMapKeys creates a set-shaped pipeline over the keys of m.
func FromMapKeys[K comparable, V any](m map[K]V) *Pipeline[K] {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return newPipeline[K](&setSeq[K]{items: keys})
}

// FromSeq creates a pipeline over a range-over-func sequence. Every traversal
// restarts seq. Values are pulled through iter.Pull, so a handle abandoned
// before exhaustion keeps seq suspended until Close is called.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	if seq == nil {
		return failed[T](errors.InvalidArgument("seq", "must not be nil"))
	}
	return newPipeline[T](&lazySeq[T]{open: func() Iterator[T] {
		next, stop := iter.Pull(seq)
		return &pullIter[T]{next: next, stop: stop}
	}})
}

// FromFunc creates a single-pass pipeline from a pull function.
func FromFunc[T any](pull func() (T, bool, error)) *Pipeline[T] {
	if pull == nil {
		return failed[T](errors.InvalidArgument("pull", "must not be nil"))
	}
	return newPipeline[T](&cursorSeq[T]{it: &funcIter[T]{pull: pull}})
}

// FromChan creates a single-pass pipeline that receives from ch until it is
// closed or ctx is done.
func FromChan[T any](ctx context.Context, ch <-chan T) *Pipeline[T] {
	if ch == nil {
		return failed[T](errors.InvalidArgument("ch", "must not be nil"))
	}
	return newPipeline[T](&cursorSeq[T]{it: &chanIter[T]{ctx: ctx, ch: ch}})
}

// FromIterator creates a single-pass pipeline over a context-aware iterator,
// passing ctx to every pull.
func FromIterator[T any](ctx context.Context, it ContextIterator[T]) *Pipeline[T] {
	if it == nil {
		return failed[T](errors.InvalidArgument("iterator", "must not be nil"))
	}
	return newPipeline[T](&cursorSeq[T]{it: &ctxIter[T]{ctx: ctx, source: it}})
}

// Count creates an infinite pipeline start, start+step, ...
func Count(start, step int) *Pipeline[int] {
	return newPipeline[int](&lazySeq[int]{
		open: func() Iterator[int] {
			n := start
			return &funcIter[int]{pull: func() (int, bool, error) {
				v := n
				n += step
				return v, true, nil
			}}
		},
		unbounded: true,
	})
}

// Repeat creates an infinite pipeline yielding v.
func Repeat[T any](v T) *Pipeline[T] {
	return Generate(func() T { return v })
}

// Generate creates an infinite pipeline yielding successive results of fn.
func Generate[T any](fn func() T) *Pipeline[T] {
	if fn == nil {
		return failed[T](errors.InvalidArgument("fn", "must not be nil"))
	}
	return newPipeline[T](&lazySeq[T]{
		open: func() Iterator[T] {
			return &funcIter[T]{pull: func() (T, bool, error) { return fn(), true, nil }}
		},
		unbounded: true,
	})
}

// --- Sequences ---

type sliceSeq[T any] struct {
	items []T
}

func (s *sliceSeq[T]) Cursor() Iterator[T] { return &sliceIter[T]{items: s.items} }
func (s *sliceSeq[T]) Len() int            { return len(s.items) }
func (s *sliceSeq[T]) At(i int) T          { return s.items[i] }

type setSeq[T any] struct {
	items []T
}

func (s *setSeq[T]) Cursor() Iterator[T] { return &sliceIter[T]{items: s.items} }
func (s *setSeq[T]) Len() int            { return len(s.items) }
func (s *setSeq[T]) Unordered() bool     { return true }

type rangeSeq struct {
	start, stop, step int
}

func (s *rangeSeq) Len() int {
	if s.step > 0 && s.start < s.stop {
		return (s.stop - s.start + s.step - 1) / s.step
	}
	if s.step < 0 && s.start > s.stop {
		return (s.start - s.stop - s.step - 1) / -s.step
	}
	return 0
}

func (s *rangeSeq) At(i int) int { return s.start + i*s.step }

func (s *rangeSeq) Cursor() Iterator[int] {
	return &indexIter[int]{src: s, n: s.Len()}
}

// lazySeq builds a fresh iterator per traversal. Derived sequences use it.
type lazySeq[T any] struct {
	open      func() Iterator[T]
	size      func() int
	unbounded bool
}

func (s *lazySeq[T]) Cursor() Iterator[T] { return s.open() }
func (s *lazySeq[T]) Unbounded() bool     { return s.unbounded }

func (s *lazySeq[T]) Len() int {
	if s.size == nil {
		return -1
	}
	return s.size()
}

// cursorSeq exposes one live iterator as a single-pass sequence.
type cursorSeq[T any] struct {
	it        Iterator[T]
	unbounded bool
}

func (s *cursorSeq[T]) Cursor() Iterator[T] { return s.it }
func (s *cursorSeq[T]) Unbounded() bool     { return s.unbounded }

type emptySeq[T any] struct{}

func (emptySeq[T]) Cursor() Iterator[T] { return &sliceIter[T]{} }
func (emptySeq[T]) Len() int            { return 0 }
