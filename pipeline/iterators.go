package pipeline

import "context"

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next() (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// indexIter walks an Indexed sequence, backwards when reverse is set.
type indexIter[T any] struct {
	src     Indexed[T]
	n       int
	index   int
	reverse bool
}

func (it *indexIter[T]) Next() (T, bool, error) {
	if it.index >= it.n {
		var zero T
		return zero, false, nil
	}
	i := it.index
	if it.reverse {
		i = it.n - 1 - it.index
	}
	it.index++
	return it.src.At(i), true, nil
}

func (it *indexIter[T]) Close() error { return nil }

type pullIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *pullIter[T]) Next() (T, bool, error) {
	v, ok := it.next()
	return v, ok, nil
}

func (it *pullIter[T]) Close() error {
	it.stop()
	return nil
}

type funcIter[T any] struct {
	pull func() (T, bool, error)
	done bool
}

func (it *funcIter[T]) Next() (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	v, ok, err := it.pull()
	if err != nil || !ok {
		it.done = true
		return zero, false, err
	}
	return v, true, nil
}

func (it *funcIter[T]) Close() error {
	it.done = true
	return nil
}

// chanIter reads values from a channel until it closes or ctx is done.
type chanIter[T any] struct {
	ctx context.Context
	ch  <-chan T
}

func (it *chanIter[T]) Next() (T, bool, error) {
	var zero T
	select {
	case v, open := <-it.ch:
		if !open {
			return zero, false, nil
		}
		return v, true, nil
	case <-it.ctx.Done():
		return zero, false, it.ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return nil }

type ctxIter[T any] struct {
	ctx    context.Context
	source ContextIterator[T]
}

func (it *ctxIter[T]) Next() (T, bool, error) { return it.source.Next(it.ctx) }
func (it *ctxIter[T]) Close() error           { return it.source.Close() }

type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next() (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next() (result T, ok bool, err error) {
	for {
		val, ok, err := it.source.Next()
		if err != nil || !ok {
			return val, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(I) O
}

func (it *mapIter[I, O]) Next() (result O, ok bool, err error) {
	val, ok, err := it.source.Next()
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	return it.fn(val), true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(T) error
}

func (it *tapIter[T]) Next() (result T, ok bool, err error) {
	val, ok, err := it.source.Next()
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

// concatIter opens each part lazily so that prepended values never force
// the upstream cursor.
type concatIter[T any] struct {
	parts []func() Iterator[T]
	cur   Iterator[T]
	index int
	open  []Iterator[T]
}

func (it *concatIter[T]) Next() (result T, ok bool, err error) {
	for it.index < len(it.parts) {
		if it.cur == nil {
			it.cur = it.parts[it.index]()
			it.open = append(it.open, it.cur)
		}
		val, ok, err := it.cur.Next()
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		it.cur = nil
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.open {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sliceRangeIter yields items at positions start, start+step, ... before stop.
// A negative stop means no upper bound.
type sliceRangeIter[T any] struct {
	source Iterator[T]
	start  int
	stop   int
	step   int
	pos    int
	next   int
}

func (it *sliceRangeIter[T]) Next() (result T, ok bool, err error) {
	var zero T
	if it.next < it.start {
		it.next = it.start
	}
	for it.stop < 0 || it.next < it.stop {
		val, ok, err := it.source.Next()
		if err != nil || !ok {
			it.stop = it.pos
			return zero, false, err
		}
		it.pos++
		if it.pos-1 == it.next {
			it.next += it.step
			return val, true, nil
		}
	}
	return zero, false, nil
}

func (it *sliceRangeIter[T]) Close() error { return it.source.Close() }

// deferredIter drains its input on the first pull and replays the
// resulting buffer. Stateful operators use it to stay lazy.
type deferredIter[T any] struct {
	fill   func() ([]T, error)
	closer func() error
	buf    []T
	index  int
	filled bool
}

func (it *deferredIter[T]) Next() (T, bool, error) {
	var zero T
	if !it.filled {
		buf, err := it.fill()
		if err != nil {
			return zero, false, err
		}
		it.buf, it.filled = buf, true
	}
	if it.index >= len(it.buf) {
		return zero, false, nil
	}
	val := it.buf[it.index]
	it.index++
	return val, true, nil
}

func (it *deferredIter[T]) Close() error {
	if it.closer != nil {
		return it.closer()
	}
	return nil
}

// drain pulls it to exhaustion and closes it.
func drain[T any](it Iterator[T]) ([]T, error) {
	var items []T
	for {
		val, ok, err := it.Next()
		if err != nil {
			return items, err
		}
		if !ok {
			return items, it.Close()
		}
		items = append(items, val)
	}
}
