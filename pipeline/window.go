package pipeline

import (
	"github.com/eapache/queue"

	"github.com/kbukum/seqkit/validation"
)

// Slide yields windows of window consecutive values, consecutive windows
// sharing overlap values. If values arrived after the last full window, a
// final window is emitted with the missing slots set to pad.
func Slide[T any](p *Pipeline[T], window, overlap int, pad T) *Pipeline[[]T] {
	if p.err != nil {
		return failed[[]T](p.err)
	}
	v := validation.New().Positive("window", window)
	if window > 0 {
		v.Range("overlap", overlap, 0, window-1)
	}
	if err := v.Error(); err != nil {
		return failed[[]T](err)
	}
	return retype(p, func(up Sequence[T]) Iterator[[]T] {
		return &slideIter[T]{source: up.Cursor(), window: window, overlap: overlap, pad: pad, deque: queue.New()}
	})
}

// Pairwise yields non-overlapping pairs, padding the last one if needed.
func Pairwise[T any](p *Pipeline[T], pad T) *Pipeline[[]T] {
	return Slide(p, 2, 0, pad)
}

type slideIter[T any] struct {
	source  Iterator[T]
	window  int
	overlap int
	pad     T
	deque   *queue.Queue
	// fresh counts values admitted since the last emitted window.
	fresh int
	done  bool
}

func (it *slideIter[T]) Next() ([]T, bool, error) {
	for !it.done {
		v, ok, err := it.source.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			if it.fresh == 0 {
				return nil, false, nil
			}
			it.fresh = 0
			return it.snapshot(), true, nil
		}
		it.deque.Add(v)
		it.fresh++
		if it.deque.Length() == it.window {
			out := it.snapshot()
			for range it.window - it.overlap {
				it.deque.Remove()
			}
			it.fresh = 0
			return out, true, nil
		}
	}
	return nil, false, nil
}

// snapshot copies the deque into a window, right-padded with pad.
func (it *slideIter[T]) snapshot() []T {
	out := make([]T, it.window)
	n := it.deque.Length()
	for i := range out {
		if i < n {
			// A nil interface value fails the assertion and stays zero.
			out[i], _ = it.deque.Get(i).(T)
		} else {
			out[i] = it.pad
		}
	}
	return out
}

func (it *slideIter[T]) Close() error { return it.source.Close() }
