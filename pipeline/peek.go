package pipeline

import (
	"github.com/eapache/queue"

	"github.com/kbukum/seqkit/validation"
)

// Peek returns the next n values without consuming them. Slots past the end
// of the output are set to pad. It works at any point of iteration.
func (p *Pipeline[T]) Peek(n int, pad T) ([]T, error) {
	if p.err != nil {
		return nil, p.err
	}
	if err := validation.New().Positive("n", n).Error(); err != nil {
		return nil, err
	}
	la := p.lookahead()
	if err := la.fill(n); err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		if i < la.ahead.Length() {
			out[i], _ = la.ahead.Get(i).(T)
		} else {
			out[i] = pad
		}
	}
	return out, nil
}

// PeekOne returns the next value without consuming it. ok is false when the
// output is exhausted.
func (p *Pipeline[T]) PeekOne() (v T, ok bool, err error) {
	if p.err != nil {
		return v, false, p.err
	}
	la := p.lookahead()
	if err := la.fill(1); err != nil {
		return v, false, err
	}
	if la.ahead.Length() == 0 {
		return v, false, nil
	}
	v, _ = la.ahead.Peek().(T)
	return v, true, nil
}

// lookahead wraps the bound cursor in a peek buffer, once.
func (p *Pipeline[T]) lookahead() *peekIter[T] {
	if la, ok := p.iter().(*peekIter[T]); ok {
		return la
	}
	la := &peekIter[T]{source: p.iter(), ahead: queue.New()}
	p.cur = la
	return la
}

type peekIter[T any] struct {
	source Iterator[T]
	ahead  *queue.Queue
	done   bool
}

func (it *peekIter[T]) fill(n int) error {
	for !it.done && it.ahead.Length() < n {
		v, ok, err := it.source.Next()
		if err != nil {
			return err
		}
		if !ok {
			it.done = true
			break
		}
		it.ahead.Add(v)
	}
	return nil
}

func (it *peekIter[T]) Next() (T, bool, error) {
	if it.ahead.Length() > 0 {
		v, _ := it.ahead.Remove().(T)
		return v, true, nil
	}
	return it.source.Next()
}

func (it *peekIter[T]) Close() error { return it.source.Close() }
