package pipeline

import (
	"math/rand/v2"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// Shuffle randomises the order of the output.
//
// With Fair the sized source is materialised on the first pull and permuted
// exactly. Otherwise values pass through a buffer of WithBufferSize slots:
// each new value swaps out a random slot, which keeps memory bounded and
// works on infinite sources at the cost of a distribution skewed towards the
// original order.
func (p *Pipeline[T]) Shuffle(opts ...Option) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return p.fail(err)
	}
	up := p.source()

	if !o.Fair {
		return p.rebind(&lazySeq[T]{
			open: func() Iterator[T] {
				return &shuffleIter[T]{source: up.Cursor(), rng: o.newRand(), size: o.BufferSize}
			},
			size:      func() int { return sizeOf(up) },
			unbounded: isUnbounded(up),
		})
	}

	if isUnbounded(up) || sizeOf(up) < 0 {
		return p.fail(errors.Unsupported("shuffle", "a fair shuffle needs a sized source"))
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
					rng := o.newRand()
					rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
					if l := log(); l.DebugEnabled() {
						l.Debug("fair shuffle materialized", logger.Fields(logger.FieldSize, len(items)))
					}
					return items, nil
				},
				closer: it.Close,
			}
		},
		size: func() int { return sizeOf(up) },
	})
}

type shuffleIter[T any] struct {
	source    Iterator[T]
	rng       *rand.Rand
	size      int
	buf       []T
	filled    bool
	exhausted bool
	flushed   int
}

func (it *shuffleIter[T]) Next() (T, bool, error) {
	var zero T
	if !it.filled {
		it.buf = make([]T, 0, it.size)
		for len(it.buf) < it.size {
			v, ok, err := it.source.Next()
			if err != nil {
				return zero, false, err
			}
			if !ok {
				it.exhausted = true
				break
			}
			it.buf = append(it.buf, v)
		}
		it.rng.Shuffle(len(it.buf), func(i, j int) { it.buf[i], it.buf[j] = it.buf[j], it.buf[i] })
		it.filled = true
	}

	if !it.exhausted {
		v, ok, err := it.source.Next()
		if err != nil {
			return zero, false, err
		}
		if ok {
			j := it.rng.IntN(len(it.buf))
			out := it.buf[j]
			it.buf[j] = v
			return out, true, nil
		}
		it.exhausted = true
	}

	if it.flushed < len(it.buf) {
		v := it.buf[it.flushed]
		it.flushed++
		return v, true, nil
	}
	return zero, false, nil
}

func (it *shuffleIter[T]) Close() error { return it.source.Close() }
