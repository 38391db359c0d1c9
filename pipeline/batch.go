package pipeline

import (
	"github.com/kbukum/seqkit/validation"
)

// Batch groups consecutive values into slices of size. The last batch holds
// whatever is left and may be shorter; it is never padded.
func Batch[T any](p *Pipeline[T], size int) *Pipeline[[]T] {
	if p.err != nil {
		return failed[[]T](p.err)
	}
	if err := validation.New().Positive("size", size).Error(); err != nil {
		return failed[[]T](err)
	}
	return retype(p, func(up Sequence[T]) Iterator[[]T] {
		return &batchIter[T]{source: up.Cursor(), size: size}
	})
}

type batchIter[T any] struct {
	source Iterator[T]
	size   int
	// pending holds a pull error that arrived behind a partial batch.
	pending error
	done    bool
}

func (it *batchIter[T]) Next() ([]T, bool, error) {
	if it.pending != nil {
		err := it.pending
		it.pending = nil
		it.done = true
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	batch := make([]T, 0, it.size)
	for len(batch) < it.size {
		v, ok, err := it.source.Next()
		if err != nil {
			if len(batch) > 0 {
				// Return the partial batch; the error surfaces on the next call.
				it.pending = err
				return batch, true, nil
			}
			return nil, false, err
		}
		if !ok {
			it.done = true
			if len(batch) > 0 {
				return batch, true, nil
			}
			return nil, false, nil
		}
		batch = append(batch, v)
	}
	return batch, true, nil
}

func (it *batchIter[T]) Close() error { return it.source.Close() }
