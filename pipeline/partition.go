package pipeline

import (
	"fmt"

	"github.com/eapache/queue"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/validation"
)

// Partition fans the output out into n handles. classify maps each value to
// the index of the handle that receives it. All handles draw from one shared
// pull of the source, buffering values that belong to siblings, so infinite
// sources work as long as the gap between values for different handles stays
// bounded. A classifier result outside [0, n) fails the pull that produced it.
//
// The handles are single-pass and must be drained from one goroutine.
func (p *Pipeline[T]) Partition(classify func(T) int, n int) ([]*Pipeline[T], error) {
	if p.err != nil {
		return nil, p.err
	}
	v := validation.New().
		NotNil("classify", classify == nil).
		Positive("n", n)
	if err := v.Error(); err != nil {
		return nil, err
	}

	up := p.source()
	state := &partitionState[T]{
		open:     up.Cursor,
		classify: classify,
		buffers:  make([]*queue.Queue, n),
	}
	for i := range state.buffers {
		state.buffers[i] = queue.New()
	}

	children := make([]*Pipeline[T], n)
	for i := range children {
		children[i] = newPipeline[T](&cursorSeq[T]{
			it:        &partitionIter[T]{state: state, index: i},
			unbounded: isUnbounded(up),
		})
	}
	return children, nil
}

// Split partitions the output by pred: the first handle receives values for
// which pred is false, the second those for which it is true.
func (p *Pipeline[T]) Split(pred func(T) bool) (*Pipeline[T], *Pipeline[T]) {
	if pred == nil {
		err := invalidNil("predicate")
		return failed[T](err), failed[T](err)
	}
	parts, err := p.Partition(func(v T) int {
		if pred(v) {
			return 1
		}
		return 0
	}, 2)
	if err != nil {
		return failed[T](err), failed[T](err)
	}
	return parts[0], parts[1]
}

// partitionState is shared by the sibling iterators of one Partition call.
type partitionState[T any] struct {
	open     func() Iterator[T]
	parent   Iterator[T]
	classify func(T) int
	buffers  []*queue.Queue
	done     bool
	err      error
}

// advance pulls one value from the parent into its partition's buffer.
// The first failure is kept, so every sibling reports it once its own
// buffer drains.
func (s *partitionState[T]) advance() error {
	if s.err != nil {
		return s.err
	}
	if s.parent == nil {
		s.parent = s.open()
	}
	v, ok, err := s.parent.Next()
	if err != nil {
		s.err = err
		return err
	}
	if !ok {
		s.done = true
		return nil
	}
	k := s.classify(v)
	if k < 0 || k >= len(s.buffers) {
		s.err = errors.InvalidArgument("classify",
			fmt.Sprintf("returned %d for %v, want an index in [0, %d)", k, v, len(s.buffers)))
		if l := log(); l.DebugEnabled() {
			l.Debug("partition classifier rejected item", logger.MergeWithError(logger.Fields(
				logger.FieldPartition, k,
				logger.FieldSize, len(s.buffers),
			), s.err))
		}
		return s.err
	}
	s.buffers[k].Add(v)
	return nil
}

type partitionIter[T any] struct {
	state *partitionState[T]
	index int
}

func (it *partitionIter[T]) Next() (T, bool, error) {
	var zero T
	buf := it.state.buffers[it.index]
	for {
		if buf.Length() > 0 {
			v, _ := buf.Remove().(T)
			return v, true, nil
		}
		if it.state.done {
			return zero, false, nil
		}
		if err := it.state.advance(); err != nil {
			return zero, false, err
		}
	}
}

// Close releases the shared parent once every sibling is exhausted.
func (it *partitionIter[T]) Close() error {
	if it.state.done && it.state.parent != nil {
		return it.state.parent.Close()
	}
	return nil
}
