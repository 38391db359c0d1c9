package pipeline

import (
	"iter"

	"github.com/google/uuid"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// Pipeline is a lazy handle over a sequence. Operators either rebind the
// handle in place or, right after Snap, return a new handle and leave the
// snapshot untouched.
//
// A Pipeline is itself a cursor: Next pulls from the current output. It is
// not safe for concurrent use.
type Pipeline[T any] struct {
	seq Sequence[T]
	// cur is bound on the first pull and shared by Next and every terminal.
	cur         Iterator[T]
	snapPending bool
	snapID      string
	err         error
}

func newPipeline[T any](seq Sequence[T]) *Pipeline[T] {
	return &Pipeline[T]{seq: seq}
}

func failed[T any](err error) *Pipeline[T] {
	return &Pipeline[T]{seq: emptySeq[T]{}, err: err}
}

func log() *logger.Logger {
	return logger.Get("pipeline")
}

// Err returns the first error recorded on the handle: a rejected argument or
// a failed pull, whether from Next or from a terminal. Errors that only
// describe a terminal's result, such as EMPTY_RESULT, are returned by that
// terminal and leave the handle usable.
func (p *Pipeline[T]) Err() error {
	return p.err
}

// Next returns the next value of the current output.
func (p *Pipeline[T]) Next() (T, bool, error) {
	if p.err != nil {
		var zero T
		return zero, false, p.err
	}
	v, ok, err := p.iter().Next()
	if err != nil {
		p.err = err
	}
	return v, ok, err
}

// Close releases the bound cursor, if any.
func (p *Pipeline[T]) Close() error {
	if p.cur == nil {
		return nil
	}
	return p.cur.Close()
}

// Values returns the remaining output for use with range. A failed pull
// ends the loop; check Err afterwards.
func (p *Pipeline[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok, err := p.Next()
			if err != nil || !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Cursor makes a Pipeline usable as a Sequence. A snapshot hands out a
// fresh traversal of its buffer; any other handle hands out itself.
func (p *Pipeline[T]) Cursor() Iterator[T] {
	if p.err != nil {
		return &errIter[T]{err: p.err}
	}
	if p.snapPending {
		return p.seq.Cursor()
	}
	return p
}

// Snap materialises the remaining output into an owned buffer. The next
// operator or terminal called on this handle works on an independent branch,
// so the snapshot can be traversed again. Only the latest Snap counts.
func (p *Pipeline[T]) Snap() *Pipeline[T] {
	if p.err != nil {
		return p
	}
	up := p.source()
	if isUnbounded(up) {
		return p.fail(unsupportedInfinite("snap"))
	}
	items, err := drain(up.Cursor())
	if err != nil {
		return p.fail(err)
	}
	p.seq = &sliceSeq[T]{items: items}
	p.cur = nil
	p.snapPending = true
	p.snapID = uuid.NewString()
	if l := log(); l.DebugEnabled() {
		l.Debug("snapshot materialized", logger.Fields(
			logger.FieldSnapshotID, p.snapID,
			logger.FieldSize, len(items),
		))
	}
	return p
}

// Tap calls fn for each value as it is pulled. A non-nil error from fn
// ends the traversal with that error.
func (p *Pipeline[T]) Tap(fn func(T) error) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	if fn == nil {
		return p.fail(invalidNil("fn"))
	}
	return p.derive(func(up Sequence[T]) Iterator[T] {
		return &tapIter[T]{source: up.Cursor(), fn: fn}
	})
}

// --- Handle plumbing ---

// iter returns the bound cursor, binding it on first use.
func (p *Pipeline[T]) iter() Iterator[T] {
	if p.cur == nil {
		p.cur = p.seq.Cursor()
	}
	return p.cur
}

// source returns the current output for an operator to build on. Outside
// snapshot mode a partially consumed cursor is detached so the operator
// continues from where pulling stopped.
func (p *Pipeline[T]) source() Sequence[T] {
	if p.snapPending || p.cur == nil {
		return p.seq
	}
	s := &cursorSeq[T]{it: p.cur, unbounded: isUnbounded(p.seq)}
	p.cur = nil
	return s
}

// rebind installs seq as the handle's output. Right after Snap it returns a
// new handle instead.
func (p *Pipeline[T]) rebind(seq Sequence[T]) *Pipeline[T] {
	if p.snapPending {
		return newPipeline(seq)
	}
	p.seq = seq
	p.cur = nil
	return p
}

// derive rebinds to a lazy sequence built from the current output. The
// result is unbounded when the input is.
func (p *Pipeline[T]) derive(open func(up Sequence[T]) Iterator[T]) *Pipeline[T] {
	up := p.source()
	return p.rebind(&lazySeq[T]{
		open:      func() Iterator[T] { return open(up) },
		unbounded: isUnbounded(up),
	})
}

// fail records err on the handle. Right after Snap the snapshot stays usable
// and the error goes to a new handle.
func (p *Pipeline[T]) fail(err error) *Pipeline[T] {
	if l := log(); l.DebugEnabled() {
		fields := logger.ErrorFields("operator", err)
		fields[logger.FieldCode] = string(errors.CodeOf(err))
		l.Debug("operator rejected", fields)
	}
	if p.snapPending {
		return failed[T](err)
	}
	p.err = err
	return p
}

// terminal returns the handle a materialiser consumes: a fresh branch of
// the snapshot, or the handle itself.
func (p *Pipeline[T]) terminal() *Pipeline[T] {
	if p.snapPending {
		return newPipeline(p.seq)
	}
	return p
}

// pull reads the next value for a terminal. A failed pull is recorded on
// the handle like in Next; data errors raised by the terminal itself are not.
func (p *Pipeline[T]) pull() (T, bool, error) {
	v, ok, err := p.iter().Next()
	if err != nil && p.err == nil {
		p.err = err
	}
	return v, ok, err
}

// retype builds a handle of another element type over p's current output.
func retype[T, U any](p *Pipeline[T], open func(up Sequence[T]) Iterator[U]) *Pipeline[U] {
	up := p.source()
	return newPipeline[U](&lazySeq[U]{
		open:      func() Iterator[U] { return open(up) },
		unbounded: isUnbounded(up),
	})
}
