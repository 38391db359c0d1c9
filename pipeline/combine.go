package pipeline

import (
	"reflect"
	"unicode/utf8"

	"github.com/kbukum/seqkit/validation"
)

// Pair holds one value from each side of ZipPair.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip yields slices holding one value from the handle and one from each of
// others, stopping when the shortest input is exhausted.
func Zip[T any](p *Pipeline[T], others ...Sequence[T]) *Pipeline[[]T] {
	return zipWith(p, others, false, *new(T))
}

// ZipLongest is Zip that runs until the longest input is exhausted, filling
// the gaps with fill.
func ZipLongest[T any](p *Pipeline[T], fill T, others ...Sequence[T]) *Pipeline[[]T] {
	return zipWith(p, others, true, fill)
}

func zipWith[T any](p *Pipeline[T], others []Sequence[T], longest bool, fill T) *Pipeline[[]T] {
	if p.err != nil {
		return failed[[]T](p.err)
	}
	for _, o := range others {
		if o == nil {
			return failed[[]T](invalidNil("others"))
		}
	}
	up := p.source()
	inputs := append([]Sequence[T]{up}, others...)

	unbounded := !longest
	for _, s := range inputs {
		if longest && isUnbounded(s) {
			unbounded = true
		}
		if !longest && !isUnbounded(s) {
			unbounded = false
		}
	}

	return newPipeline[[]T](&lazySeq[[]T]{
		open: func() Iterator[[]T] {
			iters := make([]Iterator[T], len(inputs))
			for i, s := range inputs {
				iters[i] = s.Cursor()
			}
			return &zipIter[T]{iters: iters, done: make([]bool, len(iters)), longest: longest, fill: fill}
		},
		unbounded: unbounded,
	})
}

// ZipPair zips the handle with a sequence of another type.
func ZipPair[T, U any](p *Pipeline[T], other Sequence[U]) *Pipeline[Pair[T, U]] {
	if p.err != nil {
		return failed[Pair[T, U]](p.err)
	}
	if other == nil {
		return failed[Pair[T, U]](invalidNil("other"))
	}
	up := p.source()
	return newPipeline[Pair[T, U]](&lazySeq[Pair[T, U]]{
		open: func() Iterator[Pair[T, U]] {
			return &pairIter[T, U]{a: up.Cursor(), b: other.Cursor()}
		},
		unbounded: isUnbounded(up) && isUnbounded(other),
	})
}

// Interleave yields one value from each input in turn, skipping inputs that
// are exhausted, until all are.
func (p *Pipeline[T]) Interleave(others ...Sequence[T]) *Pipeline[T] {
	if p.err != nil {
		return p
	}
	for _, o := range others {
		if o == nil {
			return p.fail(invalidNil("others"))
		}
	}
	up := p.source()
	inputs := append([]Sequence[T]{up}, others...)
	unbounded := false
	for _, s := range inputs {
		unbounded = unbounded || isUnbounded(s)
	}
	return p.rebind(&lazySeq[T]{
		open: func() Iterator[T] {
			iters := make([]Iterator[T], len(inputs))
			for i, s := range inputs {
				iters[i] = s.Cursor()
			}
			return &interleaveIter[T]{iters: iters, done: make([]bool, len(iters))}
		},
		unbounded: unbounded,
	})
}

type zipIter[T any] struct {
	iters   []Iterator[T]
	done    []bool
	longest bool
	fill    T
	over    bool
}

func (it *zipIter[T]) Next() ([]T, bool, error) {
	if it.over {
		return nil, false, nil
	}
	row := make([]T, len(it.iters))
	live := 0
	for i, src := range it.iters {
		if it.done[i] {
			row[i] = it.fill
			continue
		}
		v, ok, err := src.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done[i] = true
			if !it.longest {
				it.over = true
				return nil, false, nil
			}
			row[i] = it.fill
			continue
		}
		row[i] = v
		live++
	}
	if live == 0 {
		it.over = true
		return nil, false, nil
	}
	return row, true, nil
}

func (it *zipIter[T]) Close() error { return closeAll(it.iters) }

type pairIter[A, B any] struct {
	a Iterator[A]
	b Iterator[B]
}

func (it *pairIter[A, B]) Next() (Pair[A, B], bool, error) {
	var zero Pair[A, B]
	va, ok, err := it.a.Next()
	if err != nil || !ok {
		return zero, false, err
	}
	vb, ok, err := it.b.Next()
	if err != nil || !ok {
		return zero, false, err
	}
	return Pair[A, B]{First: va, Second: vb}, true, nil
}

func (it *pairIter[A, B]) Close() error {
	errA := it.a.Close()
	if errB := it.b.Close(); errA == nil {
		return errB
	}
	return errA
}

type interleaveIter[T any] struct {
	iters []Iterator[T]
	done  []bool
	turn  int
}

func (it *interleaveIter[T]) Next() (T, bool, error) {
	for range it.iters {
		i := it.turn
		it.turn = (it.turn + 1) % len(it.iters)
		if it.done[i] {
			continue
		}
		v, ok, err := it.iters[i].Next()
		if err != nil {
			return v, false, err
		}
		if ok {
			return v, true, nil
		}
		it.done[i] = true
	}
	var zero T
	return zero, false, nil
}

func (it *interleaveIter[T]) Close() error { return closeAll(it.iters) }

func closeAll[T any](iters []Iterator[T]) error {
	var firstErr error
	for _, iter := range iters {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// --- Flatten ---

// FlattenOption configures Flatten.
type FlattenOption func(*flattenConfig)

type flattenConfig struct {
	maxDepth int
	limited  bool
	ignore   map[reflect.Type]bool
}

// MaxDepth limits how many levels Flatten expands. Zero leaves the items
// untouched; negative depths are rejected.
func MaxDepth(depth int) FlattenOption {
	return func(c *flattenConfig) {
		c.maxDepth = depth
		c.limited = true
	}
}

// IgnoreTypes replaces the types Flatten treats as atoms. The default is
// string and []byte; call IgnoreTypes() with no arguments to expand them too.
func IgnoreTypes(types ...reflect.Type) FlattenOption {
	return func(c *flattenConfig) {
		c.ignore = make(map[reflect.Type]bool, len(types))
		for _, t := range types {
			c.ignore[t] = true
		}
	}
}

// Flatten expands nested slices, arrays and strings into a flat stream.
// Strings expand into one-character strings, which are atoms.
func Flatten[T any](p *Pipeline[T], opts ...FlattenOption) *Pipeline[any] {
	cfg := flattenConfig{
		maxDepth: -1,
		ignore: map[reflect.Type]bool{
			reflect.TypeFor[string](): true,
			reflect.TypeFor[[]byte](): true,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if p.err != nil {
		return failed[any](p.err)
	}
	if cfg.limited {
		if err := validation.New().NonNegative("max_depth", cfg.maxDepth).Error(); err != nil {
			return failed[any](err)
		}
	}
	return retype(p, func(up Sequence[T]) Iterator[any] {
		return &flattenIter[T]{source: up.Cursor(), cfg: cfg}
	})
}

type flattenFrame struct {
	items []any
	index int
	depth int
}

type flattenIter[T any] struct {
	source Iterator[T]
	cfg    flattenConfig
	stack  []flattenFrame
}

func (it *flattenIter[T]) Next() (any, bool, error) {
	for {
		if n := len(it.stack); n > 0 {
			top := &it.stack[n-1]
			if top.index >= len(top.items) {
				it.stack = it.stack[:n-1]
				continue
			}
			v := top.items[top.index]
			top.index++
			if children, ok := it.expand(v, top.depth); ok {
				it.stack = append(it.stack, flattenFrame{items: children, depth: top.depth + 1})
				continue
			}
			return v, true, nil
		}

		val, ok, err := it.source.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		v := any(val)
		if children, ok := it.expand(v, 0); ok {
			it.stack = append(it.stack, flattenFrame{items: children, depth: 1})
			continue
		}
		return v, true, nil
	}
}

func (it *flattenIter[T]) Close() error { return it.source.Close() }

// expand returns the children of v when v sits above the depth limit and is
// a non-atomic container.
func (it *flattenIter[T]) expand(v any, depth int) ([]any, bool) {
	if v == nil || (it.cfg.maxDepth >= 0 && depth >= it.cfg.maxDepth) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if it.cfg.ignore[rv.Type()] {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		children := make([]any, rv.Len())
		for i := range children {
			children[i] = rv.Index(i).Interface()
		}
		return children, true
	case reflect.String:
		s := rv.String()
		if utf8.RuneCountInString(s) == 1 {
			return nil, false
		}
		children := make([]any, 0, len(s))
		for _, r := range s {
			children = append(children, string(r))
		}
		return children, true
	default:
		return nil, false
	}
}
