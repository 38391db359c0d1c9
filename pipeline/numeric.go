package pipeline

import (
	"golang.org/x/exp/constraints"
)

// Number is any integer or floating-point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum adds the values to accumulator. An empty output returns accumulator.
func Sum[T Number](p *Pipeline[T], accumulator T) (T, error) {
	return fold(p, "sum", accumulator, func(acc, v T) T { return acc + v })
}

// SumBy adds the numbers selected from each value to accumulator.
func SumBy[T any, N Number](p *Pipeline[T], by func(T) N, accumulator N) (N, error) {
	if by == nil {
		if p.err != nil {
			return accumulator, p.err
		}
		return accumulator, invalidNil("by")
	}
	return fold(p, "sum", accumulator, func(acc N, v T) N { return acc + by(v) })
}
