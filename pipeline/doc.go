// Package pipeline provides lazy, pull-based sequence combinators.
//
// A Pipeline wraps a Sequence and chains operators onto it. Nothing is read
// from the source until a value is pulled, either through Next, Values or a
// terminal such as CollectToList, First or Count. Each operator pulls from
// the one before it on demand.
//
// Operators mutate the handle they are called on and return it, so
//
//	p := pipeline.Range(0, 10, 1).Where(isEven)
//	p.Take(2)
//
// leaves p yielding 0 and 2. Snap breaks that link: it buffers the current
// output, and the next operator or terminal called on the snapped handle
// works on an independent branch.
//
//	evens := pipeline.Range(0, 10, 1).Where(isEven).Snap()
//	n, _ := evens.Count()                                       // 5
//	sq, _ := pipeline.Select(evens, square).CollectToList()     // [0 4 16 36 64]
//	first, _ := evens.First()                                   // 0
//
// # Errors
//
// A rejected argument is recorded on the handle and returned by Err and by
// every terminal; later operators are no-ops. Data errors such as
// EMPTY_RESULT or MULTIPLICITY_VIOLATION are returned by the terminal that
// hits them. All errors are *errors.AppError values from the seqkit errors
// package.
//
// # Infinite sources
//
// Count, Repeat and Generate are known to be infinite. Operators that must
// see every value (Reverse, fair Shuffle, CollectToList, MostCommon and the
// like) fail with UNSUPPORTED_OPERATION on them instead of hanging. Sources
// that are infinite but not marked as such are the caller's responsibility.
//
// A Pipeline is not safe for concurrent use. Partitions returned by
// Partition share one parent cursor and must be pulled from one goroutine.
package pipeline
