package pipeline

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/seqkit/errors"
)

func isEven(n int) bool { return n%2 == 0 }

func square(n int) int { return n * n }

func TestWhere(t *testing.T) {
	for _, f := range fixtures() {
		t.Run(f.name, func(t *testing.T) {
			got := mustCollect(t, f.make([]int{0, 1, 2, 3, 4, 5}).Where(isEven))
			if !slices.Equal(got, []int{0, 2, 4}) {
				t.Errorf("got %v, want [0 2 4]", got)
			}
		})
	}
}

func TestWhere_NilKeepsAll(t *testing.T) {
	got := mustCollect(t, Of(1, 2, 3).Where(nil))
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestExclude(t *testing.T) {
	got := mustCollect(t, Range(0, 6, 1).Exclude(isEven))
	if !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("got %v, want [1 3 5]", got)
	}
	assertCode(t, Of(1).Exclude(nil).Err(), errors.ErrCodeInvalidArgument)
}

func TestSelect(t *testing.T) {
	got := mustCollect(t, Select(Of(1, 2, 3), func(n int) string { return fmt.Sprint(n * 10) }))
	if !slices.Equal(got, []string{"10", "20", "30"}) {
		t.Errorf("got %v, want [10 20 30]", got)
	}
	assertCode(t, Select[int, int](Of(1), nil).Err(), errors.ErrCodeInvalidArgument)
}

func TestOperators_MutateInPlace(t *testing.T) {
	p := Range(0, 10, 1)
	p.Where(isEven)
	p.Take(2)
	got := mustCollect(t, p)
	if !slices.Equal(got, []int{0, 2}) {
		t.Errorf("got %v, want [0 2]", got)
	}
}

func TestOperators_ContinueFromCursor(t *testing.T) {
	for _, f := range fixtures() {
		t.Run(f.name, func(t *testing.T) {
			p := f.make([]int{1, 2, 3, 4, 5})
			if v, _, _ := p.Next(); v != 1 {
				t.Fatalf("got %d, want 1", v)
			}
			got := mustCollect(t, p.Skip(1))
			if !slices.Equal(got, []int{3, 4, 5}) {
				t.Errorf("got %v, want [3 4 5]", got)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step int
		want              []int
	}{
		{"bounded", 1, 7, 2, []int{1, 3, 5}},
		{"open", 2, NoLimit, 3, []int{2, 5, 8}},
		{"past end", 12, NoLimit, 1, []int{}},
		{"empty window", 4, 4, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCollect(t, Range(0, 10, 1).Slice(tt.start, tt.stop, tt.step))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlice_DoesNotPullPastStop(t *testing.T) {
	pulled := 0
	p := Count(0, 1).Tap(func(int) error { pulled++; return nil }).Slice(0, 3, 1)
	mustCollect(t, p)
	if pulled != 3 {
		t.Errorf("got %d pulls, want 3", pulled)
	}
}

func TestSlice_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		p    *Pipeline[int]
	}{
		{"negative start", Of(1).Slice(-1, 2, 1)},
		{"zero step", Of(1).Slice(0, 2, 0)},
		{"bad stop", Of(1).Slice(0, -5, 1)},
		{"negative take", Of(1).Take(-1)},
		{"negative skip", Of(1).Skip(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.p.Err(), errors.ErrCodeInvalidArgument)
		})
	}
}

func TestTakeSkip(t *testing.T) {
	got := mustCollect(t, Range(0, 10, 1).Skip(3).Take(4))
	if !slices.Equal(got, []int{3, 4, 5, 6}) {
		t.Errorf("got %v, want [3 4 5 6]", got)
	}
	got = mustCollect(t, Range(0, 10, 1).TakeWhere(2, func(n int) bool { return n > 4 }))
	if !slices.Equal(got, []int{5, 6}) {
		t.Errorf("got %v, want [5 6]", got)
	}
}

func TestAppendPrepend(t *testing.T) {
	got := mustCollect(t, Of(2, 3).Append(4, 5).Prepend(0, 1))
	if !slices.Equal(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("got %v, want [0 1 2 3 4 5]", got)
	}

	got = mustCollect(t, Of(1).AppendMany(Range(2, 4, 1)).PrependMany(Of(0)))
	if !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("got %v, want [0 1 2 3]", got)
	}

	n, err := Of(1, 2).Append(3).Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got count %d, want 3", n)
	}

	assertCode(t, Of(1).AppendMany(nil).Err(), errors.ErrCodeInvalidArgument)
}

func TestPrepend_InfiniteSource(t *testing.T) {
	got := mustCollect(t, Count(1, 1).Prepend(0).Take(3))
	if !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("got %v, want [0 1 2]", got)
	}
}

func TestReverse(t *testing.T) {
	for _, f := range fixtures() {
		t.Run(f.name, func(t *testing.T) {
			got := mustCollect(t, f.make([]int{0, 1, 2, 3, 4}).Reverse())
			if !slices.Equal(got, []int{4, 3, 2, 1, 0}) {
				t.Errorf("got %v, want [4 3 2 1 0]", got)
			}
		})
	}
	t.Run("range", func(t *testing.T) {
		got := mustCollect(t, Range(0, 5, 1).Reverse())
		if !slices.Equal(got, []int{4, 3, 2, 1, 0}) {
			t.Errorf("got %v, want [4 3 2 1 0]", got)
		}
	})
}

func TestReverse_SetUnsupported(t *testing.T) {
	p := FromSet(0, 1, 2).Reverse()
	assertCode(t, p.Err(), errors.ErrCodeUnsupportedOperation)
}

func TestDistinct(t *testing.T) {
	for _, f := range fixtures() {
		t.Run(f.name, func(t *testing.T) {
			got := mustCollect(t, Distinct(f.make([]int{0, 1, 0, 2, 2}), true))
			if !slices.Equal(got, []int{0, 1, 2}) {
				t.Errorf("got %v, want [0 1 2]", got)
			}
		})
	}

	got := mustCollect(t, Distinct(Of(0, 1, 0, 2, 2), false))
	slices.Sort(got)
	if !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("got %v, want [0 1 2] in any order", got)
	}
}

func TestDistinct_InfiniteSource(t *testing.T) {
	got := mustCollect(t, Distinct(Select(Count(0, 1), func(n int) int { return n % 3 }), true).Take(3))
	if !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("got %v, want [0 1 2]", got)
	}
}

type person struct {
	Name string
	Age  int
}

func TestDistinctBy(t *testing.T) {
	people := []person{{"ann", 30}, {"bob", 30}, {"cat", 25}}
	got := mustCollect(t, DistinctBy(FromSlice(people), ByField[person, int]("Age")))
	want := []person{{"ann", 30}, {"cat", 25}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrder(t *testing.T) {
	got := mustCollect(t, Order(Of(3, 1, 2), true))
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	got = mustCollect(t, Order(Of(3, 1, 2), false))
	if !slices.Equal(got, []int{3, 2, 1}) {
		t.Errorf("got %v, want [3 2 1]", got)
	}
}

func TestOrderBy_Stable(t *testing.T) {
	people := []person{{"ann", 30}, {"bob", 25}, {"cat", 30}, {"dan", 25}}
	got := mustCollect(t, OrderBy(FromSlice(people), By(func(p person) int { return p.Age }), true))
	want := []person{{"bob", 25}, {"dan", 25}, {"ann", 30}, {"cat", 30}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrderBy_UnknownField(t *testing.T) {
	p := OrderBy(FromSlice([]person{{"ann", 1}}), ByField[person, int]("Height"), true)
	assertCode(t, p.Err(), errors.ErrCodeInvalidArgument)
}

func TestByField(t *testing.T) {
	tests := []struct {
		name    string
		key     Key[*person, string]
		wantErr bool
	}{
		{"pointer struct", ByField[*person, string]("Name"), false},
		{"missing field", ByField[*person, string]("Nope"), true},
		{"wrong type", ByField[*person, string]("Age"), true},
		{"empty key", Key[*person, string]{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := tt.key.resolve()
			if tt.wantErr {
				assertCode(t, err, errors.ErrCodeInvalidArgument)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := fn(&person{Name: "eve"}); got != "eve" {
				t.Errorf("got %q, want %q", got, "eve")
			}
		})
	}
}

func TestByField_InterfaceKey(t *testing.T) {
	fn, err := ByField[person, any]("Age").resolve()
	if err != nil {
		t.Fatal(err)
	}
	if got := fn(person{Age: 4}); got != 4 {
		t.Errorf("got %v, want 4", got)
	}
}

func TestGroupBy(t *testing.T) {
	words := Of("apple", "banana", "avocado", "blueberry", "cherry")
	got := mustCollect(t, GroupBy(words, By(func(s string) byte { return s[0] })))
	want := [][]string{{"apple", "avocado"}, {"banana", "blueberry"}, {"cherry"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZip(t *testing.T) {
	got := mustCollect(t, Zip(Of(1, 2, 3), Of(4, 5), Of(6, 7, 8)))
	want := [][]int{{1, 4, 6}, {2, 5, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZipLongest(t *testing.T) {
	got := mustCollect(t, ZipLongest(Of(1), -1, Of(4, 5)))
	want := [][]int{{1, 4}, {-1, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZip_InfiniteWithFinite(t *testing.T) {
	got := mustCollect(t, Zip(Count(0, 1), Of(10, 20)))
	want := [][]int{{0, 10}, {1, 20}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZipPair(t *testing.T) {
	got := mustCollect(t, ZipPair(Of(1, 2, 3), Sequence[string](Of("a", "b"))))
	want := []Pair[int, string]{{1, "a"}, {2, "b"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInterleave(t *testing.T) {
	got := mustCollect(t, Of(1, 2, 3).Interleave(Of(10), Of(20, 21)))
	want := []int{1, 10, 20, 2, 21, 3}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		items []any
		opts  []FlattenOption
		want  []any
	}{
		{
			name:  "nested",
			items: []any{[]int{1, 2}, []any{3, []int{4}}, 5},
			want:  []any{1, 2, 3, 4, 5},
		},
		{
			name:  "strings are atoms",
			items: []any{"ab", []string{"cd"}},
			want:  []any{"ab", "cd"},
		},
		{
			name:  "max depth",
			items: []any{[]any{1, []int{2}}},
			opts:  []FlattenOption{MaxDepth(1)},
			want:  []any{1, []int{2}},
		},
		{
			name:  "zero depth",
			items: []any{[]int{1}},
			opts:  []FlattenOption{MaxDepth(0)},
			want:  []any{[]int{1}},
		},
		{
			name:  "expand strings",
			items: []any{"ab", [2]string{"c", "de"}},
			opts:  []FlattenOption{IgnoreTypes()},
			want:  []any{"a", "b", "c", "d", "e"},
		},
		{
			name:  "nil stays",
			items: []any{nil, []any{nil}},
			want:  []any{nil, nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCollect(t, Flatten(FromSlice(tt.items), tt.opts...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlatten_NegativeDepth(t *testing.T) {
	assertCode(t, Flatten(Of(1), MaxDepth(-1)).Err(), errors.ErrCodeInvalidArgument)
}

func TestBatch(t *testing.T) {
	got := mustCollect(t, Batch(Range(1, 6, 1), 2))
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	assertCode(t, Batch(Of(1), 0).Err(), errors.ErrCodeInvalidArgument)
}

func TestBatch_ErrorAfterPartial(t *testing.T) {
	boom := fmt.Errorf("boom")
	i := 0
	p := FromFunc(func() (int, bool, error) {
		i++
		if i == 4 {
			return 0, false, boom
		}
		return i, true, nil
	})
	b := Batch(p, 2)
	if got, ok, err := b.Next(); err != nil || !ok || !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("got %v %v %v, want [1 2]", got, ok, err)
	}
	if got, ok, err := b.Next(); err != nil || !ok || !slices.Equal(got, []int{3}) {
		t.Fatalf("got %v %v %v, want [3]", got, ok, err)
	}
	if _, _, err := b.Next(); err != boom {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	got := mustCollect(t, Of(1, 2, 3).Tap(func(n int) error {
		seen = append(seen, n)
		return nil
	}).Where(isEven))
	if !slices.Equal(got, []int{2}) {
		t.Errorf("got %v, want [2]", got)
	}
	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("tap saw %v, want [1 2 3]", seen)
	}
}

func TestTap_Error(t *testing.T) {
	boom := fmt.Errorf("boom")
	got, err := Of(1, 2, 3).Tap(func(n int) error {
		if n == 2 {
			return boom
		}
		return nil
	}).CollectToList()
	if err != boom {
		t.Errorf("got %v, want %v", err, boom)
	}
	if !slices.Equal(got, []int{1}) {
		t.Errorf("got %v, want [1] before error", got)
	}
}

func TestErrors_StickyOnHandle(t *testing.T) {
	p := Of(1, 2, 3).Take(-1)
	first := p.Err()
	assertCode(t, first, errors.ErrCodeInvalidArgument)

	p.Where(isEven).Skip(1)
	if p.Err() != first {
		t.Errorf("later operators replaced the error: %v", p.Err())
	}
	if _, err := p.First(); err != first {
		t.Errorf("got %v, want %v", err, first)
	}
}

func TestNext_ErrorIsSticky(t *testing.T) {
	boom := fmt.Errorf("boom")
	p := FromFunc(func() (int, bool, error) { return 0, false, boom })
	if _, _, err := p.Next(); err != boom {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if p.Err() != boom {
		t.Errorf("got %v, want %v", p.Err(), boom)
	}
	if _, _, err := p.Next(); err != boom {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestValues(t *testing.T) {
	var b strings.Builder
	for r := range FromString("abc").Reverse().Values() {
		b.WriteRune(r)
	}
	if b.String() != "cba" {
		t.Errorf("got %q, want %q", b.String(), "cba")
	}
}
