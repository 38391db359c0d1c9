package pipeline

import (
	"fmt"
	"reflect"

	"github.com/kbukum/seqkit/errors"
)

// Key selects a value from an item, either through a function or by the
// name of a struct field. Build one with By or ByField.
type Key[T, K any] struct {
	fn    func(T) K
	field string
}

// By selects keys with fn.
func By[T, K any](fn func(T) K) Key[T, K] {
	return Key[T, K]{fn: fn}
}

// ByField selects the exported struct field called name. T may be a struct
// or a pointer to one; the field's type must be assignable to K.
func ByField[T, K any](name string) Key[T, K] {
	return Key[T, K]{field: name}
}

// resolve turns the key into a single function. Field lookups are done once
// here, not per item.
func (k Key[T, K]) resolve() (func(T) K, error) {
	if k.fn != nil {
		return k.fn, nil
	}
	if k.field == "" {
		return nil, errors.InvalidArgument("key", "no selector or field name given")
	}

	typ := reflect.TypeFor[T]()
	ptr := typ.Kind() == reflect.Pointer
	if ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errors.InvalidArgument("key", fmt.Sprintf("field %q requested on non-struct type %s", k.field, typ))
	}
	sf, ok := typ.FieldByName(k.field)
	if !ok || !sf.IsExported() {
		return nil, errors.InvalidArgument("key", fmt.Sprintf("type %s has no exported field %q", typ, k.field))
	}
	keyType := reflect.TypeFor[K]()
	if !sf.Type.AssignableTo(keyType) {
		return nil, errors.InvalidArgument("key", fmt.Sprintf("field %q has type %s, not assignable to %s", k.field, sf.Type, keyType))
	}

	index := sf.Index
	return func(item T) K {
		v := reflect.ValueOf(&item).Elem()
		if ptr {
			v = v.Elem()
		}
		var out K
		reflect.ValueOf(&out).Elem().Set(v.FieldByIndex(index))
		return out
	}, nil
}

func identity[T any](v T) T { return v }
