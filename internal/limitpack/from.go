package limitpack

import (
	"fmt"
	"reflect"
	"sort"
)

// Packer lets a type provide its own tree instead of the reflected default.
type Packer interface {
	LimitNode() *Node
}

// From derives a renderable tree from an arbitrary value. Strings become
// trimmable leaves; numbers and bools become fixed leaves; slices and arrays
// become lists; maps and structs become dicts. Map pairs sort by key text so
// output is stable.
func From(v any) *Node {
	if v == nil {
		return NewString("nil", true)
	}
	if p, ok := v.(Packer); ok {
		return p.LimitNode()
	}
	return fromValue(reflect.ValueOf(v))
}

func fromValue(rv reflect.Value) *Node {
	if rv.CanInterface() {
		if p, ok := rv.Interface().(Packer); ok {
			return p.LimitNode()
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return NewString(rv.String(), false)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return NewString(fmt.Sprint(rv.Interface()), true)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewString("nil", true)
		}
		return fromValue(rv.Elem())

	case reflect.Slice, reflect.Array:
		items := make([]*Node, rv.Len())
		for i := range items {
			items[i] = fromValue(rv.Index(i))
		}
		return NewList(items, '[', ']', false)

	case reflect.Map:
		pairs := make([]Pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, Pair{
				Key:   fromValue(iter.Key()),
				Value: fromValue(iter.Value()),
			})
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Key.text() < pairs[j].Key.text()
		})
		return NewDict(pairs, '{', '}')

	case reflect.Struct:
		rt := rv.Type()
		pairs := make([]Pair, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			pairs = append(pairs, Pair{
				Key:   NewString(f.Name, true),
				Value: fromValue(rv.Field(i)),
			})
		}
		return NewDict(pairs, '{', '}')

	default:
		if rv.CanInterface() {
			return NewString(fmt.Sprint(rv.Interface()), true)
		}
		return NewString(rv.String(), true)
	}
}
