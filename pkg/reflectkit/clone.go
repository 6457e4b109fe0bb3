package reflectkit

import (
	"reflect"
)

// Clone returns a deep copy of the value.
// Slices, maps and pointers in the copy share no memory with the original.
func Clone[T any](v T) T {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	return DeepClone(rv).Interface().(T)
}

// DeepClone returns a deep copy of the reflect.Value.
func DeepClone(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	return visitClone(v)
}

func visitClone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(visitClone(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(visitClone(v.Elem()))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(visitClone(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for _, key := range v.MapKeys() {
			out.SetMapIndex(visitClone(key), visitClone(v.MapIndex(key)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(visitClone(v.Index(i)))
		}
		return out

	case reflect.Struct:
		if !IsMutableType(v.Type()) {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(visitClone(v.Field(i)))
		}
		return out

	default:
		return v
	}
}
