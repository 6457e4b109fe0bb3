package reflectkit

import (
	"reflect"
)

var constKinds = map[reflect.Kind]struct{}{
	reflect.String:     {},
	reflect.Bool:       {},
	reflect.Int:        {},
	reflect.Int8:       {},
	reflect.Int16:      {},
	reflect.Int32:      {},
	reflect.Int64:      {},
	reflect.Uint:       {},
	reflect.Uint8:      {},
	reflect.Uint16:     {},
	reflect.Uint32:     {},
	reflect.Uint64:     {},
	reflect.Float32:    {},
	reflect.Float64:    {},
	reflect.Complex64:  {},
	reflect.Complex128: {},
}

// IsMutableType reports whether values of the type can be mutated
// through shared references, directly or through a field.
func IsMutableType(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	return visitIsMutable(typ)
}

func visitIsMutable(typ reflect.Type) bool {
	if typ.Kind() == reflect.Invalid {
		return false
	}
	if _, ok := constKinds[typ.Kind()]; ok {
		return false
	}
	if typ.Kind() == reflect.Struct {
		for i := 0; i < typ.NumField(); i++ {
			if visitIsMutable(typ.Field(i).Type) {
				return true
			}
		}
		return false
	}
	return true
}
