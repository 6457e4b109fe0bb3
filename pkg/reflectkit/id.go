package reflectkit

import (
	"reflect"

	"github.com/mikemcowie/brewing/pkg/errorkit"
)

const ErrIDFieldNotFound errorkit.Error = "ErrIDFieldNotFound"

const idTag = "ext"

// LookupID returns the external resource identifier of an entity.
// The identifier is discovered through the `ext:"id"` struct tag,
// falling back to a field named ID.
func LookupID(ent any) (string, bool) {
	field, ok := idField(BaseValueOf(ent))
	if !ok {
		return "", false
	}
	return field.String(), true
}

// SetID sets the external resource identifier on the entity behind ptr.
func SetID(ptr any, id string) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return ErrIDFieldNotFound.F("pointer expected, got %T", ptr)
	}
	field, ok := idField(v.Elem())
	if !ok || !field.CanSet() {
		return ErrIDFieldNotFound.F("no settable id field found on %s", v.Elem().Type().String())
	}
	field.SetString(id)
	return nil
}

func idField(v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	T := v.Type()
	for i := 0; i < T.NumField(); i++ {
		if T.Field(i).Tag.Get(idTag) == "id" {
			return v.Field(i), v.Field(i).Kind() == reflect.String
		}
	}
	byName := v.FieldByName("ID")
	if byName.IsValid() && byName.Kind() == reflect.String {
		return byName, true
	}
	return reflect.Value{}, false
}
