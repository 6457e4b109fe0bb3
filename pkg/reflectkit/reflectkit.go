// Package reflectkit holds the reflection helpers shared by the brewing packages.
package reflectkit

import (
	"errors"
	"fmt"
	"reflect"
)

// TypeOf returns the reflect.Type of the type argument.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// BaseTypeOf returns the reflect.Type of the value with pointer indirections removed.
func BaseTypeOf(i any) reflect.Type {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func BaseValueOf(i any) reflect.Value {
	return BaseValue(reflect.ValueOf(i))
}

func BaseValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	for v.Type().Kind() == reflect.Ptr {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// SymbolicName returns the name of the value's type as it would be written in code.
func SymbolicName(e any) string {
	return BaseTypeOf(e).String()
}

// FullyQualifiedName returns the type name prefixed with its import path.
func FullyQualifiedName(e any) string {
	t := BaseTypeOf(e)
	if t.PkgPath() == "" {
		return t.Name()
	}
	return fmt.Sprintf("%q.%s", t.PkgPath(), t.Name())
}

// Link sets the value behind ptr to src.
func Link(src, ptr any) (err error) {
	vPtr := reflect.ValueOf(ptr)
	if vPtr.Kind() != reflect.Ptr {
		return errors.New(`pointer type destination expected`)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.New(fmt.Sprint(recovered))
		}
	}()
	vPtr.Elem().Set(reflect.ValueOf(src))
	return nil
}
