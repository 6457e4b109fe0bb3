// Package generic makes it possible to declare runtime-generic struct types,
// where designated fields receive their concrete type at specialisation time.
//
// A declaration enumerates an ordered list of type-parameter names,
// while struct fields opt into binding through the `generic` struct tag:
//
//	type Repository struct {
//		Model  reflect.Type `generic:"ModelT"`
//		PKType reflect.Type `generic:"PKT"`
//		Table  string
//	}
//
//	cls := generic.MustDeclare[Repository]("ModelT", "PKT")
//	spec, err := cls.Specialize(generic.TypeOf[User](), generic.TypeOf[int]())
//	repo := spec.New() // repo.Model == reflect.TypeOf(User{})
//
// Fields without the tag are unbound: every specialisation inherits their
// value from the declaration's base value unchanged.
package generic

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/mikemcowie/brewing/pkg/errorkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
)

const (
	// ErrDeclaration is returned when a generic class declaration is malformed.
	ErrDeclaration errorkit.Error = "ErrDeclaration"
	// ErrArity is returned when the number of type arguments differs from the declared parameter count.
	ErrArity errorkit.Error = "ErrArity"
	// ErrResolution is returned when a field's parameter binding cannot be resolved to a single type parameter.
	ErrResolution errorkit.Error = "ErrResolution"
)

const structTagName = "generic"

// TypeOf returns the reflect.Type of the type argument,
// as a convenience for Specialize call sites.
func TypeOf[T any]() reflect.Type { return reflectkit.TypeOf[T]() }

// Class is a generic-aware type descriptor:
// the struct type T together with its ordered type-parameter list
// and the field bindings discovered at declaration time.
//
// A Class is never mutated after Declare, and is safe for concurrent use.
type Class[T any] struct {
	base     T
	params   []string
	bindings []binding

	mutex sync.RWMutex
	cache map[string]*Specialized[T]
}

type binding struct {
	field reflect.StructField
	tag   string
	// param is the position of the bound type parameter,
	// or -1 when the tag does not resolve to exactly one parameter.
	param int
}

// Declare builds a generic-aware descriptor for the struct type T.
// Unbound fields of every specialisation inherit the zero value of T.
func Declare[T any](params ...string) (*Class[T], error) {
	var base T
	return DeclareFrom[T](base, params...)
}

// DeclareFrom is like Declare, but every specialisation inherits
// its unbound fields from the given base value.
func DeclareFrom[T any](base T, params ...string) (*Class[T], error) {
	T_ := reflectkit.TypeOf[T]()
	if T_.Kind() != reflect.Struct {
		return nil, ErrDeclaration.F("struct type expected, got %s", T_.String())
	}
	if len(params) == 0 {
		return nil, ErrDeclaration.F("%s: at least one type parameter is required", T_.Name())
	}
	var seen = map[string]struct{}{}
	for _, p := range params {
		if p == "" {
			return nil, ErrDeclaration.F("%s: empty type parameter name", T_.Name())
		}
		if _, ok := seen[p]; ok {
			return nil, ErrDeclaration.F("%s: duplicate type parameter name: %s", T_.Name(), p)
		}
		seen[p] = struct{}{}
	}
	bindings, err := scanBindings(T_, params)
	if err != nil {
		return nil, err
	}
	return &Class[T]{
		base:     base,
		params:   params,
		bindings: bindings,
		cache:    map[string]*Specialized[T]{},
	}, nil
}

// MustDeclare is like Declare, but panics on a declaration error.
// It is meant for package-level declarations.
func MustDeclare[T any](params ...string) *Class[T] {
	c, err := Declare[T](params...)
	if err != nil {
		panic(err)
	}
	return c
}

// MustDeclareFrom is like DeclareFrom, but panics on a declaration error.
func MustDeclareFrom[T any](base T, params ...string) *Class[T] {
	c, err := DeclareFrom[T](base, params...)
	if err != nil {
		panic(err)
	}
	return c
}

var reflectTypeType = reflectkit.TypeOf[reflect.Type]()

func scanBindings(T reflect.Type, params []string) ([]binding, error) {
	var bindings []binding
	for i, numField := 0, T.NumField(); i < numField; i++ {
		field := T.Field(i)
		tag, ok := field.Tag.Lookup(structTagName)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return nil, ErrDeclaration.F("%s: %s field must be exported to be bindable", T.Name(), field.Name)
		}
		if !reflectTypeType.AssignableTo(field.Type) {
			return nil, ErrDeclaration.F("%s: %s field must be able to hold a reflect.Type, got %s",
				T.Name(), field.Name, field.Type.String())
		}
		if tag == "" {
			return nil, ErrDeclaration.F("%s: %s field has an empty type parameter binding",
				T.Name(), field.Name)
		}
		b := binding{field: field, tag: tag, param: -1}
		if isSingleParamRef(tag) {
			pos := paramIndexOf(params, tag)
			if pos < 0 {
				return nil, ErrDeclaration.F("%s: %s field references undeclared type parameter: %s",
					T.Name(), field.Name, tag)
			}
			b.param = pos
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// isSingleParamRef reports whether the tag is a bare reference to one parameter name.
// Composite expressions are kept unresolved and rejected at specialisation time.
func isSingleParamRef(tag string) bool {
	return !strings.ContainsAny(tag, ", ")
}

func paramIndexOf(params []string, name string) int {
	for i, p := range params {
		if p == name {
			return i
		}
	}
	return -1
}

// Type returns the reflect.Type of the declared struct type.
func (c *Class[T]) Type() reflect.Type { return reflectkit.TypeOf[T]() }

// Params returns the ordered type-parameter names of the declaration.
func (c *Class[T]) Params() []string {
	params := make([]string, len(c.params))
	copy(params, c.params)
	return params
}

// Specialize returns the derived type of this declaration for the given type arguments.
// The arguments are matched positionally to the declared type parameters,
// and every bound field of the result holds its corresponding argument.
//
// Repeated calls with the same argument list return the same canonical *Specialized value.
func (c *Class[T]) Specialize(args ...reflect.Type) (*Specialized[T], error) {
	if len(args) != len(c.params) {
		return nil, ErrArity.F("%s: expected %d type parameter(s), got %d type parameter(s)",
			c.Type().Name(), len(c.params), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			return nil, ErrResolution.F("%s: nil type argument for type parameter %s",
				c.Type().Name(), c.params[i])
		}
	}

	key := cacheKeyOf(args)

	c.mutex.RLock()
	cached, ok := c.cache[key]
	c.mutex.RUnlock()
	if ok {
		return cached, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}
	specialized, err := c.specialize(args)
	if err != nil {
		return nil, err
	}
	c.cache[key] = specialized
	return specialized, nil
}

// MustSpecialize is like Specialize, but panics on error.
func (c *Class[T]) MustSpecialize(args ...reflect.Type) *Specialized[T] {
	s, err := c.Specialize(args...)
	if err != nil {
		panic(err)
	}
	return s
}

func (c *Class[T]) specialize(args []reflect.Type) (*Specialized[T], error) {
	proto := c.base
	rv := reflect.ValueOf(&proto).Elem()
	for _, b := range c.bindings {
		if b.param < 0 {
			return nil, ErrResolution.F("%s: %s field's %q binding does not resolve to a single type parameter",
				c.Type().Name(), b.field.Name, b.tag)
		}
		rv.FieldByIndex(b.field.Index).Set(reflect.ValueOf(args[b.param]))
	}
	arguments := make([]reflect.Type, len(args))
	copy(arguments, args)
	return &Specialized[T]{
		class: c,
		args:  arguments,
		proto: proto,
		name:  specializedNameOf(c.Type(), args),
	}, nil
}

func cacheKeyOf(args []reflect.Type) string {
	var parts []string
	for _, arg := range args {
		parts = append(parts, arg.PkgPath()+"."+arg.String())
	}
	return strings.Join(parts, "|")
}

func specializedNameOf(T reflect.Type, args []reflect.Type) string {
	var names []string
	for _, arg := range args {
		name := arg.Name()
		if name == "" {
			name = arg.String()
		}
		names = append(names, name)
	}
	return fmt.Sprintf("%s[%s]", T.Name(), strings.Join(names, ","))
}

// Specialized is a derived type of a Class:
// the declaration with its bound fields holding the concrete type arguments.
// It is immutable after creation.
type Specialized[T any] struct {
	class *Class[T]
	args  []reflect.Type
	proto T
	name  string
}

// New returns a fresh copy of the specialised prototype:
// bound fields hold the type arguments, unbound fields the base declaration's values.
func (s *Specialized[T]) New() T { return s.proto }

// Class returns the generic declaration this type was derived from.
func (s *Specialized[T]) Class() *Class[T] { return s.class }

// Args returns the ordered type arguments of the specialisation.
func (s *Specialized[T]) Args() []reflect.Type {
	args := make([]reflect.Type, len(s.args))
	copy(args, s.args)
	return args
}

// Arg returns the type argument at the given parameter position.
func (s *Specialized[T]) Arg(pos int) reflect.Type {
	if pos < 0 || len(s.args) <= pos {
		panic(fmt.Sprintf("generic: argument position out of range: %d", pos))
	}
	return s.args[pos]
}

// Name renders the derived type's name, e.g. "Repository[User,int]".
func (s *Specialized[T]) Name() string { return s.name }
