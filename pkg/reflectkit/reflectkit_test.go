package reflectkit_test

import (
	"reflect"
	"testing"

	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"
)

var rnd = random.New(random.CryptoSeed{})

type StructObject struct{}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.String, reflectkit.TypeOf[string]().Kind())
	assert.Equal(t, reflect.Int32, reflectkit.TypeOf[int32]().Kind())
	assert.Equal(t, reflect.TypeOf(StructObject{}), reflectkit.TypeOf[StructObject]())
}

func TestBaseTypeOf(t *testing.T) {
	o := StructObject{}
	assert.Equal(t, reflect.TypeOf(o), reflectkit.BaseTypeOf(o))
	assert.Equal(t, reflect.TypeOf(o), reflectkit.BaseTypeOf(&o))
	ptr := &o
	assert.Equal(t, reflect.TypeOf(o), reflectkit.BaseTypeOf(&ptr))
}

func TestBaseValueOf(t *testing.T) {
	o := StructObject{}
	assert.Equal(t, reflect.Struct, reflectkit.BaseValueOf(o).Kind())
	assert.Equal(t, reflect.Struct, reflectkit.BaseValueOf(&o).Kind())
	t.Run("nil pointer", func(t *testing.T) {
		var ptr *StructObject
		assert.Equal(t, reflect.Ptr, reflectkit.BaseValueOf(ptr).Kind())
	})
}

func TestFullyQualifiedName(t *testing.T) {
	t.Run("builtin type", func(t *testing.T) {
		assert.Equal(t, "string", reflectkit.FullyQualifiedName("hello"))
	})
	t.Run("package level type", func(t *testing.T) {
		assert.Equal(t,
			`"github.com/mikemcowie/brewing/pkg/reflectkit_test".StructObject`,
			reflectkit.FullyQualifiedName(StructObject{}))
	})
	t.Run("pointer is unwrapped", func(t *testing.T) {
		assert.Equal(t,
			reflectkit.FullyQualifiedName(StructObject{}),
			reflectkit.FullyQualifiedName(&StructObject{}))
	})
}

func TestLink(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		var dst string
		exp := rnd.String()
		assert.NoError(t, reflectkit.Link(exp, &dst))
		assert.Equal(t, exp, dst)
	})
	t.Run("non pointer destination", func(t *testing.T) {
		var dst string
		assert.Error(t, reflectkit.Link("value", dst))
	})
	t.Run("type mismatch", func(t *testing.T) {
		var dst int
		assert.Error(t, reflectkit.Link("value", &dst))
	})
}

type EntWithIDField struct {
	ID   string
	Name string
}

type EntWithIDTag struct {
	Identifier string `ext:"id"`
}

type EntWithoutID struct {
	Name string
}

func TestLookupID(t *testing.T) {
	t.Run("by field name", func(t *testing.T) {
		id := rnd.UUID()
		got, ok := reflectkit.LookupID(EntWithIDField{ID: id})
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})
	t.Run("by ext tag", func(t *testing.T) {
		id := rnd.UUID()
		got, ok := reflectkit.LookupID(EntWithIDTag{Identifier: id})
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})
	t.Run("pointer entity", func(t *testing.T) {
		id := rnd.UUID()
		got, ok := reflectkit.LookupID(&EntWithIDField{ID: id})
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})
	t.Run("no id", func(t *testing.T) {
		_, ok := reflectkit.LookupID(EntWithoutID{})
		assert.False(t, ok)
	})
}

func TestSetID(t *testing.T) {
	t.Run("by field name", func(t *testing.T) {
		var ent EntWithIDField
		id := rnd.UUID()
		assert.NoError(t, reflectkit.SetID(&ent, id))
		assert.Equal(t, id, ent.ID)
	})
	t.Run("by ext tag", func(t *testing.T) {
		var ent EntWithIDTag
		id := rnd.UUID()
		assert.NoError(t, reflectkit.SetID(&ent, id))
		assert.Equal(t, id, ent.Identifier)
	})
	t.Run("non pointer", func(t *testing.T) {
		var ent EntWithIDField
		assert.ErrorIs(t, reflectkit.SetID(ent, rnd.UUID()), reflectkit.ErrIDFieldNotFound)
	})
	t.Run("no id field", func(t *testing.T) {
		var ent EntWithoutID
		assert.ErrorIs(t, reflectkit.SetID(&ent, rnd.UUID()), reflectkit.ErrIDFieldNotFound)
	})
}
