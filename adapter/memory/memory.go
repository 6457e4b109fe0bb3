// Package memory provides an in-process crud.Repository,
// meant for tests and for trying out resource declarations without a database.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/mikemcowie/brewing/pkg/errorkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/port/crud"
)

const ErrEntityExpected errorkit.Error = "ErrEntityExpected"

func NewRepository() *Repository {
	return &Repository{}
}

// Repository stores entity values in per-type tables, keyed by their ID.
// Entities are deep-copied on both write and read,
// so stored state cannot be reached through the caller's references.
// It is safe for concurrent use.
type Repository struct {
	mutex  sync.RWMutex
	tables map[string]map[string]any
}

var _ crud.Repository = &Repository{}

func (r *Repository) Create(ctx context.Context, ptr any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ent, err := entityOf(ptr)
	if err != nil {
		return err
	}
	id, _ := reflectkit.LookupID(ent.Interface())
	if id == "" {
		id = uuid.NewV4().String()
		if err := reflectkit.SetID(ptr, id); err != nil {
			return err
		}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	table := r.tableFor(ent.Type())
	if _, ok := table[id]; ok {
		return crud.ErrAlreadyExists.F("%s with id %q", reflectkit.SymbolicName(ptr), id)
	}
	table[id] = reflectkit.DeepClone(ent).Interface()
	return nil
}

func (r *Repository) FindByID(ctx context.Context, ptr any, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ent, err := entityOf(ptr)
	if err != nil {
		return false, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	table, ok := r.lookupTable(ent.Type())
	if !ok {
		return false, nil
	}
	stored, ok := table[id]
	if !ok {
		return false, nil
	}
	ent.Set(reflectkit.DeepClone(reflect.ValueOf(stored)))
	return true, nil
}

func (r *Repository) FindAll(ctx context.Context, T reflect.Type) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	table, _ := r.lookupTable(T)

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	all := reflect.MakeSlice(reflect.SliceOf(T), 0, len(ids))
	for _, id := range ids {
		all = reflect.Append(all, reflectkit.DeepClone(reflect.ValueOf(table[id])))
	}
	return all.Interface(), nil
}

func (r *Repository) Update(ctx context.Context, ptr any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ent, err := entityOf(ptr)
	if err != nil {
		return err
	}
	id, ok := reflectkit.LookupID(ent.Interface())
	if !ok || id == "" {
		return crud.ErrMissingID.F("update requires %s to have an id", reflectkit.SymbolicName(ptr))
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	table := r.tableFor(ent.Type())
	if _, ok := table[id]; !ok {
		return crud.ErrNotFound.F("%s with id %q", reflectkit.SymbolicName(ptr), id)
	}
	table[id] = reflectkit.DeepClone(ent).Interface()
	return nil
}

func (r *Repository) DeleteByID(ctx context.Context, T reflect.Type, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	table := r.tableFor(T)
	if _, ok := table[id]; !ok {
		return crud.ErrNotFound.F("%s with id %q", T.String(), id)
	}
	delete(table, id)
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context, T reflect.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.tables, typeKeyOf(T))
	return nil
}

// lookupTable must be called while holding at least a read lock.
func (r *Repository) lookupTable(T reflect.Type) (map[string]any, bool) {
	if r.tables == nil {
		return nil, false
	}
	table, ok := r.tables[typeKeyOf(T)]
	return table, ok
}

// tableFor must be called while holding the write lock.
func (r *Repository) tableFor(T reflect.Type) map[string]any {
	if r.tables == nil {
		r.tables = map[string]map[string]any{}
	}
	key := typeKeyOf(T)
	if _, ok := r.tables[key]; !ok {
		r.tables[key] = map[string]any{}
	}
	return r.tables[key]
}

func typeKeyOf(T reflect.Type) string {
	return T.PkgPath() + "." + T.String()
}

func entityOf(ptr any) (reflect.Value, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, ErrEntityExpected.F("pointer to a struct expected, got %T", ptr)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrEntityExpected.F("pointer to a struct expected, got %T", ptr)
	}
	return v, nil
}
