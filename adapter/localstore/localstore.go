// Package localstore provides a crud.Repository backed by a local bolt database file.
package localstore

import (
	"bytes"
	"context"
	"encoding/gob"
	"reflect"
	"strconv"

	"github.com/boltdb/bolt"

	"github.com/mikemcowie/brewing/pkg/errorkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/port/crud"
)

const ErrEntityExpected errorkit.Error = "ErrEntityExpected"

// New opens the bolt database at the given path.
// The returned repository holds the file lock until Close is called.
func New(path string) (*Repository, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Repository stores gob encoded entity values, one bolt bucket per entity type.
type Repository struct {
	db *bolt.DB
}

var _ crud.Repository = &Repository{}

// Close the database and release the file lock.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Create(ctx context.Context, ptr any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ent, err := entityOf(ptr)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketNameFor(ent.Type()))
		if err != nil {
			return err
		}

		id, _ := reflectkit.LookupID(ent.Interface())
		if id == "" {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			id = strconv.FormatUint(seq, 10)
			if err := reflectkit.SetID(ptr, id); err != nil {
				return err
			}
		}

		key := []byte(id)
		if bucket.Get(key) != nil {
			return crud.ErrAlreadyExists.F("%s with id %q", reflectkit.SymbolicName(ptr), id)
		}

		value, err := encode(ent.Interface())
		if err != nil {
			return err
		}
		return bucket.Put(key, value)
	})
}

func (r *Repository) FindByID(ctx context.Context, ptr any, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ent, err := entityOf(ptr)
	if err != nil {
		return false, err
	}
	var found bool
	err = r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketNameFor(ent.Type()))
		if bucket == nil {
			return nil
		}
		value := bucket.Get([]byte(id))
		if value == nil {
			return nil
		}
		found = true
		return decode(value, ptr)
	})
	return found, err
}

func (r *Repository) FindAll(ctx context.Context, T reflect.Type) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := reflect.MakeSlice(reflect.SliceOf(T), 0, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketNameFor(T))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, value []byte) error {
			ptr := reflect.New(T)
			if err := decode(value, ptr.Interface()); err != nil {
				return err
			}
			all = reflect.Append(all, ptr.Elem())
			return nil
		})
	})
	if err != nil {
		return nil, err
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
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketNameFor(ent.Type()))
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return crud.ErrNotFound.F("%s with id %q", reflectkit.SymbolicName(ptr), id)
		}
		value, err := encode(ent.Interface())
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), value)
	})
}

func (r *Repository) DeleteByID(ctx context.Context, T reflect.Type, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketNameFor(T))
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return crud.ErrNotFound.F("%s with id %q", T.String(), id)
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *Repository) DeleteAll(ctx context.Context, T reflect.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		name := bucketNameFor(T)
		if tx.Bucket(name) == nil {
			return nil
		}
		return tx.DeleteBucket(name)
	})
}

func bucketNameFor(T reflect.Type) []byte {
	return []byte(T.PkgPath() + "." + T.String())
}

func encode(ent any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(value []byte, ptr any) error {
	return gob.NewDecoder(bytes.NewReader(value)).Decode(ptr)
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
