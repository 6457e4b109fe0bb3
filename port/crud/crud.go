// Package crud defines the repository port the brewing resource layers build upon.
//
// The interfaces are untyped on purpose: a runtime-generic controller only
// learns its entity type at specialisation time, so the port addresses
// entities as any values together with their reflect.Type.
package crud

import (
	"context"
	"reflect"

	"github.com/mikemcowie/brewing/pkg/errorkit"
)

const (
	// ErrNotFound is returned when the referenced entity is absent from the repository.
	ErrNotFound errorkit.Error = "ErrNotFound"
	// ErrAlreadyExists is returned on Create when the entity's ID is already taken.
	ErrAlreadyExists errorkit.Error = "ErrAlreadyExists"
	// ErrMissingID is returned when an operation requires an ID and the entity has none.
	ErrMissingID errorkit.Error = "ErrMissingID"
)

type Creator interface {
	// Create stores the entity behind ptr in the repository.
	// ptr must be a pointer to a struct value.
	// When the entity has a zero ID, the repository issues one
	// and sets it on the entity through the pointer.
	Create(ctx context.Context, ptr any) error
}

type Finder interface {
	// FindByID loads the entity with the given ID into ptr.
	// The found bool tells explicitly whether the entity was present.
	FindByID(ctx context.Context, ptr any, id string) (found bool, err error)
	// FindAll returns every stored entity of the given type.
	// The returned slice's element type is T.
	FindAll(ctx context.Context, T reflect.Type) (any, error)
}

type Updater interface {
	// Update replaces the stored entity that shares the ID of the entity behind ptr.
	// ErrNotFound is returned when no entity with that ID is stored.
	Update(ctx context.Context, ptr any) error
}

type Deleter interface {
	// DeleteByID removes the entity of the given type with the given ID.
	DeleteByID(ctx context.Context, T reflect.Type, id string) error
	// DeleteAll removes every stored entity of the given type.
	DeleteAll(ctx context.Context, T reflect.Type) error
}

// Repository is the composed port the resource layers depend on.
type Repository interface {
	Creator
	Finder
	Updater
	Deleter
}
