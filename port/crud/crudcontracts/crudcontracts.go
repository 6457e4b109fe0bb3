// Package crudcontracts provides the shared behavioural suite
// that every crud.Repository implementation must satisfy.
package crudcontracts

import (
	"context"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"go.llib.dev/testcase/assert"

	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/port/crud"
)

type NoteEntity struct {
	ID    string `ext:"id"`
	Title string
	Body  string
	Tags  []string
}

type TagEntity struct {
	ID   string `ext:"id"`
	Name string
}

func makeNote() NoteEntity {
	return NoteEntity{
		Title: randomdata.SillyName(),
		Body:  randomdata.Paragraph(),
		Tags:  []string{randomdata.Adjective()},
	}
}

// Repository runs the behavioural contract of the crud.Repository port
// against the subject returned by the factory.
// Each subtest receives a fresh repository.
func Repository(t *testing.T, subject func(tb testing.TB) crud.Repository) {
	noteType := reflectkit.TypeOf[NoteEntity]()

	t.Run("Create issues an id when the entity has none", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))
		assert.NotEmpty(t, note.ID)

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, note.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, note, got)
	})

	t.Run("Create keeps an id that was provided ahead of time", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		note.ID = "held-in-advance"
		assert.NoError(t, repo.Create(ctx, &note))
		assert.Equal(t, "held-in-advance", note.ID)

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, "held-in-advance")
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Create refuses an already taken id", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))

		dupe := makeNote()
		dupe.ID = note.ID
		assert.ErrorIs(t, repo.Create(ctx, &dupe), crud.ErrAlreadyExists)
	})

	t.Run("FindByID reports absence without an error", func(t *testing.T) {
		repo := subject(t)

		var got NoteEntity
		found, err := repo.FindByID(context.Background(), &got, "no-such-id")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("FindAll returns every stored entity of the type", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		var created []NoteEntity
		for i := 0; i < 3; i++ {
			note := makeNote()
			assert.NoError(t, repo.Create(ctx, &note))
			created = append(created, note)
		}

		all, err := repo.FindAll(ctx, noteType)
		assert.NoError(t, err)
		notes, ok := all.([]NoteEntity)
		assert.True(t, ok, "FindAll must return a []NoteEntity")
		assert.Equal(t, len(created), len(notes))
		for _, exp := range created {
			assert.Contains(t, notes, exp)
		}
	})

	t.Run("FindAll on an empty repository returns an empty slice", func(t *testing.T) {
		repo := subject(t)

		all, err := repo.FindAll(context.Background(), noteType)
		assert.NoError(t, err)
		notes, ok := all.([]NoteEntity)
		assert.True(t, ok)
		assert.Empty(t, notes)
	})

	t.Run("Update replaces the stored entity", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))

		note.Body = randomdata.Paragraph()
		assert.NoError(t, repo.Update(ctx, &note))

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, note.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, note.Body, got.Body)
	})

	t.Run("Update without an id fails", func(t *testing.T) {
		repo := subject(t)

		note := makeNote()
		assert.ErrorIs(t, repo.Update(context.Background(), &note), crud.ErrMissingID)
	})

	t.Run("Update of an unknown id fails", func(t *testing.T) {
		repo := subject(t)

		note := makeNote()
		note.ID = "no-such-id"
		assert.ErrorIs(t, repo.Update(context.Background(), &note), crud.ErrNotFound)
	})

	t.Run("DeleteByID removes the entity", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))
		assert.NoError(t, repo.DeleteByID(ctx, noteType, note.ID))

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, note.ID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("DeleteByID of an unknown id fails", func(t *testing.T) {
		repo := subject(t)

		err := repo.DeleteByID(context.Background(), noteType, "no-such-id")
		assert.ErrorIs(t, err, crud.ErrNotFound)
	})

	t.Run("DeleteAll only affects the given entity type", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))
		tag := TagEntity{Name: randomdata.Noun()}
		assert.NoError(t, repo.Create(ctx, &tag))

		assert.NoError(t, repo.DeleteAll(ctx, noteType))

		all, err := repo.FindAll(ctx, noteType)
		assert.NoError(t, err)
		assert.Empty(t, all.([]NoteEntity))

		var gotTag TagEntity
		found, err := repo.FindByID(ctx, &gotTag, tag.ID)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("operations respect context cancellation", func(t *testing.T) {
		repo := subject(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		note := makeNote()
		assert.ErrorIs(t, repo.Create(ctx, &note), context.Canceled)
		_, err := repo.FindAll(ctx, noteType)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("stored values are isolated from later mutations of the source", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		assert.NoError(t, repo.Create(ctx, &note))
		original := note.Body
		note.Body = "mutated after create"

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, note.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, original, got.Body)
	})

	t.Run("stored values share no memory with the caller's entity", func(t *testing.T) {
		repo := subject(t)
		ctx := context.Background()

		note := makeNote()
		note.Tags = []string{"sour", "floral"}
		assert.NoError(t, repo.Create(ctx, &note))
		note.Tags[0] = "mutated after create"

		var got NoteEntity
		found, err := repo.FindByID(ctx, &got, note.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "sour", got.Tags[0])

		got.Tags[1] = "mutated after find"
		var again NoteEntity
		found, err = repo.FindByID(ctx, &again, note.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "floral", again.Tags[1])
	})
}
