package clikit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"go.llib.dev/testcase/assert"

	"github.com/mikemcowie/brewing/adapter/memory"
	"github.com/mikemcowie/brewing/pkg/clikit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/port/crud"
)

type Coffee struct {
	ID       string `ext:"id" json:"id"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

func run(tb testing.TB, repo crud.Repository, stdin string, args ...string) (subcommands.ExitStatus, string, string) {
	tb.Helper()
	fs := flag.NewFlagSet("brewing", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "brewing")

	var out, errOut bytes.Buffer
	base := clikit.ResourceCommand{
		Repo: repo,
		In:   strings.NewReader(stdin),
		Out:  &out,
		Err:  &errOut,
	}
	assert.NoError(tb, clikit.Register(cdr, base, reflectkit.TypeOf[Coffee]()))
	assert.NoError(tb, fs.Parse(args))

	status := cdr.Execute(context.Background())
	return status, out.String(), errOut.String()
}

func TestResourceCommand_create(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		repo := memory.NewRepository()

		status, out, _ := run(t, repo, `{"name":"flat white","strength":3}`, "coffee", "create")
		assert.Equal(t, subcommands.ExitSuccess, status)

		var created Coffee
		assert.NoError(t, json.Unmarshal([]byte(out), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "flat white", created.Name)

		var stored Coffee
		found, err := repo.FindByID(context.Background(), &stored, created.ID)
		assert.NoError(t, err)
		assert.True(t, found)
	})
	t.Run("invalid document", func(t *testing.T) {
		status, _, errOut := run(t, memory.NewRepository(), `{not json`, "coffee", "create")
		assert.Equal(t, subcommands.ExitUsageError, status)
		assert.Contains(t, errOut, "invalid JSON document")
	})
}

func TestResourceCommand_list(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	for _, name := range []string{"espresso", "lungo"} {
		coffee := Coffee{Name: name}
		assert.NoError(t, repo.Create(ctx, &coffee))
	}

	status, out, _ := run(t, repo, "", "coffee", "list")
	assert.Equal(t, subcommands.ExitSuccess, status)

	var coffees []Coffee
	assert.NoError(t, json.Unmarshal([]byte(out), &coffees))
	assert.Equal(t, 2, len(coffees))
}

func TestResourceCommand_get(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		repo := memory.NewRepository()
		coffee := Coffee{Name: "espresso", Strength: 5}
		assert.NoError(t, repo.Create(context.Background(), &coffee))

		status, out, _ := run(t, repo, "", "coffee", "get", coffee.ID)
		assert.Equal(t, subcommands.ExitSuccess, status)

		var got Coffee
		assert.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, coffee, got)
	})
	t.Run("unknown id", func(t *testing.T) {
		status, _, errOut := run(t, memory.NewRepository(), "", "coffee", "get", "no-such-id")
		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Contains(t, errOut, "does not exist")
	})
	t.Run("missing id", func(t *testing.T) {
		status, _, errOut := run(t, memory.NewRepository(), "", "coffee", "get")
		assert.Equal(t, subcommands.ExitUsageError, status)
		assert.Contains(t, errOut, "id is required")
	})
}

func TestResourceCommand_delete(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		repo := memory.NewRepository()
		coffee := Coffee{Name: "espresso"}
		assert.NoError(t, repo.Create(context.Background(), &coffee))

		status, _, _ := run(t, repo, "", "coffee", "delete", coffee.ID)
		assert.Equal(t, subcommands.ExitSuccess, status)

		var got Coffee
		found, err := repo.FindByID(context.Background(), &got, coffee.ID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
	t.Run("unknown id", func(t *testing.T) {
		status, _, _ := run(t, memory.NewRepository(), "", "coffee", "delete", "no-such-id")
		assert.Equal(t, subcommands.ExitFailure, status)
	})
}

func TestResourceCommand_unknownVerb(t *testing.T) {
	status, _, errOut := run(t, memory.NewRepository(), "", "coffee", "frobnicate")
	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, errOut, "coffee list")
}

func TestResourceCommand_Name_isDerivedFromTheModel(t *testing.T) {
	fs := flag.NewFlagSet("brewing", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "brewing")
	assert.NoError(t, clikit.Register(cdr, clikit.ResourceCommand{Repo: memory.NewRepository()},
		reflectkit.TypeOf[Coffee]()))

	// dispatching by the lowercased entity name proves the registration name
	assert.NoError(t, fs.Parse([]string{"coffee", "list"}))
	assert.Equal(t, subcommands.ExitSuccess, cdr.Execute(context.Background()))
}
