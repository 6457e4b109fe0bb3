// Package clikit exposes entities as command line resources.
//
// A ResourceCommand is a runtime-generic command: its Model field is bound
// through the generic binder when the command is registered for a concrete
// entity type. Argument parsing, help output and dispatch are delegated to
// google/subcommands.
package clikit

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/google/subcommands"

	"github.com/mikemcowie/brewing/pkg/generic"
	"github.com/mikemcowie/brewing/pkg/logkit"
	"github.com/mikemcowie/brewing/port/crud"
)

// ResourceCommand is the runtime-generic command declaration.
// Model receives the concrete entity type at specialisation time;
// the remaining fields are inherited from the registration's base declaration.
type ResourceCommand struct {
	Model reflect.Type `generic:"ModelT"`
	Repo  crud.Repository
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
}

var _ subcommands.Command = ResourceCommand{}

// Register specialises one ResourceCommand per entity type
// and registers them on the commander under the "resources" group.
func Register(cdr *subcommands.Commander, base ResourceCommand, models ...reflect.Type) error {
	if base.In == nil {
		base.In = os.Stdin
	}
	if base.Out == nil {
		base.Out = os.Stdout
	}
	if base.Err == nil {
		base.Err = os.Stderr
	}
	class, err := generic.DeclareFrom[ResourceCommand](base, "ModelT")
	if err != nil {
		return err
	}
	for _, model := range models {
		spec, err := class.Specialize(model)
		if err != nil {
			return err
		}
		cdr.Register(spec.New(), "resources")
	}
	return nil
}

func (cmd ResourceCommand) Name() string { return strings.ToLower(cmd.Model.Name()) }

func (cmd ResourceCommand) Synopsis() string {
	return fmt.Sprintf("manage %s entities", cmd.Model.Name())
}

func (cmd ResourceCommand) Usage() string {
	name := cmd.Name()
	return fmt.Sprintf(`%[1]s list
%[1]s get <id>
%[1]s create   (reads one JSON document from stdin)
%[1]s delete <id>
`, name)
}

func (cmd ResourceCommand) SetFlags(*flag.FlagSet) {}

func (cmd ResourceCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	switch verb := f.Arg(0); verb {
	case "list":
		return cmd.list(ctx)
	case "get":
		return cmd.get(ctx, f.Arg(1))
	case "create":
		return cmd.create(ctx)
	case "delete":
		return cmd.delete(ctx, f.Arg(1))
	default:
		fmt.Fprint(cmd.Err, cmd.Usage())
		return subcommands.ExitUsageError
	}
}

func (cmd ResourceCommand) list(ctx context.Context) subcommands.ExitStatus {
	all, err := cmd.Repo.FindAll(ctx, cmd.Model)
	if err != nil {
		return cmd.fail(ctx, err)
	}
	return cmd.print(ctx, all)
}

func (cmd ResourceCommand) get(ctx context.Context, id string) subcommands.ExitStatus {
	if id == "" {
		fmt.Fprintln(cmd.Err, "an entity id is required")
		return subcommands.ExitUsageError
	}
	ptr := reflect.New(cmd.Model)
	found, err := cmd.Repo.FindByID(ctx, ptr.Interface(), id)
	if err != nil {
		return cmd.fail(ctx, err)
	}
	if !found {
		fmt.Fprintf(cmd.Err, "%s with id %q does not exist\n", cmd.Model.Name(), id)
		return subcommands.ExitFailure
	}
	return cmd.print(ctx, ptr.Elem().Interface())
}

func (cmd ResourceCommand) create(ctx context.Context) subcommands.ExitStatus {
	ptr := reflect.New(cmd.Model)
	if err := json.NewDecoder(cmd.In).Decode(ptr.Interface()); err != nil {
		fmt.Fprintf(cmd.Err, "invalid JSON document: %s\n", err.Error())
		return subcommands.ExitUsageError
	}
	if err := cmd.Repo.Create(ctx, ptr.Interface()); err != nil {
		return cmd.fail(ctx, err)
	}
	return cmd.print(ctx, ptr.Elem().Interface())
}

func (cmd ResourceCommand) delete(ctx context.Context, id string) subcommands.ExitStatus {
	if id == "" {
		fmt.Fprintln(cmd.Err, "an entity id is required")
		return subcommands.ExitUsageError
	}
	if err := cmd.Repo.DeleteByID(ctx, cmd.Model, id); err != nil {
		return cmd.fail(ctx, err)
	}
	return subcommands.ExitSuccess
}

func (cmd ResourceCommand) print(ctx context.Context, v any) subcommands.ExitStatus {
	enc := json.NewEncoder(cmd.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return cmd.fail(ctx, err)
	}
	return subcommands.ExitSuccess
}

func (cmd ResourceCommand) fail(ctx context.Context, err error) subcommands.ExitStatus {
	logkit.FromContext(ctx).Error().Err(err).
		Str("resource", cmd.Model.String()).
		Msg("command failed")
	fmt.Fprintln(cmd.Err, err.Error())
	return subcommands.ExitFailure
}
