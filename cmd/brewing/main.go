// Command brewing is the demo application of the brewing toolkit:
// it declares a couple of entities and exposes them both as REST resources
// and as CLI resource commands, backed by a local bolt database.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/mikemcowie/brewing/adapter/localstore"
	"github.com/mikemcowie/brewing/pkg/clikit"
	"github.com/mikemcowie/brewing/pkg/env"
	"github.com/mikemcowie/brewing/pkg/logkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
	"github.com/mikemcowie/brewing/pkg/restkit"
	"github.com/mikemcowie/brewing/port/crud"
)

type Coffee struct {
	ID       string `ext:"id" json:"id"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

type Recipe struct {
	ID    string `ext:"id" json:"id"`
	Title string `json:"title"`
	Steps string `json:"steps"`
}

var models = []reflect.Type{
	reflectkit.TypeOf[Coffee](),
	reflectkit.TypeOf[Recipe](),
}

type Config struct {
	Addr      string `env:"BREWING_ADDR" default:":8080"`
	DBPath    string `env:"BREWING_DB_PATH" default:"brewing.db"`
	LogLevel  string `env:"BREWING_LOG_LEVEL" default:"info"`
	LogPretty bool   `env:"BREWING_LOG_PRETTY" default:"false"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	var conf Config
	if err := env.Load(&conf); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	logger := logkit.New(logkit.Config{Level: conf.LogLevel, Pretty: conf.LogPretty})
	ctx = logkit.ContextWith(ctx, logger)

	repo, err := localstore.New(conf.DBPath)
	if err != nil {
		logger.Error().Err(err).Str("path", conf.DBPath).Msg("cannot open the database")
		return 1
	}
	defer func() { _ = repo.Close() }()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&serveCommand{addr: conf.Addr, repo: repo, logger: logger}, "server")
	if err := clikit.Register(subcommands.DefaultCommander, clikit.ResourceCommand{Repo: repo}, models...); err != nil {
		logger.Error().Err(err).Msg("cannot register the resource commands")
		return 1
	}

	flag.Parse()
	return int(subcommands.Execute(ctx))
}

type serveCommand struct {
	addr   string
	repo   crud.Repository
	logger zerolog.Logger
}

func (*serveCommand) Name() string     { return "serve" }
func (*serveCommand) Synopsis() string { return "serve the REST resources over HTTP" }
func (*serveCommand) Usage() string    { return "serve [-addr host:port]\n" }

func (cmd *serveCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.addr, "addr", cmd.addr, "listen address")
}

func (cmd *serveCommand) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	router := restkit.NewRouter(cmd.repo, cmd.logger)
	for _, model := range models {
		path := "/" + strings.ToLower(model.Name()) + "s"
		if err := router.Mount(path, model); err != nil {
			cmd.logger.Error().Err(err).Str("path", path).Msg("cannot mount the resource")
			return subcommands.ExitFailure
		}
		cmd.logger.Info().Str("path", path).Str("model", model.Name()).Msg("resource mounted")
	}

	server := &http.Server{Addr: cmd.addr, Handler: router}
	errs := make(chan error, 1)
	go func() { errs <- server.ListenAndServe() }()
	cmd.logger.Info().Str("addr", cmd.addr).Msg("serving")

	select {
	case err := <-errs:
		cmd.logger.Error().Err(err).Msg("server stopped")
		return subcommands.ExitFailure
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cmd.logger.Error().Err(err).Msg("shutdown failed")
		return subcommands.ExitFailure
	}
	cmd.logger.Info().Msg("bye")
	return subcommands.ExitSuccess
}
