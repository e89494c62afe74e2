package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/config"
)

const appName = "docxlist"

type envKey struct{}

// env is shared by all subcommands once the command line has been parsed.
type env struct {
	cfg config.Config
	log *zap.Logger
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{cfg: config.Defaults(), log: zap.NewNop()}
}

// initializeAppContext loads configuration and logging after the command
// line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)

	cfg, err := config.LoadFrom(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	// console output unless the configuration file insists otherwise
	if cmd.String("config") == "" && os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "console"
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := cfg.Logger(appName)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.cfg, e.log = cfg, log

	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	e := envFromContext(ctx)
	e.log.Debug("Program ended")
	// stdout and stderr do not support fsync on most platforms
	_ = e.log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if err != nil && e.log.Core().Enabled(zap.ErrorLevel) {
		e.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.WithValue(context.Background(), envKey{}, &env{cfg: config.Defaults(), log: zap.NewNop()}),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "renders lists from text, markdown, html, csv, docx and pdf sources into Word documents",
		Version:         runtime.Version(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders a source document to .docx",
				OnUsageError: usageErrorHandler,
				Action:       renderAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "indent", Usage: "indentation step per list level in `TWIPS` (default from configuration)"},
					&cli.StringFlag{Name: "title", Usage: "document `TITLE`, defaults to the source name"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to a .txt, .md, .markdown, .csv, .html, .htm, .pdf or .docx file

DESTINATION:
    output file or directory, if absent - SOURCE with .docx extension
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps actual configuration (YAML), secrets redacted",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	// os.Exit skips deferred calls, stop is called explicitly
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, err := e.cfg.Redacted().Dump()
	if err != nil {
		return fmt.Errorf("unable to dump configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if fname == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return fmt.Errorf("unable to write configuration to '%s': %w", fname, err)
	}
	e.log.Info("Configuration written", zap.String("file", fname))
	return nil
}
