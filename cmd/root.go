// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	return newApp(os.Stdout, os.Stderr).run(ctx, args)
}

// app carries the output streams and the loaded configuration of one
// invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	cws    *config.ConfigWithSources
	cfg    *config.Config
	logger *log.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func (a *app) run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		printUsage(fs, a.errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return configError(fmt.Errorf("loading config: %w", err))
	}
	a.cws = cws
	a.cfg = cws.Config
	a.logger = logging.NewFromConfig(a.errOut, a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)

	if *help {
		printUsage(fs, a.out)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	err = a.dispatch(ctx, fs, subcommand, remainingArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// dispatch runs one subcommand.
func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, subcommand string, remainingArgs []string) error {
	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "show":
		return a.showCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "done", "toggle":
		return a.doneCommand(remainingArgs)
	case "rm", "delete":
		return a.rmCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "count":
		return a.countCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "logs":
		return a.logsCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, a.out)
		return nil
	default:
		fmt.Fprintf(a.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, a.errOut)
		return userError(fmt.Errorf("unknown command: %s", subcommand))
	}
}

// openStore opens the configured backend and loads the task store.
// The returned adapter gives access to the raw slot.
func (a *app) openStore(logger *log.Logger) (*store.Store, *storage.Adapter, func(), error) {
	backend, err := storage.Open(a.cfg.Backend, a.cfg.DataDir)
	if err != nil {
		return nil, nil, nil, storageError(fmt.Errorf("opening storage: %w", err))
	}
	closeBackend := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing storage failed", "err", err)
		}
	}

	adapter := storage.NewAdapter(backend,
		storage.WithKey(a.cfg.StorageKey),
		storage.WithStrict(a.cfg.StrictLoad),
		storage.WithLogger(logger),
	)

	ids, err := todo.NewIDGenerator(a.cfg.IDScheme, nil)
	if err != nil {
		closeBackend()
		return nil, nil, nil, configError(err)
	}

	st, err := store.New(adapter, store.WithIDGenerator(ids), store.WithLogger(logger))
	if err != nil {
		closeBackend()
		return nil, nil, nil, storageError(err)
	}
	return st, adapter, closeBackend, nil
}

// parseArgs parses subcommand flags. Flags may follow positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, userError(err)
		}
		rest := fs.Args()
		// Parse consumes a "--" terminator; everything after it is positional.
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range [][2]string{
		{"tui", "Interactive terminal UI (default command)"},
		{"ls [--active|--completed] [-v]", "List tasks"},
		{"add <title> [-d text]", "Create a task"},
		{"show <id>", "Show one task"},
		{"edit <id> [-title t] [-d text]", "Change a task's title or description"},
		{"done <id>", "Toggle completion"},
		{"rm <id>", "Delete a task"},
		{"clear", "Delete all completed tasks"},
		{"count", "Print active and completed counts"},
		{"export [-format json|yaml]", "Write all tasks to stdout"},
		{"doctor", "Check configuration and stored data"},
		{"config [-example]", "Show effective configuration and sources"},
		{"logs [-n N] [-list]", "Show terminal UI session logs"},
		{"version", "Show version information"},
		{"help", "Show this help message"},
	} {
		fmt.Fprintf(w, "  %-32s %s\n", c[0], c[1])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ids may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
