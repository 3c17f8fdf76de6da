package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

// errDoctorFailed is returned when any doctor check fails.
var errDoctorFailed = errors.New("doctor found problems")

// doctorCommand checks the configuration, the data directory and the stored slot.
func (a *app) doctorCommand(args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}

	w := a.out
	cfg := a.cfg

	fmt.Fprintln(w, "Todo Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  ✅ File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  ✅ File: (none, using defaults)")
	}
	fmt.Fprintf(w, "  ✅ Backend: %s\n", cfg.Backend)
	fmt.Fprintf(w, "  ✅ Storage key: %s\n", cfg.StorageKey)
	fmt.Fprintf(w, "  ✅ Id scheme: %s\n", cfg.IDScheme)
	fmt.Fprintln(w)

	if cfg.Backend != storage.KindMemory {
		fmt.Fprintf(w, "Data dir: %s\n", cfg.DataDir)
		info, err := os.Stat(cfg.DataDir)
		switch {
		case err != nil && os.IsNotExist(err):
			fmt.Fprintln(w, "  ⚠️  Not found (created on first save)")
		case err != nil:
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		case !info.IsDir():
			fmt.Fprintln(w, "  ❌ Error: path is not a directory")
			allOK = false
		default:
			fmt.Fprintln(w, "  ✅ OK")
		}
		fmt.Fprintln(w)
	}

	if !a.checkSlot(*verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log dir: %s\n", cfg.LogDir)
	if dir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		runs, err := logging.FindLogRuns(dir)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ %d session %s\n", len(runs), plural(len(runs), "log", "logs"))
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed")
		return nil
	}
	fmt.Fprintln(w, "❌ Some checks failed")
	return storageError(errDoctorFailed)
}

// checkSlot reads the raw slot and validates it against the slot schema.
func (a *app) checkSlot(verbose bool) bool {
	w := a.out

	backend, err := storage.Open(a.cfg.Backend, a.cfg.DataDir)
	if err != nil {
		fmt.Fprintf(w, "Slot: %s\n", a.cfg.StorageKey)
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer backend.Close()

	adapter := storage.NewAdapter(backend,
		storage.WithKey(a.cfg.StorageKey),
		storage.WithStrict(a.cfg.StrictLoad),
	)
	fmt.Fprintf(w, "Slot: %s\n", adapter.Location())
	if adapter.Strict() {
		fmt.Fprintln(w, "  Load mode: strict (an unreadable slot is an error)")
	} else {
		fmt.Fprintln(w, "  Load mode: lenient (an unreadable slot loads as empty)")
	}

	raw, err := adapter.Raw()
	if errors.Is(err, storage.ErrSlotNotFound) {
		fmt.Fprintln(w, "  ⚠️  Not found (empty list)")
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}

	result := todo.ValidateSlot(raw)
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		if !adapter.Strict() {
			fmt.Fprintln(w, "  ⚠️  Lenient mode will load this slot as an empty list")
		}
		return false
	}

	fmt.Fprintf(w, "  ✅ Valid (%d %s)\n", result.Tasks, plural(result.Tasks, "task", "tasks"))
	if verbose {
		tasks, err := todo.DecodeSlot(raw)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Decode error: %v\n", err)
			return false
		}
		for _, t := range tasks {
			check := " "
			if t.Completed {
				check = "x"
			}
			fmt.Fprintf(w, "    - [%s] %s: %s\n", check, t.ID, t.Title)
		}
	}
	return true
}
