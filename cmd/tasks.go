package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/todo-go/internal/todo"
)

// shortIDLen is the minimum id prefix shown by ls.
const shortIDLen = 4

// lsCommand lists tasks in insertion order.
func (a *app) lsCommand(args []string) error {
	fs := a.newFlagSet("ls")
	active := fs.Bool("active", false, "Only active tasks")
	completed := fs.Bool("completed", false, "Only completed tasks")
	verbose := fs.Bool("v", false, "Show descriptions, full ids and creation times")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}
	if *active && *completed {
		return userError(errors.New("--active and --completed are mutually exclusive"))
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	all := st.Snapshot()
	shown := 0
	for _, t := range all {
		if (*active && t.Completed) || (*completed && !t.Completed) {
			continue
		}
		printTask(a.out, all, t, *verbose)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
	}
	fmt.Fprintf(a.out, "\n%d active, %d completed\n", st.CountActive(), st.CountCompleted())
	return nil
}

// addCommand creates a task from the remaining arguments.
func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	description := fs.String("d", "", "Description")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	draft := todo.Draft{Title: joinArgs(rest), Description: *description}
	if err := todo.ValidateDraft(draft); err != nil {
		return userError(err)
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := st.Create(draft)
	if err != nil {
		return storageError(err)
	}
	fmt.Fprintf(a.out, "Created %s %s\n", task.ID, task.Title)
	return nil
}

// showCommand prints one task in full.
func (a *app) showCommand(args []string) error {
	fs := a.newFlagSet("show")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return userError(errors.New("usage: todo show <id>"))
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := todo.Resolve(st.Snapshot(), rest[0])
	if err != nil {
		return userError(err)
	}

	status := "active"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(a.out, "ID:          %s\n", task.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", task.Title)
	fmt.Fprintf(a.out, "Description: %s\n", task.Description)
	fmt.Fprintf(a.out, "Status:      %s\n", status)
	fmt.Fprintf(a.out, "Created:     %s\n", task.CreatedAt.Local().Format(time.RFC3339))
	return nil
}

// editCommand updates the title and/or description of a task.
func (a *app) editCommand(args []string) error {
	fs := a.newFlagSet("edit")
	var patch todo.Patch
	fs.Func("title", "New title", func(s string) error {
		patch = patch.WithTitle(s)
		return nil
	})
	fs.Func("d", "New description", func(s string) error {
		patch = patch.WithDescription(s)
		return nil
	})
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return userError(errors.New("usage: todo edit <id> [-title t] [-d text]"))
	}
	if patch.IsEmpty() {
		return userError(errors.New("nothing to change: pass -title or -d"))
	}
	if err := todo.ValidatePatch(patch); err != nil {
		return userError(err)
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := todo.Resolve(st.Snapshot(), rest[0])
	if err != nil {
		return userError(err)
	}
	updated, found, err := st.Update(task.ID, patch)
	if err != nil {
		return storageError(err)
	}
	if !found {
		return userError(fmt.Errorf("%w: %s", todo.ErrTaskNotFound, task.ID))
	}
	fmt.Fprintf(a.out, "Updated %s %s\n", updated.ID, updated.Title)
	return nil
}

// doneCommand toggles the completed flag of a task.
func (a *app) doneCommand(args []string) error {
	return a.withTask("done", args, func(s taskStore, task todo.Task) error {
		toggled, found, err := s.Toggle(task.ID)
		if err != nil {
			return storageError(err)
		}
		if !found {
			return userError(fmt.Errorf("%w: %s", todo.ErrTaskNotFound, task.ID))
		}
		state := "active"
		if toggled.Completed {
			state = "completed"
		}
		fmt.Fprintf(a.out, "Marked %s %s\n", toggled.ID, state)
		return nil
	})
}

// rmCommand deletes a task.
func (a *app) rmCommand(args []string) error {
	return a.withTask("rm", args, func(s taskStore, task todo.Task) error {
		removed, err := s.Delete(task.ID)
		if err != nil {
			return storageError(err)
		}
		if !removed {
			return userError(fmt.Errorf("%w: %s", todo.ErrTaskNotFound, task.ID))
		}
		fmt.Fprintf(a.out, "Deleted %s %s\n", task.ID, task.Title)
		return nil
	})
}

// taskStore is what single-task commands need from the store.
type taskStore interface {
	Toggle(id todo.ID) (todo.Task, bool, error)
	Delete(id todo.ID) (bool, error)
}

// withTask resolves the single id argument and runs fn on the task.
func (a *app) withTask(name string, args []string, fn func(taskStore, todo.Task) error) error {
	fs := a.newFlagSet(name)
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return userError(fmt.Errorf("usage: todo %s <id>", name))
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := todo.Resolve(st.Snapshot(), rest[0])
	if err != nil {
		return userError(err)
	}
	return fn(st, task)
}

// clearCommand removes all completed tasks.
func (a *app) clearCommand(args []string) error {
	if len(args) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", args))
	}
	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := st.ClearCompleted()
	if err != nil {
		return storageError(err)
	}
	fmt.Fprintf(a.out, "Cleared %d completed %s\n", n, plural(n, "task", "tasks"))
	return nil
}

// countCommand prints active and completed counts.
func (a *app) countCommand(args []string) error {
	if len(args) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", args))
	}
	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Fprintf(a.out, "%d active, %d completed\n", st.CountActive(), st.CountCompleted())
	return nil
}

// exportCommand writes the full list as JSON or YAML.
func (a *app) exportCommand(args []string) error {
	fs := a.newFlagSet("export")
	format := fs.String("format", "json", "Output format (json, yaml)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}
	if *format != "json" && *format != "yaml" {
		return userError(fmt.Errorf("unknown format %q (want json or yaml)", *format))
	}

	st, _, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return writeTasks(a.out, st.Snapshot(), *format)
}

func writeTasks(w io.Writer, tasks []todo.Task, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// printTask prints a single task line.
func printTask(w io.Writer, all []todo.Task, t todo.Task, verbose bool) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	id := todo.ShortID(all, t.ID, shortIDLen)
	if verbose {
		id = string(t.ID)
	}
	fmt.Fprintf(w, "  %s %s  %s\n", check, id, t.Title)

	if verbose {
		if t.Description != "" {
			fmt.Fprintf(w, "      %s\n", t.Description)
		}
		fmt.Fprintf(w, "      created %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
