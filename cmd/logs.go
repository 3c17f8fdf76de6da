package cmd

import (
	"fmt"

	"github.com/nibzard/todo-go/internal/logging"
)

// logsCommand shows the newest terminal UI session log, or lists them all.
func (a *app) logsCommand(args []string) error {
	fs := a.newFlagSet("logs")
	lines := fs.Int("n", 50, "Number of lines to show (0 for all)")
	list := fs.Bool("list", false, "List session logs instead of showing one")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}

	dir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return configError(err)
	}

	if *list {
		runs, err := logging.FindLogRuns(dir)
		if err != nil {
			return storageError(err)
		}
		if len(runs) == 0 {
			fmt.Fprintf(a.out, "No session logs in %s\n", dir)
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(a.out, "%s  %s  %6d bytes  %s\n",
				r.ModTime.Local().Format("2006-01-02 15:04:05"), r.RunID, r.Size, r.Path)
		}
		return nil
	}

	path, err := logging.FindLatestLog(dir)
	if err != nil {
		return storageError(err)
	}
	if path == "" {
		fmt.Fprintf(a.out, "No session logs in %s\n", dir)
		return nil
	}
	if err := logging.TailLog(a.out, path, *lines); err != nil {
		return storageError(err)
	}
	return nil
}
