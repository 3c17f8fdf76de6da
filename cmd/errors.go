package cmd

import (
	"errors"
	"flag"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitUser    = 1
	ExitConfig  = 2
	ExitStorage = 3
)

// exitError tags an error with the process exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error    { return wrapExit(ExitUser, err) }
func configError(err error) error  { return wrapExit(ExitConfig, err) }
func storageError(err error) error { return wrapExit(ExitStorage, err) }

func wrapExit(code int, err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by Run to a process exit code.
// Untagged errors are user errors.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUser
}
