package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/josephgoksu/contactbook/store"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitNotFound = 1
	ExitInvalid  = 2
)

// ExitError carries an explicit exit code and the message printed after
// "Error: ".
type ExitError struct {
	Code int
	Msg  string
	Err  error
}

func (e *ExitError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// UsageError marks malformed command lines: unknown flags, bad flag values,
// missing arguments.
type UsageError struct {
	Cmd string
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// exitCodeFor maps an error returned by a command to the process exit code.
// Anything not explicitly classified is invalid input or an I/O failure.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInvalid
}

// userMessage returns the clean message shown without --verbose.
func userMessage(err error) string {
	var (
		exitErr    *ExitError
		usageErr   *UsageError
		invalid    *contacts.ValidationError
		persistErr *store.PersistenceError
	)
	switch {
	case errors.As(err, &exitErr) && exitErr.Msg != "":
		return "Error: " + exitErr.Msg
	case errors.As(err, &invalid):
		return "Error: " + invalid.Error()
	case errors.As(err, &usageErr):
		return fmt.Sprintf("Error: %v\nRun '%s --help' for usage.", usageErr.Err, usageErr.Cmd)
	case errors.As(err, &persistErr):
		if errors.Is(err, store.ErrCorrupt) {
			return fmt.Sprintf("Error: contacts file %s is corrupt (use --on-corrupt reset to start over).", persistErr.Path)
		}
		switch persistErr.Op {
		case "save":
			return fmt.Sprintf("Error: could not save contacts to %s.", persistErr.Path)
		case "load":
			return fmt.Sprintf("Error: could not read contacts from %s.", persistErr.Path)
		default:
			return "Error: " + persistErr.Err.Error()
		}
	default:
		return "Error: " + err.Error()
	}
}

// reportError prints err the way PrintError does, styled when w is a terminal.
func reportError(w io.Writer, err error) {
	msg := userMessage(err)
	if ui.IsTerminal(w) {
		msg = ui.StyleError.Render(msg)
	}
	PrintError(w, msg, err)
}

// PrintError prints an error message without exiting, allowing for recovery.
// By default it prints the clean, user-friendly message. If the --verbose
// flag is set, it prints the full technical error.
func PrintError(w io.Writer, userMsg string, technicalErr error) {
	if isVerbose() && technicalErr != nil {
		fmt.Fprintf(w, "Error: %v\n", technicalErr)
		return
	}
	fmt.Fprintln(w, userMsg)
}
