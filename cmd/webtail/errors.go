package main

import "fmt"

const (
	exitFailure = 1
	exitUsage   = 2
)

const usageLine = "Usage: webtail ( log_file | logs_directory | 'glob' ) -l port [-n lines] [-o]"

// usageError marks invocation mistakes that exit with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}
