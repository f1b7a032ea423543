package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrOutputExists     = errors.New("output already exists")
	ErrBadFormat        = errors.New("bad format")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrNotFound         = errors.New("not found")
	ErrCorruptIndex     = errors.New("corrupt index")
	ErrTruncatedCorpus  = errors.New("truncated corpus")
	ErrMissingDocLength = errors.New("missing document length")
	ErrNoJudgments      = errors.New("no relevance judgments")
)

// Process exit codes returned by the command-line tools.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// Is and As re-export the standard library helpers so callers need a
// single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// ExitCode maps an error to the exit status a command should terminate
// with.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOutputExists):
		return ExitUsage
	default:
		return ExitFailure
	}
}
