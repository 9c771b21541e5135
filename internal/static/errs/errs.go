package errs

import (
	"errors"

	"gitlab.com/docforge.net/internal/domain"
)

var InvalidCredentials = errors.New("invalid credentials")

var (
	InternalError   = errors.New("internal error")
	GeneratingToken = errors.New("error generating token")
	AuthDisabled    = errors.New("token issuing is disabled")
)

// Compilation pipeline failures, one per domain.ErrorKind
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrToolNotFound      = errors.New("compiler not found")
	ErrTimeout           = errors.New("compilation timed out")
	ErrCompilationFailed = errors.New("compilation failed")
	ErrWorkspace         = errors.New("workspace error")
	ErrAPI               = errors.New("generation api error")
	ErrNotFound          = errors.New("not found")
)

// ForKind returns the sentinel matching a failed outcome's kind, nil for success
func ForKind(kind domain.ErrorKind) error {
	switch kind {
	case domain.ErrorKindInvalidInput:
		return ErrInvalidInput
	case domain.ErrorKindToolNotFound:
		return ErrToolNotFound
	case domain.ErrorKindTimeout:
		return ErrTimeout
	case domain.ErrorKindCompilationFailed:
		return ErrCompilationFailed
	case domain.ErrorKindWorkspace:
		return ErrWorkspace
	case domain.ErrorKindAPI:
		return ErrAPI
	default:
		return nil
	}
}
