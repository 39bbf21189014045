// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/anvil/internal/core/domain"
)

// Executor runs toolchain processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes argv in dir and captures stdout and stderr separately.
	//
	// A process that starts and exits non-zero is reported through the ProcessResult,
	// not the error. The error is reserved for processes that could not be started.
	Run(ctx context.Context, dir string, argv []string) (domain.ProcessResult, error)
}
