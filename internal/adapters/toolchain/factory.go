package toolchain

import (
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ToolchainFactory = (*Factory)(nil)

// Factory creates Clang toolchains sharing one executor.
type Factory struct {
	executor ports.Executor
}

// NewFactory creates a Factory.
func NewFactory(executor ports.Executor) *Factory {
	return &Factory{executor: executor}
}

// ForPlatform returns the toolchain targeting platform. Empty tool names fall back to the
// clang defaults.
func (f *Factory) ForPlatform(platform domain.Platform, arch domain.Architecture, settings domain.ToolchainSettings) (ports.Toolchain, error) {
	if platform == domain.PlatformAny {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownPlatform, "cannot build for the Any platform"), "platform", platform.String())
	}

	defaults := domain.DefaultToolchainSettings()
	if settings.CC == "" {
		settings.CC = defaults.CC
	}
	if settings.CXX == "" {
		settings.CXX = defaults.CXX
	}
	if settings.AR == "" {
		settings.AR = defaults.AR
	}
	return NewClang(f.executor, settings, platform, arch), nil
}
