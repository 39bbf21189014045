package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/cmd/anvil/commands"
	"go.trai.ch/anvil/internal/app"
	"go.trai.ch/anvil/internal/build"
	"go.trai.ch/anvil/internal/core/domain"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.BuildOptions) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
	jsonLog   bool
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) SetJSONLog(enable bool) {
	m.jsonLog = enable
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "build", "App", "Tools",
			"--platform", "linux", "-c", "Release", "--arch", "arm64",
			"--recompile", "--print-compile-commands", "--print-link-commands",
			"-j", "3", "--output-mode", "tui", "--watch")
		require.NoError(t, err)

		assert.Equal(t, app.BuildOptions{
			Modules:              []string{"App", "Tools"},
			Platform:             "linux",
			Architecture:         "arm64",
			Configuration:        "Release",
			Recompile:            true,
			PrintCompileCommands: true,
			PrintLinkCommands:    true,
			Threads:              3,
			OutputMode:           "tui",
			Watch:                true,
		}, captured)
		assert.False(t, mock.jsonLog)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "build")
		require.NoError(t, err)

		assert.Empty(t, captured.Modules)
		assert.Empty(t, captured.Platform)
		assert.Equal(t, "Debug", captured.Configuration)
		assert.Equal(t, "auto", captured.OutputMode)
		assert.Zero(t, captured.Threads)
		assert.False(t, captured.SingleThreaded)
	})

	t.Run("ci forces linear output", func(t *testing.T) {
		var captured app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "build", "--ci", "--output-mode", "tui", "--single-threaded", "--json-log")
		require.NoError(t, err)
		assert.Equal(t, "linear", captured.OutputMode)
		assert.True(t, captured.SingleThreaded)
		assert.True(t, mock.jsonLog)
	})

	t.Run("threads and single-threaded are exclusive", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, app.BuildOptions) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, mock, "build", "-j", "2", "--single-threaded")
		require.Error(t, err)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, app.BuildOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "build", "App")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Clean(t *testing.T) {
	var captured app.CleanOptions
	mock := &mockApp{
		cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "clean", "Core", "-p", "mac", "--checksums")
	require.NoError(t, err)

	assert.Equal(t, app.CleanOptions{
		Modules:       []string{"Core"},
		Platform:      "mac",
		Configuration: "Debug",
		Checksums:     true,
	}, captured)
}

func TestCommands_JSONLogFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "unset keeps the environment choice", args: []string{"clean"}, want: true},
		{name: "explicit false", args: []string{"clean", "--json-log=false"}, want: false},
		{name: "explicit true", args: []string{"clean", "--json-log"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockApp{jsonLog: true}
			_, err := execute(t, mock, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mock.jsonLog)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "anvil version "+build.Version)
	assert.Contains(t, out, "default target: "+domain.HostPlatform().String()+" "+domain.HostArchitecture().String()+" Debug\n")
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)

	assert.Contains(t, out, build.Version)
	assert.Contains(t, out, build.Commit)
}
