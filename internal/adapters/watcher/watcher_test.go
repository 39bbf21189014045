package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/watcher"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/anvil/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestConvertEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op     fsnotify.Op
		want   ports.WatchOp
		wantOK bool
	}{
		{fsnotify.Write, ports.OpWrite, true},
		{fsnotify.Create, ports.OpCreate, true},
		{fsnotify.Remove, ports.OpRemove, true},
		{fsnotify.Rename, ports.OpRename, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := watcher.ConvertEvent(fsnotify.Event{Name: "/game/a.cpp", Op: tt.op})
		assert.Equal(t, tt.wantOK, ok, tt.op.String())
		if ok {
			assert.Equal(t, tt.want, got.Operation)
			assert.Equal(t, "/game/a.cpp", got.Path)
		}
	}
}

func TestDirectoriesBelow_SkipsOutputs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{
		"Core/Sources/Linux",
		"Core/Sources/.git",
		domain.IntermediateDirName + "/Linux",
		domain.BinariesDirName,
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), domain.DirPerm))
	}

	dirs := watcher.DirectoriesBelow(root)

	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "Core"),
		filepath.Join(root, "Core", "Sources"),
		filepath.Join(root, "Core", "Sources", "Linux"),
	}, dirs)
}

func TestWatcher_ReportsWrites(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	sources := filepath.Join(root, "Sources")
	require.NoError(t, os.MkdirAll(sources, domain.DirPerm))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{sources, filepath.Join(root, "Missing")}))
	defer func() { _ = w.Stop() }()

	target := filepath.Join(sources, "main.cpp")
	require.NoError(t, os.WriteFile(target, []byte("int main() {}\n"), domain.FilePerm))

	seen := make(chan ports.WatchEvent, 1)
	go func() {
		for event := range w.Events() {
			if event.Path == target {
				seen <- event
				return
			}
		}
	}()

	select {
	case event := <-seen:
		assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, event.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for written file")
	}
}
