package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/anvil/internal/core/ports"
)

func ConvertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	return convertEvent(event)
}

func DirectoriesBelow(root string) []string {
	var dirs []string
	for dir := range directoriesBelow(root) {
		dirs = append(dirs, dir)
	}
	return dirs
}
