package chain

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docker/mcp-ui-servers/pkg/log"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the chains file at path whenever it changes and hands the
// parsed result to apply. Invalid files are logged and skipped so the last
// good configuration stays active. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, apply func(*File) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating chains watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var mu sync.Mutex
	var timer *time.Timer
	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			file, err := LoadFile(abs)
			if err != nil {
				log.Log("! Keeping previous chains:", err)
				return
			}
			if err := apply(file); err != nil {
				log.Log("! Keeping previous chains:", err)
				return
			}
			log.Logf("- Reloaded %d chains from %s", len(file.Chains), abs)
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Log("! Chains watcher error:", err)
		}
	}
}
