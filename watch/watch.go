// Package watch reports source files changing under a directory tree,
// debounced into batches.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config selects what is watched.
type Config struct {
	Dir        string
	Debounce   time.Duration
	Extensions []string
}

// Watcher delivers changed files in debounced batches.
type Watcher struct {
	conf    Config
	logger  *slog.Logger
	watcher *fsnotify.Watcher
}

// New starts watching conf.Dir and all its non-hidden subdirectories.
// Changes made after New returns are reported by Run.
func New(conf Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(conf.Dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", conf.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		conf:    conf,
		logger:  logger,
		watcher: watcher,
	}

	if err := w.addDirectory(conf.Dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return w, nil
}

// Files returns the matching files currently under the watched tree, sorted.
func (w *Watcher) Files() ([]string, error) {
	return w.filesUnder(w.conf.Dir)
}

func (w *Watcher) filesUnder(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dir && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && w.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// files written or created during each quiet period of conf.Debounce.
// A failing onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, files []string) error) error {
	pending := make(map[string]struct{})

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("watching", "dir", w.conf.Dir, "debounce", w.conf.Debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			files := w.handle(event)
			if len(files) == 0 {
				continue
			}

			for _, file := range files {
				pending[file] = struct{}{}
			}
			if timer == nil {
				timer = time.NewTimer(w.conf.Debounce)
			} else {
				timer.Reset(w.conf.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil

			files := make([]string, 0, len(pending))
			for file := range pending {
				files = append(files, file)
			}
			clear(pending)
			slices.Sort(files)

			w.logger.Debug("files changed", "count", len(files))

			if err := onChange(ctx, files); err != nil {
				w.logger.Error("change handler failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handle returns the files an event makes pending. A new directory is added
// to the watch list and its existing files are returned.
func (w *Watcher) handle(event fsnotify.Event) []string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}

	if isHidden(event.Name) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return nil
	}

	if info.IsDir() {
		if !event.Has(fsnotify.Create) {
			return nil
		}

		if err := w.addDirectory(event.Name); err != nil {
			w.logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
			return nil
		}

		files, err := w.filesUnder(event.Name)
		if err != nil {
			w.logger.Error("failed to scan new directory", "dir", event.Name, "error", err)
			return nil
		}
		return files
	}

	if !info.Mode().IsRegular() || !w.matches(event.Name) {
		return nil
	}

	return []string{event.Name}
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "dir", path)

		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.conf.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
