// Package watch reports debounced batches of changed source documents.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/headmeta/internal/logfields"
	"git.home.luguber.info/inful/headmeta/internal/page"
)

// DefaultDebounce collapses editor save bursts into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Handler receives the slash separated paths, relative to the watched root,
// that changed since the last call. Sidecar changes are reported under the
// document they belong to.
type Handler func(ctx context.Context, changed []string)

// Watcher monitors a directory tree.
type Watcher struct {
	root     string
	ignore   []string // absolute directories whose events are dropped
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// New creates a watcher for every non-hidden directory below root, except
// the ignore directories (typically an output directory nested in root).
func New(root string, debounce time.Duration, logger *slog.Logger, ignore ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}
	var ignored []string
	for _, dir := range ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ignored path: %w", err)
		}
		ignored = append(ignored, abs)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{root: absRoot, ignore: ignored, debounce: debounce, watcher: fw, logger: logger}
	if err := w.addTree(absRoot); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && (strings.HasPrefix(d.Name(), ".") || w.ignored(p)) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// Run delivers change batches to handle until ctx is done. Handler calls are
// serialized.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	w.logger.Info("Watching for changes", logfields.Path(w.root))

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			rel, ok := w.relevant(event)
			if !ok {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(rel), slog.String("op", event.Op.String()))
			pending[rel] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for rel := range pending {
				batch = append(batch, rel)
			}
			sort.Strings(batch)
			clear(pending)
			handle(ctx, batch)
		}
	}
}

// relevant maps an event to the document path it affects. New directories
// are added to the watch set.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") || w.ignored(event.Name) {
		return "", false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return "", false
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if page.IsSidecar(rel) {
		rel = strings.TrimSuffix(rel, page.SidecarSuffix)
	}
	if _, ok := page.KindOf(rel); !ok {
		return "", false
	}
	return rel, true
}

// ignored reports whether p is, or lies below, an ignored directory.
func (w *Watcher) ignored(p string) bool {
	for _, dir := range w.ignore {
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
