package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vvka-141/filer/internal/logging"
	"github.com/vvka-141/filer/pkg/filer"
)

const defaultDebounce = 200 * time.Millisecond

// TranslateFunc maps a native filesystem path to its canonical form.
// The second return is false for paths outside the watched anchor.
type TranslateFunc func(native string) (filer.CanonicalPath, bool)

// ChangeFunc receives one settled changed directory.
type ChangeFunc func(dir filer.CanonicalPath)

// Watcher monitors an anchor directory tree and reports directories whose
// contents changed. Events are debounced so a burst of writes produces a
// single notification per directory.
type Watcher struct {
	root      string
	translate TranslateFunc
	onChange  ChangeFunc
	log       filer.Logger
	debounce  time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log filer.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a Watcher rooted at root.
// Panics if translate or onChange is nil.
func New(root string, translate TranslateFunc, onChange ChangeFunc, opts ...Option) *Watcher {
	if translate == nil {
		panic("translate cannot be nil")
	}
	if onChange == nil {
		panic("onChange cannot be nil")
	}
	w := &Watcher{
		root:      filepath.Clean(root),
		translate: translate,
		onChange:  onChange,
		log:       logging.NewNullLogger(),
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until the context is canceled. It returns ctx.Err() on
// cancellation and any watcher setup failure immediately.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	if err := w.addRecursiveWatch(watcher, w.root, watched); err != nil {
		return err
	}

	w.log.Info("watching %s (debounce %s)", w.root, w.debounce)

	var debounceTimer *time.Timer
	changedDirs := make(map[string]struct{})

	for {
		var debounceC <-chan time.Time
		if debounceTimer != nil {
			debounceC = debounceTimer.C
		}

		select {
		case <-ctx.Done():
			w.log.Verbose("watch stopped: %v", ctx.Err())
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, watcher, watched, changedDirs, &debounceTimer)
		case err, ok := <-watcher.Errors:
			if !ok || err == nil {
				continue
			}
			w.log.Error("watcher error: %v", err)
		case <-debounceC:
			stopTimer(&debounceTimer)
			w.flush(changedDirs)
			changedDirs = make(map[string]struct{})
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, watcher *fsnotify.Watcher, watched map[string]struct{}, changedDirs map[string]struct{}, debounceTimer **time.Timer) {
	path := filepath.Clean(event.Name)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if err := w.addRecursiveWatch(watcher, path, watched); err != nil {
				w.log.Error("watch new directory %s: %v", path, err)
			}
		}
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, ok := watched[path]; ok {
			// fsnotify drops the watch with the inode; just forget it.
			delete(watched, path)
			w.log.Verbose("stopped watching %s", path)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// The directory whose listing went stale is the event target's parent;
	// for events on a watched directory itself the target counts too.
	changedDirs[filepath.Dir(path)] = struct{}{}
	if _, ok := watched[path]; ok {
		changedDirs[path] = struct{}{}
	}
	schedule(debounceTimer, w.debounce)
}

// flush reports each settled directory in deterministic order.
func (w *Watcher) flush(changedDirs map[string]struct{}) {
	if len(changedDirs) == 0 {
		return
	}
	dirs := make([]string, 0, len(changedDirs))
	for dir := range changedDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		canonical, ok := w.translate(dir)
		if !ok {
			w.log.Verbose("ignoring change outside anchor: %s", dir)
			continue
		}
		w.onChange(canonical)
	}
}

func (w *Watcher) addRecursiveWatch(watcher *fsnotify.Watcher, start string, watched map[string]struct{}) error {
	return filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// A directory can vanish mid-walk; skip rather than fail.
			w.log.Verbose("walk %s: %v", path, err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		clean := filepath.Clean(path)
		if _, ok := watched[clean]; ok {
			return nil
		}
		if err := watcher.Add(clean); err != nil {
			return fmt.Errorf("watch directory %s: %w", clean, err)
		}
		watched[clean] = struct{}{}
		return nil
	})
}

func schedule(timer **time.Timer, d time.Duration) {
	if *timer == nil {
		*timer = time.NewTimer(d)
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	(*timer).Reset(d)
}

func stopTimer(timer **time.Timer) {
	if *timer == nil {
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	*timer = nil
}
