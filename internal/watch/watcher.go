package watch

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Trigger is a debounced rebuild request.
type Trigger struct {
	// Paths are the files that changed since the last trigger, deduplicated
	// and sorted.
	Paths []string

	// Time is when the settle window closed.
	Time time.Time
}

// Suppressor reports whether triggers should currently be dropped, for
// example while a build is running or has just finished.
type Suppressor interface {
	SuppressTriggers() bool
}

// Options tunes the watcher.
type Options struct {
	// SettleDelay is how long the tree must stay quiet before a trigger
	// fires.
	SettleDelay time.Duration

	// MinInterval is the minimum time between two triggers; a trigger that
	// would fire sooner is dropped.
	MinInterval time.Duration

	// IgnorePatterns are matched against path base names. Build artifacts
	// must be ignored or every swap would retrigger the watcher.
	IgnorePatterns []string

	// BufferSize is the capacity of the internal change channel.
	BufferSize int
}

// DefaultOptions returns the tuning the watch command ships with.
func DefaultOptions() Options {
	return Options{
		SettleDelay: 500 * time.Millisecond,
		MinInterval: 2 * time.Second,
		IgnorePatterns: []string{
			".git",
			"*.dll", "*.so", "*.dylib",
			"*.new", "*.old",
			"*.spv", "*.o", "*.obj", "*.exe",
			"*.swp", "*.tmp", "*~",
		},
		BufferSize: 256,
	}
}

// Watcher watches a project tree and emits debounced triggers.
//
// Safe for concurrent use. Triggers are emitted from a single goroutine
// and must be drained by a single consumer.
type Watcher struct {
	root     string
	opts     Options
	suppress Suppressor
	log      *slog.Logger

	fsw      *fsnotify.Watcher
	changes  chan string
	triggers chan Trigger
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the given root. A nil suppressor never
// suppresses; a nil logger discards progress messages.
func New(root string, suppress Suppressor, opts Options, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultOptions().BufferSize
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:     root,
		opts:     opts,
		suppress: suppress,
		log:      log,
		fsw:      fsw,
		changes:  make(chan string, opts.BufferSize),
		triggers: make(chan Trigger, 1),
		done:     make(chan struct{}),
	}, nil
}

// Triggers returns the channel accepted triggers are sent to.
func (w *Watcher) Triggers() <-chan Trigger {
	return w.triggers
}

// Start begins watching the root recursively. Both internal goroutines
// exit when ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	w.log.Info("watching for changes", "root", w.root,
		"settle", w.opts.SettleDelay, "min_interval", w.opts.MinInterval)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
	})
}

// addRecursive registers root and every non-ignored subdirectory. An
// unreadable root is an error; unreadable subtrees are skipped.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// shouldIgnore matches the path's base name against the ignore patterns.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.opts.IgnorePatterns {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// processEvents forwards relevant fsnotify events to the debouncer and
// registers newly created directories.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if w.shouldIgnore(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.fsw.Add(event.Name)
					continue
				}
			}

			select {
			case w.changes <- event.Name:
			default:
				// Debouncer is behind; the pending batch already guarantees
				// a trigger, so dropping the path is harmless.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// debounceLoop collapses bursts of changes into triggers.
func (w *Watcher) debounceLoop(ctx context.Context) {
	pending := make(map[string]struct{})
	var lastTrigger time.Time
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.SettleDelay)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.SettleDelay)
			}
		case now := <-timerC:
			timer = nil
			timerC = nil

			if w.suppress != nil && w.suppress.SuppressTriggers() {
				w.log.Debug("trigger suppressed", "changes", len(pending))
				clear(pending)
				continue
			}
			if !lastTrigger.IsZero() && now.Sub(lastTrigger) < w.opts.MinInterval {
				w.log.Debug("trigger dropped, too soon after previous",
					"since", now.Sub(lastTrigger))
				clear(pending)
				continue
			}

			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			select {
			case w.triggers <- Trigger{Paths: paths, Time: now}:
				lastTrigger = now
			default:
				// A trigger is already queued for the consumer.
			}
		}
	}
}
