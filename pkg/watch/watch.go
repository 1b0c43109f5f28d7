// Package watch keeps a template store in sync with a directory on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/pkg/store"
	"github.com/goliatone/go-contentdef/pkg/template"
)

// Update is published after every reload attempt. On failure Store holds the
// previous, still active store and Err the reason.
type Update struct {
	Store *store.Store
	Err   error
	Path  string
	At    time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce sets how long the directory must be quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher reloads every template under a directory when *.xml files change.
type Watcher struct {
	mu       sync.RWMutex
	dir      string
	reader   *template.Reader
	logger   *zap.Logger
	debounce time.Duration

	current *store.Store
	updates chan Update
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	pending   bool
	lastEvent time.Time
	lastPath  string
}

// New constructs a Watcher for dir. Nothing is loaded until Start.
func New(dir string, reader *template.Reader, opts ...Option) (*Watcher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("watch: directory is required")
	}
	if reader == nil {
		return nil, errors.New("watch: reader is required")
	}
	w := &Watcher{
		dir:      filepath.Clean(dir),
		reader:   reader,
		logger:   zap.NewNop(),
		debounce: 250 * time.Millisecond,
		updates:  make(chan Update, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Start performs the initial load and begins watching. The initial load must
// succeed. Start is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	initial, err := store.LoadFS(ctx, os.DirFS(w.dir), w.reader)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := addTree(fsw, w.dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.current = initial
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.logger.Info("watching templates", zap.String("dir", w.dir), zap.Int("templates", initial.Len()))

	go w.run(ctx, fsw, w.stopCh, w.doneCh)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	w.logger.Debug("template watcher stopped", zap.String("dir", w.dir))
}

// Current returns the most recent successfully loaded store.
func (w *Watcher) Current() *store.Store {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Updates delivers reload results. Only the latest undelivered update is
// kept.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// run owns fsw until it returns. Leaving through ctx clears running so the
// watcher can be started again.
func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Warn("closing fsnotify watcher", zap.Error(err))
		}
		w.mu.Lock()
		if w.doneCh == doneCh {
			w.running = false
		}
		w.mu.Unlock()
	}()

	tick := w.debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("template watcher error", zap.Error(err))
		case <-ticker.C:
			if w.pending && time.Since(w.lastEvent) >= w.debounce {
				w.pending = false
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				w.logger.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".xml") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("template changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.pending = true
	w.lastEvent = time.Now()
	w.lastPath = event.Name
}

func (w *Watcher) reload(ctx context.Context) {
	next, err := store.LoadFS(ctx, os.DirFS(w.dir), w.reader)

	w.mu.Lock()
	if err == nil {
		w.current = next
	}
	current := w.current
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("template reload failed, keeping previous templates", zap.String("path", w.lastPath), zap.Error(err))
	} else {
		w.logger.Info("templates reloaded", zap.Int("templates", next.Len()))
	}
	w.publish(Update{Store: current, Err: err, Path: w.lastPath, At: time.Now()})
}

func (w *Watcher) publish(update Update) {
	for {
		select {
		case w.updates <- update:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}
