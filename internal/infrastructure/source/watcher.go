package source

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// Invalidator is anything whose memoized state can be dropped.
type Invalidator interface {
	Invalidate()
}

// Watcher invalidates memoized sources when their backing files change on
// disk.  Editors often replace files via rename, so the parent directory is
// watched and events filtered by path.
type Watcher struct {
	fsw     *fsnotify.Watcher
	targets map[string][]Invalidator
	logger  logging.Logger
	done    chan struct{}
}

// NewWatcher creates an idle watcher.  Call Add for each file, then Start.
func NewWatcher(log logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeInternal, "failed to create file watcher")
	}
	return &Watcher{
		fsw:     fsw,
		targets: make(map[string][]Invalidator),
		logger:  log.Named("source-watcher"),
		done:    make(chan struct{}),
	}, nil
}

// Add registers inv for invalidation whenever path changes.
func (w *Watcher) Add(path string, inv Invalidator) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeInternal, "failed to resolve watch path "+path)
	}

	dir := filepath.Dir(abs)
	if err := w.fsw.Add(dir); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeInternal, "failed to watch directory "+dir)
	}
	w.targets[abs] = append(w.targets[abs], inv)
	return nil
}

// Start begins dispatching events in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logging.Err(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	invs, ok := w.targets[abs]
	if !ok {
		return
	}
	w.logger.Info("source file changed, invalidating memoized data",
		logging.String("path", abs),
		logging.String("op", event.Op.String()),
	)
	for _, inv := range invs {
		inv.Invalidate()
	}
}

// Close stops dispatching and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
