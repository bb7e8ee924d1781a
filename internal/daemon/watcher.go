package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/bsptile/internal/logging"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a set of config files. Parent directories are
// watched so atomic rename-on-save keeps working.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher watches files. Files that do not exist yet are picked up when
// they are created.
func NewWatcher(files []string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		logger:   logger,
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[filepath.Clean(abs)] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			logger.Warn("cannot watch config directory", "dir", dir, "error", err)
		}
	}
	return w, nil
}

// Run calls onChange after a debounced change to any watched file. It
// blocks until ctx is cancelled and closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	defer w.fs.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-pending:
			pending = nil
			onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.files[filepath.Clean(ev.Name)]
	return ok
}
