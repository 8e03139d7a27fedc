package rigfile

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/strandsim/internal/logger"
)

// Watcher reports changes to one file. It watches the parent directory so
// that editors replacing the file atomically are still seen.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	path     string

	changes chan struct{}
	errors  chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watch starts watching path.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		path:     abs,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Changes receives a value after the file was written, created or replaced.
// Bursts of events coalesce into one notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors receives watcher errors. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logger.Named("rigfile").Debug("rig file changed", zap.String("path", w.path), zap.Stringer("op", e.Op))
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			logger.Named("rigfile").Error("rig watcher error", zap.Error(err))
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := errors.New("watcher already closed")
	w.once.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
		w.wg.Wait()
	})
	return err
}
