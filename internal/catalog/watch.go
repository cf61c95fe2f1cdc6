package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const debounce = 100 * time.Millisecond

// Watcher re-parses a catalog file whenever it changes on disk and
// publishes each successfully parsed catalog on Updates. Parse failures
// are published on Errors and the previous catalog stays in effect.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	Updates chan *Catalog
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	done    sync.WaitGroup
}

// NewWatcher watches the directory holding path so that editors which
// replace the file via rename are still observed.
func NewWatcher(path string, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	cw := &Watcher{
		path:    abs,
		watcher: w,
		log:     log,
		Updates: make(chan *Catalog, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
	}
	cw.done.Add(1)
	go cw.run()
	return cw, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.done.Wait()
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer w.done.Done()
	// Writes arrive in bursts (truncate, write, chmod); reload once they settle.
	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			settle = time.After(debounce)
		case <-settle:
			settle = nil
			c, err := Load(w.path)
			if err != nil {
				w.log.Warn().Err(err).Str("path", w.path).Msg("catalog reload failed")
				w.publishErr(err)
				continue
			}
			w.log.Info().Str("path", w.path).Int("emotions", len(c.emotions)).Msg("catalog reloaded")
			select {
			case w.Updates <- c:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publishErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) publishErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
