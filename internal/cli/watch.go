package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// defaultReloadDelay is the quiet period after the last write before a
// watched document is reloaded.
const defaultReloadDelay = 200 * time.Millisecond

// docWatcher reloads a hierarchy document whenever it changes on disk and
// hands it to apply. Invalid documents are logged and skipped.
type docWatcher struct {
	path      string
	apply     func(context.Context, hierarchy.Document) error
	logger    *log.Logger
	watcher   *fsnotify.Watcher
	debounced func(func())

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// watchDocument starts watching path. The parent directory is watched so
// that editors which replace files by rename are still seen.
func watchDocument(path string, delay time.Duration, logger *log.Logger, apply func(context.Context, hierarchy.Document) error) (*docWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if delay <= 0 {
		delay = defaultReloadDelay
	}

	w := &docWatcher{
		path:      abs,
		apply:     apply,
		logger:    logger,
		watcher:   fw,
		debounced: debounce.New(delay),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *docWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.debounced(w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "err", err)
		}
	}
}

func (w *docWatcher) reload() {
	select {
	case <-w.stop:
		return
	default:
	}
	doc, err := hierarchy.ReadDocumentFile(w.path)
	if err != nil {
		w.logger.Warn("reload skipped", "path", w.path, "err", err)
		return
	}
	if err := w.apply(context.Background(), doc); err != nil {
		w.logger.Warn("reload rejected", "path", w.path, "err", err)
		return
	}
	w.logger.Info("reloaded hierarchy", "path", w.path, "nodes", doc.Count())
}

// Close stops watching. It is safe to call more than once.
func (w *docWatcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
