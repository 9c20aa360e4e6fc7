// Package watch re-runs reconciliation when documents change on disk.
package watch

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Run watches dirs for Create/Write events on files with the Markdown
// extension and invokes process for each changed document after a short
// debounce, until ctx is cancelled. Pending documents are processed one
// at a time in sorted order.
func Run(ctx context.Context, dirs []string, ext string, process func(doc string), logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Int("dirs", len(dirs)))

	pending := make(map[string]struct{})

	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	lowerExt := strings.ToLower(ext)

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			docs := make([]string, 0, len(pending))
			for d := range pending {
				docs = append(docs, d)
				delete(pending, d)
			}
			sort.Strings(docs)
			for _, d := range docs {
				logger.Debug("watcher: re-checking", slog.String("document", d))
				process(d)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(ev.Name), lowerExt) {
				continue
			}
			pending[ev.Name] = struct{}{}
			scheduleFlush()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
