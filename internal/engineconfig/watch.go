package engineconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with freshly loaded preferences each time the file at path is written or replaced.
// It watches the parent directory so editors that save via rename are seen too. Reload errors are
// logged and skipped; the last good preferences stay in effect. An empty or deleted file is skipped
// too, since editors truncate before writing. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log *slog.Logger, fn func(Prefs)) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("engineconfig: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("engineconfig: watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			p, ok, err := reload(path)
			if err != nil {
				log.Warn("config reload failed", "path", path, "err", err)
				continue
			}
			if !ok {
				log.Debug("config reload skipped, file empty or gone", "path", path)
				continue
			}
			log.Info("config reloaded", "path", path)
			fn(p)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "err", err)
		}
	}
}

// reload reads path for Watch. ok is false when the file is missing or holds only whitespace.
func reload(path string) (p Prefs, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("engineconfig: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return p, false, nil
	}
	p, err = parse(path, data)
	if err != nil {
		return p, false, err
	}
	return p, true, nil
}
