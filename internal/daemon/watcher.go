package daemon

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// FileWatcher reports changes to a fixed set of files. It watches their
// parent directories, which survives editors that replace files on save.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(path string)
	logger   *slog.Logger
}

// NewFileWatcher watches paths; empty entries are ignored.
func NewFileWatcher(paths []string, onChange func(path string), logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	fw := &FileWatcher{watcher: w, files: make(map[string]struct{}), onChange: onChange, logger: logger}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watched path").
				WithContext("path", p).
				Build()
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", dir).
				Build()
		}
	}
	return fw, nil
}

// Run delivers change notifications until ctx is done, then closes the watcher.
func (fw *FileWatcher) Run(ctx context.Context) {
	defer func() { _ = fw.watcher.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if _, watched := fw.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				if ev.Op&fsnotify.Remove != 0 {
					fw.logger.WarnContext(ctx, "Watched file removed", logfields.Path(ev.Name))
				}
				continue
			}
			fw.logger.DebugContext(ctx, "File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			fw.onChange(ev.Name)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.WarnContext(ctx, "File watcher error", logfields.Error(err))
		}
	}
}
