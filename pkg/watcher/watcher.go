// Package watcher notices when the file being browsed changes on disk, so the
// UI can tell the user the displayed tree may be stale.
//
// fsnotify is used where it is reliable. On network filesystems, or when
// H5NAV_FORCE_POLL is set, the watcher falls back to polling stat.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/h5nav/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// EnvForcePoll forces polling mode when set to a true value.
const EnvForcePoll = "H5NAV_FORCE_POLL"

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDuration = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors a file, or the entries of a directory, for changes.
type Watcher struct {
	path             string
	isDir            bool
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	lastMtime   time.Time
	lastSize    int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for path. It does not start watching.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermission
		}
		w.lastMtime, w.lastSize = time.Time{}, 0
	} else {
		w.isDir = info.IsDir()
		w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	}

	w.fsType = DetectFilesystemType(w.path)
	w.useFallback = w.forcePoll || envBool(EnvForcePoll) || isRemoteFilesystem(w.fsType)

	if !w.useFallback {
		if err := w.startFsnotify(); err != nil {
			debug.Log("watcher: fsnotify unavailable for %s: %v", w.path, err)
			w.useFallback = true
		}
	}
	if w.useFallback {
		go w.watchPolling()
	}

	debug.LogFields("watcher started", map[string]any{
		"path": w.path, "fs": w.fsType, "polling": w.useFallback,
	})
	w.started = true
	return nil
}

// startFsnotify watches the parent directory of a file, which survives
// editors that replace the file atomically, or the directory itself.
func (w *Watcher) startFsnotify() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Dir(w.path)
	if w.isDir {
		target = w.path
	}
	if err := fsw.Add(target); err != nil {
		fsw.Close()
		return err
	}
	w.fsWatcher = fsw
	go w.watchFsnotify(fsw.Events, fsw.Errors)
	return nil
}

// Stop stops watching. The Changed channel is left open so a pending
// receiver does not observe a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after each debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the detected filesystem of the watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func (w *Watcher) relevant(name string) bool {
	if w.isDir {
		return true
	}
	return filepath.Base(name) == filepath.Base(w.path)
}

func (w *Watcher) watchFsnotify(events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			switch {
			case !w.isDir && event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				switch {
				case os.IsNotExist(err):
					w.mu.RLock()
					hadFile := !w.lastMtime.IsZero()
					w.mu.RUnlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				case os.IsPermission(err):
					w.onError(ErrPermission)
				default:
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			if changed {
				w.lastMtime, w.lastSize = info.ModTime(), info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
