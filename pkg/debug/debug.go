// Package debug provides conditional diagnostic logging for h5nav.
//
// Logging is enabled by setting H5NAV_DEBUG or passing --debug:
//
//	H5NAV_DEBUG=1 h5nav scan.nxs
//
// Output goes to H5NAV_DEBUG_FILE, or to debug.log in the XDG state
// directory, so it never interferes with the full-screen UI. When disabled
// every function is a no-op.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	EnvDebug     = "H5NAV_DEBUG"
	EnvDebugFile = "H5NAV_DEBUG_FILE"
)

var (
	mu      sync.Mutex
	enabled bool
	logger  *logrus.Logger
	closer  io.Closer
)

func init() {
	if os.Getenv(EnvDebug) != "" {
		if err := Enable(""); err != nil {
			fmt.Fprintf(os.Stderr, "h5nav: debug logging disabled: %v\n", err)
		}
	}
}

// DefaultLogPath returns the log file used when none is configured.
func DefaultLogPath() string {
	if p := os.Getenv(EnvDebugFile); p != "" {
		return p
	}
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "h5nav-debug.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "h5nav", "debug.log")
}

// Enable starts logging to path, or to DefaultLogPath when path is empty.
func Enable(path string) error {
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating debug log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	SetOutput(f)
	mu.Lock()
	closer = f
	mu.Unlock()
	return nil
}

// SetOutput enables logging to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	logger = l
	enabled = true
}

// Disable stops logging and closes the log file, if any.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	enabled = false
	logger = nil
}

// Enabled returns whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func current() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return nil
	}
	return logger
}

// Log writes a printf-style message.
func Log(format string, args ...any) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

// LogFields writes msg with structured fields.
func LogFields(msg string, fields map[string]any) {
	if l := current(); l != nil {
		l.WithFields(logrus.Fields(fields)).Debug(msg)
	}
}

// LogIf writes a message only when cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogTiming records how long an operation took.
func LogTiming(name string, d time.Duration) {
	if l := current(); l != nil {
		l.WithField("elapsed", d).Debugf("%s done", name)
	}
}

// LogEnterExit logs entry and, when the returned func runs, exit with timing:
//
//	defer debug.LogEnterExit("load")()
func LogEnterExit(name string) func() {
	l := current()
	if l == nil {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.WithField("elapsed", time.Since(start)).Debugf("<- %s", name)
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	Log("%s: %T = %+v", name, v, v)
}

// Section logs a header to separate phases in the log.
func Section(name string) {
	Log("=== %s ===", name)
}
