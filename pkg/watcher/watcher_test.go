package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { callCount.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcher_PollingDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling mode")
	}

	if err := os.WriteFile(path, []byte(`{"groups": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, w.Changed(), 2*time.Second) {
		t.Fatal("no change notification")
	}
	if changes.Load() < 1 {
		t.Error("OnChange not called")
	}
}

func TestWatcher_FsnotifyDetectsChange(t *testing.T) {
	t.Setenv(EnvForcePoll, "")
	path := filepath.Join(t.TempDir(), "scan.yaml")
	if err := os.WriteFile(path, []byte("name: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounceDuration(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("name: b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, w.Changed(), 3*time.Second) {
		t.Fatal("no change notification")
	}
}

func TestWatcher_DirectoryEntries(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Directory mtimes have coarse granularity on some filesystems.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "new.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, w.Changed(), 3*time.Second) {
		t.Fatal("no change notification for new directory entry")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv(EnvForcePoll, "yes")
	path := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if !w.IsPolling() {
		t.Error("expected polling when H5NAV_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if err != ErrFileRemoved {
			t.Errorf("expected ErrFileRemoved, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported for removed file")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing.json"), WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	if !w.IsStarted() {
		t.Error("expected started")
	}
	w.Stop()
	w.Stop()
	if w.IsStarted() {
		t.Error("expected stopped")
	}
}

func TestWatcher_PathIsAbsolute(t *testing.T) {
	w, err := New("relative.json")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
}

func TestEnvBool(t *testing.T) {
	tests := map[string]bool{"1": true, "TRUE": true, " on ": true, "0": false, "no": false, "": false}
	for v, want := range tests {
		t.Setenv("H5NAV_TEST_BOOL", v)
		if got := envBool("H5NAV_TEST_BOOL"); got != want {
			t.Errorf("envBool(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestIsRemoteFilesystem(t *testing.T) {
	for _, fs := range []FilesystemType{FSTypeNFS, FSTypeSMB, FSTypeFUSE} {
		if !isRemoteFilesystem(fs) {
			t.Errorf("%s should be remote", fs)
		}
	}
	if isRemoteFilesystem(FSTypeLocal) || isRemoteFilesystem(FSTypeUnknown) {
		t.Error("local/unknown should not be remote")
	}
}

func TestDetectFilesystemType_NonExistentPath(t *testing.T) {
	got := DetectFilesystemType(filepath.Join(t.TempDir(), "nope", "file"))
	if got == "" {
		t.Error("expected a classification")
	}
}
