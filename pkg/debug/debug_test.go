package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDisabledIsSilent(t *testing.T) {
	Disable()
	Log("should not appear %d", 1)
	LogTiming("x", time.Second)
	LogEnterExit("y")()
	if Enabled() {
		t.Error("expected debug to be disabled")
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	Log("flattened %d rows", 42)
	LogFields("window", map[string]any{"start": 3, "end": 9})
	Section("render")
	LogIf(false, "hidden")

	out := buf.String()
	for _, want := range []string{"flattened 42 rows", "start=3", "end=9", "=== render ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("LogIf(false) wrote output")
	}
}

func TestEnableWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("hello file")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv(EnvDebugFile, "")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultLogPath(); got != "/tmp/state/h5nav/debug.log" {
		t.Errorf("DefaultLogPath() = %q", got)
	}
	t.Setenv(EnvDebugFile, "/var/log/x.log")
	if got := DefaultLogPath(); got != "/var/log/x.log" {
		t.Errorf("DefaultLogPath() with override = %q", got)
	}
}
