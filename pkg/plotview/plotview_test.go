package plotview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const goodScript = `plot(function(x) return x * x end, "red")`
const otherScript = `plot(function(x) return x end, "blue", 2)`
const brokenScript = `plot(function(x) return x` // Unterminated function

// writeScript creates a temp script file and returns its path.
func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plots.lua")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

// newHeadlessViewer creates an unstarted headless viewer with isolated metrics.
func newHeadlessViewer(t *testing.T, scriptPath string, opts *Options) Viewer {
	t.Helper()
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}
	opts.Headless = true
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.ErrorTracker == nil {
		opts.ErrorTracker = NewErrorTracker(DefaultErrorTrackerConfig())
	}

	v, err := New(scriptPath, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { v.Stop() })
	return v
}

func TestNew_MissingScript(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.lua"), nil); err == nil {
		t.Error("New() with missing script should fail")
	}
}

func TestNew_InvalidConfigRejected(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	configPath := filepath.Join(t.TempDir(), "view.lua")
	if err := os.WriteFile(configPath, []byte(`view.config = { zoom_step = 2 }`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := New(scriptPath, &Options{ConfigPath: configPath})
	if err == nil || !strings.Contains(err.Error(), "zoom_step") {
		t.Errorf("New() error = %v, want invalid zoom_step", err)
	}
}

func TestViewer_HeadlessLifecycle(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	metrics := NewMetrics()
	v := newHeadlessViewer(t, scriptPath, &Options{Metrics: metrics})

	if v.IsRunning() {
		t.Error("viewer should not be running before Start")
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !v.IsRunning() {
		t.Error("viewer should be running after Start")
	}

	// Double start is rejected
	if err := v.Start(); err == nil {
		t.Error("second Start() should fail")
	}

	status := v.Status()
	if !status.Running {
		t.Error("Status().Running = false, want true")
	}
	if status.ScriptSource != scriptPath {
		t.Errorf("ScriptSource = %q, want %q", status.ScriptSource, scriptPath)
	}
	if status.StartTime.IsZero() {
		t.Error("StartTime should be set after Start")
	}

	if err := v.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if v.IsRunning() {
		t.Error("viewer should not be running after Stop")
	}

	// Stop is idempotent
	if err := v.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}

	snap := metrics.Snapshot()
	if snap.Starts != 1 {
		t.Errorf("Starts = %d, want 1", snap.Starts)
	}
	if snap.Stops != 1 {
		t.Errorf("Stops = %d, want 1", snap.Stops)
	}
	if snap.Compiles < 1 {
		t.Errorf("Compiles = %d, want at least 1", snap.Compiles)
	}
}

func TestViewer_StartFailsOnBrokenScript(t *testing.T) {
	scriptPath := writeScript(t, brokenScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	if err := v.Start(); err == nil {
		t.Fatal("Start() with a broken script should fail without watching")
	}
	if v.IsRunning() {
		t.Error("viewer should not be running after failed Start")
	}
}

func TestViewer_ReloadScript(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	// Reload before start is rejected
	if err := v.ReloadScript(); err == nil {
		t.Error("ReloadScript() before Start should fail")
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Successful hot-swap
	if err := os.WriteFile(scriptPath, []byte(otherScript), 0644); err != nil {
		t.Fatalf("failed to rewrite script: %v", err)
	}
	if err := v.ReloadScript(); err != nil {
		t.Fatalf("ReloadScript() error = %v", err)
	}
	if got := v.Status().ReloadCount; got != 1 {
		t.Errorf("ReloadCount = %d, want 1", got)
	}

	// A broken script is reported but the viewer keeps running with the
	// previous plot.
	if err := os.WriteFile(scriptPath, []byte(brokenScript), 0644); err != nil {
		t.Fatalf("failed to rewrite script: %v", err)
	}
	if err := v.ReloadScript(); err == nil {
		t.Error("ReloadScript() with a broken script should fail")
	}
	if !v.IsRunning() {
		t.Error("viewer should keep running after a failed reload")
	}
	if got := v.Status().ReloadCount; got != 1 {
		t.Errorf("ReloadCount after failed reload = %d, want 1", got)
	}
}

func TestViewer_SetViewAndView(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	// SetView before start is rejected
	if err := v.SetView(2, 0, 0); err == nil {
		t.Error("SetView() before Start should fail")
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := v.SetView(2, 1.5, -0.5); err != nil {
		t.Fatalf("SetView() error = %v", err)
	}

	scale, cx, cy := v.View()
	if scale != 2 || cx != 1.5 || cy != -0.5 {
		t.Errorf("View() = (%v, %v, %v), want (2, 1.5, -0.5)", scale, cx, cy)
	}
}

func TestViewer_Restart(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	metrics := NewMetrics()
	v := newHeadlessViewer(t, scriptPath, &Options{Metrics: metrics})

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := v.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if !v.IsRunning() {
		t.Error("viewer should be running after Restart")
	}

	snap := metrics.Snapshot()
	if snap.Restarts != 1 {
		t.Errorf("Restarts = %d, want 1", snap.Restarts)
	}
	if snap.Starts != 2 {
		t.Errorf("Starts = %d, want 2", snap.Starts)
	}
}

func TestViewer_EventHandler(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	events := make(chan Event, 64)
	v.SetEventHandler(func(event Event) {
		events <- event
	})

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitForEvent(t, events, EventStarted)

	if err := v.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	waitForEvent(t, events, EventStopped)
}

// waitForEvent drains events until the wanted type arrives or times out.
func waitForEvent(t *testing.T, events <-chan Event, want EventType) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v event", want)
		}
	}
}

func TestViewer_ErrorHandlerNotified(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	errCh := make(chan error, 16)
	v.SetErrorHandler(func(err error) {
		errCh <- err
	})

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(scriptPath, []byte(brokenScript), 0644); err != nil {
		t.Fatalf("failed to rewrite script: %v", err)
	}
	if err := v.ReloadScript(); err == nil {
		t.Fatal("ReloadScript() should fail")
	}

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("error handler received nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error handler")
	}

	if v.Status().LastError == nil {
		t.Error("Status().LastError should be set after a failed reload")
	}
}

func TestViewer_WatchReloadsOnFileChange(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, &Options{
		WatchScript:   true,
		WatchDebounce: 50 * time.Millisecond,
	})

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Give the watcher time to start
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(scriptPath, []byte(otherScript), 0644); err != nil {
		t.Fatalf("failed to rewrite script: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if v.Status().ReloadCount >= 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("watched script change did not trigger a reload, ReloadCount = %d", v.Status().ReloadCount)
}

func TestViewer_HealthReflectsState(t *testing.T) {
	scriptPath := writeScript(t, goodScript)
	v := newHeadlessViewer(t, scriptPath, nil)

	health := v.Health()
	if !health.IsUnhealthy() {
		t.Errorf("Health() before Start = %v, want unhealthy", health.Status)
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	health = v.Health()
	if !health.IsHealthy() {
		t.Errorf("Health() after Start = %v (%s), want ok", health.Status, health.Message)
	}
	if health.Uptime <= 0 {
		t.Error("Uptime should be positive while running")
	}
	if _, ok := health.Components["viewer"]; !ok {
		t.Error("Health should include the viewer component")
	}
	if _, ok := health.Components["script"]; !ok {
		t.Error("Health should include the script component")
	}
}

func TestNewFromReader_Headless(t *testing.T) {
	opts := DefaultOptions()
	opts.Headless = true
	opts.Metrics = NewMetrics()

	v, err := NewFromReader(strings.NewReader(goodScript), &opts)
	if err != nil {
		t.Fatalf("NewFromReader() error = %v", err)
	}
	defer v.Stop()

	if got := v.Status().ScriptSource; got != "reader" {
		t.Errorf("ScriptSource = %q, want \"reader\"", got)
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := v.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestNewFromFS_Headless(t *testing.T) {
	fsys := fstest.MapFS{
		"scripts/waves.lua": &fstest.MapFile{Data: []byte(goodScript)},
	}

	opts := DefaultOptions()
	opts.Headless = true
	opts.Metrics = NewMetrics()

	v, err := NewFromFS(fsys, "scripts/waves.lua", &opts)
	if err != nil {
		t.Fatalf("NewFromFS() error = %v", err)
	}
	defer v.Stop()

	if got := v.Status().ScriptSource; got != "embedded:scripts/waves.lua" {
		t.Errorf("ScriptSource = %q", got)
	}

	if err := v.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Missing path fails at construction
	if _, err := NewFromFS(fsys, "scripts/missing.lua", &opts); err == nil {
		t.Error("NewFromFS() with a missing script should fail")
	}
}
