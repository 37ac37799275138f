package plotview

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/opd-ai/go-plotview/internal/config"
)

// Viewer represents an embedded plotview instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Viewer interface {
	// Start opens the window and begins the render loop.
	// It returns immediately after starting; rendering runs in background goroutines.
	// Returns an error if already running or if initialization fails.
	Start() error

	// Stop gracefully shuts down the viewer.
	// It waits for all goroutines to complete before returning.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Restart performs a stop followed by a start.
	// The script is reloaded from the original source.
	// Returns an error if restart fails; the instance will be in a stopped state.
	Restart() error

	// ReloadScript re-reads the plot script from its source and hot-swaps it
	// without stopping. If the new script fails to compile or to draw, the
	// previous plot stays on screen and an error is returned.
	ReloadScript() error

	// SetView sets the zoom factor and world-space center and repaints.
	// Returns an error if the viewer is not running.
	SetView(scale, centerX, centerY float64) error

	// View returns the current zoom factor and world-space center.
	// All zeros if the viewer has never been started.
	View() (scale, centerX, centerY float64)

	// IsRunning returns true if the viewer is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; do not block in the handler.
	// Implementations of Viewer MUST recover from panics in the handler so
	// that a buggy handler cannot crash the embedding application.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the viewer.
	// This can be used for monitoring, alerting, and debugging.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	// Use Metrics().Snapshot() for a point-in-time copy of all metrics.
	// Use Metrics().RegisterExpvar() to expose metrics via /debug/vars.
	Metrics() *Metrics
}

// New creates a new Viewer from a plot script file on disk.
// The instance is created but not started; call Start() to begin operation.
// Script watching (Options.WatchScript) is only available for viewers
// created with New, since the other sources have no file to watch.
//
// Example:
//
//	v, err := plotview.New("/home/user/plots.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Stop()
//	if err := v.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(scriptPath string, opts *Options) (Viewer, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	// Fail early on an unreadable script rather than at Start.
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("script file: %w", err)
	}

	return &viewerImpl{
		cfg:          cfg,
		opts:         *opts,
		scriptSource: scriptPath,
		scriptPath:   scriptPath,
		scriptLoader: func() (string, error) {
			content, err := os.ReadFile(scriptPath)
			if err != nil {
				return "", err
			}
			return string(content), nil
		},
	}, nil
}

// NewFromFS creates a new Viewer using a plot script from an embedded filesystem.
// This enables bundling scripts within the application binary using Go's embed package.
//
// Example:
//
//	//go:embed scripts/*
//	var scriptFS embed.FS
//
//	v, err := plotview.NewFromFS(scriptFS, "scripts/waves.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
func NewFromFS(fsys fs.FS, scriptPath string, opts *Options) (Viewer, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if _, err := fs.Stat(fsys, scriptPath); err != nil {
		return nil, fmt.Errorf("script file: %w", err)
	}

	return &viewerImpl{
		cfg:          cfg,
		opts:         *opts,
		scriptSource: "embedded:" + scriptPath,
		scriptLoader: func() (string, error) {
			content, err := fs.ReadFile(fsys, scriptPath)
			if err != nil {
				return "", err
			}
			return string(content), nil
		},
	}, nil
}

// NewFromReader creates a new Viewer from script content provided as an io.Reader.
// This is useful for dynamically generated scripts or network-loaded scripts.
//
// Example:
//
//	script := strings.NewReader(`plot(function(x) return x * x end, "red")`)
//	v, err := plotview.NewFromReader(script, nil)
func NewFromReader(r io.Reader, opts *Options) (Viewer, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	// Read content once (can't re-read a Reader)
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	source := string(content)

	return &viewerImpl{
		cfg:          cfg,
		opts:         *opts,
		scriptSource: "reader",
		scriptLoader: func() (string, error) {
			return source, nil
		},
	}, nil
}

// loadConfig parses the configuration file at path, or returns defaults when
// path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	parser, err := config.NewLuaConfigParser()
	if err != nil {
		return config.Config{}, fmt.Errorf("config parser init: %w", err)
	}
	defer parser.Close()

	cfg, err := parser.ParseFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return *cfg, nil
}
