// Package plotview provides the public API for embedding the plotview
// function plotter. It allows third-party applications to run the viewer as
// a library component with full lifecycle management, script hot-reloading
// and view control.
//
// # Basic Usage
//
// The simplest way to use plotview is to create a viewer from a script file:
//
//	v, err := plotview.New("/path/to/plots.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Stop()
//
//	if err := v.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// # Script Sources
//
// Plotview supports three script sources:
//
//   - Disk file: Use [New] to load from a filesystem path
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for dynamically generated scripts
//
// # Lifecycle Management
//
// The [Viewer] interface provides full lifecycle control:
//
//   - [Viewer.Start] opens the window and begins the render loop
//   - [Viewer.Stop] gracefully shuts down the instance
//   - [Viewer.Restart] reloads the script and restarts
//   - [Viewer.ReloadScript] hot-swaps the script without restarting
//   - [Viewer.IsRunning] checks if the instance is active
//
// All methods are thread-safe and can be called from any goroutine.
//
// # Error Handling
//
// Runtime errors are reported through [ErrorHandler]:
//
//	v.SetErrorHandler(func(err error) {
//		log.Printf("plotview error: %v", err)
//	})
//
// The handler is called asynchronously; do not block in the handler.
//
// # Headless Mode
//
// For applications that only need the plotting engine without a window,
// set Options.Headless. The viewer then draws into an in-memory recording
// canvas, which is useful for testing and for driving the session
// programmatically via [Viewer.SetView] and [Viewer.ReloadScript].
package plotview
