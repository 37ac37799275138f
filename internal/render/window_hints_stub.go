//go:build !linux

package render

// ApplyWindowHints is a no-op on platforms without X11 EWMH support.
func ApplyWindowHints(alwaysOnTop, skipTaskbar bool) error {
	return nil
}

// CloseWindowHints is a no-op on platforms without X11 EWMH support.
func CloseWindowHints() {}
