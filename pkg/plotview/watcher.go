package plotview

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 150 * time.Millisecond

// scriptWatcher monitors the plot script file for changes and triggers reloads.
type scriptWatcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onReload  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// newScriptWatcher creates a new script file watcher.
// onReload is called when the file changes (after debouncing).
// onError is called when errors occur during watching.
func newScriptWatcher(filePath string, debounce time.Duration, onReload func() error, onError func(error)) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Watch the directory containing the script file, not the file itself.
	// This handles editors that atomically rename files (vim, emacs, etc.).
	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &scriptWatcher{
		watcher:   watcher,
		filePath:  filePath,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes in a goroutine.
func (sw *scriptWatcher) Start() {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = true
	sw.mu.Unlock()

	go sw.watchLoop()
}

// Stop stops the file watcher and waits for cleanup.
func (sw *scriptWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.stoppedCh
}

// watchLoop is the main event loop for file watching with debouncing.
func (sw *scriptWatcher) watchLoop() {
	defer close(sw.stoppedCh)
	defer sw.watcher.Close()

	absPath, _ := filepath.Abs(sw.filePath)
	baseName := filepath.Base(sw.filePath)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			sw.mu.Lock()
			sw.running = false
			sw.mu.Unlock()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// Check if this event is for our script file
			eventBase := filepath.Base(event.Name)
			eventAbs, _ := filepath.Abs(event.Name)

			if eventBase != baseName && eventAbs != absPath {
				continue
			}

			// Only react to write/create/rename events (covers atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: reset the timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(sw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			// Debounce period elapsed, trigger reload
			if sw.onReload != nil {
				if err := sw.onReload(); err != nil && sw.onError != nil {
					sw.onError(err)
				}
			}
			debounceTimer = nil
			debounceCh = nil

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}
