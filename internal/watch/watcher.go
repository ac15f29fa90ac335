package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultPatterns match reflection-tree fixture files.
var DefaultPatterns = []string{"*.yaml", "*.yml"}

// Change is one debounced batch of file events.
type Change struct {
	// Written lists created or modified files.
	Written []string
	// Removed lists deleted or renamed-away files.
	Removed []string
}

// Empty reports whether the batch carries no files.
func (c Change) Empty() bool {
	return len(c.Written) == 0 && len(c.Removed) == 0
}

// FileWatcher monitors fixture directories and reports debounced changes.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	dirs      []string
	patterns  []string
	ignored   []string
	logger    *zap.Logger
	onChange  func(Change) error
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// Config configures a FileWatcher.
type Config struct {
	Dirs     []string
	Patterns []string
	Ignored  []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// NewFileWatcher creates a watcher. Nothing is watched until Start.
func NewFileWatcher(cfg Config, onChange func(Change) error) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	if cfg.Patterns == nil {
		cfg.Patterns = DefaultPatterns
	}
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(cfg.Debounce),
		dirs:      cfg.Dirs,
		patterns:  cfg.Patterns,
		ignored:   cfg.Ignored,
		logger:    cfg.Logger,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}

	fw.debouncer.SetCallback(func(c Change) {
		if err := fw.onChange(c); err != nil {
			fw.logger.Error("handling file changes", zap.Error(err))
		}
	})

	return fw, nil
}

// Start begins watching the configured directories.
func (fw *FileWatcher) Start() error {
	for _, dir := range fw.dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.logger.Info("watching directory", zap.String("dir", dir))
	}

	fw.wg.Add(1)
	go fw.watch()

	return nil
}

// Stop stops the watcher. Later calls do nothing.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.stopChan)
		fw.wg.Wait()
		fw.debouncer.Stop()
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if fw.shouldIgnore(event.Name) || !fw.matchesPattern(event.Name) {
				continue
			}

			switch {
			case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
				fw.logger.Debug("file changed", zap.String("file", event.Name))
				fw.debouncer.Add(event.Name)
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				fw.logger.Debug("file removed", zap.String("file", event.Name))
				fw.debouncer.Remove(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) shouldIgnore(path string) bool {
	baseName := filepath.Base(path)
	if strings.HasPrefix(baseName, ".") {
		return true
	}
	for _, pattern := range fw.ignored {
		if matched, _ := filepath.Match(pattern, baseName); matched {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) matchesPattern(path string) bool {
	if len(fw.patterns) == 0 {
		return true
	}
	for _, pattern := range fw.patterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// Debouncer collects file events and reports them as one Change once no
// new event arrived for the configured duration. A file written and then
// removed in the same batch is reported as removed, and vice versa.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]bool // true: written, false: removed
	mutex    sync.Mutex
	callback func(Change)
	stopped  bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]bool),
	}
}

// Add records a written file.
func (d *Debouncer) Add(file string) {
	d.record(file, true)
}

// Remove records a removed file.
func (d *Debouncer) Remove(file string) {
	d.record(file, false)
}

func (d *Debouncer) record(file string, written bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = written

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}

	var c Change
	for file, written := range d.files {
		if written {
			c.Written = append(c.Written, file)
		} else {
			c.Removed = append(c.Removed, file)
		}
	}
	sort.Strings(c.Written)
	sort.Strings(c.Removed)
	d.files = make(map[string]bool)
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(c)
	}
}

// SetCallback sets the function receiving each batch.
func (d *Debouncer) SetCallback(callback func(Change)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending batch.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
