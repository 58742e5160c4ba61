// Package watch reports debounced changes to a set of files.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // written or recreated
	ChangeRemoved                    // deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one debounced change to a watched file.
type Change struct {
	Kind ChangeKind
	File string // absolute path
}

// Watcher monitors files for changes using fsnotify. The directories holding
// the files are watched, so editors that save by renaming a temporary file
// are seen as a modification.
type Watcher struct {
	Changes <-chan Change
	Errors  <-chan error

	files    map[string]bool
	debounce time.Duration
	changes  chan Change
	errs     chan error
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the given files. Call Start to begin watching.
func New(files []string, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files")
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: %s: %w", f, err)
		}
		set[abs] = true
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan Change, 16)
	errs := make(chan error, 4)
	w := &Watcher{
		Changes:  ch,
		Errors:   errs,
		files:    set,
		debounce: DefaultDebounce,
		changes:  ch,
		errs:     errs,
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		watcher:  fw,
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("watch: %s: %w", d, err)
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and its channels. It is safe to call more than
// once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close()
		<-w.done
		close(w.changes)
		close(w.errs)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	type pendingChange struct {
		kind ChangeKind
		at   time.Time
	}
	pending := make(map[string]pendingChange)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, p := range pending {
					select {
					case w.changes <- Change{Kind: p.kind, File: file}:
					default:
					}
				}
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending[name] = pendingChange{kind: ChangeModified, at: time.Now()}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending[name] = pendingChange{kind: ChangeRemoved, at: time.Now()}
			}

		case <-ticker.C:
			now := time.Now()
			for file, p := range pending {
				if now.Sub(p.at) < w.debounce {
					continue
				}
				select {
				case w.changes <- Change{Kind: p.kind, File: file}:
				case <-w.stop:
					return
				}
				delete(pending, file)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
