package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ChangeKind uint8

const (
	ChangeTunables ChangeKind = iota + 1
	ChangeScript
)

// Change names a prefab file by base name once writes to it have settled.
type Change struct {
	File string
	Kind ChangeKind
}

// Watcher reports settled prefab file changes. Writes to a file are
// collected until the directory has been quiet for the configured window,
// so an editor's multi-write save arrives once with the final contents.
type Watcher struct {
	fsw     *fsnotify.Watcher
	quiet   time.Duration
	changes chan Change
	errs    chan error
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

const DefaultQuiet = 100 * time.Millisecond

func NewWatcher(quiet time.Duration, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	w := &Watcher{
		fsw:     fsw,
		quiet:   quiet,
		changes: make(chan Change, 16),
		errs:    make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Drain returns every change and error queued so far without blocking.
func (w *Watcher) Drain() ([]Change, []error) {
	var changes []Change
	var errs []error
	for {
		select {
		case c := <-w.changes:
			changes = append(changes, c)
		case err := <-w.errs:
			errs = append(errs, err)
		default:
			return changes, errs
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]ChangeKind)
	timer := time.NewTimer(w.quiet)
	timer.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[filepath.Base(ev.Name)] = kind
			timer.Reset(w.quiet)
		case <-timer.C:
			if !w.flush(pending) {
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.stop:
			return
		}
	}
}

// flush emits pending changes in name order and clears them. It reports
// false if the watcher closed while sending.
func (w *Watcher) flush(pending map[string]ChangeKind) bool {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		select {
		case w.changes <- Change{File: name, Kind: pending[name]}:
		case <-w.stop:
			return false
		}
		delete(pending, name)
	}
	return true
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeTunables, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
