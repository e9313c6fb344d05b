package schema

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher watches a Context's on-disk schema directory for newly
// dropped .yin files and forgets any recorded load failure for the
// corresponding module (see Forgiven). A Context with a watcher attached
// records directory-fallback failures in it, but LoadModule does not
// consult that record: every LoadModule call for a module not yet loaded
// reads the directory again.
//
// Modules already successfully loaded are unaffected: DirWatcher only
// clears the failed-load memo, it never reloads or replaces an
// in-memory module.
type DirWatcher struct {
	ctx     *Context
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	failed map[string]struct{}

	done chan struct{}
}

// WatchDir starts watching ctx's schema directory. Call Close to stop.
func WatchDir(ctx *Context) (*DirWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(ctx.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	dw := &DirWatcher{
		ctx:     ctx,
		watcher: fsw,
		failed:  make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	go dw.run()
	return dw, nil
}

// markFailed records that module failed to load from the directory; the
// record is cleared by a Create/Write event for its .yin file.
func (dw *DirWatcher) markFailed(module string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.failed[module] = struct{}{}
}

// Forgiven reports whether module has no recorded load failure: either it
// never failed, or its .yin file has been (re)written since it did.
func (dw *DirWatcher) Forgiven(module string) bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	_, was := dw.failed[module]
	return !was
}

func (dw *DirWatcher) run() {
	defer close(dw.done)
	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			module := strings.TrimSuffix(event.Name[strings.LastIndexByte(event.Name, '/')+1:], ".yin")
			dw.mu.Lock()
			delete(dw.failed, module)
			dw.mu.Unlock()
		case _, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (dw *DirWatcher) Close() error {
	err := dw.watcher.Close()
	<-dw.done
	return err
}
