package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"
)

// FetchFunc retrieves the text of a YANG module by name and optional
// revision. The handshake resolver installs one backed by <get-schema>
// once it knows the peer supports ietf-netconf-monitoring; until then, and
// whenever it is nil, Context falls back to the on-disk schema directory.
type FetchFunc func(name, revision string) (string, error)

// Status summarises the outcome of resolving a peer's capability set.
type Status int

const (
	// StatusFull indicates every advertised module loaded successfully.
	StatusFull Status = iota
	// StatusPartial indicates one or more non-base modules failed to
	// load; the session is usable but those models' data is unavailable.
	StatusPartial
)

// Context holds the YANG modules a session has resolved, wrapping
// goyang's yang.Modules with module-fetch plumbing and .yin fallback.
//
// A Context may be shared between sessions (Config.SharedSchemaContext);
// callers are responsible for not releasing a shared context out from
// under another session still using it.
type Context struct {
	mu      sync.Mutex
	modules *yang.Modules
	dir     string
	fetch   FetchFunc
	watcher *DirWatcher
}

// SetWatcher attaches w, so a directory-fallback failure is recorded
// against it and a subsequent file drop clears that record. Pass nil to
// detach (does not close w).
func (c *Context) SetWatcher(w *DirWatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watcher = w
}

// NewContext creates an empty schema context that falls back to dir for
// modules neither already loaded nor retrievable via a fetch callback.
func NewContext(dir string) *Context {
	return &Context{modules: yang.NewModules(), dir: dir}
}

// SetFetch installs, or clears (fn == nil), the module-fetch callback.
func (c *Context) SetFetch(fn FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetch = fn
}

// Fetch returns the currently installed fetch callback, or nil.
func (c *Context) Fetch() FetchFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetch
}

// Module returns the named module if it is already loaded, without
// attempting to load it.
func (c *Context) Module(name string) (*yang.Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules.Modules[name]
	return m, ok
}

// LoadModule returns the named module, loading it if necessary. Source
// order: already-parsed, fetch callback, on-disk dir/name.yin. revision,
// when non-empty, is passed to the fetch callback but is not used to
// disambiguate an already-loaded module (goyang keys purely on name).
func (c *Context) LoadModule(name, revision string) (*yang.Module, error) {
	if m, ok := c.Module(name); ok {
		return m, nil
	}

	text, source, err := c.retrieve(name, revision)
	if err != nil {
		return nil, newSchemaError(name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modules.Modules[name]; ok {
		return m, nil
	}
	if err := c.modules.Parse(text, source); err != nil {
		return nil, newSchemaError(name, errors.Wrapf(err, "parse %s", source))
	}
	m, ok := c.modules.Modules[name]
	if !ok {
		return nil, newSchemaError(name, errors.Errorf("module %s not present after parse of %s", name, source))
	}
	return m, nil
}

// retrieve fetches module text without holding Context's lock, since the
// fetch callback re-enters the session (send_rpc/recv_reply acquire their
// own, independent locking) and must never be called while c.mu is held.
func (c *Context) retrieve(name, revision string) (text, source string, err error) {
	fetch := c.Fetch()
	if fetch != nil {
		if text, err = fetch(name, revision); err == nil {
			return text, name + " (get-schema)", nil
		}
	}

	path := filepath.Join(c.dir, name+".yin")
	raw, ferr := os.ReadFile(path)
	if ferr != nil {
		c.mu.Lock()
		w := c.watcher
		c.mu.Unlock()
		if w != nil {
			w.markFailed(name)
		}
		if err != nil {
			return "", "", errors.Wrapf(err, "get-schema failed and fallback %s unavailable: %v", path, ferr)
		}
		return "", "", errors.Wrapf(ferr, "read %s", path)
	}
	return string(raw), path, nil
}

// Process runs goyang's cross-module resolution pass (imports, typedefs,
// augments) over every module parsed so far. Call once after the initial
// batch of LoadModule calls during handshake; per-module parse errors are
// surfaced individually by LoadModule, so Process errors here indicate a
// referential problem across modules rather than a single bad fetch.
func (c *Context) Process() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modules.Process()
}

// ModuleNames returns the names of every module currently loaded.
func (c *Context) ModuleNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.modules.Modules))
	for name := range c.modules.Modules {
		names = append(names, name)
	}
	return names
}

// Error is returned by LoadModule and wraps the module name that failed
// to load, so a caller doing best-effort per-capability loading (see
// handshake.go) can log it and continue.
type Error struct {
	Module string
	err    error
}

func newSchemaError(module string, err error) *Error { return &Error{Module: module, err: err} }

func (e *Error) Error() string { return fmt.Sprintf("schema %s: %v", e.Module, e.err) }

func (e *Error) Unwrap() error { return e.err }
