package pool

import (
	"errors"
	"log"
	"slices"
	"sync"

	"github.com/ZenLiuCN/dynlib"
	"github.com/ZenLiuCN/fn"
)

// Pool keeps loaded libraries by canonical path.
type Pool struct {
	Modules map[string]*dynlib.Handle
	Loaded  []*dynlib.Handle // load order
	debug   bool
	sync.RWMutex
}

var (
	ErrAlreadyLoad = errors.New("library already loaded")
	ErrNotLoad     = errors.New("library not loaded")
)

// NewPool create new pool, an optional debug parameter will enable debug logging of the pool and its libraries.
func NewPool(debug ...bool) *Pool {
	p := new(Pool)
	p.Modules = make(map[string]*dynlib.Handle)
	p.debug = len(debug) > 0 && debug[0]
	return p
}

// Load a shared library, path is resolved against working directory.
func (p *Pool) Load(path string) (*dynlib.Handle, error) {
	return p.load(path, func(abs string) (*dynlib.Handle, error) {
		return dynlib.Load(abs, p.debug)
	})
}

// LoadObject link a go object file or go archive, path is resolved against working directory.
func (p *Pool) LoadObject(path, pkg string) (*dynlib.Handle, error) {
	return p.load(path, func(abs string) (*dynlib.Handle, error) {
		return dynlib.LoadObject(abs, pkg, p.debug)
	})
}

func (p *Pool) load(path string, open func(string) (*dynlib.Handle, error)) (h *dynlib.Handle, err error) {
	if path, err = dynlib.ResolveWd(path); err != nil {
		return
	}
	p.Lock()
	defer p.Unlock()
	if _, ok := p.Modules[path]; ok {
		return nil, ErrAlreadyLoad
	}
	if h, err = open(path); err != nil {
		return
	}
	p.Modules[path] = h
	p.Loaded = append(p.Loaded, h)
	if p.debug {
		log.Printf("pool loaded %s", h)
	}
	return
}

// Get a loaded library.
func (p *Pool) Get(path string) (h *dynlib.Handle, ok bool) {
	if r, err := dynlib.ResolveWd(path); err == nil {
		path = r
	}
	p.RLock()
	defer p.RUnlock()
	h, ok = p.Modules[path]
	return
}

// Reload close the library at path and load it again with the same backend.
func (p *Pool) Reload(path string) (h *dynlib.Handle, err error) {
	var old *dynlib.Handle
	if old, err = p.remove(path); err != nil {
		return
	}
	if err = old.Close(); err != nil {
		return
	}
	if dynlib.IsObject(old.Path()) {
		return p.LoadObject(old.Path(), "")
	}
	return p.Load(old.Path())
}

// Unload close the library at path and remove it from pool. The mapping is kept until its symbols are released.
func (p *Pool) Unload(path string) error {
	h, err := p.remove(path)
	if err != nil {
		return err
	}
	return h.Close()
}

func (p *Pool) remove(path string) (h *dynlib.Handle, err error) {
	if r, e := dynlib.ResolveWd(path); e == nil {
		path = r
	}
	p.Lock()
	defer p.Unlock()
	var ok bool
	if h, ok = p.Modules[path]; !ok {
		return nil, ErrNotLoad
	}
	delete(p.Modules, path)
	if i := slices.Index(p.Loaded, h); i >= 0 {
		p.Loaded = slices.Delete(p.Loaded, i, i+1)
	}
	return
}

// Paths of loaded libraries.
func (p *Pool) Paths() []string {
	p.RLock()
	defer p.RUnlock()
	v := fn.MapKeys(p.Modules)
	slices.Sort(v)
	return v
}

// Close all libraries in reverse load order.
func (p *Pool) Close() error {
	p.Lock()
	defer p.Unlock()
	var errs []error
	for i := len(p.Loaded) - 1; i >= 0; i-- {
		h := p.Loaded[i]
		delete(p.Modules, fn.MapKeyOf(p.Modules, h))
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.Loaded = p.Loaded[:0]
	return errors.Join(errs...)
}
