package dynlib

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type (
	// library is a loaded image of one backend, this interface can not be implement outside this package.
	library interface {
		lookup(sym string) (uintptr, error) // address of an exported symbol
		bind(fptr any, addr uintptr)        // store a callable for addr into fptr, which is a pointer to a func
		close() error                       // unmap the image
		kind() string
	}
	// Handle owns a loaded library.
	//
	// Use Steps:
	//
	//	1. Load, LoadObject or Open to map a library.
	//	2. Resolve or ResolveValue symbols, call them.
	//	3. Release symbols and Close the handle, in any order.
	//
	// Note:
	//
	//	1. The library is unmapped only after the handle is closed and every symbol resolved from it is released.
	//	2. Reference counting is safe between goroutines, calls into the library are not serialized.
	Handle struct {
		id    uuid.UUID
		path  string
		lib   library
		debug bool

		mu     sync.Mutex
		refs   int  // owner reference plus one per live symbol
		closed bool // owner reference dropped
	}
)

// Load maps the shared library at path, an optional debug parameter will enable debug logging inside Handle.
//
// path should be resolved by [ResolvePath] first, the platform loader searches its own paths for a bare file name.
func Load(path string, debug ...bool) (h *Handle, err error) {
	dbg := len(debug) > 0 && debug[0]
	var lib library
	if lib, err = openShared(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return newHandle(path, lib, dbg), nil
}

// LoadObject links the go object file or go archive at path. An empty pkg means main package.
func LoadObject(path, pkg string, debug ...bool) (h *Handle, err error) {
	dbg := len(debug) > 0 && debug[0]
	if pkg == "" {
		pkg = "main"
	}
	var lib library
	if lib, err = openObject(path, pkg, dbg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return newHandle(path, lib, dbg), nil
}

// Open resolves path against working directory then load it. Files with extension .o or .a are linked as go objects of main package.
func Open(path string, debug ...bool) (h *Handle, err error) {
	if path, err = ResolveWd(path); err != nil {
		return
	}
	if IsObject(path) {
		return LoadObject(path, "main", debug...)
	}
	return Load(path, debug...)
}

// IsObject reports whether path names a go object file or go archive.
func IsObject(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".o", ".a":
		return true
	default:
		return false
	}
}

func newHandle(path string, lib library, debug bool) *Handle {
	h := &Handle{id: uuid.New(), path: path, lib: lib, debug: debug, refs: 1}
	if debug {
		log.Printf("loaded %s library %s as %s", lib.kind(), path, h.id)
	}
	return h
}

// ID of this load, each load of the same path has a new one.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Path the library loaded from.
func (h *Handle) Path() string {
	return h.path
}

// Refs current references, zero means unmapped.
func (h *Handle) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}

// Closed reports whether the owner reference is dropped.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Lookup the raw address of an exported symbol, throws ErrClosed or ErrSymbolNotFound.
func (h *Handle) Lookup(sym string) (p uintptr, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.refs == 0 {
		return 0, ErrClosed
	}
	return h.lookup(sym)
}

func (h *Handle) lookup(sym string) (p uintptr, err error) {
	p, err = h.lib.lookup(sym)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, sym, err)
	}
	if p == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, sym)
	}
	if h.debug {
		log.Printf("found symbol %s: %x", sym, p)
	}
	return
}

// Close drops the owner reference. The library is unmapped at once when no symbol holds it,
// otherwise by the last [Symbol.Release]. Close twice does nothing.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()
	return h.release()
}

// acquire a symbol reference and lookup sym under the same lock.
func (h *Handle) acquire(sym string) (p uintptr, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.refs == 0 {
		return 0, ErrClosed
	}
	if p, err = h.lookup(sym); err != nil {
		return
	}
	h.refs++
	return
}

func (h *Handle) release() error {
	h.mu.Lock()
	h.refs--
	n := h.refs
	h.mu.Unlock()
	if n > 0 {
		return nil
	}
	if h.debug {
		log.Printf("unload %s library %s (%s)", h.lib.kind(), h.path, h.id)
	}
	if err := h.lib.close(); err != nil {
		return fmt.Errorf("unload %s: %w", h.path, err)
	}
	return nil
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s library %s (%s)", h.lib.kind(), h.path, h.id)
}
