//go:build go1.20 && !go1.24

package dynlib

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"unsafe"

	"github.com/ZenLiuCN/fn"
	"github.com/pkujhd/goloader"
)

// object is a go object file or go archive linked into an executable mapping.
type object struct {
	pkg    string
	linker *goloader.Linker
	module *goloader.CodeModule
}

func openObject(file, pkg string, debug bool) (library, error) {
	syms, err := runtimeSymbols()
	if err != nil {
		return nil, fmt.Errorf("register runtime symbols: %w", err)
	}
	o := &object{pkg: pkg}
	if o.linker, err = goloader.ReadObj(file, pkg); err != nil {
		return nil, err
	}
	if debug {
		log.Printf("create linker for %s", file)
	}
	if missing := goloader.UnresolvedSymbols(o.linker, syms); len(missing) > 0 {
		return nil, fmt.Errorf("unresolved symbols: %s", strings.Join(missing, ", "))
	}
	if o.module, err = goloader.Load(o.linker, syms); err != nil {
		return nil, err
	}
	if debug {
		log.Printf("create module, exports: %v", fn.MapKeys(o.module.Syms))
	}
	return o, nil
}

// qualify prefix an unqualified symbol with the package the object was read as.
func (o *object) qualify(sym string) string {
	if strings.IndexByte(sym, '.') < 0 {
		return o.pkg + "." + sym
	}
	return sym
}

func (o *object) lookup(sym string) (uintptr, error) {
	p, ok := o.module.Syms[o.qualify(sym)]
	if !ok {
		return 0, errors.New("not exported by module")
	}
	return p, nil
}

// bind stores a func value whose code pointer is addr.
func (o *object) bind(fptr any, addr uintptr) {
	v := reflect.ValueOf(fptr)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Func {
		panic(fmt.Sprintf("want pointer to func, got %T", fptr))
	}
	p := new(uintptr)
	*p = addr
	*(*unsafe.Pointer)(v.UnsafePointer()) = unsafe.Pointer(p)
}

func (o *object) close() error {
	if o.module != nil {
		o.module.Unload()
		o.module = nil
	}
	o.linker = nil
	return nil
}

func (o *object) kind() string {
	return "object"
}

// Exports list symbols exported by a go object module, nil for shared libraries.
func (h *Handle) Exports() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o, ok := h.lib.(*object); ok && o.module != nil {
		return fn.MapKeys(o.module.Syms)
	}
	return nil
}
