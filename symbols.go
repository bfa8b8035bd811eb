package dynlib

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"sync/atomic"
)

var (
	// ErrPath occurs when a path not exists or can't be canonicalized.
	ErrPath = errors.New("invalid path")
	// ErrLoad occurs when the platform loader refuse a library, the loader diagnostic is wrapped.
	ErrLoad = errors.New("load library")
	// ErrSymbolNotFound occurs when can't found an exported symbol.
	ErrSymbolNotFound = errors.New("missing symbol")
	// ErrNotFunc occurs when the declared type of symbol is not a function type.
	ErrNotFunc = errors.New("declared type is not a function")
	// ErrSignature occurs when a declared signature can't be bound or called.
	ErrSignature = errors.New("unsupported signature")
	// ErrReleased occurs use a Symbol after released.
	ErrReleased = errors.New("symbol released")
	// ErrClosed occurs use a Handle after closed.
	ErrClosed = errors.New("library closed")
	// ErrUnsupported occurs load a go object with a toolchain goloader does not support.
	ErrUnsupported = errors.New("go objects unsupported by this toolchain")
)

// symbol is the shared part of Symbol and Value.
type symbol struct {
	name     string
	addr     uintptr
	typ      reflect.Type
	h        *Handle
	released atomic.Bool
}

func (s *symbol) resolve(h *Handle, name string, t reflect.Type, fptr func() any) (err error) {
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("%w: %v", ErrNotFunc, t)
	}
	var p uintptr
	if p, err = h.acquire(name); err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			_ = h.release()
			err = fmt.Errorf("%w: %s %v: %v", ErrSignature, name, t, r)
		}
	}()
	h.lib.bind(fptr(), p)
	s.name, s.addr, s.typ, s.h = name, p, t, h
	return nil
}

// Name of the symbol.
func (s *symbol) Name() string {
	return s.name
}

// Addr the raw address of the symbol.
func (s *symbol) Addr() uintptr {
	return s.addr
}

// Handle the symbol resolved from.
func (s *symbol) Handle() *Handle {
	return s.h
}

// Released reports whether Release was called.
func (s *symbol) Released() bool {
	return s.released.Load()
}

// Release drops the reference on the Handle, the symbol must not be called after. Release twice does nothing.
func (s *symbol) Release() error {
	if s.released.Swap(true) {
		return nil
	}
	if s.h.debug {
		log.Printf("release symbol %s", s.name)
	}
	return s.h.release()
}

func (s *symbol) String() string {
	return fmt.Sprintf("%s %v @%#x", s.name, s.typ, s.addr)
}

// Symbol is an exported function bound to the declared function type F.
//
// F is trusted: it must match the real signature of the export, which only a header or ABI contract tells.
type Symbol[F any] struct {
	symbol
	fn F
}

// Resolve an exported function of h as type F, throws ErrNotFunc, ErrClosed, ErrSymbolNotFound or ErrSignature.
func Resolve[F any](h *Handle, name string) (s *Symbol[F], err error) {
	s = new(Symbol[F])
	if err = s.resolve(h, name, reflect.TypeOf((*F)(nil)).Elem(), func() any { return &s.fn }); err != nil {
		return nil, err
	}
	return
}

// Func fetch the bound function, throws ErrReleased.
func (s *Symbol[F]) Func() (f F, err error) {
	if s.released.Load() {
		err = ErrReleased
		return
	}
	return s.fn, nil
}

// MustFunc fetch the bound function, panic with ErrReleased.
func (s *Symbol[F]) MustFunc() F {
	if s.released.Load() {
		panic(ErrReleased)
	}
	return s.fn
}

// Use create a function to resolve, use and release symbol on the fly. A panic inside f is returned as error.
func Use[F any](h *Handle, name string, f func(F) error) (err error) {
	var s *Symbol[F]
	if s, err = Resolve[F](h, name); err != nil {
		return
	}
	defer func() {
		switch y := recover().(type) {
		case nil:
		case error:
			err = y
		default:
			err = fmt.Errorf("%v", y)
		}
		if e := s.Release(); err == nil {
			err = e
		}
	}()
	return f(s.fn)
}

// Value is an exported function bound to a function type known only at runtime.
type Value struct {
	symbol
	fn reflect.Value
}

// ResolveValue an exported function of h as type t, throws the same errors as [Resolve].
func ResolveValue(h *Handle, name string, t reflect.Type) (v *Value, err error) {
	v = new(Value)
	var fp reflect.Value
	if t != nil && t.Kind() == reflect.Func {
		fp = reflect.New(t)
	}
	if err = v.resolve(h, name, t, func() any { return fp.Interface() }); err != nil {
		return nil, err
	}
	v.fn = fp.Elem()
	return
}

// Type declared for the symbol.
func (v *Value) Type() reflect.Type {
	return v.typ
}

// Call the function with args converted to the declared parameter types, throws ErrReleased or ErrSignature.
func (v *Value) Call(args ...any) (out []reflect.Value, err error) {
	if v.released.Load() {
		return nil, ErrReleased
	}
	if v.typ.IsVariadic() || len(args) != v.typ.NumIn() {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrSignature, v.name, v.typ.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		at := v.typ.In(i)
		av := reflect.ValueOf(a)
		if !av.IsValid() || !av.Type().ConvertibleTo(at) {
			return nil, fmt.Errorf("%w: %s argument %d is %T, want %v", ErrSignature, v.name, i, a, at)
		}
		in[i] = av.Convert(at)
	}
	return v.fn.Call(in), nil
}
