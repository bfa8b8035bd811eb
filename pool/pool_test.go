package pool

import (
	"errors"
	"os"
	"testing"

	"github.com/ZenLiuCN/dynlib"
	"github.com/ZenLiuCN/dynlib/internal/fixture"
	"github.com/ZenLiuCN/fn"
	"github.com/davecgh/go-spew/spew"
)

func TestNewPool(t *testing.T) {
	c := fixture.Libc(t)
	p := NewPool()
	h := fn.Panic1(p.Load(c.Path))
	if _, err := p.Load(c.Path); !errors.Is(err, ErrAlreadyLoad) {
		t.Errorf("second Load() error = %v, want %v", err, ErrAlreadyLoad)
	}
	if g, ok := p.Get(c.Path); !ok || g != h {
		t.Errorf("Get() = %v, %v, want %v", g, ok, h)
	}
	if paths := p.Paths(); len(paths) != 1 || paths[0] != c.Path {
		t.Errorf("Paths() = %v, want [%s]", paths, c.Path)
	}
	sp := spew.NewDefaultConfig()
	sp.MaxDepth = 3
	t.Log(sp.Sdump(p.Modules))
	fn.Panic(dynlib.Use[func() int32](h, c.Getpid, func(f func() int32) error {
		if got := f(); got != int32(os.Getpid()) {
			t.Errorf("%s() = %d, want %d", c.Getpid, got, os.Getpid())
		}
		return nil
	}))
	fn.Panic(p.Close())
	if !h.Closed() || h.Refs() != 0 {
		t.Errorf("after Close: Closed() = %v, Refs() = %d", h.Closed(), h.Refs())
	}
	if len(p.Paths()) != 0 {
		t.Errorf("Paths() = %v after Close", p.Paths())
	}
}

func TestReload(t *testing.T) {
	c := fixture.Libc(t)
	p := NewPool()
	defer func() { fn.Panic(p.Close()) }()
	h := fn.Panic1(p.Load(c.Path))
	s := fn.Panic1(dynlib.Resolve[func() int32](h, c.Getpid))
	n := fn.Panic1(p.Reload(c.Path))
	if n == h || n.ID() == h.ID() {
		t.Fatalf("Reload() returned the same handle %s", n)
	}
	// the old mapping survives while s holds it
	if !h.Closed() || h.Refs() != 1 {
		t.Errorf("old handle: Closed() = %v, Refs() = %d", h.Closed(), h.Refs())
	}
	if got := s.MustFunc()(); got != int32(os.Getpid()) {
		t.Errorf("%s() = %d after Reload", c.Getpid, got)
	}
	fn.Panic(s.Release())
	if h.Refs() != 0 {
		t.Errorf("old handle Refs() = %d, want 0", h.Refs())
	}
	if g, ok := p.Get(c.Path); !ok || g != n {
		t.Errorf("Get() = %v, %v, want %v", g, ok, n)
	}
}

func TestUnload(t *testing.T) {
	c := fixture.Libc(t)
	p := NewPool()
	defer func() { fn.Panic(p.Close()) }()
	if err := p.Unload(c.Path); !errors.Is(err, ErrNotLoad) {
		t.Errorf("Unload() error = %v, want %v", err, ErrNotLoad)
	}
	if _, err := p.Reload(c.Path); !errors.Is(err, ErrNotLoad) {
		t.Errorf("Reload() error = %v, want %v", err, ErrNotLoad)
	}
	h := fn.Panic1(p.Load(c.Path))
	fn.Panic(p.Unload(c.Path))
	if h.Refs() != 0 {
		t.Errorf("Refs() = %d after Unload", h.Refs())
	}
	if _, ok := p.Get(c.Path); ok {
		t.Errorf("Get() found an unloaded library")
	}
}

func TestLoadErrors(t *testing.T) {
	p := NewPool()
	defer func() { fn.Panic(p.Close()) }()
	if _, err := p.Load("no/such/library.so"); !errors.Is(err, dynlib.ErrPath) {
		t.Errorf("Load(missing) error = %v, want %v", err, dynlib.ErrPath)
	}
	if _, err := p.Load(fixture.Text(t)); !errors.Is(err, dynlib.ErrLoad) {
		t.Errorf("Load(text) error = %v, want %v", err, dynlib.ErrLoad)
	}
	if len(p.Paths()) != 0 {
		t.Errorf("Paths() = %v, want none", p.Paths())
	}
}
