//go:build !go1.20 || go1.24

package dynlib

import (
	"errors"
	"testing"
)

func TestObjectUnsupported(t *testing.T) {
	_, err := LoadObject("sample.a", pkgSample)
	if !errors.Is(err, ErrLoad) || !errors.Is(err, ErrUnsupported) {
		t.Errorf("LoadObject() error = %v, want %v and %v", err, ErrLoad, ErrUnsupported)
	}
	if _, err = Inspect("sample.a", pkgSample); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Inspect() error = %v", err)
	}
	if _, err = Missing("sample.a", pkgSample); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Missing() error = %v", err)
	}
	if err = UseGlobalTypes(0); !errors.Is(err, ErrUnsupported) {
		t.Errorf("UseGlobalTypes() error = %v", err)
	}
}
