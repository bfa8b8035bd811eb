//go:build !go1.20 || go1.24

package dynlib

// goloader supports go1.20 to go1.23 only, go objects are refused on other toolchains.

func openObject(file, pkg string, debug bool) (library, error) {
	return nil, ErrUnsupported
}

// UseGlobalTypes always fails with ErrUnsupported on this toolchain.
func UseGlobalTypes(types ...any) error {
	return ErrUnsupported
}

// Inspect always fails with ErrUnsupported on this toolchain.
func Inspect(file, pkg string) ([]string, error) {
	return nil, ErrUnsupported
}

// Missing always fails with ErrUnsupported on this toolchain.
func Missing(file, pkg string) ([]string, error) {
	return nil, ErrUnsupported
}

// Exports is always nil on this toolchain.
func (h *Handle) Exports() []string {
	return nil
}
