/*
Package dynlib is a thin dynamic library loader: it maps a library into the process, resolves
exported symbols by name and binds them to a Go function type declared by the caller.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. Shared libraries with C linkage are mapped with [purego] (dlopen on unix, LoadLibrary on windows),
    no cgo is required.
 2. Go relocatable objects (.o) or archives (.a) are linked at runtime with [goloader].
 3. A [Symbol] holds a reference on its [Handle], the library stays mapped until the handle is closed
    and every symbol resolved from it is released.

# Notes

 1. The declared function type of a [Symbol] is trusted. Nothing verifies it against the real
    exported signature, a mismatch is undefined behavior at the foreign boundary.
 2. A crash inside a foreign call can not be recovered.
 3. Static initializers of a loaded library run on load, this package has no control over them.

# Invoke tool

The invoke tool loads a library and calls symbols described on the command line:

	go install github.com/ZenLiuCN/dynlib/invoke@latest
	invoke -c lib_test -c lib_test1:string=hi ./libtest.so

For more details see the cli help:

	invoke -h

# Use go objects on develop stage or compile distribution binaries

[goloader] builds with go1.20 to go1.23 only, other toolchains report [ErrUnsupported] for go objects
while shared libraries keep working.

  - 1. Prepare GO sdk

    goloader imports cmd/objfile, a copy of $GOROOT/src/cmd/internal. Create it with `invoke prepare`
    (or `invoke prepare --goroot /path/to/sdk`).

  - 2. Build the host executable

    go1.23 rejects the linkname pulls of goloader unless the check is disabled:

    go build -ldflags=-checklinkname=0 ./...
    go test -ldflags=-checklinkname=0 ./...

  - 3. Restore the GO SDK

    use `invoke clean`.

# Samples

See testdata and tests.

[goloader]: https://github.com/pkujhd/goloader
[purego]: https://github.com/ebitengine/purego
*/
package dynlib
