// Package fixture locates libraries shipped with the operating system and builds the test libraries.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// CRuntime is the platform C runtime with the names of two well known exports.
type CRuntime struct {
	Path   string
	Getpid string // func() int32
	Strlen string // func(string) uintptr
	Strcmp string // func(string, string) int32
}

var candidates = map[string][]string{
	"linux": {
		"/lib/x86_64-linux-gnu/libc.so.6",
		"/usr/lib/x86_64-linux-gnu/libc.so.6",
		"/lib/aarch64-linux-gnu/libc.so.6",
		"/usr/lib/aarch64-linux-gnu/libc.so.6",
		"/lib64/libc.so.6",
		"/usr/lib64/libc.so.6",
		"/usr/lib/libc.so.6",
		"/lib/libc.so.6",
		"/lib/libc.musl-x86_64.so.1",
		"/lib/libc.musl-aarch64.so.1",
	},
	"freebsd": {"/lib/libc.so.7"},
	"netbsd":  {"/usr/lib/libc.so.12"},
	"windows": {`C:\Windows\System32\msvcrt.dll`},
}

// Libc find the C runtime or skip the test.
func Libc(t testing.TB) CRuntime {
	t.Helper()
	for _, p := range candidates[runtime.GOOS] {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		r, err := filepath.EvalSymlinks(p)
		if err != nil {
			continue
		}
		c := CRuntime{Path: r, Getpid: "getpid", Strlen: "strlen", Strcmp: "strcmp"}
		if runtime.GOOS == "windows" {
			c.Getpid = "_getpid"
		}
		return c
	}
	t.Skipf("no C runtime library found for %s", runtime.GOOS)
	return CRuntime{}
}

// Text create a file which is not a library.
func Text(t testing.TB) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "not-a-library.so")
	if err := os.WriteFile(p, []byte("plain text, not a library image\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// ErrNoCompiler occurs when no C compiler is installed, tests needing a C library are skipped.
var ErrNoCompiler = errors.New("no C compiler")

// Artifact is a library built once for the tests of a package, usually inside TestMain.
type Artifact struct {
	Path string
	Err  error
}

// Require the artifact path. The test is skipped only when no C compiler exists, any other build failure fails it.
func (a Artifact) Require(t testing.TB) string {
	t.Helper()
	switch {
	case errors.Is(a.Err, ErrNoCompiler):
		t.Skip(a.Err)
	case a.Err != nil:
		t.Fatal(a.Err)
	}
	return a.Path
}

func build(out string, cmd *exec.Cmd) Artifact {
	if b, err := cmd.CombinedOutput(); err != nil {
		return Artifact{Err: fmt.Errorf("%s: %w\n%s", strings.Join(cmd.Args, " "), err, b)}
	}
	r, err := filepath.EvalSymlinks(out)
	return Artifact{Path: r, Err: err}
}

// BuildShared compile the C source src into a shared library inside dir with $CC or cc.
func BuildShared(dir, src string) Artifact {
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		return Artifact{Err: fmt.Errorf("%w: %w", ErrNoCompiler, err)}
	}
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	switch runtime.GOOS {
	case "windows":
		name += ".dll"
	case "darwin":
		name += ".dylib"
	default:
		name += ".so"
	}
	out := filepath.Join(dir, name)
	args := []string{"-shared", "-o", out, src}
	if runtime.GOOS != "windows" {
		args = append([]string{"-fPIC"}, args...)
	}
	return build(out, exec.Command(cc, args...))
}

// BuildArchive build the go package pkg into a go archive inside dir with the running toolchain.
func BuildArchive(dir, pkg string) Artifact {
	gobin := filepath.Join(runtime.GOROOT(), "bin", "go")
	if _, err := exec.LookPath(gobin); err != nil {
		gobin = "go"
	}
	out := filepath.Join(dir, filepath.Base(pkg)+".a")
	return build(out, exec.Command(gobin, "build", "-buildmode=archive", "-o", out, pkg))
}
