// Package invoker is the command line driver: load one library and call the described symbols in order.
package invoker

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ZenLiuCN/dynlib"
	"github.com/ZenLiuCN/dynlib/perf"
	"github.com/ZenLiuCN/dynlib/pool"
	"github.com/ZenLiuCN/fn"
	"github.com/urfave/cli/v2"
)

// Exit codes of Run.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitPath    = 3
	ExitLoad    = 4
	ExitSymbol  = 5
)

var (
	// ErrUsage occurs when the command line is incomplete or malformed.
	ErrUsage = errors.New("usage")
)

// DefaultCalls the sample calls of lib_test library.
var DefaultCalls = []string{"lib_test", "lib_test1:string=hi"}

// ExitCode map an error of Run to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, dynlib.ErrPath):
		return ExitPath
	case errors.Is(err, dynlib.ErrLoad):
		return ExitLoad
	case errors.Is(err, dynlib.ErrSymbolNotFound),
		errors.Is(err, dynlib.ErrSignature),
		errors.Is(err, dynlib.ErrNotFunc):
		return ExitSymbol
	default:
		return ExitFailure
	}
}

// Run the command line, args[0] is the program name. It returns the exit code instead of exiting.
func Run(args []string, stdout, stderr io.Writer) int {
	err := NewApp(stdout, stderr).Run(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failure %s\n", err)
	}
	return ExitCode(err)
}

// NewApp create the cli application writing to stdout and stderr, it never exits the process by itself.
func NewApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "invoke"
	app.Usage = "dynamic library invoker"
	app.Description = "load a dynamic library and call its exported functions described by --call"
	app.ArgsUsage = "<libraryPath>"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideHelpCommand = true
	app.DisableSliceFlagSeparator = true
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.OnUsageError = func(ctx *cli.Context, err error, _ bool) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	app.Action = invoke
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
		&cli.StringSliceFlag{
			Name:    "call",
			Aliases: []string{"c"},
			Value:   cli.NewStringSlice(DefaultCalls...),
			Usage:   "symbol to call as name[:arg[:ret]][=value], kinds are void, string, int, float and bool",
		},
		&cli.StringFlag{
			Name:    "pkg",
			Aliases: []string{"p"},
			Usage:   "package path of go object file or default main",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "inspect",
			Action:    inspect,
			Usage:     "display symbols of go objfile or go archive file",
			ArgsUsage: "<objectPath>...",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"p"}, Usage: "package path or default main"},
				&cli.BoolFlag{Name: "missing", Aliases: []string{"m"}, Usage: "display symbols the host can't provide"},
			},
		},
		{
			Name:   "perf",
			Action: bench,
			Usage:  "compare ways of writing to standard output",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "loops", Aliases: []string{"n"}, Value: 1000000},
				&cli.DurationFlag{Name: "pause", Value: time.Second},
			},
		},
		{
			Name:   "prepare",
			Action: prepare,
			Usage:  "prepare go sdk for loading go objects, copy $GOROOT/src/cmd/internal to $GOROOT/src/cmd/objfile",
			Flags:  []cli.Flag{gorootFlag()},
		},
		{
			Name:   "clean",
			Action: clean,
			Usage:  "remove $GOROOT/src/cmd/objfile created by prepare",
			Flags:  []cli.Flag{gorootFlag()},
		},
	}
	return app
}

func invoke(ctx *cli.Context) (err error) {
	switch ctx.Args().Len() {
	case 0:
		_, _ = fmt.Fprintln(ctx.App.ErrWriter, "Missing <libraryPath> positional argument!")
		_, _ = fmt.Fprintf(ctx.App.ErrWriter, "Usage: %s [options] %s\n", ctx.App.Name, ctx.App.ArgsUsage)
		return fmt.Errorf("%w: missing <libraryPath>", ErrUsage)
	case 1:
	default:
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, ctx.Args().Tail())
	}
	debug := ctx.Bool("debug")
	var calls []Call
	if calls, err = ParseCalls(ctx.StringSlice("call")); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	var path string
	if path, err = dynlib.ResolveWd(ctx.Args().First()); err != nil {
		return
	}
	out := ctx.App.Writer
	p := pool.NewPool(debug)
	defer func() {
		if e := p.Close(); err == nil {
			err = e
		}
	}()
	_, _ = fmt.Fprintf(out, "Loading lib %s\n", path)
	var h *dynlib.Handle
	if dynlib.IsObject(path) {
		h, err = p.LoadObject(path, ctx.String("pkg"))
	} else {
		h, err = p.Load(path)
	}
	if err != nil {
		return
	}
	for _, c := range calls {
		if err = c.Invoke(h, out, debug); err != nil {
			return
		}
	}
	return
}

func inspect(ctx *cli.Context) (err error) {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("%w: missing <objectPath>", ErrUsage)
	}
	pkg := ctx.String("pkg")
	list := dynlib.Inspect
	if ctx.Bool("missing") {
		list = dynlib.Missing
	}
	for _, s := range ctx.Args().Slice() {
		var path string
		if path, err = dynlib.ResolveWd(s); err != nil {
			return
		}
		var syms []string
		if syms, err = list(path, pkg); err != nil {
			return fmt.Errorf("%w: %s: %w", dynlib.ErrLoad, path, err)
		}
		_, _ = fmt.Fprintf(ctx.App.Writer, "%s:\n", path)
		for _, sym := range syms {
			_, _ = fmt.Fprintf(ctx.App.Writer, "\t%s\n", sym)
		}
	}
	return
}

func gorootFlag() cli.Flag {
	return &cli.StringFlag{Name: "goroot", EnvVars: []string{"GOROOT"}, Value: runtime.GOROOT(), Usage: "go sdk root"}
}

func prepare(ctx *cli.Context) error {
	dir, err := dynlib.PrepareSDK(ctx.String("goroot"), ctx.Bool("debug"))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ctx.App.Writer, "prepared %s\n", dir)
	return nil
}

func clean(ctx *cli.Context) error {
	removed, err := dynlib.CleanSDK(ctx.String("goroot"), ctx.Bool("debug"))
	if err != nil {
		return err
	}
	if removed {
		_, _ = fmt.Fprintln(ctx.App.Writer, "cleaned")
	}
	return nil
}

func bench(ctx *cli.Context) error {
	raw, err := perf.RawStdout()
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(raw)
	s := perf.Suite{
		Cases: perf.StdoutCases(raw),
		Loops: ctx.Int("loops"),
		Pause: ctx.Duration("pause"),
		Out:   ctx.App.ErrWriter,
	}
	return perf.Summary(ctx.App.Writer, perf.Ranked(s.Exec()))
}
