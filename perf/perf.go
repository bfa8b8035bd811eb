// Package perf times different ways to do the same thing, usually writing bytes to standard output.
package perf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"time"
)

type (
	// Case is one way to do the work, Run is called with the iteration number.
	Case struct {
		Name  string
		Run   func(n int)
		Flush func() // optional, timed once after the loop
	}
	// Result of one Case.
	Result struct {
		Name    string
		Loops   int
		Elapsed time.Duration
	}
	// Suite runs every case Loops times, one after another.
	Suite struct {
		Cases []Case
		Loops int
		Pause time.Duration // wait before and after each case, lets the terminal settle
		Out   io.Writer     // progress lines, os.Stderr if nil
	}
)

// Measure the wall-clock time of calling f loops times.
func Measure(loops int, f func(n int)) time.Duration {
	start := time.Now()
	for n := 0; n < loops; n++ {
		f(n)
	}
	return time.Since(start)
}

// Exec run all cases, results keep the order of cases.
func (s *Suite) Exec() []Result {
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		_, _ = fmt.Fprintf(out, "Testing %s...\n", c.Name)
		s.wait(out)
		results = append(results, Result{Name: c.Name, Loops: s.Loops, Elapsed: s.measure(c)})
		_, _ = fmt.Fprintln(out, "Done!")
		s.wait(out)
	}
	return results
}

func (s *Suite) measure(c Case) time.Duration {
	d := Measure(s.Loops, c.Run)
	if c.Flush != nil {
		start := time.Now()
		c.Flush()
		d += time.Since(start)
	}
	return d
}

func (s *Suite) wait(out io.Writer) {
	if s.Pause <= 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "\n\nWaiting %s...\n", s.Pause)
	time.Sleep(s.Pause)
}

// Ranked copy results sorted from fastest to slowest, ties keep their order.
func Ranked(results []Result) []Result {
	v := slices.Clone(results)
	slices.SortStableFunc(v, func(a, b Result) int {
		switch {
		case a.Elapsed < b.Elapsed:
			return -1
		case a.Elapsed > b.Elapsed:
			return 1
		default:
			return 0
		}
	})
	return v
}

// Summary write one line per result.
func Summary(w io.Writer, results []Result) (err error) {
	for _, r := range results {
		if _, err = fmt.Fprintf(w, "Test %s completed in %d ms\n", r.Name, r.Elapsed.Milliseconds()); err != nil {
			return
		}
	}
	return
}

// StdoutCases compare ways of writing a line to standard output, raw should be the handle from [RawStdout].
func StdoutCases(raw io.Writer) []Case {
	buf := bufio.NewWriter(raw)
	return []Case{
		{Name: "fmt.Println", Run: func(n int) {
			fmt.Println("Hello, world!", n)
		}},
		{Name: "fmt.Print", Run: func(n int) {
			fmt.Print("Hello, world! ", n, "\n")
		}},
		{Name: "fmt.Fprintf(raw)", Run: func(n int) {
			_, _ = fmt.Fprintf(raw, "Hello, world! %d\n", n)
		}},
		{Name: "raw.Write", Run: func(n int) {
			_, _ = raw.Write([]byte(fmt.Sprintf("Hello, world! %d\n", n)))
		}},
		{Name: "bufio.Writer", Run: func(n int) {
			_, _ = fmt.Fprintf(buf, "Hello, world! %d\n", n)
		}, Flush: func() {
			_ = buf.Flush()
		}},
	}
}
