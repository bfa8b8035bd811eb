package perf

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMeasure(t *testing.T) {
	var seen []int
	d := Measure(5, func(n int) { seen = append(seen, n) })
	if d < 0 {
		t.Errorf("Measure() = %s, want non-negative", d)
	}
	if len(seen) != 5 || seen[0] != 0 || seen[4] != 4 {
		t.Errorf("Measure() called with %v", seen)
	}
	if d = Measure(0, func(int) { t.Error("called with zero loops") }); d < 0 {
		t.Errorf("Measure(0) = %s", d)
	}
}

func TestSuite(t *testing.T) {
	var out bytes.Buffer
	calls := map[string]int{}
	flushed := false
	s := Suite{
		Cases: []Case{
			{Name: "a", Run: func(int) { calls["a"]++ }},
			{Name: "b", Run: func(int) { calls["b"]++ }, Flush: func() { flushed = true }},
		},
		Loops: 100,
		Out:   &out,
	}
	results := s.Exec()
	if len(results) != 2 || results[0].Name != "a" || results[1].Name != "b" {
		t.Fatalf("Exec() = %+v", results)
	}
	for _, r := range results {
		if r.Loops != 100 || r.Elapsed < 0 || calls[r.Name] != 100 {
			t.Errorf("result %+v, calls %d", r, calls[r.Name])
		}
	}
	if !flushed {
		t.Errorf("Flush not called")
	}
	if got := strings.Count(out.String(), "Done!"); got != 2 {
		t.Errorf("progress = %q", out.String())
	}
	if strings.Contains(out.String(), "Waiting") {
		t.Errorf("progress = %q, want no pause", out.String())
	}
}

func TestRankedSummary(t *testing.T) {
	in := []Result{
		{Name: "slow", Elapsed: 3 * time.Millisecond},
		{Name: "fast", Elapsed: time.Millisecond},
		{Name: "mid", Elapsed: 2 * time.Millisecond},
		{Name: "mid2", Elapsed: 2 * time.Millisecond},
	}
	r := Ranked(in)
	var names []string
	for _, v := range r {
		names = append(names, v.Name)
	}
	if got := strings.Join(names, ","); got != "fast,mid,mid2,slow" {
		t.Errorf("Ranked() = %s", got)
	}
	if in[0].Name != "slow" {
		t.Errorf("Ranked() modified its input")
	}
	var out bytes.Buffer
	if err := Summary(&out, r); err != nil {
		t.Fatal(err)
	}
	want := "Test fast completed in 1 ms\nTest mid completed in 2 ms\nTest mid2 completed in 2 ms\nTest slow completed in 3 ms\n"
	if out.String() != want {
		t.Errorf("Summary() = %q, want %q", out.String(), want)
	}
}

func TestStdoutCases(t *testing.T) {
	var raw bytes.Buffer
	cases := StdoutCases(&raw)
	var names []string
	for _, c := range cases {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, ","); got != "fmt.Println,fmt.Print,fmt.Fprintf(raw),raw.Write,bufio.Writer" {
		t.Errorf("StdoutCases() = %s", got)
	}
	for _, c := range cases {
		if !strings.Contains(c.Name, "raw") && !strings.HasPrefix(c.Name, "bufio") {
			continue
		}
		raw.Reset()
		c.Run(7)
		if c.Flush != nil {
			c.Flush()
		}
		if raw.String() != "Hello, world! 7\n" {
			t.Errorf("%s wrote %q", c.Name, raw.String())
		}
	}
}

func TestRawStdout(t *testing.T) {
	f, err := RawStdout()
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			t.Error(err)
		}
	}()
	if f.Name() == "" {
		t.Errorf("RawStdout() = %v", f)
	}
	if _, err = f.Write(nil); err != nil {
		t.Errorf("Write() = %v", err)
	}
}
