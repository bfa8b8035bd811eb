package invoker

import (
	"fmt"
	"io"
	"log"
	"reflect"
	"strconv"
	"strings"

	"github.com/ZenLiuCN/dynlib"
	"github.com/davecgh/go-spew/spew"
)

// Kind of a parameter or result in a call descriptor.
type Kind int

const (
	Void   Kind = iota
	String      // C string, passed as a NUL terminated copy
	Int         // 64 bit signed integer
	Float       // 64 bit float
	Bool
)

var kindNames = [...]string{"void", "string", "int", "float", "bool"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Type of the go value for the kind, nil for Void.
func (k Kind) Type() reflect.Type {
	switch k {
	case String:
		return reflect.TypeOf((*string)(nil)).Elem()
	case Int:
		return reflect.TypeOf((*int64)(nil)).Elem()
	case Float:
		return reflect.TypeOf((*float64)(nil)).Elem()
	case Bool:
		return reflect.TypeOf((*bool)(nil)).Elem()
	default:
		return nil
	}
}

// ParseKind accepts a kind name, empty means Void.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Void, nil
	}
	for i, n := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return Void, fmt.Errorf("unknown kind '%s'", s)
}

// Call describes one symbol to call: name[:arg[:ret]][=value].
type Call struct {
	Name  string
	Arg   Kind
	Ret   Kind
	Value any // argument of type Arg.Type(), nil for Void
}

// ParseCall parse a call descriptor such as lib_test, lib_test1:string=hi or labs:int:int=-3.
func ParseCall(s string) (c Call, err error) {
	head, raw, hasValue := strings.Cut(s, "=")
	parts := strings.Split(head, ":")
	if len(parts) > 3 {
		return c, fmt.Errorf("call '%s': too many ':' sections", s)
	}
	c.Name = strings.TrimSpace(parts[0])
	if c.Name == "" {
		return c, fmt.Errorf("call '%s': missing symbol name", s)
	}
	if len(parts) > 1 {
		if c.Arg, err = ParseKind(parts[1]); err != nil {
			return c, fmt.Errorf("call '%s': %w", s, err)
		}
	}
	if len(parts) > 2 {
		if c.Ret, err = ParseKind(parts[2]); err != nil {
			return c, fmt.Errorf("call '%s': %w", s, err)
		}
	}
	switch c.Arg {
	case Void:
		if hasValue {
			return c, fmt.Errorf("call '%s': void argument takes no value", s)
		}
	case String:
		c.Value = raw
	case Int:
		c.Value, err = strconv.ParseInt(raw, 0, 64)
	case Float:
		c.Value, err = strconv.ParseFloat(raw, 64)
	case Bool:
		c.Value, err = strconv.ParseBool(raw)
	}
	if err != nil {
		return c, fmt.Errorf("call '%s': %s value: %w", s, c.Arg, err)
	}
	return
}

// ParseCalls parse all descriptors, stop at the first bad one.
func ParseCalls(v []string) (calls []Call, err error) {
	calls = make([]Call, 0, len(v))
	for _, s := range v {
		var c Call
		if c, err = ParseCall(s); err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return
}

// Type is the declared function type of the call.
func (c Call) Type() reflect.Type {
	var in, out []reflect.Type
	if t := c.Arg.Type(); t != nil {
		in = append(in, t)
	}
	if t := c.Ret.Type(); t != nil {
		out = append(out, t)
	}
	return reflect.FuncOf(in, out, false)
}

func (c Call) String() string {
	s := c.Name
	switch {
	case c.Ret != Void:
		s += ":" + c.Arg.String() + ":" + c.Ret.String()
	case c.Arg != Void:
		s += ":" + c.Arg.String()
	}
	if c.Arg != Void {
		s += "=" + fmt.Sprint(c.Value)
	}
	return s
}

// Invoke resolve the symbol from h, call it once and release it. Trace lines are written to w.
func (c Call) Invoke(h *dynlib.Handle, w io.Writer, debug bool) (err error) {
	_, _ = fmt.Fprintf(w, "Resolving symbol %s\n", c.Name)
	var v *dynlib.Value
	if v, err = dynlib.ResolveValue(h, c.Name, c.Type()); err != nil {
		return
	}
	defer func() {
		if e := v.Release(); err == nil {
			err = e
		}
	}()
	if debug {
		log.Printf("resolved %s", spew.Sdump(c))
	}
	_, _ = fmt.Fprintf(w, "Calling method %s\n", v)
	var args []any
	if c.Arg != Void {
		args = append(args, c.Value)
	}
	var out []reflect.Value
	if out, err = v.Call(args...); err != nil {
		return
	}
	if c.Ret != Void && len(out) > 0 {
		_, _ = fmt.Fprintf(w, "Returned %v\n", out[0].Interface())
	}
	return
}
