package invoker

import (
	"reflect"
	"testing"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		in      string
		want    Call
		typ     reflect.Type
		wantErr bool
	}{
		{"lib_test", Call{Name: "lib_test"}, reflect.TypeOf((*func())(nil)).Elem(), false},
		{"lib_test1:string=hi", Call{Name: "lib_test1", Arg: String, Value: "hi"}, reflect.TypeOf((*func(string))(nil)).Elem(), false},
		{"lib_test1:string", Call{Name: "lib_test1", Arg: String, Value: ""}, reflect.TypeOf((*func(string))(nil)).Elem(), false},
		{"lib_test1:string=a=b", Call{Name: "lib_test1", Arg: String, Value: "a=b"}, reflect.TypeOf((*func(string))(nil)).Elem(), false},
		{"labs:int:int=-3", Call{Name: "labs", Arg: Int, Ret: Int, Value: int64(-3)}, reflect.TypeOf((*func(int64) int64)(nil)).Elem(), false},
		{"getpid::int", Call{Name: "getpid", Ret: Int}, reflect.TypeOf((*func() int64)(nil)).Elem(), false},
		{"sqrt:float:float=2.25", Call{Name: "sqrt", Arg: Float, Ret: Float, Value: 2.25}, reflect.TypeOf((*func(float64) float64)(nil)).Elem(), false},
		{"flag:bool:bool=true", Call{Name: "flag", Arg: Bool, Ret: Bool, Value: true}, reflect.TypeOf((*func(bool) bool)(nil)).Elem(), false},
		{"hex:int=0x10", Call{Name: "hex", Arg: Int, Value: int64(16)}, reflect.TypeOf((*func(int64))(nil)).Elem(), false},
		{"", Call{}, nil, true},
		{":string=x", Call{}, nil, true},
		{"lib_test=x", Call{}, nil, true},
		{"f:nope", Call{}, nil, true},
		{"f:int:nope", Call{}, nil, true},
		{"f:int:int:int", Call{}, nil, true},
		{"f:int=abc", Call{}, nil, true},
		{"f:int", Call{}, nil, true},
		{"f:float=x", Call{}, nil, true},
		{"f:bool=maybe", Call{}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCall(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCall() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCall() = %#v, want %#v", got, tt.want)
			}
			if got.Type() != tt.typ {
				t.Errorf("Type() = %v, want %v", got.Type(), tt.typ)
			}
			again, err := ParseCall(got.String())
			if err != nil || !reflect.DeepEqual(again, got) {
				t.Errorf("ParseCall(%s) = %#v, %v, want %#v", got.String(), again, err, got)
			}
		})
	}
}

func TestParseCalls(t *testing.T) {
	calls, err := ParseCalls(DefaultCalls)
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0].Name != "lib_test" || calls[1].Name != "lib_test1" || calls[1].Value != "hi" {
		t.Errorf("ParseCalls() = %+v", calls)
	}
	if _, err = ParseCalls([]string{"ok", "bad:kind"}); err == nil {
		t.Errorf("ParseCalls() accepted a bad descriptor")
	}
}

func TestKind(t *testing.T) {
	for k := Void; k <= Bool; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%s) = %v, %v", k, got, err)
		}
	}
	if Kind(42).String() != "Kind(42)" {
		t.Errorf("String() = %s", Kind(42))
	}
	if Void.Type() != nil {
		t.Errorf("Void.Type() = %v, want nil", Void.Type())
	}
}
