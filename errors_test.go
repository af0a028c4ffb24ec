package flowgraph

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorMsg(t *testing.T) {
	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{
			name: "simple error",
			err:  &Error{Code: ECycle},
			msg:  "<dependency cycle>",
		},
		{
			name: "with op",
			err: &Error{
				Code: EUnresolved,
				Op:   "compiler.resolve",
			},
			msg: "<unresolved reference>",
		},
		{
			name: "with message and id",
			err: &Error{
				Code: EUnresolved,
				Op:   "compiler.resolve",
				ID:   0x1234,
				Msg:  "stream is not defined",
			},
			msg: "stream is not defined (0000000000001234)",
		},
		{
			name: "with a third party error",
			err: &Error{
				Code: EInvalid,
				Op:   "tree.UnmarshalFunction",
				Err:  errors.New("unexpected end of JSON input"),
			},
			msg: "unexpected end of JSON input",
		},
		{
			name: "with an inner error",
			err: &Error{
				Code: EDuplicate,
				Msg:  "stream defined twice",
				Err:  &Error{Code: EInternal, Msg: "key exists"},
			},
			msg: "stream defined twice: key exists",
		},
	}
	for _, c := range cases {
		if c.msg != c.err.Error() {
			t.Fatalf("%s failed, want %s, got %s", c.name, c.msg, c.err.Error())
		}
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
		},
		{
			name: "simple error",
			err:  &Error{Msg: "simple error"},
			want: "simple error",
		},
		{
			name: "embeded error",
			err:  &Error{Err: &Error{Msg: "embeded error"}},
			want: "embeded error",
		},
		{
			name: "default error",
			err:  errors.New("s"),
			want: "An internal error has occurred.",
		},
	}
	for _, c := range cases {
		if result := ErrorMessage(c.err); c.want != result {
			t.Fatalf("%s failed, want %s, got %s", c.name, c.want, result)
		}
	}
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
		},
		{
			name: "simple error",
			err:  &Error{Code: ECycle},
			want: ECycle,
		},
		{
			name: "embeded error",
			err:  &Error{Code: ECycle, Err: &Error{Code: EInvalid}},
			want: ECycle,
		},
		{
			name: "code of the inner error",
			err:  &Error{Err: &Error{Code: ENoValue}},
			want: ENoValue,
		},
		{
			name: "wrapped with fmt",
			err:  fmt.Errorf("main.json: %w", &Error{Code: EUnresolved}),
			want: EUnresolved,
		},
		{
			name: "wrapped with pkg/errors",
			err:  pkgerrors.Wrap(&Error{Code: EYield}, "main.json"),
			want: EYield,
		},
		{
			name: "default error",
			err:  errors.New("s"),
			want: EInternal,
		},
	}
	for _, c := range cases {
		if result := ErrorCode(c.err); c.want != result {
			t.Fatalf("%s failed, want %s, got %s", c.name, c.want, result)
		}
	}
}

func TestErrorOp(t *testing.T) {
	err := &Error{Err: &Error{Code: ECycle, Op: "compiler.resolve"}}
	if got := ErrorOp(err); got != "compiler.resolve" {
		t.Fatalf("want compiler.resolve, got %s", got)
	}
	if got := ErrorOp(errors.New("s")); got != "" {
		t.Fatalf("want empty op, got %s", got)
	}
}

func TestErrorID(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ID
	}{
		{
			name: "nil error",
		},
		{
			name: "own id",
			err:  &Error{Code: ECycle, ID: 0x42, Err: &Error{ID: 0x43}},
			want: 0x42,
		},
		{
			name: "inner id",
			err:  &Error{Code: ECycle, Err: &Error{ID: 0x43}},
			want: 0x43,
		},
		{
			name: "no id",
			err:  errors.New("s"),
		},
	}
	for _, c := range cases {
		if result := ErrorID(c.err); c.want != result {
			t.Fatalf("%s failed, want %s, got %s", c.name, c.want, result)
		}
	}
}

func TestIsInvariantViolation(t *testing.T) {
	for code, want := range map[string]bool{
		ECycle:      false,
		EUnresolved: false,
		ENoValue:    false,
		ESignature:  false,
		EDuplicate:  true,
		EYield:      true,
		EUnclosed:   true,
		EInternal:   true,
	} {
		if got := IsInvariantViolation(&Error{Code: code}); got != want {
			t.Errorf("IsInvariantViolation(%q) = %v, want %v", code, got, want)
		}
	}
	if IsInvariantViolation(nil) {
		t.Error("nil error is not an invariant violation")
	}
}
