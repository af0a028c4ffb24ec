package flowgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. The first group are compilation errors: tree states a user
// can reach while editing, reported inline and recovered from. The second
// group are invariant violations: they mean the tree handed to the compiler
// was malformed by some other component.
const (
	ECycle      = "dependency cycle"
	EUnresolved = "unresolved reference"
	ENoValue    = "no value"
	// ESignature is reserved for argument-count checks; nothing produces it yet.
	ESignature = "signature mismatch"

	EDuplicate = "duplicate definition"
	EYield     = "malformed yield"
	EUnclosed  = "unclosed definition"
	EInternal  = "internal error"

	EInvalid = "invalid" // decoding failed
)

// Error is the error struct of flowgraph.
//
// Errors may have error codes, human-readable messages,
// the identifier of the node at fault and a logical stack trace.
//
// The Code targets automated handlers so that recovery can occur.
// Msg is shown next to the offending node by the editor.
// Op and Err chain errors together in a logical stack trace.
//
// To create a simple error,
//
//	&Error{
//	    Code: EUnresolved,
//	    ID:   target,
//	}
//
// To show where the error happens, add Op.
//
//	&Error{
//	    Code: ECycle,
//	    Op:   "compiler.resolve",
//	}
type Error struct {
	Code string
	Msg  string
	Op   string
	ID   ID
	Err  error
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else if e.Err == nil {
		fmt.Fprintf(&b, "<%s>", e.Code)
	}
	if e.ID.Valid() && e.Msg != "" {
		fmt.Fprintf(&b, " (%s)", e.ID)
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func asError(err error) (*Error, bool) {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return nil, false
	}
	return e, true
}

// ErrorCode returns the code of the root error, if available; otherwise returns EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	e, ok := asError(err)
	if !ok {
		return EInternal
	}

	if e.Code != "" {
		return e.Code
	}

	if e.Err != nil {
		return ErrorCode(e.Err)
	}

	return EInternal
}

// ErrorOp returns the op of the error, if available; otherwise return empty string.
func ErrorOp(err error) string {
	e, ok := asError(err)
	if !ok {
		return ""
	}

	if e.Op != "" {
		return e.Op
	}

	if e.Err != nil {
		return ErrorOp(e.Err)
	}

	return ""
}

// ErrorMessage returns the human-readable message of the error, if available.
// Otherwise returns a generic error message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	e, ok := asError(err)
	if !ok {
		return "An internal error has occurred."
	}

	if e.Msg != "" {
		return e.Msg
	}

	if e.Err != nil {
		return ErrorMessage(e.Err)
	}

	return "An internal error has occurred."
}

// ErrorID returns the identifier the first error in the chain blames.
func ErrorID(err error) ID {
	e, ok := asError(err)
	if !ok {
		return InvalidID()
	}

	if e.ID.Valid() {
		return e.ID
	}

	if e.Err != nil {
		return ErrorID(e.Err)
	}

	return InvalidID()
}

// IsInvariantViolation reports whether err means the compiled tree was
// malformed rather than merely incomplete.
func IsInvariantViolation(err error) bool {
	switch ErrorCode(err) {
	case EDuplicate, EYield, EUnclosed, EInternal:
		return true
	}
	return false
}
