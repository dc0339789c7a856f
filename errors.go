package musdoom

import "fmt"

// Code identifies the class of failure behind an Error, mirroring the
// musdoom_error_t enum of the C reference this package's wire formats and
// semantics are drawn from.
type Code int

const (
	// CodeOK is never carried by a returned error; it exists so Code's zero
	// value has a name.
	CodeOK Code = iota
	CodeInvalidParam
	CodeOutOfMemory
	CodeInvalidData
	CodeNotInitialized
	CodeAlreadyInitialized
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidParam:
		return "invalid parameter"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeInvalidData:
		return "invalid data"
	case CodeNotInitialized:
		return "not initialized"
	case CodeAlreadyInitialized:
		return "already initialized"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by this package. Callers that need to
// branch on failure class should use errors.As and inspect Code.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errInvalidParam(msg string) error { return &Error{Code: CodeInvalidParam, Msg: msg} }
func errInvalidData(msg string) error  { return &Error{Code: CodeInvalidData, Msg: msg} }
func errNotInitialized(msg string) error {
	return &Error{Code: CodeNotInitialized, Msg: msg}
}
