package btcparse

import "fmt"

type ErrorCode string

const (
	ERR_OUT_OF_BOUNDS         ErrorCode = "ERR_OUT_OF_BOUNDS"
	ERR_TRAILING_BYTES        ErrorCode = "ERR_TRAILING_BYTES"
	ERR_INVALID_HEADER_LENGTH ErrorCode = "ERR_INVALID_HEADER_LENGTH"
	ERR_SCRIPT_STRUCTURE      ErrorCode = "ERR_SCRIPT_STRUCTURE"
	ERR_UNSUPPORTED_SCRIPT    ErrorCode = "ERR_UNSUPPORTED_SCRIPT"
)

// Sentinels for errors.Is. Any *Error carrying the same code matches.
var (
	ErrOutOfBounds         = &Error{Code: ERR_OUT_OF_BOUNDS}
	ErrTrailingBytes       = &Error{Code: ERR_TRAILING_BYTES}
	ErrInvalidHeaderLength = &Error{Code: ERR_INVALID_HEADER_LENGTH}
	ErrScriptStructure     = &Error{Code: ERR_SCRIPT_STRUCTURE}
	ErrUnsupportedScript   = &Error{Code: ERR_UNSUPPORTED_SCRIPT}
)

type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func parseErr(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

func parseErrf(code ErrorCode, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
