// Package boolerr defines the error kinds raised across the search engine.
//
// Errors are propagated as plain Go errors carrying one of the sentinel
// Kind values below; callers compare with errors.Is against the exported
// sentinels (EmptyQuery, ParseError, ...) rather than switching on strings.
package boolerr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of failure: EmptyQuery, ParseError,
// CodecError, OutOfRange, MissingShard, IOError.
type Kind int

const (
	// KindEmptyQuery is raised by the parser on an empty phrase ("").
	KindEmptyQuery Kind = iota
	// KindParseError is raised by the parser on malformed input.
	KindParseError
	// KindCodecError is raised by the codec on truncated or corrupt shards.
	KindCodecError
	// KindOutOfRange is raised by Title on a doc id outside 1..N.
	KindOutOfRange
	// KindMissingShard is raised internally when a requested shard file is
	// absent. It is never surfaced to the driver: callers catch it with
	// errors.Is/boolerr.Is and treat the shard as empty.
	KindMissingShard
	// KindIOError wraps filesystem failures surfaced to the driver.
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindEmptyQuery:
		return "EmptyQuery"
	case KindParseError:
		return "ParseError"
	case KindCodecError:
		return "CodecError"
	case KindOutOfRange:
		return "OutOfRange"
	case KindMissingShard:
		return "MissingShard"
	case KindIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carrying a Kind and a message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, boolerr.EmptyQuery) style checks against the
// package-level sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is. Their Msg/Err fields are irrelevant to
// the comparison — only Kind is compared (see Error.Is).
var (
	EmptyQuery   = &Error{Kind: KindEmptyQuery}
	ParseError   = &Error{Kind: KindParseError}
	CodecError   = &Error{Kind: KindCodecError}
	OutOfRange   = &Error{Kind: KindOutOfRange}
	MissingShard = &Error{Kind: KindMissingShard}
	IOError      = &Error{Kind: KindIOError}
)

// New builds a concrete error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a concrete error of the given kind, wrapping an underlying
// cause so errors.Unwrap still reaches it.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err (or anything it wraps) is of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
