// Package errs implements the error taxonomy of spec.md §7: typed errors
// that carry a TextLocation where applicable and compose with errors.Is /
// errors.As. HelpfulUserError and InternalError keep a stack trace (via
// github.com/pkg/errors) so they remain diagnosable at the top of the
// core; ordinary propagation between components uses plain fmt.Errorf
// wrapping, matching the teacher's own idiom.
package errs

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/v1kko/entangled/internal/location"
)

// ParseError reports malformed Markdown or a malformed back-read target.
// It aborts the enclosing transaction.
type ParseError struct {
	Loc location.TextLocation
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Loc, e.Msg)
}

func NewParseError(loc location.TextLocation, msg string) *ParseError {
	return &ParseError{Loc: loc, Msg: msg}
}

// IndentationError is a ParseError specialised to indent discipline
// violations during back-reading (spec.md §4.6 rules 3-4).
type IndentationError struct {
	Loc location.TextLocation
}

func (e *IndentationError) Error() string {
	return fmt.Sprintf("%s: inconsistent indentation", e.Loc)
}

func NewIndentationError(loc location.TextLocation) *IndentationError {
	return &IndentationError{Loc: loc}
}

// UndefinedReferenceError identifies a noweb reference that names no
// block in the reference map, plus the calling site.
type UndefinedReferenceError struct {
	Name string
	Loc  location.TextLocation
}

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("%s: undefined reference <<%s>>", e.Loc, e.Name)
}

func NewUndefinedReferenceError(name string, loc location.TextLocation) *UndefinedReferenceError {
	return &UndefinedReferenceError{Name: name, Loc: loc}
}

// ConflictError is raised at transaction time when the classification
// table (spec.md §4.9) flags an out-of-band edit under FAIL mode.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: out-of-band edit conflicts with tangle (run with --force to overwrite, or `stitch` first)", e.Path)
}

func NewConflictError(path string) *ConflictError {
	return &ConflictError{Path: path}
}

// HelpfulUserError reports invalid configuration, a database version
// mismatch, or a TOML decode failure — with a remediation hint.
type HelpfulUserError struct {
	cause error
	Hint  string
}

func (e *HelpfulUserError) Error() string {
	return fmt.Sprintf("%s (%s)", e.cause.Error(), e.Hint)
}

func (e *HelpfulUserError) Unwrap() error { return e.cause }

func NewHelpfulUserError(hint string, format string, args ...any) *HelpfulUserError {
	return &HelpfulUserError{cause: errors.WithStack(fmt.Errorf(format, args...)), Hint: hint}
}

// InternalError signals an invariant violation. It is never meant to be
// caught; it carries a stack trace for post-mortem diagnosis.
type InternalError struct {
	cause error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.cause.Error()
}

func (e *InternalError) Unwrap() error { return e.cause }

func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{cause: errors.WithStack(fmt.Errorf(format, args...))}
}
