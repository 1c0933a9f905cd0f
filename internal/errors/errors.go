// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the compatibility layer can raise carries a machine-readable Kind
// and, where the legacy API defined one, the numeric code callers may still
// switch on.
//
// Only a few kinds exist. Empty inputs, missing packages in non-strict lookups
// and plugins without an entry point are not errors at all; callers check for
// empty results instead.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InvalidArgument indicates a caller contract violation, e.g. a WHERE
	// clause that is not a string.
	InvalidArgument Kind = "invalid_argument"
	// Incompatible indicates a legacy operation the backend cannot support.
	// It is permanent; retrying never helps.
	Incompatible Kind = "incompatible"
	// PackageNotLoaded indicates a strict lookup for an inactive package.
	PackageNotLoaded Kind = "package_not_loaded"
	// NotFound indicates a missing file or record that the caller required.
	NotFound Kind = "not_found"
	// ConfigInvalid indicates unusable configuration.
	ConfigInvalid Kind = "config_invalid"
	// ConnectFailed indicates the database connection could not be opened.
	ConnectFailed Kind = "connect_failed"
)

// Legacy numeric codes, kept for callers that compare them.
const (
	CodeUpdateWhereNotString = 1270853880
	CodeDeleteWhereNotString = 1270853881
	CodeListValueHasComma    = 1294585862
)

// E wraps an error with kind, optional legacy code and human-friendly message.
type E struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *E) Error() string {
	msg := e.Message
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (#%d)", msg, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// WithCode creates an error carrying a legacy numeric code.
func WithCode(kind Kind, code int, msg string) *E {
	return &E{Kind: kind, Code: code, Message: msg}
}

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf returns the legacy code of err, or 0.
func CodeOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}
