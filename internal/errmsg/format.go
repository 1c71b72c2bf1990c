// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Startup
	OpConfigLoad Op = "load configuration"
	OpLogSetup   Op = "set up logging"

	// Cache operations
	OpCacheOpen  Op = "open lyrics cache"
	OpCacheClear Op = "clear lyrics cache"
	OpCacheList  Op = "list lyrics cache"

	// Lyrics files
	OpFileLoad    Op = "read file"
	OpFileWrite   Op = "write file"
	OpLyricsParse Op = "parse lyrics"
	OpExport      Op = "export lyrics"

	// Lookups
	OpSearch Op = "search lyrics"
	OpFetch  Op = "fetch lyrics"

	// Players and display
	OpPlayersList Op = "list players"
	OpWatch       Op = "run lyrics display"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps Format as an error value for command return paths.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// ErrorWith wraps FormatWith as an error value.
func ErrorWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, context: context, err: err}
}

type opError struct {
	op      Op
	context string
	err     error
}

func (e *opError) Error() string { return FormatWith(e.op, e.context, e.err) }

func (e *opError) Unwrap() error { return e.err }
