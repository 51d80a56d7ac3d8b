package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // value construction
	PhaseDerive    Phase = "derive"    // substring and copy derivation
	PhaseStore     Phase = "store"     // table writes, flushes, compaction
	PhaseIngest    Phase = "ingest"    // bulk loading and row streaming
	PhaseQuery     Phase = "query"     // lookups
)

// Kind categorizes the error
type Kind string

const (
	KindLengthOverflow Kind = "length_overflow"
	KindAllocation     Kind = "allocation"
	KindOutOfRange     Kind = "out_of_range"
	KindInvalidInput   Kind = "invalid_input"
	KindCorruptRecord  Kind = "corrupt_record"
	KindNotFound       Kind = "not_found"
	KindIO             Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LengthOverflow reports a requested size past the 32-bit size field
func LengthOverflow(phase Phase, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthOverflow,
		Detail: fmt.Sprintf("length %d exceeds the 32-bit size field", size),
	}
}

// AllocationFailed reports an allocator that could not satisfy a request
func AllocationFailed(phase Phase, size int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// OutOfRange reports a substring request outside the source value
func OutOfRange(phase Phase, start, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("range [%d, %d+%d) out of bounds (size %d)", start, start, length, size),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// CorruptRecord reports a malformed on-disk record
func CorruptRecord(phase Phase, path string, offset int64, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCorruptRecord,
		Path:   []string{path},
		Detail: fmt.Sprintf("record at offset %d: %s", offset, detail),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// IO wraps a filesystem or mapping failure
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
