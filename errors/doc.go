// Package errors provides structured error types shared across the module.
//
// Every failure carries a Phase (where in processing it occurred) and a
// Kind (what went wrong), plus an optional location path, human-readable
// detail, and wrapped cause. Matching is by Phase and Kind through
// errors.Is:
//
//	if errors.Is(err, &gserrors.Error{Phase: gserrors.PhaseDerive, Kind: gserrors.KindOutOfRange}) {
//		// substring out of bounds
//	}
//
// Use the convenience constructors (LengthOverflow, OutOfRange, ...) for
// common cases and the Builder for anything richer.
package errors
