// Package errors provides structured error types for the trampoline generator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the source location, the module/function path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindInvalidData).
//		Source("typenames.witx", 12).
//		Path("wasi_snapshot_preview1", "fd_write").
//		Detail("unknown type %s", "$iovec").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidInput(errors.PhaseConfig, "unsupported abi variant future")
//	err := errors.NotFound(errors.PhaseLoad, "file", "typenames.witx")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
