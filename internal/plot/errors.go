package plot

import "fmt"

// CompileError reports that user source code failed to compile into a
// runnable program. The previously adopted program remains active.
type CompileError struct {
	// Name is the chunk name the source was compiled under.
	Name string
	// Err is the underlying compiler error.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CompileError) Unwrap() error { return e.Err }

// RuntimeError reports that a user program failed while executing,
// including failures inside a per-point function evaluation during
// sampling.
type RuntimeError struct {
	Err error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("plot program: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RuntimeError) Unwrap() error { return e.Err }
