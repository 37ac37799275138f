// Package lua provides Golua integration for plotview. It implements the
// sandboxed script runtime that compiles user plot scripts and exposes the
// plot(...) primitive to them.
package lua

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-plotview/internal/plot"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit per program run.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes a run can allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout is the writer for Lua print output.
	// If nil, output is only captured internally.
	Stdout io.Writer
}

// DefaultConfig returns a RuntimeConfig with sensible default values.
// CPU limit: 50,000,000 instructions (a full sample pass evaluates the
// user function once per step across the surface width).
// Memory limit: 50 MB.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    50_000_000,
		MemoryLimit: 50 * 1024 * 1024,
		Stdout:      os.Stdout,
	}
}

// Runtime wraps a Golua runtime with plot-specific functionality. It
// compiles user scripts into Programs and executes them with resource
// limits, so an accidental infinite loop in a script cannot hang the
// viewer. It implements plot.Compiler.
//
// The plot global is only bound while a Program is running; scripts that
// call plot() at other times get an error.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.Mutex

	// primitive is the plot capability for the run in progress, nil
	// between runs.
	primitive plot.PlotPrimitive
}

// New creates a Runtime with the specified configuration, loaded with the
// Lua standard libraries and the plot global.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	stdout := config.Stdout
	if stdout == nil {
		stdout = output
	} else {
		stdout = io.MultiWriter(stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	r := &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}
	r.registerPlot()

	return r, nil
}

// Compile compiles a plot script chunk. The returned Program can be run
// repeatedly; it implements plot.Program. Compile itself executes nothing.
func (r *Runtime) Compile(name, source string) (plot.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		[]byte(source),
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load plot script: %w", err)
	}

	return &Program{runtime: r, closure: closure, name: name}, nil
}

// registerPlot binds the plot global. The Go function resolves the Lua
// arguments and forwards to the primitive of the run in progress.
func (r *Runtime) registerPlot() {
	fn := rt.NewGoFunction(r.plotGoFunc, "plot", 0, true)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, fn)
	r.runtime.GlobalEnv().Set(rt.StringValue("plot"), rt.FunctionValue(fn))
}

// plotGoFunc is the Lua-callable plot(...) implementation.
func (r *Runtime) plotGoFunc(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	if r.primitive == nil {
		return nil, ErrPlotOutsideRun
	}

	args := resolveArgs(t, c.Etc())
	if err := r.primitive(args...); err != nil {
		return nil, err
	}
	return c.Next(), nil
}

// run executes a compiled closure with the plot primitive bound and
// resource limits in force. Exceeding a hard limit terminates the context
// with a panic, which is converted to an error here.
func (r *Runtime) run(closure *rt.Closure, primitive plot.PlotPrimitive) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.primitive = primitive
	defer func() { r.primitive = nil }()

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	}
	r.runtime.PushContext(ctx)
	defer r.runtime.PopContext()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plot script terminated: %v", rec)
		}
	}()

	thread := r.runtime.MainThread()
	if _, err := rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return fmt.Errorf("plot script error: %w", err)
	}
	return nil
}

// Output returns the captured output from Lua print statements.
func (r *Runtime) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// ClearOutput clears the captured output buffer.
func (r *Runtime) ClearOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output.Reset()
}

// Config returns the runtime configuration.
func (r *Runtime) Config() RuntimeConfig {
	return r.config
}

// Close releases resources associated with the runtime. The runtime must
// not be used after Close.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
