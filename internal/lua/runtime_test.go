package lua

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-plotview/internal/plot"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Stdout = nil
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// capture runs source and collects every plot(...) invocation.
func capture(t *testing.T, r *Runtime, source string) [][]plot.Arg {
	t.Helper()
	prog, err := r.Compile("test-chunk", source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var calls [][]plot.Arg
	err = prog.Run(func(args ...plot.Arg) error {
		calls = append(calls, args)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return calls
}

func TestCompileErrorReported(t *testing.T) {
	r := newTestRuntime(t)
	if _, err := r.Compile("bad", "this is not lua ("); err == nil {
		t.Fatal("Compile() accepted invalid syntax")
	}
}

func TestCompileDoesNotExecute(t *testing.T) {
	r := newTestRuntime(t)
	if _, err := r.Compile("x", `error("should not run at compile time")`); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
}

func TestPlotFunctionArgument(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot(function(x) return x * 2 end)`)

	if len(calls) != 1 || len(calls[0]) != 1 {
		t.Fatalf("got %d calls, want 1 with 1 argument", len(calls))
	}
	arg := calls[0][0]
	if arg.Kind != plot.ArgFunc {
		t.Fatalf("argument kind = %v, want ArgFunc", arg.Kind)
	}
	y, err := arg.Func(3)
	if err != nil {
		t.Fatalf("Func(3) error = %v", err)
	}
	if y != 6 {
		t.Errorf("Func(3) = %v, want 6", y)
	}
}

func TestPlotStyleArguments(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot("red", 2.5, {4, 2}, function(x) return 0 end)`)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	args := calls[0]
	if len(args) != 4 {
		t.Fatalf("got %d arguments, want 4", len(args))
	}

	kinds := map[plot.ArgKind]plot.Arg{}
	for _, a := range args {
		kinds[a.Kind] = a
	}
	if c, ok := kinds[plot.ArgColor]; !ok || c.Color != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("color argument = %+v, want red", c)
	}
	if w, ok := kinds[plot.ArgWidth]; !ok || w.Width != 2.5 {
		t.Errorf("width argument = %+v, want 2.5", w)
	}
	if d, ok := kinds[plot.ArgDash]; !ok || len(d.Dash) != 2 || d.Dash[0] != 4 || d.Dash[1] != 2 {
		t.Errorf("dash argument = %+v, want [4 2]", d)
	}
	if _, ok := kinds[plot.ArgFunc]; !ok {
		t.Error("function argument missing")
	}
}

func TestPlotIntegerWidth(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot(3, function(x) return 0 end)`)

	if len(calls[0]) != 2 {
		t.Fatalf("got %d arguments, want 2", len(calls[0]))
	}
	if calls[0][0].Kind != plot.ArgWidth || calls[0][0].Width != 3 {
		t.Errorf("integer width argument = %+v, want width 3", calls[0][0])
	}
}

func TestPlotUnparseableColorSkipped(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot("no-such-color", function(x) return 0 end)`)

	if len(calls[0]) != 1 || calls[0][0].Kind != plot.ArgFunc {
		t.Errorf("arguments = %+v, want the unparseable color dropped", calls[0])
	}
}

func TestPlotMixedDashTableSkipped(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot({4, "x", 2}, function(x) return 0 end)`)

	for _, a := range calls[0] {
		if a.Kind == plot.ArgDash {
			t.Errorf("dash argument %+v produced from a mixed table", a)
		}
	}
}

func TestPlotMultipleCalls(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `
		plot(function(x) return x end)
		plot("blue", function(x) return -x end)
	`)

	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
}

func TestNonNumberResultIsNaN(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot(function(x) return "not a number" end)`)

	y, err := calls[0][0].Func(1)
	if err != nil {
		t.Fatalf("Func(1) error = %v", err)
	}
	if !math.IsNaN(y) {
		t.Errorf("Func(1) = %v, want NaN", y)
	}
}

func TestFunctionErrorPropagates(t *testing.T) {
	r := newTestRuntime(t)
	calls := capture(t, r, `plot(function(x) error("bad point") end)`)

	if _, err := calls[0][0].Func(1); err == nil {
		t.Fatal("Func() error = nil, want the raised error")
	}
}

func TestScriptErrorPropagates(t *testing.T) {
	r := newTestRuntime(t)
	prog, err := r.Compile("boom", `error("script blew up")`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	err = prog.Run(func(args ...plot.Arg) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "script blew up") {
		t.Fatalf("Run() error = %v, want the script error", err)
	}
}

func TestPrimitiveErrorAbortsScript(t *testing.T) {
	r := newTestRuntime(t)
	prog, err := r.Compile("two-plots", `
		plot(function(x) return x end)
		plot(function(x) return -x end)
	`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	calls := 0
	err = prog.Run(func(args ...plot.Arg) error {
		calls++
		return errors.New("surface gone")
	})
	if err == nil {
		t.Fatal("Run() error = nil, want the primitive error")
	}
	if calls != 1 {
		t.Errorf("primitive called %d times after failing, want 1", calls)
	}
}

func TestCPULimitTerminatesRunawayScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stdout = nil
	cfg.CPULimit = 100_000
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	prog, err := r.Compile("spin", `while true do end`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if err := prog.Run(func(args ...plot.Arg) error { return nil }); err == nil {
		t.Fatal("Run() error = nil, want termination from the CPU limit")
	}
}

func TestRuntimeRecoversAfterTermination(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stdout = nil
	cfg.CPULimit = 100_000
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	spin, _ := r.Compile("spin", `while true do end`)
	spin.Run(func(args ...plot.Arg) error { return nil })

	// The runtime stays usable for the next, well-behaved program.
	calls := capture(t, r, `plot(function(x) return x end)`)
	if len(calls) != 1 {
		t.Errorf("got %d calls after a terminated run, want 1", len(calls))
	}
}

func TestOutputCaptured(t *testing.T) {
	r := newTestRuntime(t)
	capture(t, r, `print("hello from script") plot(function(x) return 0 end)`)

	if !strings.Contains(r.Output(), "hello from script") {
		t.Errorf("Output() = %q, want the printed line", r.Output())
	}
	r.ClearOutput()
	if r.Output() != "" {
		t.Error("ClearOutput() did not clear the buffer")
	}
}
