package lua

import (
	"math"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-plotview/internal/plot"
	"github.com/opd-ai/go-plotview/internal/render"
)

// Program is a compiled plot script. Running it re-executes the chunk with
// the plot capability bound, so every redraw re-evaluates the script's
// top-level plot(...) calls against the current view.
type Program struct {
	runtime *Runtime
	closure *rt.Closure
	name    string
}

// Name returns the chunk name the program was compiled under.
func (p *Program) Name() string { return p.name }

// Run implements plot.Program.
func (p *Program) Run(primitive plot.PlotPrimitive) error {
	return p.runtime.run(p.closure, primitive)
}

// resolveArgs maps the Lua values passed to plot(...) onto plot arguments:
// functions become the curve to sample, strings are parsed as stroke
// colors, numbers set the stroke width and tables of numbers the dash
// pattern. Unparseable colors and values of any other type are skipped so
// a stray argument does not take down the whole script.
func resolveArgs(t *rt.Thread, values []rt.Value) []plot.Arg {
	var args []plot.Arg
	for _, v := range values {
		switch v.Type() {
		case rt.FunctionType:
			args = append(args, plot.FuncArg(luaPlotFunc(t, v)))
		case rt.StringType:
			s, _ := v.TryString()
			if clr, err := render.ParseColor(s); err == nil {
				args = append(args, plot.ColorArg(clr))
			}
		case rt.IntType, rt.FloatType:
			if w, ok := toFloat(v); ok {
				args = append(args, plot.WidthArg(w))
			}
		case rt.TableType:
			if dash := resolveDash(v); len(dash) > 0 {
				args = append(args, plot.DashArg(dash))
			}
		}
	}
	return args
}

// luaPlotFunc wraps a Lua function as a plot.PlotFunc. A call that raises
// is an evaluation error and aborts the sample pass; a call returning a
// non-number yields NaN, which the sampler clamps like any other
// undefined sample.
func luaPlotFunc(t *rt.Thread, fn rt.Value) plot.PlotFunc {
	return func(x float64) (float64, error) {
		res, err := rt.Call1(t, fn, rt.FloatValue(x))
		if err != nil {
			return 0, err
		}
		y, ok := toFloat(res)
		if !ok {
			return math.NaN(), nil
		}
		return y, nil
	}
}

// resolveDash reads a Lua array of numbers into a dash pattern. A table
// with any non-number entry is rejected as a whole.
func resolveDash(v rt.Value) []float64 {
	tbl, ok := v.TryTable()
	if !ok {
		return nil
	}

	var dash []float64
	for i := int64(1); ; i++ {
		entry := tbl.Get(rt.IntValue(i))
		if entry == rt.NilValue {
			break
		}
		f, ok := toFloat(entry)
		if !ok {
			return nil
		}
		dash = append(dash, f)
	}
	return dash
}

// toFloat converts a Lua number of either representation to a float64.
func toFloat(v rt.Value) (float64, bool) {
	if f, ok := v.TryFloat(); ok {
		return f, true
	}
	if i, ok := v.TryInt(); ok {
		return float64(i), true
	}
	return 0, false
}
