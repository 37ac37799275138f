// This file implements the Lua configuration parser. A configuration file
// is a Lua chunk that assigns to the view.config table:
//
//	view.config = {
//	    base_size = 10,
//	    grid_spacing = 0.2,
//	    background_color = "#FFFFFF",
//	    window_title = "plots",
//	}
package config

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-plotview/internal/render"
)

// LuaConfigParser parses Lua configuration files. It executes the chunk in
// its own sandboxed runtime and extracts values from the view.config table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser with custom output
// for print statements in the configuration.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// ParseFile reads and parses a configuration file, with environment
// variable references in the content expanded first.
func (p *LuaConfigParser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	return p.Parse([]byte(ExpandEnv(string(content))))
}

// Parse parses a Lua configuration from content bytes.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initViewGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err := rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute configuration: %w", err)
	}

	return p.extractConfig()
}

// initViewGlobal seeds the view global table with an empty config subtable.
func (p *LuaConfigParser) initViewGlobal() {
	viewTable := rt.NewTable()
	viewTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("view"), rt.TableValue(viewTable))
}

// extractConfig extracts configuration values from the view global table.
func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	viewVal := p.runtime.GlobalEnv().Get(rt.StringValue("view"))
	if viewVal == rt.NilValue {
		return &cfg, nil
	}
	viewTable, ok := viewVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("view is not a table")
	}

	configVal := viewTable.Get(rt.StringValue("config"))
	if configTable, ok := configVal.TryTable(); ok {
		if err := p.extractConfigTable(&cfg, configTable); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// extractConfigTable extracts values from the view.config table. Absent
// keys keep their defaults.
func (p *LuaConfigParser) extractConfigTable(cfg *Config, table *rt.Table) error {
	// Plot settings
	if val := getTableFloat(table, "base_size"); val != nil {
		cfg.Plot.BaseSize = *val
	}
	if val := getTableFloat(table, "grid_spacing"); val != nil {
		cfg.Plot.GridSpacing = *val
	}
	if val := getTableInt(table, "major_interval"); val != nil {
		cfg.Plot.MajorInterval = *val
	}
	if val := getTableFloat(table, "step_size"); val != nil {
		cfg.Plot.StepSize = *val
	}
	if val := getTableFloat(table, "zoom_step"); val != nil {
		cfg.Plot.ZoomStep = *val
	}
	if val := getTableFloat(table, "scale"); val != nil {
		cfg.Plot.Scale = *val
	}
	if val := getTableFloat(table, "center_x"); val != nil {
		cfg.Plot.CenterX = *val
	}
	if val := getTableFloat(table, "center_y"); val != nil {
		cfg.Plot.CenterY = *val
	}

	// Window settings
	if val := getTableInt(table, "window_width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "window_height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableString(table, "window_title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableBool(table, "always_on_top"); val != nil {
		cfg.Window.AlwaysOnTop = *val
	}
	if val := getTableBool(table, "skip_taskbar"); val != nil {
		cfg.Window.SkipTaskbar = *val
	}

	// Script settings
	if val := getTableBool(table, "watch"); val != nil {
		cfg.Script.Watch = *val
	}
	if val := getTableInt(table, "debounce_millis"); val != nil {
		cfg.Script.DebounceMillis = *val
	}
	if val := getTableInt(table, "cpu_limit"); val != nil && *val >= 0 {
		cfg.Script.CPULimit = uint64(*val)
	}
	if val := getTableInt(table, "memory_limit"); val != nil && *val >= 0 {
		cfg.Script.MemoryLimit = uint64(*val)
	}

	return p.extractColors(cfg, table)
}

// extractColors extracts color settings from the table.
func (p *LuaConfigParser) extractColors(cfg *Config, table *rt.Table) error {
	colorFields := []struct {
		key    string
		target *color.RGBA
	}{
		{"background_color", &cfg.Colors.Background},
		{"grid_minor_color", &cfg.Colors.GridMinor},
		{"grid_major_color", &cfg.Colors.GridMajor},
		{"axis_color", &cfg.Colors.Axis},
		{"label_color", &cfg.Colors.Label},
	}

	for _, cf := range colorFields {
		if val := getTableString(table, cf.key); val != nil {
			c, err := render.ParseColor(*val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", cf.key, err)
			}
			*cf.target = c
		}
	}

	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}
