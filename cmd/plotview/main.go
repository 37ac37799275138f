// Package main provides the entry point for the plotview function plotter.
// It opens an interactive viewport rendered with Ebiten and plots the
// functions declared by a Lua script via the plot(...) primitive.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-plotview/internal/profiling"
	"github.com/opd-ai/go-plotview/pkg/plotview"
)

// Version is the current version of plotview.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command-line flags
	scriptFlag := flag.String("s", "", "Path to the Lua plot script (may also be given as a positional argument)")
	configPath := flag.String("c", "", "Path to Lua configuration file")
	watch := flag.Bool("watch", false, "Reload the plot script when it changes on disk")
	version := flag.Bool("v", false, "Print version and exit")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file")
	memProfile := flag.String("memprofile", "", "Write memory profile to file")
	flag.Parse()

	if *version {
		fmt.Printf("plotview version %s\n", Version)
		return 0
	}

	// Initialize profiling if requested
	profConfig := profiling.Config{
		CPUProfilePath: *cpuProfile,
		MemProfilePath: *memProfile,
	}
	profiler := profiling.New(profConfig)

	if profConfig.ProfilingEnabled() {
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	scriptPath := *scriptFlag
	if scriptPath == "" {
		scriptPath = flag.Arg(0)
	}
	if scriptPath == "" {
		fmt.Fprintln(os.Stderr, "No plot script specified.")
		fmt.Fprintln(os.Stderr, "Usage: plotview [flags] <script.lua>")
		return 1
	}

	// Verify script file exists and is accessible
	if _, err := os.Stat(scriptPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Plot script not found: %s\n", scriptPath)
		} else {
			fmt.Fprintf(os.Stderr, "Error accessing plot script %s: %v\n", scriptPath, err)
		}
		return 1
	}

	fmt.Printf("plotview %s starting with script: %s\n", Version, scriptPath)

	opts := plotview.DefaultOptions()
	opts.ConfigPath = *configPath
	opts.WatchScript = *watch

	// Create and start using public API
	viewer, err := plotview.New(scriptPath, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating viewer: %v\n", err)
		return 1
	}

	// Set up error handling
	viewer.SetErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	})

	// Set up event handling for lifecycle events
	viewer.SetEventHandler(func(e plotview.Event) {
		fmt.Printf("[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
	})

	if err := viewer.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			fmt.Println("Received SIGHUP, reloading plot script...")
			if err := viewer.ReloadScript(); err != nil {
				fmt.Fprintf(os.Stderr, "Reload failed: %v\n", err)
			}
		default:
			fmt.Println("Shutting down...")
			if err := viewer.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Stop error: %v\n", err)
			}
			return 0
		}
	}

	return 0
}
