package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"permcheck/internal/trace"
)

// activeTracer is what commands hand to the driver; trace.Nop until
// setupTracing replaces it.
var activeTracer trace.Tracer = trace.Nop

// setupTracing builds the tracer selected by --trace/--trace-level and
// returns a cleanup that flushes and closes the destination.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	dest, err := flags.GetString("trace")
	if err != nil {
		return nil, err
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, err
	}

	level := trace.ParseLevel(levelStr)
	if dest == "" || level == trace.LevelOff {
		activeTracer = trace.Nop
		return func() {}, nil
	}

	if dest == "-" {
		activeTracer = trace.NewStreamTracer(os.Stderr, level)
		return func() { activeTracer = trace.Nop }, nil
	}

	f, err := os.Create(dest) // #nosec G304 -- path comes from user-provided CLI flag
	if err != nil {
		return nil, fmt.Errorf("open trace file %q: %w", dest, err)
	}
	activeTracer = trace.NewStreamTracer(f, level)
	return func() {
		activeTracer = trace.Nop
		_ = f.Close()
	}, nil
}
