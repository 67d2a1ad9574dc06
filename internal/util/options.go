// Package util provides small cross-cutting helpers shared by the frontend,
// ir and driver packages: compiler options, source/sink IO, the monotone
// counters the code generator names registers and labels with, and the
// scope stack it saves and restores local name tables with.
package util

// Options carries the resolved command line and configuration file settings
// for a single compiler invocation. It is built once by the driver and
// threaded read-only through the rest of the pipeline.
type Options struct {
	Src     string // Path to the source file to compile.
	Out     string // Optional path to the output .ll file. Defaults to replacing Src's extension.
	Verbose bool   // Log one line per pipeline phase.
	Color   string // "auto" | "always" | "never" -- controls styled diagnostics.

	LLVMAs   string // Path to the llvm-as binary.
	LLVMLink string // Path to the llvm-link binary.
	Runtime  string // Path to the precompiled runtime bitcode file.
}

// DefaultOptions returns the Options a bare invocation (no config file) uses.
func DefaultOptions() Options {
	return Options{
		Color:    "auto",
		LLVMAs:   "llvm-as",
		LLVMLink: "llvm-link",
		Runtime:  "lib/runtime.bc",
	}
}
