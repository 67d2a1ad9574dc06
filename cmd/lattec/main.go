// Package main wires the compiler pipeline -- preprocess, parse, type
// check, check returns, fold, generate, assemble, link -- behind a
// single-argument cobra CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"lattec/internal/config"
	"lattec/internal/frontend"
	"lattec/internal/ir"
	"lattec/internal/ir/llvm"
	"lattec/internal/ui"
	"lattec/internal/util"
)

var logger = log.New(os.Stderr, "", 0)

func main() {
	root := &cobra.Command{
		Use:           "lattec <path>",
		Short:         "lattec compiles a source file to a linked LLVM bitcode executable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	if err := root.Execute(); err != nil {
		var phase string
		if pe, ok := err.(*phaseError); ok {
			phase = pe.phase
			err = pe.err
		}
		ui.PrintError(os.Stderr, ui.Mode(resolvedColor), phase, err)
		os.Exit(1)
	}
}

// resolvedColor is set by run before any error can be printed, so the
// deferred failure path above always has a real mode to render with.
var resolvedColor = "auto"

// phaseError attaches the pipeline phase name to an error so main can
// print it as the breadcrumb ahead of the diagnostic.
type phaseError struct {
	phase string
	err   error
}

func (e *phaseError) Error() string { return e.err.Error() }

func fail(phase string, err error) error {
	return &phaseError{phase: phase, err: err}
}

func run(srcPath string) error {
	cfg, err := config.Load(srcPath)
	if err != nil {
		return fail("config", err)
	}
	resolvedColor = string(cfg.Output.Color)
	mode := ui.Mode(cfg.Output.Color)

	logPhase := func(phase string) {
		if cfg.Output.Verbose {
			logger.Printf("%s: %s", phase, srcPath)
		}
	}

	opt := util.Options{
		Src:      srcPath,
		Out:      util.Stem(srcPath) + ".ll",
		Verbose:  cfg.Output.Verbose,
		Color:    string(cfg.Output.Color),
		LLVMAs:   cfg.Paths.LLVMAs,
		LLVMLink: cfg.Paths.LLVMLink,
		Runtime:  cfg.Paths.Runtime,
	}

	logPhase("read")
	src, err := util.ReadSource(opt)
	if err != nil {
		return fail("read", err)
	}

	logPhase("preprocess")
	clean := frontend.Preprocess(src)

	logPhase("parse")
	prog, err := frontend.Parse(clean)
	if err != nil {
		return fail("parse", err)
	}

	logPhase("typecheck")
	if err := ir.Check(prog); err != nil {
		return fail("typecheck", err)
	}

	logPhase("return analysis")
	if err := ir.CheckReturns(prog); err != nil {
		return fail("return analysis", err)
	}

	logPhase("fold")
	prog = ir.Fold(prog)

	logPhase("codegen")
	llvmIR, err := llvm.Generate(prog)
	if err != nil {
		return fail("codegen", err)
	}

	llPath := opt.Out
	bcPath := util.Stem(srcPath) + ".bc"

	logPhase("write")
	if err := util.WriteText(llPath, llvmIR); err != nil {
		return fail("write", err)
	}

	logPhase("assemble")
	if err := runTool(opt.LLVMAs, llPath, "-o", bcPath+".tmp"); err != nil {
		return fail("assemble", err)
	}

	logPhase("link")
	if err := runTool(opt.LLVMLink, bcPath+".tmp", opt.Runtime, "-o", bcPath); err != nil {
		return fail("link", err)
	}
	os.Remove(bcPath + ".tmp")

	ui.PrintOK(os.Stdout, mode, bcPath)
	return nil
}

// runTool shells out to an external LLVM binary, inheriting stdio the
// way the driver reports subprocess failures verbatim to the caller.
func runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}
