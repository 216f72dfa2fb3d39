// Command exprjit reads source text, compiles it to LLVM IR and either
// prints that IR (-emit-llvm) or JIT-executes it in-process via MCJIT.
// The pipeline mirrors the teacher's src/main.go run() staging (read
// source, parse, generate, execute-or-emit) adapted to a single LLVM
// backend instead of a choice between a hand-rolled backend and LLVM.
package main

import (
	"fmt"
	"os"
	"time"

	"exprjit/internal/compiler"
	"exprjit/internal/parser"
	"exprjit/internal/runtime"
	"exprjit/internal/util"
)

func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %s", err)
	}

	start := time.Now()
	c := compiler.New(runtime.Addresses(), !opt.NoOpt)
	defer c.Dispose()

	if err := c.Compile(prog); err != nil {
		return fmt.Errorf("compile error: %s", err)
	}

	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "compiled in %s\n", time.Since(start))
	}

	if opt.DumpIR {
		return writeOutput(opt, c.IR())
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("execution error: %s", err)
	}
	return nil
}

func writeOutput(opt util.Options, ir string) error {
	if len(opt.Out) == 0 {
		fmt.Print(ir)
		return nil
	}
	return os.WriteFile(opt.Out, []byte(ir), 0644)
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
}
