package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the parsed command line configuration for the driver,
// per §11.
type Options struct {
	Src     string // Path to source file; empty means read stdin.
	Out     string // Path to write emitted LLVM IR; empty means stdout.
	DumpIR  bool   // Print the module's LLVM IR instead of JIT-running it.
	NoOpt   bool   // Skip the function pass manager pipeline (§4.8).
	Verbose bool   // Print compiler statistics to stderr.
}

const appVersion = "exprjit 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments, in the teacher's hand-rolled
// flag loop style (no third-party flag library — see src/util/args.go).
func ParseArgs() (Options, error) {
	opt := Options{}
	if len(os.Args) < 2 {
		return opt, nil
	}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-emit-llvm":
			opt.DumpIR = true
		case "-noopt":
			opt.NoOpt = true
		case "-vb":
			opt.Verbose = true
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path after %s, got new flag %s", args[i1], args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	return opt, nil
}

func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-emit-llvm\tPrint the module's LLVM IR instead of running it.")
	_, _ = fmt.Fprintln(w, "-noopt\tSkip the optimization pass pipeline.")
	_, _ = fmt.Fprintln(w, "-o\tPath to write emitted LLVM IR to, instead of stdout.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stderr.")
	_ = w.Flush()
}
