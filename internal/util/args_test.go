package util

import (
	"os"
	"testing"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"exprjit"}, args...)
	defer func() { os.Args = saved }()
	fn()
}

func TestParseArgsSourcePath(t *testing.T) {
	withArgs(t, []string{"program.ej"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if opt.Src != "program.ej" {
			t.Errorf("got Src=%q, want %q", opt.Src, "program.ej")
		}
	})
}

func TestParseArgsFlags(t *testing.T) {
	withArgs(t, []string{"-emit-llvm", "-noopt", "-vb", "-o", "out.ll", "program.ej"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !opt.DumpIR || !opt.NoOpt || !opt.Verbose {
			t.Errorf("expected all boolean flags set, got %+v", opt)
		}
		if opt.Out != "out.ll" {
			t.Errorf("got Out=%q, want %q", opt.Out, "out.ll")
		}
		if opt.Src != "program.ej" {
			t.Errorf("got Src=%q, want %q", opt.Src, "program.ej")
		}
	})
}

func TestParseArgsUnknownFlag(t *testing.T) {
	withArgs(t, []string{"-bogus"}, func() {
		_, err := ParseArgs()
		if err == nil {
			t.Fatal("expected error for unknown flag")
		}
	})
}

func TestParseArgsMissingOutputArgument(t *testing.T) {
	withArgs(t, []string{"-o"}, func() {
		_, err := ParseArgs()
		if err == nil {
			t.Fatal("expected error for -o with no argument")
		}
	})
}
