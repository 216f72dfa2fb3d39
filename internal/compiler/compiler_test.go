package compiler

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"exprjit/internal/parser"
	"exprjit/internal/runtime"
)

// compileIR parses src and compiles it without running the optimizer,
// returning the module's textual IR for substring assertions — the Go
// analogue of the original's assert_eq_ir! macro, since go-llvm's
// module.String() output is not guaranteed identical across LLVM
// versions down to whitespace.
func compileIR(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), false)
	defer c.Dispose()
	if err := c.Compile(prog); err != nil {
		t.Fatalf("compile error: %s", err)
	}
	return c.IR()
}

// captureStdout redirects the process's stdout file descriptor for the
// duration of fn, returning everything written to it. Needed because
// print() calls the host's printf directly against the real C stdout,
// not anything Go's testing package can intercept on its own.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to open pipe: %s", err)
	}
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	fn()

	_ = w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured stdout: %s", err)
	}
	return string(out)
}

func runSource(t *testing.T, src string) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), true)
	defer c.Dispose()
	if err := c.Compile(prog); err != nil {
		t.Fatalf("compile error: %s", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("run error: %s", err)
	}
}

func TestCompilePrintHelloWorld(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `print("hello world")`)
	})
	if out != "hello world" {
		t.Errorf("got %q, want %q", out, "hello world")
	}
}

func TestCompileArithmeticPrecedenceIR(t *testing.T) {
	// Operands are loaded from variables: on constant operands the IR
	// builder folds the arithmetic away and no fmul/fadd is emitted.
	ir := compileIR(t, "a = 1\nb = 2\nc = 3\nx = a + b * c")
	if !strings.Contains(ir, "fmul") || !strings.Contains(ir, "fadd") {
		t.Errorf("expected both fmul and fadd in IR, got:\n%s", ir)
	}
}

func TestCompileWhileLoopPrintSequence(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `
			i = 0
			while i < 3 {
				print(string(i))
				i = i + 1
			}
		`)
	})
	if want := "0.0000001.0000002.000000"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCompileIfElseIR(t *testing.T) {
	ir := compileIR(t, `if 1 < 2 { x = 1 } else { x = 2 }`)
	for _, want := range []string{"then", "else", "afterif"} {
		if !strings.Contains(ir, want) {
			t.Errorf("expected block %q in IR, got:\n%s", want, ir)
		}
	}
}

func TestCompileVecNewSetGet(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `
			v = vecnew()
			vecset(v, 0, 42)
			print(string(vecget(v, 0)))
		`)
	})
	if !strings.HasPrefix(out, "42") {
		t.Errorf("got %q, want output starting with 42", out)
	}
}

func TestCompileFunctionLiteralCall(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `
			add = fn(a: num, b: num) -> num { a + b }
			print(string(add(2, 3)))
		`)
	})
	if !strings.HasPrefix(out, "5") {
		t.Errorf("got %q, want output starting with 5", out)
	}
}

func TestCompileTypeErrorOnBinaryOperandMismatch(t *testing.T) {
	prog, err := parser.Parse(`1 + "a"`)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), false)
	defer c.Dispose()
	err = c.Compile(prog)
	if err == nil {
		t.Fatal("expected a TypeError")
	}
	if _, ok := err.(*TypeError); !ok {
		t.Fatalf("expected *TypeError, got %T: %s", err, err)
	}
}

func TestCompileUndefinedIdentifier(t *testing.T) {
	prog, err := parser.Parse(`print(string(never_declared))`)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), false)
	defer c.Dispose()
	err = c.Compile(prog)
	if err == nil {
		t.Fatal("expected an UndefinedIdentifierError")
	}
	if _, ok := err.(*UndefinedIdentifierError); !ok {
		t.Fatalf("expected *UndefinedIdentifierError, got %T: %s", err, err)
	}
}

func TestCompileBreakExitsWhileLoop(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `
			i = 0
			while true {
				if i == 2 {
					break
				}
				print(string(i))
				i = i + 1
			}
		`)
	})
	if out != "0.0000001.000000" {
		t.Errorf("got %q, want %q — loop should exit after printing 0 and 1", out, "0.0000001.000000")
	}
}

func TestCompileBreakNestedTwoLevelsExitsWhileLoop(t *testing.T) {
	out := captureStdout(t, func() {
		runSource(t, `
			i = 0
			while true {
				if i < 5 {
					if i == 2 {
						break
					}
				}
				print(string(i))
				i = i + 1
			}
		`)
	})
	if out != "0.0000001.000000" {
		t.Errorf("got %q, want %q — break nested two levels deep should still exit the loop", out, "0.0000001.000000")
	}
}

func TestCompileVecNewReleasesExactlyOnceAtScopeExit(t *testing.T) {
	ir := compileIR(t, `
		v = vecnew()
		vecset(v, 0, 42)
		print(string(vecget(v, 0)))
	`)
	// Runtime calls go through the address bridge, so a vec_release call
	// shows up in the IR as its process address, not as a symbol name.
	release := fmt.Sprintf("inttoptr (i64 %d to", uintptr(runtime.Addresses()["vec_release"]))
	if got := strings.Count(ir, release); got != 1 {
		t.Errorf("got %d calls to vec_release in IR, want exactly 1:\n%s", got, ir)
	}
}

func TestCompileBuiltinArityMismatch(t *testing.T) {
	prog, err := parser.Parse(`print(string(sqrt(1, 2)))`)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), false)
	defer c.Dispose()
	err = c.Compile(prog)
	if err == nil {
		t.Fatal("expected an ArityError")
	}
	if _, ok := err.(*ArityError); !ok {
		t.Fatalf("expected *ArityError, got %T: %s", err, err)
	}
}

func TestCompileBuiltinArityMismatchTooFew(t *testing.T) {
	prog, err := parser.Parse(`print(string(len()))`)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	c := New(runtime.Addresses(), false)
	defer c.Dispose()
	err = c.Compile(prog)
	if err == nil {
		t.Fatal("expected an ArityError")
	}
	if _, ok := err.(*ArityError); !ok {
		t.Fatalf("expected *ArityError, got %T: %s", err, err)
	}
}
