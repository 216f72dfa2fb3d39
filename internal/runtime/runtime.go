// Package runtime is the host C ABI the JIT-compiled program links
// against: a reference-counted vector and string, plus a handful of
// numeric/string helpers, matching the specification's runtime bridge
// contract (SPEC_FULL.md §6, §12).
//
// The compiler never imports this package for its types — it only needs
// the process addresses below, which it embeds as integer-to-pointer
// constants in emitted IR (the runtime bridge, component 2), and CallVoid
// to invoke the compiled entry point. The driver and the compiler tests
// pass Addresses() to compiler.New so that JIT-compiled programs have a
// real runtime to call into.
package runtime

/*
#cgo LDFLAGS: -lm
#include "runtime.h"
*/
import "C"
import "unsafe"

// Addresses returns the process address of every runtime entry point the
// built-in table (SPEC_FULL.md §4.6) needs, keyed by the same name the
// compiler's builtin table uses internally.
func Addresses() map[string]unsafe.Pointer {
	return map[string]unsafe.Pointer{
		"vec_new":             unsafe.Pointer(C.rt_addr_vec_new()),
		"vec_mut":             unsafe.Pointer(C.rt_addr_vec_mut()),
		"vec_get":             unsafe.Pointer(C.rt_addr_vec_get()),
		"len":                 unsafe.Pointer(C.rt_addr_len()),
		"vec_release":         unsafe.Pointer(C.rt_addr_vec_release()),
		"vec_reference":       unsafe.Pointer(C.rt_addr_vec_reference()),
		"sqrt":                unsafe.Pointer(C.rt_addr_sqrt()),
		"string_from_c_string": unsafe.Pointer(C.rt_addr_string_from_c_string()),
		"string_concat":       unsafe.Pointer(C.rt_addr_string_concat()),
		"string_from_numeric": unsafe.Pointer(C.rt_addr_string_from_numeric()),
		"string_as_c_string":  unsafe.Pointer(C.rt_addr_string_as_c_string()),
		"string_release":      unsafe.Pointer(C.rt_addr_string_release()),
		"string_reference":    unsafe.Pointer(C.rt_addr_string_reference()),
		"timems":              unsafe.Pointer(C.rt_addr_timems()),
		"printf":              unsafe.Pointer(C.rt_addr_printf()),
	}
}

// CallVoid invokes a native () -> void function pointer. Used by the JIT
// driver to call the compiled __main__ entry point once MCJIT has
// materialized its address.
func CallVoid(addr unsafe.Pointer) {
	C.call_void_fn(addr)
}

// StringContent reads a runtime string handle's bytes back into a Go
// string. Exposed for tests that want to assert on string-producing
// built-ins without round-tripping through print/printf.
func StringContent(handle unsafe.Pointer) string {
	return C.GoString(C.string_as_c_string(handle))
}
