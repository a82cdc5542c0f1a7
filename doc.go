// Package bindgen generates C trampoline stubs for WASI hook functions.
//
// A virtual filesystem linked into a WebAssembly guest intercepts WASI calls
// by defining weak C functions under the names the guest's libc imports.
// Each stub forwards its arguments to a trampoline implemented by the
// virtual filesystem. This module reads interface definitions and emits
// those stubs.
//
// # Architecture Overview
//
//	bindgen/
//	├── idl/           Interface model and lowering to core wasm signatures
//	│   ├── witx/      witx S-expression loader
//	│   └── wittext/   WIT text loader
//	├── ctype/         Core wasm types, integer reprs and their C spellings
//	├── hooks/         Allow-list of hooked WASI functions
//	├── trampoline/    ABI naming and C stub rendering
//	├── errors/        Structured error types for debugging
//	└── cmd/wasi-trampoline-bindgen/  Command line tool
//
// # Quick Start
//
// Generate stubs for the default hook set:
//
//	doc, err := witx.Load("wasi_snapshot_preview1.witx")
//	if err != nil {
//		return err
//	}
//	src := trampoline.Generate(doc, trampoline.Latest, hooks.Default().Contains)
//
// For the preview1 fd_write hook this yields:
//
//	__attribute__((weak))
//	int32_t __imported_wasi_snapshot_preview1_fd_write(int32_t arg0, int32_t arg1, int32_t arg2, int32_t arg3) {
//	  extern int32_t wasi_vfs_wasi_snapshot_preview1_fd_write(int32_t, int32_t, int32_t, int32_t);
//	  return wasi_vfs_wasi_snapshot_preview1_fd_write(arg0, arg1, arg2, arg3);
//	}
//
// # ABI Variants
//
// Legacy names each hook __wasi_<func>, matching older wasi-libc releases.
// Latest names it __imported_<module>_<func>. Trampoline names are the same
// under both.
//
// # Logging
//
// The witx, wittext and trampoline packages log through zap. They are silent
// until SetLogger is called.
package bindgen
