// Package idl is the in-memory interface description consumed by the
// trampoline generator.
//
// A Document owns modules in load order; each Module owns functions in
// declaration order. Loaders (idl/witx, idl/wittext) build documents and
// never mutate them afterwards.
//
// Function.WasmSignature lowers IDL-level parameter and result types to
// core wasm value types:
//
//	(param $fd $fd) (param $iovs $ciovec_array)
//	(result $error (expected $size (error $errno)))
//
// lowers to params [i32 i32 i32 i32] and results [i32]: the handle, the
// (ptr, len) pair of the list, the out-pointer for $size, and the errno.
package idl
