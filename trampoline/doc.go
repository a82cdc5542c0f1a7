// Package trampoline renders weakly-linked C stubs that forward WASI hook
// calls to separately defined trampoline symbols.
//
// For every allow-listed function the generator emits
//
//	__attribute__((weak))
//	int32_t __imported_wasi_snapshot_preview1_fd_write(int32_t arg0, int32_t arg1, int32_t arg2, int32_t arg3) {
//	  extern int32_t wasi_vfs_wasi_snapshot_preview1_fd_write(int32_t, int32_t, int32_t, int32_t);
//	  return wasi_vfs_wasi_snapshot_preview1_fd_write(arg0, arg1, arg2, arg3);
//	}
//
// The exported symbol depends on the AbiVariant; the trampoline symbol does not.
// Output depends only on the document, the variant and the allow-list.
package trampoline
