// Package witx loads WASI witx interface descriptions into an idl.Document.
//
// The supported grammar is the subset used by the WASI preview1 documents:
//
//	(use "typenames.witx")
//	(typename $fd (handle))
//	(typename $errno (enum (@witx tag u16) $success $2big ...))
//	(module $wasi_snapshot_preview1
//	  (import "memory" (memory))
//	  (@interface func (export "fd_write")
//	    (param $fd $fd)
//	    (param $iovs $ciovec_array)
//	    (result $error (expected $size (error $errno)))))
//
// Typenames are shared by every file of one Load call, and a file pulled in
// by several (use ...) forms is parsed once.
package witx
