package trampoline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wasi-trampoline-bindgen/ctype"
	"github.com/wippyai/wasi-trampoline-bindgen/errors"
)

// Header starts every generated file.
const Header = `// This file is automatically generated, DO NOT EDIT
//
// To regenerate this file run the ` + "`wasi-trampoline-bindgen`" + ` command.
// Every hook is a weak symbol, so a hook the program never calls does not
// pull its trampoline into the link.

#include <stdint.h>

`

// RenderHookPoint appends one weak hook definition named name that forwards
// its arguments to trampolineName. It panics if results has more than one
// entry; a hook without results returns void.
func RenderHookPoint(src *strings.Builder, params, results []ctype.WasmType, name, trampolineName string) {
	if len(results) > 1 {
		panic(errors.Invariant(errors.PhaseGenerate, []string{name},
			fmt.Sprintf("%d results, a C function returns at most one", len(results))))
	}

	src.WriteString("__attribute__((weak))\n")
	renderResult(src, results)
	src.WriteByte(' ')
	src.WriteString(name)
	src.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			src.WriteString(", ")
		}
		ctype.RenderWasmType(src, p)
		src.WriteString(" arg")
		src.WriteString(strconv.Itoa(i))
	}
	src.WriteString(") {\n")

	src.WriteString("  extern ")
	renderResult(src, results)
	src.WriteByte(' ')
	src.WriteString(trampolineName)
	src.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			src.WriteString(", ")
		}
		ctype.RenderWasmType(src, p)
	}
	src.WriteString(");\n")

	src.WriteString("  ")
	if len(results) == 1 {
		src.WriteString("return ")
	}
	src.WriteString(trampolineName)
	src.WriteByte('(')
	for i := range params {
		if i > 0 {
			src.WriteString(", ")
		}
		src.WriteString("arg")
		src.WriteString(strconv.Itoa(i))
	}
	src.WriteString(");\n")

	src.WriteString("}\n")
}

func renderResult(src *strings.Builder, results []ctype.WasmType) {
	if len(results) == 0 {
		src.WriteString("void")
		return
	}
	ctype.RenderWasmType(src, results[0])
}
