// Package ctype maps IDL scalar kinds to their C spellings.
package ctype

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// WasmType is a core wasm value type. Only i32, i64, f32 and f64 appear in
// lowered hook signatures.
type WasmType = api.ValueType

const (
	I32 = api.ValueTypeI32
	I64 = api.ValueTypeI64
	F32 = api.ValueTypeF32
	F64 = api.ValueTypeF64
)

// IntRepr is a fixed-width unsigned integer representation, as used for
// enum tags and flag sets.
type IntRepr uint8

const (
	U8 IntRepr = iota
	U16
	U32
	U64
)

func (r IntRepr) String() string {
	switch r {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	}
	return fmt.Sprintf("IntRepr(%d)", uint8(r))
}

// ParseIntRepr parses a witx repr keyword (u8, u16, u32, u64).
func ParseIntRepr(s string) (IntRepr, bool) {
	switch s {
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	}
	return 0, false
}

// WasmType returns the core type a value of this representation lowers to.
func (r IntRepr) WasmType() WasmType {
	if r == U64 {
		return I64
	}
	return I32
}

// RenderIntRepr appends the C spelling of r to src.
func RenderIntRepr(src *strings.Builder, r IntRepr) {
	switch r {
	case U8:
		src.WriteString("uint8_t")
	case U16:
		src.WriteString("uint16_t")
	case U32:
		src.WriteString("uint32_t")
	case U64:
		src.WriteString("uint64_t")
	default:
		panic(fmt.Sprintf("ctype: invalid %v", r))
	}
}

// RenderWasmType appends the C spelling of t to src. Reference types have
// no C spelling and panic.
func RenderWasmType(src *strings.Builder, t WasmType) {
	switch t {
	case I32:
		src.WriteString("int32_t")
	case I64:
		src.WriteString("int64_t")
	case F32:
		src.WriteString("float")
	case F64:
		src.WriteString("double")
	default:
		panic("ctype: no C type for wasm " + api.ValueTypeName(t))
	}
}

// WasmTypeString returns the C spelling of t.
func WasmTypeString(t WasmType) string {
	var b strings.Builder
	RenderWasmType(&b, t)
	return b.String()
}

// IntReprString returns the C spelling of r.
func IntReprString(r IntRepr) string {
	var b strings.Builder
	RenderIntRepr(&b, r)
	return b.String()
}
