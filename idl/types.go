package idl

import (
	"strings"

	"github.com/wippyai/wasi-trampoline-bindgen/ctype"
)

// Type is an IDL-level type.
type Type interface {
	String() string
	isType()
}

// Builtin is a primitive IDL type.
type Builtin uint8

const (
	U8 Builtin = iota
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	F32
	F64
	Char8
	Char
	USize
	Bool
)

var builtinNames = [...]string{
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	S8: "s8", S16: "s16", S32: "s32", S64: "s64",
	F32: "f32", F64: "f64",
	Char8: "char8", Char: "char", USize: "usize", Bool: "bool",
}

func (b Builtin) String() string {
	if int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return "builtin?"
}

// ParseBuiltin parses a builtin keyword.
func ParseBuiltin(s string) (Builtin, bool) {
	for i, name := range builtinNames {
		if name == s {
			return Builtin(i), true
		}
	}
	return 0, false
}

// String is a length-prefixed UTF-8 string.
type String struct{}

func (String) String() string { return "string" }

// Handle is an opaque resource handle.
type Handle struct{}

func (Handle) String() string { return "handle" }

// Pointer is a linear-memory address of Elem.
type Pointer struct {
	Elem  Type
	Const bool
}

func (p *Pointer) String() string {
	if p.Const {
		return "const_pointer<" + p.Elem.String() + ">"
	}
	return "pointer<" + p.Elem.String() + ">"
}

// List is a (ptr, len) sequence of Elem.
type List struct {
	Elem Type
}

func (l *List) String() string { return "list<" + l.Elem.String() + ">" }

// Record is a struct with named fields.
type Record struct {
	Fields []Param
}

func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "record{" + strings.Join(parts, ", ") + "}"
}

// Enum is a set of named cases stored as Repr.
type Enum struct {
	Cases []string
	Repr  ctype.IntRepr
}

func (e *Enum) String() string { return "enum<" + e.Repr.String() + ">" }

// Flags is a bit set stored as Repr.
type Flags struct {
	Flags []string
	Repr  ctype.IntRepr
}

func (f *Flags) String() string { return "flags<" + f.Repr.String() + ">" }

// Case is one arm of a Variant. Type is nil for payload-less cases.
type Case struct {
	Type Type
	Name string
}

// Variant is a tagged union; witx unions are variants whose case names
// come from the tag enum.
type Variant struct {
	Cases []Case
	Tag   ctype.IntRepr
}

func (v *Variant) String() string { return "variant<" + v.Tag.String() + ">" }

// Tuple is an anonymous product type.
type Tuple struct {
	Types []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Types))
	for i, e := range t.Types {
		parts[i] = e.String()
	}
	return "tuple<" + strings.Join(parts, ", ") + ">"
}

// Expected is a success-or-error result. Either side may be nil.
type Expected struct {
	OK  Type
	Err Type
}

func (e *Expected) String() string {
	ok, errT := "_", "_"
	if e.OK != nil {
		ok = e.OK.String()
	}
	if e.Err != nil {
		errT = e.Err.String()
	}
	return "expected<" + ok + ", " + errT + ">"
}

// Named is a reference to a typename declaration.
type Named struct {
	Type Type
	Name string
}

func (n *Named) String() string { return n.Name }

func (Builtin) isType()   {}
func (String) isType()    {}
func (Handle) isType()    {}
func (*Pointer) isType()  {}
func (*List) isType()     {}
func (*Record) isType()   {}
func (*Enum) isType()     {}
func (*Flags) isType()    {}
func (*Variant) isType()  {}
func (*Tuple) isType()    {}
func (*Expected) isType() {}
func (*Named) isType()    {}

// Resolve follows typename references to the underlying type.
func Resolve(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok {
			return t
		}
		t = n.Type
	}
}
