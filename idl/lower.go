package idl

import "github.com/wippyai/wasi-trampoline-bindgen/ctype"

// WasmSignature lowers the function to core wasm params and results.
// Out-pointers for returned values are appended after the declared params.
func (f *Function) WasmSignature() (params, results []ctype.WasmType) {
	for _, p := range f.Params {
		params = append(params, FlattenParam(p.Type)...)
	}

	for _, r := range f.Results {
		switch v := Resolve(r.Type).(type) {
		case *Expected:
			params = append(params, outPointers(v.OK)...)
			if v.Err != nil {
				if t, ok := Scalar(v.Err); ok {
					results = append(results, t)
				} else {
					params = append(params, ctype.I32)
				}
			}
		default:
			if t, ok := Scalar(r.Type); ok {
				results = append(results, t)
			} else {
				params = append(params, ctype.I32)
			}
		}
	}

	return params, results
}

// outPointers returns one i32 out-pointer per returned ok value
func outPointers(ok Type) []ctype.WasmType {
	if ok == nil {
		return nil
	}
	if tup, isTuple := Resolve(ok).(*Tuple); isTuple {
		out := make([]ctype.WasmType, len(tup.Types))
		for i := range out {
			out[i] = ctype.I32
		}
		return out
	}
	return []ctype.WasmType{ctype.I32}
}

// FlattenParam lowers a parameter type. Strings and lists take (ptr, len);
// aggregates are passed by pointer.
func FlattenParam(t Type) []ctype.WasmType {
	switch Resolve(t).(type) {
	case String, *List:
		return []ctype.WasmType{ctype.I32, ctype.I32} // ptr, len
	}
	if s, ok := Scalar(t); ok {
		return []ctype.WasmType{s}
	}
	return []ctype.WasmType{ctype.I32}
}

// Scalar reports the single core type t lowers to, if it has one.
func Scalar(t Type) (ctype.WasmType, bool) {
	switch v := Resolve(t).(type) {
	case Builtin:
		switch v {
		case U64, S64:
			return ctype.I64, true
		case F32:
			return ctype.F32, true
		case F64:
			return ctype.F64, true
		default:
			return ctype.I32, true
		}
	case Handle, *Pointer:
		return ctype.I32, true
	case *Enum:
		return v.Repr.WasmType(), true
	case *Flags:
		return v.Repr.WasmType(), true
	default:
		return 0, false
	}
}
