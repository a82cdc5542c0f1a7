package witx

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/wippyai/wasi-trampoline-bindgen/ctype"
	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
)

func TestLoad_Preview1(t *testing.T) {
	doc, err := Load("testdata/wasi_snapshot_preview1.witx")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(doc.Modules))
	}
	mod := doc.Modules[0]
	if mod.Name != "wasi_snapshot_preview1" {
		t.Errorf("module name = %q", mod.Name)
	}

	var names []string
	for _, f := range mod.Funcs {
		names = append(names, f.Name)
	}
	wantNames := []string{
		"args_sizes_get", "clock_time_get", "fd_close", "fd_fdstat_set_flags",
		"fd_fdstat_set_rights", "fd_prestat_get", "fd_prestat_dir_name", "fd_read",
		"fd_seek", "fd_write", "path_open", "path_unlink_file", "proc_exit",
	}
	if !slices.Equal(names, wantNames) {
		t.Errorf("functions = %v, want %v", names, wantNames)
	}

	i32, i64 := ctype.I32, ctype.I64
	tests := []struct {
		fn          string
		wantParams  []ctype.WasmType
		wantResults []ctype.WasmType
	}{
		{"args_sizes_get", []ctype.WasmType{i32, i32}, []ctype.WasmType{i32}},
		{"clock_time_get", []ctype.WasmType{i32, i64, i32}, []ctype.WasmType{i32}},
		{"fd_close", []ctype.WasmType{i32}, []ctype.WasmType{i32}},
		{"fd_fdstat_set_rights", []ctype.WasmType{i32, i64, i64}, []ctype.WasmType{i32}},
		{"fd_prestat_get", []ctype.WasmType{i32, i32}, []ctype.WasmType{i32}},
		{"fd_prestat_dir_name", []ctype.WasmType{i32, i32, i32}, []ctype.WasmType{i32}},
		{"fd_seek", []ctype.WasmType{i32, i64, i32, i32}, []ctype.WasmType{i32}},
		{"fd_write", []ctype.WasmType{i32, i32, i32, i32}, []ctype.WasmType{i32}},
		{"path_open", []ctype.WasmType{i32, i32, i32, i32, i32, i64, i64, i32, i32}, []ctype.WasmType{i32}},
		{"proc_exit", []ctype.WasmType{i32}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			f := mod.Func(tt.fn)
			if f == nil {
				t.Fatalf("function %s not found", tt.fn)
			}
			params, results := f.WasmSignature()
			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("params = %v, want %v", params, tt.wantParams)
			}
			if !slices.Equal(results, tt.wantResults) {
				t.Errorf("results = %v, want %v", results, tt.wantResults)
			}
		})
	}

	if !mod.Func("proc_exit").NoReturn {
		t.Error("proc_exit should be noreturn")
	}
}

func TestLoad_TypeDetails(t *testing.T) {
	doc, err := Load("testdata/wasi_snapshot_preview1.witx")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	fdWrite := doc.Module("wasi_snapshot_preview1").Func("fd_write")
	if len(fdWrite.Params) != 2 || fdWrite.Params[0].Name != "fd" || fdWrite.Params[1].Name != "iovs" {
		t.Fatalf("fd_write params = %+v", fdWrite.Params)
	}
	list, ok := idl.Resolve(fdWrite.Params[1].Type).(*idl.List)
	if !ok {
		t.Fatalf("iovs should be a list, got %T", idl.Resolve(fdWrite.Params[1].Type))
	}
	rec, ok := idl.Resolve(list.Elem).(*idl.Record)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("ciovec should be a 2-field record, got %v", list.Elem)
	}
	if ptr, ok := rec.Fields[0].Type.(*idl.Pointer); !ok || !ptr.Const {
		t.Errorf("ciovec.buf should be a const pointer, got %v", rec.Fields[0].Type)
	}

	exp, ok := fdWrite.Results[0].Type.(*idl.Expected)
	if !ok {
		t.Fatalf("result should be expected, got %T", fdWrite.Results[0].Type)
	}
	errno, ok := idl.Resolve(exp.Err).(*idl.Enum)
	if !ok || errno.Repr != ctype.U16 || len(errno.Cases) != 4 || errno.Cases[1] != "2big" {
		t.Errorf("errno = %+v", exp.Err)
	}

	prestat := doc.Module("wasi_snapshot_preview1").Func("fd_prestat_get").Results[0].Type.(*idl.Expected).OK
	union, ok := idl.Resolve(prestat).(*idl.Variant)
	if !ok || union.Tag != ctype.U8 || len(union.Cases) != 1 || union.Cases[0].Name != "dir" {
		t.Errorf("prestat = %+v", idl.Resolve(prestat))
	}
}

func TestLoadFS_Use(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/types.witx": {Data: []byte(`(typename $errno (enum (@witx tag u16) $success $badf))`)},
		"defs/more.witx": {Data: []byte(`
			(use "types.witx")
			(typename $fd (handle))`)},
		"defs/api.witx": {Data: []byte(`
			(use "types.witx")
			(use "more.witx")
			(module $m
				(@interface func (export "close")
					(param $fd $fd)
					(result $error (expected (error $errno)))))`)},
	}

	doc, err := LoadFS(fsys, "defs/api.witx")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if len(doc.Modules) != 1 || doc.Modules[0].Name != "m" {
		t.Fatalf("modules = %+v", doc.Modules)
	}
	params, results := doc.Modules[0].Funcs[0].WasmSignature()
	if !slices.Equal(params, []ctype.WasmType{ctype.I32}) || !slices.Equal(results, []ctype.WasmType{ctype.I32}) {
		t.Errorf("signature = %v -> %v", params, results)
	}
}

func TestLoadFS_ModuleOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.witx": {Data: []byte(`(module $a (@interface func (export "f")))`)},
		"b.witx": {Data: []byte(`(module $b1) (module $b2)`)},
	}
	doc, err := LoadFS(fsys, "a.witx", "b.witx", "a.witx")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	var names []string
	for _, m := range doc.Modules {
		names = append(names, m.Name)
	}
	if !slices.Equal(names, []string{"a", "b1", "b2"}) {
		t.Errorf("module order = %v", names)
	}
}

func TestLoad_SameFileDifferentSpelling(t *testing.T) {
	doc, err := Load("./testdata/typenames.witx", "./testdata/wasi_snapshot_preview1.witx")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Modules) != 1 || doc.Module("wasi_snapshot_preview1") == nil {
		t.Fatalf("modules = %+v", doc.Modules)
	}

	fsys := fstest.MapFS{
		"defs/types.witx": {Data: []byte(`(typename $errno (enum (@witx tag u16) $success $badf))`)},
		"defs/api.witx":   {Data: []byte(`(use "./types.witx")`)},
	}
	if _, err := LoadFS(fsys, "defs/./types.witx", "defs/api.witx"); err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
}

func TestParse_Types(t *testing.T) {
	src := `
		(typename $tag (enum $x $y))
		(typename $v (variant (@witx tag u8) (case $a u32) (case $b)))
		(typename $v2 (variant (case $only)))
		(typename $u (union f32 f64))
		(typename $f (flags $r $w))
		(module $m
			(@interface func (export "f")
				(param $a $tag)
				(param $b $v)
				(param $c (tuple u8 u16))
				(param $d char8)
				(param $e $f)
				(result $r (expected $u))))`
	doc, err := Parse("inline.witx", src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f := doc.Modules[0].Funcs[0]

	if e := idl.Resolve(f.Params[0].Type).(*idl.Enum); e.Repr != ctype.U32 {
		t.Errorf("default enum tag = %v, want u32", e.Repr)
	}
	v := idl.Resolve(f.Params[1].Type).(*idl.Variant)
	if v.Tag != ctype.U8 || len(v.Cases) != 2 || v.Cases[0].Type != idl.U32 || v.Cases[1].Type != nil {
		t.Errorf("variant = %+v", v)
	}
	u := idl.Resolve(f.Results[0].Type.(*idl.Expected).OK).(*idl.Variant)
	if u.Tag != ctype.U8 || len(u.Cases) != 2 {
		t.Errorf("union = %+v", u)
	}
	if fl := idl.Resolve(f.Params[4].Type).(*idl.Flags); fl.Repr != ctype.U32 || len(fl.Flags) != 2 {
		t.Errorf("flags = %+v", fl)
	}

	params, results := f.WasmSignature()
	want := []ctype.WasmType{ctype.I32, ctype.I32, ctype.I32, ctype.I32, ctype.I32, ctype.I32}
	if !slices.Equal(params, want) {
		t.Errorf("params = %v, want %v", params, want)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
}

func TestParse_WitxBuiltins(t *testing.T) {
	src := `
		(typename $size (@witx usize))
		(module $m
			(@interface func (export "f")
				(param $a $size)
				(param $b (@witx char8))
				(param $c (@witx pointer (@witx char8)))
				(result $r $size)))`
	doc, err := Parse("old.witx", src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f := doc.Modules[0].Funcs[0]
	if idl.Resolve(f.Params[0].Type) != idl.USize {
		t.Errorf("size = %v, want usize", f.Params[0].Type)
	}
	if f.Params[1].Type != idl.Char8 {
		t.Errorf("b = %v, want char8", f.Params[1].Type)
	}
	if ptr, ok := f.Params[2].Type.(*idl.Pointer); !ok || ptr.Elem != idl.Char8 {
		t.Errorf("c = %v, want pointer to char8", f.Params[2].Type)
	}
	params, results := f.WasmSignature()
	if !slices.Equal(params, []ctype.WasmType{ctype.I32, ctype.I32, ctype.I32}) || !slices.Equal(results, []ctype.WasmType{ctype.I32}) {
		t.Errorf("signature = %v -> %v", params, results)
	}

	if _, err := Parse("bad.witx", "(typename $a (@witx bogus))"); err == nil || !strings.Contains(err.Error(), "unknown @witx type") {
		t.Errorf("expected unknown @witx type error, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		kind    errors.Kind
	}{
		{"unknown type", "(typename $a $b)", "unknown type $b", errors.KindNotFound},
		{"unknown keyword", "(typename $a bogus)", "unknown type \"bogus\"", errors.KindInvalidData},
		{"unknown top-level", "(world $w)", "unknown top-level form", errors.KindInvalidData},
		{"unclosed module", "(module $m", "unexpected end of input", errors.KindInvalidData},
		{"duplicate typename", "(typename $a u8)\n(typename $a u16)", "duplicate typename $a", errors.KindInvalidData},
		{"unsupported constructor", "(typename $a (resource))", "unsupported type constructor", errors.KindUnsupported},
		{"bad repr", "(typename $a (enum (@witx tag s8) $x))", "invalid tag representation", errors.KindInvalidData},
		{"missing export", "(module $m (@interface func (param $a u8)))", "expected 'export'", errors.KindInvalidData},
		{"bad function field", "(module $m (@interface func (export \"f\") (local $a u8)))", "unknown function field", errors.KindInvalidData},
		{"union tag mismatch", "(typename $t (enum $a $b))\n(typename $u (union (@witx tag $t) u8))", "tag enum has 2", errors.KindInvalidData},
		{"use in Parse", `(use "x.witx")`, "not found", errors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.witx", tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", e.Kind, tt.kind)
			}
		})
	}
}

func TestParse_ErrorLineAndPath(t *testing.T) {
	src := "(module $m\n  (@interface func (export \"f\")\n    (param $a $missing)))"
	_, err := Parse("x.witx", src)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Line != 3 {
		t.Errorf("line = %d, want 3", e.Line)
	}
	if !slices.Equal(e.Path, []string{"m", "f"}) {
		t.Errorf("path = %v, want [m f]", e.Path)
	}
}

func TestParse_UnsupportedCarriesSource(t *testing.T) {
	_, err := Parse("res.witx", "\n(typename $a (resource))")
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Kind != errors.KindUnsupported || e.File != "res.witx" || e.Line != 2 || e.Value != "resource" {
		t.Errorf("error = %+v", e)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.witx")
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty path list")
	}
}
