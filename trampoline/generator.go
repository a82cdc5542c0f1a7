package trampoline

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasi-trampoline-bindgen/ctype"
	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
)

// Generator renders hook stubs for the functions its allow-list accepts.
type Generator struct {
	isHook func(name string) bool
}

// New creates a generator that emits a stub for every function whose name
// satisfies isHook.
func New(isHook func(name string) bool) *Generator {
	return &Generator{isHook: isHook}
}

// Generate is New(isHook).Generate(doc, variant).
func Generate(doc *idl.Document, variant AbiVariant, isHook func(name string) bool) string {
	return New(isHook).Generate(doc, variant)
}

// Generate renders the header followed by one stub per allow-listed
// function, in document order. Each stub and each module is followed by a
// blank line.
func (g *Generator) Generate(doc *idl.Document, variant AbiVariant) string {
	var src strings.Builder
	src.WriteString(Header)

	emitted := 0
	for _, m := range doc.Modules {
		emitted += g.renderModule(&src, m, variant)
		src.WriteByte('\n')
	}

	Logger().Debug("generated trampolines",
		zap.Stringer("abi", variant),
		zap.Int("modules", len(doc.Modules)),
		zap.Int("hooks", emitted),
		zap.Int("bytes", src.Len()))
	return src.String()
}

func (g *Generator) renderModule(src *strings.Builder, m *idl.Module, variant AbiVariant) int {
	emitted := 0
	for _, f := range m.Funcs {
		if !g.isHook(f.Name) {
			Logger().Debug("skipping non-hook function",
				zap.String("module", m.Name),
				zap.String("function", f.Name))
			continue
		}
		g.renderFunction(src, m, f, variant)
		src.WriteByte('\n')
		emitted++
	}
	return emitted
}

// RenderFunction renders the stub for f in module m regardless of the
// allow-list.
func (g *Generator) RenderFunction(m *idl.Module, f *idl.Function, variant AbiVariant) string {
	var src strings.Builder
	g.renderFunction(&src, m, f, variant)
	return src.String()
}

func (g *Generator) renderFunction(src *strings.Builder, m *idl.Module, f *idl.Function, variant AbiVariant) {
	params, results := f.WasmSignature()
	if len(results) > 1 {
		panic(errors.Invariant(errors.PhaseGenerate, []string{m.Name, f.Name},
			fmt.Sprintf("hook has %d results, a C function returns at most one", len(results))))
	}

	name := ExternalName(variant, m.Name, f.Name)
	trampolineName := TrampolineName(m.Name, f.Name)
	Logger().Debug("rendering hook",
		zap.String("module", m.Name),
		zap.String("function", f.Name),
		zap.String("symbol", name),
		zap.String("trampoline", trampolineName),
		zap.String("signature", FormatSignature(params, results)))

	RenderHookPoint(src, params, results, name, trampolineName)
}

// FormatSignature formats a core signature as "(i32 i32) -> i32". Results
// other than exactly one are parenthesized: "() -> ()", "() -> (i32 i32)".
func FormatSignature(params, results []ctype.WasmType) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteString(") -> ")
	if len(results) == 1 {
		b.WriteString(api.ValueTypeName(results[0]))
		return b.String()
	}
	b.WriteByte('(')
	for i, r := range results {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(api.ValueTypeName(r))
	}
	b.WriteByte(')')
	return b.String()
}
