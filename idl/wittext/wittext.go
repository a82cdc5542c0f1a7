// Package wittext loads component-style WIT function declarations into an
// idl.Document.
//
// Each `interface name { ... }` block becomes a module; declarations
// outside any interface land in a module named by the caller. Only
// primitive and string types are accepted:
//
//	interface wasi-io {
//		fd-write: func(fd: u32, iovs: u32, iovs-len: u32, nwritten: u32) -> u16;
//		divmod: func(a: s32, b: s32) -> (s32, s32);
//	}
//
// Tuple results are kept as separate results.
package wittext

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
)

var (
	interfacePattern = regexp.MustCompile(`\binterface\s+([a-zA-Z_%][a-zA-Z0-9_-]*)\s*\{`)
	funcPattern      = regexp.MustCompile(`(?:(?:export|import)\s+)?%?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)
	commentPattern   = regexp.MustCompile(`//[^\n]*`)
)

// Load parses the WIT files at paths. Declarations outside an interface
// block go to a module named after the file stem.
func Load(paths ...string) (*idl.Document, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no WIT files given")
	}
	doc := &idl.Document{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Load(p, err)
		}
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		part, err := Parse(stem, string(data))
		if err != nil {
			if e, ok := err.(*errors.Error); ok && e.File == "" {
				e.File = p
			}
			return nil, err
		}
		doc.Modules = append(doc.Modules, part.Modules...)
		Logger().Debug("loaded WIT file", zap.String("file", p), zap.Int("modules", len(part.Modules)))
	}
	return doc, nil
}

// Parse parses WIT text. Functions outside interface blocks belong to a
// module named defaultModule, which is omitted when empty.
func Parse(defaultModule, witText string) (*idl.Document, error) {
	witText = commentPattern.ReplaceAllString(witText, "")

	doc := &idl.Document{}
	loose := &idl.Module{Name: defaultModule}
	var outside strings.Builder

	rest := witText
	for {
		loc := interfacePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			outside.WriteString(rest)
			break
		}
		outside.WriteString(rest[:loc[0]])
		name := strings.TrimPrefix(rest[loc[2]:loc[3]], "%")

		end := matchingBrace(rest, loc[1])
		if end < 0 {
			return nil, errors.InvalidData(errors.PhaseParse, []string{name}, "unterminated interface block")
		}

		funcs, err := parseFunctions(name, rest[loc[1]:end])
		if err != nil {
			return nil, err
		}
		doc.Modules = append(doc.Modules, &idl.Module{Name: name, Funcs: funcs})
		rest = rest[end+1:]
	}

	funcs, err := parseFunctions(defaultModule, outside.String())
	if err != nil {
		return nil, err
	}
	if len(funcs) > 0 {
		loose.Funcs = funcs
		doc.Modules = append([]*idl.Module{loose}, doc.Modules...)
	}

	total := 0
	for _, m := range doc.Modules {
		total += len(m.Funcs)
	}
	if total == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT text")
	}
	return doc, nil
}

// matchingBrace returns the index of the '}' closing the block whose body
// starts at start, or -1.
func matchingBrace(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseFunctions(module, body string) ([]*idl.Function, error) {
	var funcs []*idl.Function

	for _, match := range funcPattern.FindAllStringSubmatch(body, -1) {
		fn := &idl.Function{Name: match[1]}
		paramsStr := strings.TrimSpace(match[2])
		resultStr := strings.TrimSpace(match[3])

		for i, p := range splitParams(paramsStr) {
			name, typStr := "", p
			if idx := strings.LastIndex(p, ":"); idx != -1 {
				name = strings.TrimSpace(p[:idx])
				typStr = strings.TrimSpace(p[idx+1:])
			}
			t, err := parseType(typStr)
			if err != nil {
				return nil, withPath(err, module, fn.Name)
			}
			if name == "" {
				name = "arg" + strconv.Itoa(i)
			}
			fn.Params = append(fn.Params, idl.Param{Name: name, Type: t})
		}

		if resultStr != "" && resultStr != "()" {
			var parts []string
			if strings.HasPrefix(resultStr, "(") && strings.HasSuffix(resultStr, ")") {
				parts = splitParams(resultStr[1 : len(resultStr)-1])
			} else {
				parts = []string{resultStr}
			}
			for _, part := range parts {
				name, typStr := "", part
				if idx := strings.LastIndex(part, ":"); idx != -1 {
					name = strings.TrimSpace(part[:idx])
					typStr = strings.TrimSpace(part[idx+1:])
				}
				t, err := parseType(typStr)
				if err != nil {
					return nil, withPath(err, module, fn.Name)
				}
				fn.Results = append(fn.Results, idl.Param{Name: name, Type: t})
			}
		}

		funcs = append(funcs, fn)
	}

	return funcs, nil
}

func withPath(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		e.Path = path
	}
	return err
}

// splitParams splits a parameter list, handling nested parens and angle brackets.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}

	return result
}

// parseType parses a WIT type name and converts it to the IDL model.
func parseType(s string) (idl.Type, error) {
	t, err := wit.ParseType(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Value(s).
			Cause(err).
			Detail("parse type %s", s).
			Build()
	}
	return FromWIT(t)
}

// FromWIT converts a primitive or string WIT type to the IDL model.
func FromWIT(t wit.Type) (idl.Type, error) {
	switch t.(type) {
	case wit.Bool:
		return idl.Bool, nil
	case wit.U8:
		return idl.U8, nil
	case wit.U16:
		return idl.U16, nil
	case wit.U32:
		return idl.U32, nil
	case wit.U64:
		return idl.U64, nil
	case wit.S8:
		return idl.S8, nil
	case wit.S16:
		return idl.S16, nil
	case wit.S32:
		return idl.S32, nil
	case wit.S64:
		return idl.S64, nil
	case wit.F32:
		return idl.F32, nil
	case wit.F64:
		return idl.F64, nil
	case wit.Char:
		return idl.Char, nil
	case wit.String:
		return idl.String{}, nil
	default:
		e := errors.Unsupported(errors.PhaseParse, fmt.Sprintf("unsupported WIT type %T", t))
		e.Value = t
		return nil, e
	}
}
