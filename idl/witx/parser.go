package witx

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasi-trampoline-bindgen/ctype"
	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
	"github.com/wippyai/wasi-trampoline-bindgen/idl/witx/internal/token"
)

type parser struct {
	types  map[string]*idl.Named
	file   string
	tokens []token.Token
	mods   []*idl.Module
	pos    int
}

func newParser(file string, tokens []token.Token, types map[string]*idl.Named) *parser {
	return &parser{
		file:   file,
		tokens: tokens,
		types:  types,
	}
}

func (p *parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

// peekKeyword reports whether the next tokens are '(' kw.
func (p *parser) peekKeyword(kw string) bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos].Type == token.LParen &&
		p.tokens[p.pos+1].Type == token.Ident &&
		p.tokens[p.pos+1].Value == kw
}

func (p *parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) line() int {
	if t := p.peek(); t != nil {
		return t.Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 0
}

func (p *parser) errorf(format string, args ...any) *errors.Error {
	return errors.Syntax(p.file, p.line(), format, args...)
}

func (p *parser) expect(typ token.Type) (*token.Token, error) {
	line := p.line()
	t := p.next()
	if t == nil {
		return nil, errors.Syntax(p.file, line, "unexpected end of input")
	}
	if t.Type != typ {
		return nil, errors.Syntax(p.file, t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *parser) expectKeyword(kw string) error {
	t, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if t.Value != kw {
		return errors.Syntax(p.file, t.Line, "expected '%s', got %q", kw, t.Value)
	}
	return nil
}

// expectID reads a $name and returns it without the sigil.
func (p *parser) expectID() (string, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(t.Value, "$") {
		return "", errors.Syntax(p.file, t.Line, "expected $identifier, got %q", t.Value)
	}
	return t.Value[1:], nil
}

// skipForm skips a balanced form whose '(' was already consumed.
func (p *parser) skipForm() error {
	depth := 1
	for depth > 0 {
		t := p.next()
		if t == nil {
			return p.errorf("unexpected end of input")
		}
		switch t.Type {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
	}
	return nil
}

// parseTopLevel parses one top-level typename or module form.
func (p *parser) parseTopLevel() error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	kw, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	switch kw.Value {
	case "typename":
		return p.parseTypename()
	case "module":
		return p.parseModule()
	default:
		return errors.Syntax(p.file, kw.Line, "unknown top-level form %q", kw.Value)
	}
}

func (p *parser) parseTypename() error {
	line := p.line()
	name, err := p.expectID()
	if err != nil {
		return err
	}
	if _, dup := p.types[name]; dup {
		return errors.New(errors.PhaseParse, errors.KindInvalidData).
			Source(p.file, line).
			Value(name).
			Detail("duplicate typename $%s", name).
			Build()
	}
	typ, err := p.parseType()
	if err != nil {
		return err
	}
	p.types[name] = &idl.Named{Name: name, Type: typ}
	_, err = p.expect(token.RParen)
	return err
}

func (p *parser) parseModule() error {
	name, err := p.expectID()
	if err != nil {
		return err
	}
	mod := &idl.Module{Name: name}

	for {
		t := p.next()
		if t == nil {
			return p.errorf("unexpected end of input in module $%s", name)
		}
		if t.Type == token.RParen {
			break
		}
		if t.Type != token.LParen {
			return errors.Syntax(p.file, t.Line, "expected '(' in module $%s, got %q", name, t.Value)
		}
		kw, err := p.expect(token.Ident)
		if err != nil {
			return err
		}
		switch kw.Value {
		case "import":
			if err := p.skipForm(); err != nil {
				return err
			}
		case "@interface":
			fn, err := p.parseInterfaceFunc(name)
			if err != nil {
				return err
			}
			mod.Funcs = append(mod.Funcs, fn)
		default:
			return errors.Syntax(p.file, kw.Line, "unknown module field %q", kw.Value)
		}
	}

	p.mods = append(p.mods, mod)
	return nil
}

// parseInterfaceFunc parses the rest of (@interface func (export "n") ...).
func (p *parser) parseInterfaceFunc(module string) (*idl.Function, error) {
	if err := p.expectKeyword("func"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("export"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	fn := &idl.Function{Name: name.Value}
	for {
		t := p.next()
		if t == nil {
			return nil, p.errorf("unexpected end of input in function %s.%s", module, fn.Name)
		}
		if t.Type == token.RParen {
			return fn, nil
		}
		if t.Type != token.LParen {
			return nil, errors.Syntax(p.file, t.Line, "expected '(' in function %s, got %q", fn.Name, t.Value)
		}
		kw, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		switch kw.Value {
		case "param", "result":
			param, err := p.parseParam()
			if err != nil {
				return nil, p.withPath(err, module, fn.Name)
			}
			if kw.Value == "param" {
				fn.Params = append(fn.Params, param)
			} else {
				fn.Results = append(fn.Results, param)
			}
		case "@witx":
			if err := p.expectKeyword("noreturn"); err != nil {
				return nil, err
			}
			fn.NoReturn = true
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Syntax(p.file, kw.Line, "unknown function field %q", kw.Value)
		}
	}
}

func (p *parser) withPath(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		e.Path = path
	}
	return err
}

// parseParam parses the rest of (param $name T) / (result $name T).
func (p *parser) parseParam() (idl.Param, error) {
	name, err := p.expectID()
	if err != nil {
		return idl.Param{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return idl.Param{}, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return idl.Param{}, err
	}
	return idl.Param{Name: name, Type: typ}, nil
}

func (p *parser) parseType() (idl.Type, error) {
	t := p.next()
	if t == nil {
		return nil, p.errorf("unexpected end of input, expected type")
	}

	switch t.Type {
	case token.Ident:
		if strings.HasPrefix(t.Value, "$") {
			named, ok := p.types[t.Value[1:]]
			if !ok {
				return nil, errors.New(errors.PhaseParse, errors.KindNotFound).
					Source(p.file, t.Line).
					Value(t.Value).
					Detail("unknown type %s", t.Value).
					Build()
			}
			return named, nil
		}
		if t.Value == "string" {
			return idl.String{}, nil
		}
		if b, ok := idl.ParseBuiltin(t.Value); ok {
			return b, nil
		}
		return nil, errors.Syntax(p.file, t.Line, "unknown type %q", t.Value)
	case token.LParen:
		return p.parseCompoundType()
	default:
		return nil, errors.Syntax(p.file, t.Line, "expected type, got %q", t.Value)
	}
}

func (p *parser) parseCompoundType() (idl.Type, error) {
	kw, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	var typ idl.Type
	switch kw.Value {
	case "@witx":
		typ, err = p.parseWitxType()
	case "handle":
		// (handle) or (handle $resource)
		if t := p.peek(); t != nil && t.Type == token.Ident {
			p.next()
		}
		typ = idl.Handle{}
	case "list":
		var elem idl.Type
		elem, err = p.parseType()
		typ = &idl.List{Elem: elem}
	case "record":
		typ, err = p.parseRecord()
	case "enum":
		typ, err = p.parseEnum()
	case "flags":
		typ, err = p.parseFlags()
	case "union":
		typ, err = p.parseUnion()
	case "variant":
		typ, err = p.parseVariant()
	case "tuple":
		typ, err = p.parseTuple()
	case "expected":
		typ, err = p.parseExpected()
	default:
		e := errors.Unsupported(errors.PhaseParse, "unsupported type constructor "+strconv.Quote(kw.Value))
		e.File, e.Line, e.Value = p.file, kw.Line, kw.Value
		return nil, e
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return typ, nil
}

// parseWitxType parses the rest of (@witx pointer T), (@witx const_pointer T)
// and the builtins older documents spell as (@witx usize) and (@witx char8).
func (p *parser) parseWitxType() (idl.Type, error) {
	kind, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	var isConst bool
	switch kind.Value {
	case "pointer":
	case "const_pointer":
		isConst = true
	case "usize":
		return idl.USize, nil
	case "char8":
		return idl.Char8, nil
	default:
		return nil, errors.Syntax(p.file, kind.Line, "unknown @witx type %q", kind.Value)
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &idl.Pointer{Elem: elem, Const: isConst}, nil
}

func (p *parser) parseRecord() (idl.Type, error) {
	rec := &idl.Record{}
	for p.peekKeyword("field") {
		p.pos += 2
		field, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, field)
	}
	return rec, nil
}

// parseReprAnnotation parses an optional (@witx kw uN) and returns def
// when it is absent.
func (p *parser) parseReprAnnotation(kw string, def ctype.IntRepr) (ctype.IntRepr, error) {
	if !p.peekKeyword("@witx") {
		return def, nil
	}
	p.pos += 2
	if err := p.expectKeyword(kw); err != nil {
		return 0, err
	}
	t, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	repr, ok := ctype.ParseIntRepr(t.Value)
	if !ok {
		return 0, errors.Syntax(p.file, t.Line, "invalid %s representation %q", kw, t.Value)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	return repr, nil
}

func (p *parser) parseIDList() ([]string, error) {
	var ids []string
	for {
		t := p.peek()
		if t == nil || t.Type != token.Ident {
			return ids, nil
		}
		id, err := p.expectID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
}

func (p *parser) parseEnum() (idl.Type, error) {
	repr, err := p.parseReprAnnotation("tag", ctype.U32)
	if err != nil {
		return nil, err
	}
	cases, err := p.parseIDList()
	if err != nil {
		return nil, err
	}
	return &idl.Enum{Repr: repr, Cases: cases}, nil
}

func (p *parser) parseFlags() (idl.Type, error) {
	repr, err := p.parseReprAnnotation("repr", ctype.U32)
	if err != nil {
		return nil, err
	}
	flags, err := p.parseIDList()
	if err != nil {
		return nil, err
	}
	return &idl.Flags{Repr: repr, Flags: flags}, nil
}

// parseUnion parses (union (@witx tag $enum)? T...). Case names come from
// the tag enum when present.
func (p *parser) parseUnion() (idl.Type, error) {
	var tag *idl.Enum
	if p.peekKeyword("@witx") {
		p.pos += 2
		if err := p.expectKeyword("tag"); err != nil {
			return nil, err
		}
		tagType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		e, ok := idl.Resolve(tagType).(*idl.Enum)
		if !ok {
			return nil, p.errorf("union tag %s is not an enum", tagType)
		}
		tag = e
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}

	v := &idl.Variant{}
	for {
		t := p.peek()
		if t == nil || t.Type == token.RParen {
			break
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		v.Cases = append(v.Cases, idl.Case{Type: typ})
	}

	if tag != nil {
		if len(tag.Cases) != len(v.Cases) {
			return nil, p.errorf("union has %d cases, tag enum has %d", len(v.Cases), len(tag.Cases))
		}
		for i := range v.Cases {
			v.Cases[i].Name = tag.Cases[i]
		}
		v.Tag = tag.Repr
	} else {
		v.Tag = tagRepr(len(v.Cases))
	}
	return v, nil
}

func (p *parser) parseVariant() (idl.Type, error) {
	hasTag := p.peekKeyword("@witx")
	repr, err := p.parseReprAnnotation("tag", ctype.U32)
	if err != nil {
		return nil, err
	}
	v := &idl.Variant{Tag: repr}
	for p.peekKeyword("case") {
		p.pos += 2
		name, err := p.expectID()
		if err != nil {
			return nil, err
		}
		c := idl.Case{Name: name}
		if t := p.peek(); t != nil && t.Type != token.RParen {
			if c.Type, err = p.parseType(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		v.Cases = append(v.Cases, c)
	}
	if !hasTag {
		v.Tag = tagRepr(len(v.Cases))
	}
	return v, nil
}

// tagRepr returns the smallest representation able to index n cases
func tagRepr(n int) ctype.IntRepr {
	switch {
	case n <= 1<<8:
		return ctype.U8
	case n <= 1<<16:
		return ctype.U16
	default:
		return ctype.U32
	}
}

func (p *parser) parseTuple() (idl.Type, error) {
	tup := &idl.Tuple{}
	for {
		t := p.peek()
		if t == nil || t.Type == token.RParen {
			return tup, nil
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		tup.Types = append(tup.Types, typ)
	}
}

// parseExpected parses (expected T? (error E)?).
func (p *parser) parseExpected() (idl.Type, error) {
	exp := &idl.Expected{}
	if t := p.peek(); t != nil && t.Type != token.RParen && !p.peekKeyword("error") {
		ok, err := p.parseType()
		if err != nil {
			return nil, err
		}
		exp.OK = ok
	}
	if p.peekKeyword("error") {
		p.pos += 2
		errType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		exp.Err = errType
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}
	return exp, nil
}
