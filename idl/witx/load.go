package witx

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
	"github.com/wippyai/wasi-trampoline-bindgen/idl/witx/internal/token"
)

// Load parses the witx files at paths, following (use ...) forms relative
// to the including file. Modules appear in the order their files finish
// loading: a used file's modules precede the user's.
func Load(paths ...string) (*idl.Document, error) {
	l := newLoader(os.ReadFile, filepath.Join, filepath.Dir, filepath.Clean)
	return l.load(paths)
}

// LoadFS is Load over fsys, with slash-separated paths.
func LoadFS(fsys fs.FS, paths ...string) (*idl.Document, error) {
	l := newLoader(func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	}, path.Join, path.Dir, path.Clean)
	return l.load(paths)
}

// Parse parses a single witx source. (use ...) forms are rejected.
func Parse(name, src string) (*idl.Document, error) {
	l := newLoader(func(file string) ([]byte, error) {
		return nil, errors.NotFound(errors.PhaseLoad, "file", file)
	}, path.Join, path.Dir, path.Clean)
	if err := l.parse(name, src); err != nil {
		return nil, err
	}
	return l.doc, nil
}

type loader struct {
	readFile func(string) ([]byte, error)
	join     func(...string) string
	dir      func(string) string
	clean    func(string) string
	types    map[string]*idl.Named
	seen     map[string]bool
	doc      *idl.Document
}

func newLoader(readFile func(string) ([]byte, error), join func(...string) string, dir, clean func(string) string) *loader {
	return &loader{
		readFile: readFile,
		join:     join,
		dir:      dir,
		clean:    clean,
		types:    make(map[string]*idl.Named),
		seen:     make(map[string]bool),
		doc:      &idl.Document{},
	}
}

func (l *loader) load(paths []string) (*idl.Document, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no witx files given")
	}
	for _, p := range paths {
		if err := l.loadFile(p); err != nil {
			return nil, err
		}
	}
	return l.doc, nil
}

// loadFile parses file once; different spellings of one path count as one.
func (l *loader) loadFile(file string) error {
	file = l.clean(file)
	if l.seen[file] {
		return nil
	}
	l.seen[file] = true

	data, err := l.readFile(file)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return e
		}
		return errors.Load(file, err)
	}
	return l.parse(file, string(data))
}

func (l *loader) parse(file, src string) error {
	p := newParser(file, token.Tokenize(src), l.types)

	// Uses are resolved as they appear so later typenames can refer to them.
	for p.peek() != nil {
		if p.peekKeyword("use") {
			p.pos += 2
			use, err := p.expect(token.String)
			if err != nil {
				return err
			}
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}
			if err := l.loadFile(l.join(l.dir(file), use.Value)); err != nil {
				return err
			}
			continue
		}
		if err := p.parseTopLevel(); err != nil {
			return err
		}
	}

	l.doc.Modules = append(l.doc.Modules, p.mods...)
	Logger().Debug("loaded witx file",
		zap.String("file", file),
		zap.Int("modules", len(p.mods)),
		zap.Int("typenames", len(l.types)))
	return nil
}
