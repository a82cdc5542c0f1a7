package idl

// Document is a parsed interface description.
type Document struct {
	Modules []*Module
}

// Module returns the module with the given name, or nil.
func (d *Document) Module(name string) *Module {
	for _, m := range d.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Module is a named group of functions.
type Module struct {
	Name  string
	Funcs []*Function
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Function is one callable declaration.
type Function struct {
	Name     string
	Params   []Param
	Results  []Param
	NoReturn bool
}

// Param is a named, typed parameter or result.
type Param struct {
	Type Type
	Name string
}
