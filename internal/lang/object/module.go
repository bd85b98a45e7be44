package object

// Module is a loaded and cached compilation unit: either a `.spp` source
// file evaluated once against a fresh Module-kind scope, or a `.sppn`
// native plugin that populated its scope by calling Export directly
// (spec.md §4.6, §6). Path is the cache key (absolute path minus
// extension).
type Module struct {
	Name  string
	Path  string
	Scope Scope
}

func (m *Module) Kind() Kind     { return KindModule }
func (m *Module) String() string { return "<module " + m.Name + ">" }

// Export binds name to v in the module's scope, making it visible to
// importers.
func (m *Module) Export(name string, v Value) {
	m.Scope.Define(name, v)
}

// Get resolves an exported name, dereferencing the underlying binding.
func (m *Module) Get(name string) (Value, bool) {
	ref, ok := m.Scope.Lookup(name)
	if !ok {
		return nil, false
	}
	v, err := ref.Deref()
	if err != nil {
		return nil, false
	}
	return v, true
}
