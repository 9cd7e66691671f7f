package versions

// Table maps plugin names to versions and remembers declaration order.
// It is filled once by Resolve and only read afterwards.
type Table struct {
	order    []string
	versions map[string]Version
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{versions: make(map[string]Version)}
}

// Set records a version for name. The first Set of a name fixes its position.
func (t *Table) Set(name string, version Version) {
	if _, ok := t.versions[name]; !ok {
		t.order = append(t.order, name)
	}
	t.versions[name] = version
}

// Lookup returns the version recorded for name.
func (t *Table) Lookup(name string) (Version, bool) {
	if t == nil {
		return Version{}, false
	}
	version, ok := t.versions[name]
	return version, ok
}

// Names returns plugin names in declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of plugins with a version.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
