package semantic

import "github.com/mini-pl/mplc/internal/types"

// scope is one frame of lexical scoping: a parent pointer plus a local
// name->type map. Entering a block pushes a child scope that shadows
// outer names; leaving it discards the child.
type scope struct {
	parent *scope
	names  map[string]types.Type
}

// SymbolTable is the type checker's name->type environment.
type SymbolTable struct {
	current *scope
}

// NewSymbolTable creates a symbol table with a single empty root scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{current: &scope{names: map[string]types.Type{}}}
}

// Enter pushes a new child scope.
func (s *SymbolTable) Enter() {
	s.current = &scope{parent: s.current, names: map[string]types.Type{}}
}

// Leave pops the current scope, discarding its bindings.
func (s *SymbolTable) Leave() {
	if s.current.parent != nil {
		s.current = s.current.parent
	}
}

// Define binds name to t in the current (innermost) scope.
func (s *SymbolTable) Define(name string, t types.Type) {
	s.current.names[name] = t
}

// Lookup finds name starting from the innermost scope outward.
func (s *SymbolTable) Lookup(name string) (types.Type, bool) {
	for sc := s.current; sc != nil; sc = sc.parent {
		if t, ok := sc.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Assign updates the nearest existing binding of name, walking outward
// from the current scope. It reports whether a binding was found.
func (s *SymbolTable) Assign(name string, t types.Type) bool {
	for sc := s.current; sc != nil; sc = sc.parent {
		if _, ok := sc.names[name]; ok {
			sc.names[name] = t
			return true
		}
	}
	return false
}
