package translate

// scope is a single lexical frame in a function's scope chain: every local
// variable declared in one block, mapped to its byte offset relative to the
// function's bp. Resolving a name walks outward through enclosing scopes,
// innermost first — a linked chain of per-block frames, each a flat name ->
// offset map rather than per-slot cons cells, since Go's map already
// distinguishes "absent" from "zero value" without needing a sentinel to
// tell the two apart.
type scope struct {
	parent *scope
	vars   map[string]int64
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]int64)}
}

func (s *scope) define(name string, offset int64) {
	s.vars[name] = offset
}

// resolve walks this scope and its ancestors, innermost first, stopping at
// the first frame that defines name.
func (s *scope) resolve(name string) (int64, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if off, ok := sc.vars[name]; ok {
			return off, true
		}
	}
	return 0, false
}
