package export

import "fmt"

// Scope controls which files an export writes.
type Scope string

const (
	// ScopeAll writes the map graph and the definition tables.
	ScopeAll Scope = "all"
	// ScopeGraph writes only the map graph (readable back as a map dump).
	ScopeGraph Scope = "graph"
	// ScopeDefs writes only the definition tables.
	ScopeDefs Scope = "defs"
)

// ParseScope validates a scope name; empty means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeGraph, ScopeDefs:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("unknown export scope %q", s)
	}
}

// IncludesGraph returns true if the scope includes map graph files.
func (s Scope) IncludesGraph() bool {
	return s == ScopeAll || s == ScopeGraph
}

// IncludesDefs returns true if the scope includes definition files.
func (s Scope) IncludesDefs() bool {
	return s == ScopeAll || s == ScopeDefs
}
