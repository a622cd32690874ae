// Package scope implements the chained symbol table used for name
// resolution.
package scope

import (
	"iter"
	"maps"
	"slices"

	"github.com/ardnew/tlc/ast"
)

// Scope maps names to declarations and links to the enclosing scope.
type Scope struct {
	parent  *Scope
	symbols map[string]ast.Decl
}

// New returns an empty scope nested in parent, which is nil for the root.
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]ast.Decl)}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Insert adds d to s unless s already holds a declaration with the same
// name. Enclosing scopes are not consulted, so inner declarations may shadow
// outer ones.
func (s *Scope) Insert(d ast.Decl) bool {
	if _, ok := s.symbols[d.Name()]; ok {
		return false
	}

	s.symbols[d.Name()] = d

	return true
}

// Local returns the declaration named name in s itself, or nil.
func (s *Scope) Local(name string) ast.Decl { return s.symbols[name] }

// Lookup returns the innermost declaration named name visible from s, or
// nil if there is none.
func (s *Scope) Lookup(name string) ast.Decl {
	for sc := s; sc != nil; sc = sc.parent {
		if d, ok := sc.symbols[name]; ok {
			return d
		}
	}

	return nil
}

// All yields every declaration visible from s, innermost first, skipping
// names shadowed by an inner scope.
func (s *Scope) All() iter.Seq[ast.Decl] {
	return func(yield func(ast.Decl) bool) {
		seen := make(map[string]bool)

		for sc := s; sc != nil; sc = sc.parent {
			for _, name := range slices.Sorted(maps.Keys(sc.symbols)) {
				if seen[name] {
					continue
				}

				seen[name] = true

				if !yield(sc.symbols[name]) {
					return
				}
			}
		}
	}
}

// Names returns the sorted names visible from s.
func (s *Scope) Names() []string {
	var names []string

	for d := range s.All() {
		names = append(names, d.Name())
	}

	slices.Sort(names)

	return names
}
