// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import "strings"

// ScopeList is a cons-list of prior base URIs visited by a [Resolver]
// chain. Cheap to extend and to share: pushing a scope never mutates
// an existing list, only prepends a new cell pointing at the old tail,
// so unrelated resolver chains that fork from the same point share
// their common suffix for free.
type ScopeList struct {
	head URI
	tail *ScopeList
}

// Push returns a new ScopeList with base prepended ahead of l.
func (l *ScopeList) Push(base URI) *ScopeList {
	return &ScopeList{head: base, tail: l}
}

// Scopes returns the chain's bases, most-recent first.
func (l *ScopeList) Scopes() []URI {
	var out []URI
	for n := l; n != nil; n = n.tail {
		out = append(out, n.head)
	}
	return out
}

// Resolved is the result of a successful [Resolver.Lookup].
type Resolved struct {
	// Contents is the JSON node the reference designated.
	Contents any
	// Resolver continues lookups from where this one landed: its base
	// is the absolute document URI (fragment cleared) and its scope
	// stack has the prior base pushed on top.
	Resolver *Resolver
}

// Resolver is a cursor into a [Registry], scoped to a current base URI
// and a stack of prior scopes (spec.md §4.7). Resolvers are cheap and
// short-lived: minted on demand, they never mutate the registry they
// read from.
type Resolver struct {
	registry *Registry
	base     URI
	scopes   *ScopeList
}

func newResolver(r *Registry, base URI) *Resolver {
	return &Resolver{registry: r, base: base}
}

func resolverFromParts(r *Registry, base URI, scopes *ScopeList) *Resolver {
	return &Resolver{registry: r, base: base, scopes: scopes}
}

// Base returns the resolver's current base URI.
func (r *Resolver) Base() URI { return r.base }

// DynamicScope returns the resolver's scope stack (prior bases, most
// recent first), for callers implementing draft2020 "$dynamicRef"
// resolution on top of [Resolver.Lookup].
func (r *Resolver) DynamicScope() *ScopeList { return r.scopes }

// Lookup resolves ref against r's current base and returns the node it
// designates, along with a continuation resolver scoped to where that
// node was found (spec.md §4.7).
func (r *Resolver) Lookup(ref string) (Resolved, error) {
	absolute, err := r.registry.ResolveAgainst(r.base, ref)
	if err != nil {
		return Resolved{}, err
	}

	docURI := absolute.WithoutFragment()
	fragment, _ := absolute.Fragment()

	resource, ok := r.registry.lookupResource(docURI)
	if !ok {
		return Resolved{}, &UnresolvableError{URI: docURI.String()}
	}

	var contents any
	switch {
	case fragment == "":
		contents = resource.Contents()
	case strings.HasPrefix(fragment, "/"):
		node, ok := lookupPointer(resource.Contents(), fragment)
		if !ok {
			return Resolved{}, &PointerMissError{URI: docURI.String(), Fragment: fragment}
		}
		contents = node
	default:
		anchor, err := r.registry.anchor(docURI, fragment)
		if err != nil {
			return Resolved{}, err
		}
		contents = anchor.Handle.Contents()
	}

	next := &Resolver{
		registry: r.registry,
		base:     docURI,
		scopes:   r.scopes.Push(r.base),
	}
	return Resolved{Contents: contents, Resolver: next}, nil
}
