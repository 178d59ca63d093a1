// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

// Resource is a JSON value interpreted as a schema under a specific
// draft (spec.md §3).
type Resource struct {
	draft    Draft
	contents any
}

// NewResource pairs contents with an explicit draft.
func NewResource(contents any, draft Draft) Resource {
	return Resource{draft: draft, contents: contents}
}

// DetectResource builds a [Resource] from contents, auto-detecting its
// draft via "$schema". If "$schema" names an unrecognized
// specification, the detection error is returned alongside a Resource
// built with [DefaultDraft] so the caller may retry with an explicit
// draft (spec.md §6: "Detection failures ... are recoverable").
func DetectResource(contents any) (Resource, error) {
	draft, err := DetectDraft(contents, DefaultDraft)
	return Resource{draft: draft, contents: contents}, err
}

// Draft returns r's draft.
func (r Resource) Draft() Draft { return r.draft }

// Contents returns r's underlying JSON value.
func (r Resource) Contents() any { return r.contents }

// ResourceHandle is a stable view into a JSON node owned by some
// document in a [Registry]'s document store.
//
// Unlike the Rust original, which needs pinned/arena storage and raw
// pointers to keep interior references valid across reallocation, a Go
// ResourceHandle can simply hold the node value: map[string]any and
// []any are reference types whose backing storage the Go runtime never
// relocates out from under a live reference, so as long as the
// document's root is kept alive in the [Registry]'s document store
// (which is never mutated after insertion), every handle derived from
// it stays valid for the registry's lifetime. See SPEC_FULL.md §5.
type ResourceHandle struct {
	draft    Draft
	contents any
}

// Draft returns h's draft.
func (h ResourceHandle) Draft() Draft { return h.draft }

// Contents returns h's underlying JSON node.
func (h ResourceHandle) Contents() any { return h.contents }

// id returns this handle's own "$id"/"id" value, if any.
func (h ResourceHandle) id() (string, bool) {
	return h.draft.IDOf(h.contents)
}

// anchors returns the anchors this handle's node declares directly.
func (h ResourceHandle) anchors() []DraftAnchor {
	return h.draft.AnchorsOf(h.contents)
}

// subresources returns this handle's direct schema-valued children,
// each wrapped as a handle sharing h's draft.
func (h ResourceHandle) subresources() []ResourceHandle {
	children := h.draft.SubresourcesOf(h.contents)
	if len(children) == 0 {
		return nil
	}
	out := make([]ResourceHandle, len(children))
	for i, c := range children {
		out[i] = ResourceHandle{draft: h.draft, contents: c}
	}
	return out
}

// Anchor is a named location within a resource, reachable via "uri#name".
type Anchor struct {
	Name   string
	Handle ResourceHandle
}

// AnchorKey is the map key a [Registry]'s anchor map is indexed by:
// an absolute URI paired with an anchor name.
type AnchorKey struct {
	URI  string
	Name string
}
