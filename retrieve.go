// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

// Retriever fetches the document identified by an absolute URI. A
// [Registry] build calls Retrieve at most once per unique document URI
// (spec.md §6): once a URI's document is in the registry, it is never
// fetched again even if re-referenced.
//
// Retrieve returns the document's decoded JSON value -- typically a
// map[string]any, []any, or a scalar for a boolean schema.
type Retriever interface {
	Retrieve(uri string) (any, error)
}

// RetrieverFunc adapts a plain function to the [Retriever] interface.
type RetrieverFunc func(uri string) (any, error)

// Retrieve calls f(uri).
func (f RetrieverFunc) Retrieve(uri string) (any, error) { return f(uri) }

// DefaultRetriever refuses every request. It is the zero-value
// [Registry] behavior: a registry built without an explicit retriever
// can only resolve references among the resources it was seeded with
// and the built-in meta-schemas.
type defaultRetriever struct{}

// DefaultRetriever is a [Retriever] that refuses to fetch anything.
var DefaultRetriever Retriever = defaultRetriever{}

func (defaultRetriever) Retrieve(uri string) (any, error) {
	return nil, errDefaultRetrieverRefused
}

type retrieverRefusedError struct{ msg string }

func (e *retrieverRefusedError) Error() string { return e.msg }

var errDefaultRetrieverRefused = &retrieverRefusedError{msg: "Default retriever does not fetch resources"}
