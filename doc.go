// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package referencing implements JSON Schema reference resolution: URI
handling, a multi-draft resource model, and a [Registry]/[Resolver]
pair that turns a set of schema documents into a graph of resolvable
references, independent of any particular validation engine.

A [Registry] is built from one or more (URI, [Resource]) pairs. Building
it eagerly walks every resource's subresources and anchors, discovering
"$id"s, "$anchor"s, and "$ref"/"$schema" targets as it goes. References
to documents not already in the registry are fetched through a
[Retriever], supplied via [RegistryOptions]; the zero-configuration
[DefaultRetriever] fetches nothing, so a registry built without one only
resolves references among its seed resources and the built-in
meta-schemas.

	registry, err := referencing.TryNewRegistry("https://example.com/schema", resource)
	if err != nil {
		return err
	}
	resolver := registry.Resolver(baseURI)
	resolved, err := resolver.Lookup("#/$defs/address")
	if err != nil {
		return err
	}

A [Resolver] is a cheap, short-lived cursor into a [Registry], scoped to
a base URI and a stack of prior scopes. [Resolver.Lookup] resolves a
"$ref" string to its target node and returns a continuation resolver
scoped to wherever that node was found, so that further lookups inside
it resolve relative to the right place.

Retrievers for the file:// and http(s):// schemes are provided by the
retriever/file and retriever/http subpackages.
*/
package referencing
