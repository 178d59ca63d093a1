// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import "sync"

// Registry is a collection of in-memory JSON Schema resources indexed
// by their canonical URIs (spec.md §4.5, §4.6). Building a Registry
// eagerly walks every added resource's subresources and anchors, so
// anything nested within an added resource is immediately discoverable
// and retrievable by its own "$id", without a further build step.
//
// A Registry is immutable once built: the "WithResource*" family
// returns a new Registry, leaving the receiver untouched, so registries
// can be shared and extended independently (spec.md §5).
type Registry struct {
	documents map[string]any
	resources map[string]ResourceHandle
	anchors   map[AnchorKey]Anchor
	cache     *resolutionCache
}

// ResourcePair is a (URI, Resource) seed for building or extending a
// Registry.
type ResourcePair struct {
	URI      string
	Resource Resource
}

// RegistryOptions configures the draft and retriever a [Registry] is
// built with.
type RegistryOptions struct {
	retriever Retriever
	draft     Draft
}

// NewRegistryOptions returns [RegistryOptions] with the default
// retriever ([DefaultRetriever], which fetches nothing) and
// [DefaultDraft].
func NewRegistryOptions() RegistryOptions {
	return RegistryOptions{retriever: DefaultRetriever, draft: DefaultDraft}
}

// WithRetriever sets the retriever used for resources not present in
// the seed set.
func (o RegistryOptions) WithRetriever(r Retriever) RegistryOptions {
	o.retriever = r
	return o
}

// WithDraft sets the fallback draft used to interpret resources whose
// own "$schema" does not name a draft.
func (o RegistryOptions) WithDraft(d Draft) RegistryOptions {
	o.draft = d
	return o
}

// TryNew builds a [Registry] containing a single resource, using these options.
func (o RegistryOptions) TryNew(uri string, resource Resource) (*Registry, error) {
	return buildRegistry([]ResourcePair{{URI: uri, Resource: resource}}, o.retriever, o.draft)
}

// TryFromResources builds a [Registry] from multiple resources, using these options.
func (o RegistryOptions) TryFromResources(pairs []ResourcePair) (*Registry, error) {
	return buildRegistry(pairs, o.retriever, o.draft)
}

// TryNewRegistry builds a [Registry] containing a single resource,
// using [DefaultRetriever] and [DefaultDraft].
func TryNewRegistry(uri string, resource Resource) (*Registry, error) {
	return NewRegistryOptions().TryNew(uri, resource)
}

// TryRegistryFromResources builds a [Registry] from multiple resources,
// using [DefaultRetriever] and [DefaultDraft].
func TryRegistryFromResources(pairs []ResourcePair) (*Registry, error) {
	return NewRegistryOptions().TryFromResources(pairs)
}

// TryWithResource returns a new Registry extending r with one more
// resource. A Registry does not remember the retriever it was built
// with: external references are fetched through [DefaultRetriever],
// which refuses them.
func (r *Registry) TryWithResource(uri string, resource Resource) (*Registry, error) {
	return r.TryWithResources([]ResourcePair{{URI: uri, Resource: resource}}, resource.Draft())
}

// TryWithResourceAndRetriever is like [Registry.TryWithResource] but
// uses retriever for any externally-referenced resource this extension
// needs to fetch.
func (r *Registry) TryWithResourceAndRetriever(uri string, resource Resource, retriever Retriever) (*Registry, error) {
	return r.TryWithResourcesAndRetriever([]ResourcePair{{URI: uri, Resource: resource}}, retriever, resource.Draft())
}

// TryWithResources returns a new Registry extending r with pairs.
func (r *Registry) TryWithResources(pairs []ResourcePair, draft Draft) (*Registry, error) {
	return r.TryWithResourcesAndRetriever(pairs, DefaultRetriever, draft)
}

// TryWithResourcesAndRetriever returns a new Registry extending r with
// pairs, fetching unresolved external references through retriever.
func (r *Registry) TryWithResourcesAndRetriever(pairs []ResourcePair, retriever Retriever, draft Draft) (*Registry, error) {
	documents := make(map[string]any, len(r.documents)+len(pairs))
	for k, v := range r.documents {
		documents[k] = v
	}
	resources := make(map[string]ResourceHandle, len(r.resources)+len(pairs))
	for k, v := range r.resources {
		resources[k] = v
	}
	anchors := make(map[AnchorKey]Anchor, len(r.anchors))
	for k, v := range r.anchors {
		anchors[k] = v
	}
	cache := r.cache.clone()

	if err := processResources(pairs, retriever, documents, resources, anchors, cache, draft); err != nil {
		return nil, err
	}
	cache.freeze()
	return &Registry{documents: documents, resources: resources, anchors: anchors, cache: cache}, nil
}

// buildRegistry builds a fresh Registry from scratch.
func buildRegistry(pairs []ResourcePair, retriever Retriever, draft Draft) (*Registry, error) {
	documents := make(map[string]any)
	resources := make(map[string]ResourceHandle)
	anchors := make(map[AnchorKey]Anchor)
	cache := newResolutionCache()

	if err := processResources(pairs, retriever, documents, resources, anchors, cache, draft); err != nil {
		return nil, err
	}
	cache.freeze()
	return &Registry{documents: documents, resources: resources, anchors: anchors, cache: cache}, nil
}

// Resolver returns a new [Resolver] rooted at baseURI.
func (r *Registry) Resolver(baseURI URI) *Resolver {
	return newResolver(r, baseURI)
}

// TryResolver parses baseURI and returns a new [Resolver] rooted there.
func (r *Registry) TryResolver(baseURI string) (*Resolver, error) {
	u, err := ParseURI(baseURI)
	if err != nil {
		return nil, err
	}
	return r.Resolver(u), nil
}

// ResolverFromRawParts reconstructs a [Resolver] with an explicit scope
// stack, as produced by [Resolver.DynamicScope] or similar bookkeeping.
func (r *Registry) ResolverFromRawParts(baseURI URI, scopes *ScopeList) *Resolver {
	return resolverFromParts(r, baseURI, scopes)
}

// anchor looks up name within the resource rooted at uri, falling back
// to that resource's own "$id"-resolved URI if the direct lookup misses.
func (r *Registry) anchor(uri URI, name string) (Anchor, error) {
	key := AnchorKey{URI: uri.String(), Name: name}
	if a, ok := r.anchors[key]; ok {
		return a, nil
	}
	if resource, ok := r.resources[uri.String()]; ok {
		if id, ok := resource.id(); ok {
			if idURI, err := ParseURI(id); err == nil {
				key := AnchorKey{URI: idURI.String(), Name: name}
				if a, ok := r.anchors[key]; ok {
					return a, nil
				}
			}
		}
	}
	if containsSlash(name) {
		return Anchor{}, &InvalidAnchorError{Name: name}
	}
	return Anchor{}, &NoSuchAnchorError{Name: name}
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// lookupResource returns the resource handle registered at uri, if any.
func (r *Registry) lookupResource(uri URI) (ResourceHandle, bool) {
	h, ok := r.resources[uri.String()]
	return h, ok
}

// ResolveAgainst resolves ref against base using r's resolution cache.
func (r *Registry) ResolveAgainst(base URI, ref string) (URI, error) {
	return r.cache.resolveAgainst(base, ref)
}

// FindVocabularies returns the vocabulary set that applies to contents
// under draft, consulting r's resources for any custom meta-schema
// named by contents' own "$schema".
func (r *Registry) FindVocabularies(draft Draft, contents any) VocabularySet {
	detected, err := DetectDraft(contents, draft)
	if err == nil {
		return defaultVocabulariesOrMeta(detected, contents, r)
	}
	var unknown *UnknownSpecificationError
	if e, ok := err.(*UnknownSpecificationError); ok {
		unknown = e
	}
	if unknown == nil {
		return defaultVocabulariesOrMeta(draft, contents, r)
	}
	if uri, err := ParseURI(unknown.URI); err == nil {
		if resource, ok := r.lookupResource(uri); ok {
			if vocabs, ok := parseVocabularies(resource.Contents()); ok {
				return vocabs
			}
		}
	}
	return defaultVocabulariesOrMeta(draft, contents, r)
}

func defaultVocabulariesOrMeta(draft Draft, contents any, r *Registry) VocabularySet {
	schemaURI, _ := schemaRefOf(contents)
	return FindVocabularies(draft, schemaURI, func(uri string) (any, bool) {
		if doc, ok := lookupMetaSchema(uri); ok {
			return doc, true
		}
		if u, err := ParseURI(uri); err == nil {
			if resource, ok := r.lookupResource(u); ok {
				return resource.Contents(), true
			}
		}
		return nil, false
	})
}

func schemaRefOf(contents any) (string, bool) {
	obj, ok := contents.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := obj["$schema"].(string)
	return s, ok
}

func parseVocabularies(contents any) (VocabularySet, bool) {
	obj, ok := contents.(map[string]any)
	if !ok {
		return nil, false
	}
	raw, ok := obj["$vocabulary"].(map[string]any)
	if !ok {
		return nil, false
	}
	set := make(VocabularySet, len(raw))
	for uri, required := range raw {
		b, _ := required.(bool)
		set[uri] = b
	}
	return set, true
}

// --- fixed-point resource processing, grounded on registry.rs's
// process_resources/collect_external_resources. ---

type queueItem struct {
	base   URI
	handle ResourceHandle
}

func processResources(
	pairs []ResourcePair,
	retriever Retriever,
	documents map[string]any,
	resources map[string]ResourceHandle,
	anchors map[AnchorKey]Anchor,
	cache *resolutionCache,
	defaultDraft Draft,
) error {
	var queue []queueItem
	seen := make(map[string]bool)
	external := make(map[string]URI)
	refersMetaSchemas := false

	// Deduplicate input URIs, keeping the last occurrence -- spec.md
	// §8 S4: "duplicate input URIs, last write wins".
	type parsedPair struct {
		uri      URI
		resource Resource
	}
	parsed := make([]parsedPair, 0, len(pairs))
	for _, p := range pairs {
		u, err := ParseURI(trimTrailingHash(p.URI))
		if err != nil {
			return err
		}
		parsed = append(parsed, parsedPair{uri: u, resource: p.Resource})
	}
	dedup := make(map[string]int, len(parsed))
	order := make([]string, 0, len(parsed))
	for i, pp := range parsed {
		key := pp.uri.String()
		if _, ok := dedup[key]; !ok {
			order = append(order, key)
		}
		dedup[key] = i
	}

	for _, key := range order {
		pp := parsed[dedup[key]]
		if _, exists := documents[key]; exists {
			// Existing documents are never replaced, so pointers
			// already handed out against them stay valid.
			continue
		}
		handle := ResourceHandle{draft: pp.resource.Draft(), contents: pp.resource.Contents()}
		documents[key] = pp.resource.Contents()
		resources[key] = handle
		queue = append(queue, queueItem{base: pp.uri, handle: handle})
	}

	for len(queue) > 0 || len(external) > 0 {
		for len(queue) > 0 {
			item := queue[0]
			queue = queue[1:]
			base, handle := item.base, item.handle

			if id, ok := handle.id(); ok {
				resolved, err := cache.resolveAgainst(base, id)
				if err != nil {
					return err
				}
				base = resolved
				resources[base.String()] = handle
			}

			for _, a := range handle.anchors() {
				anchors[AnchorKey{URI: base.String(), Name: a.Name}] = Anchor{Name: a.Name, Handle: handle}
			}

			if err := collectExternalResources(base, handle.Contents(), external, seen, cache, &refersMetaSchemas); err != nil {
				return err
			}

			for _, sub := range handle.subresources() {
				queue = append(queue, queueItem{base: base, handle: sub})
			}
		}

		for key, uri := range external {
			delete(external, key)
			fragmentless := uri.WithoutFragment()
			fkey := fragmentless.String()
			if _, ok := resources[fkey]; ok {
				continue
			}
			retrieved, err := retriever.Retrieve(fkey)
			if err != nil {
				return &UnretrievableError{URI: fkey, Cause: err}
			}
			draft, detectErr := DetectDraft(retrieved, defaultDraft)
			if detectErr != nil {
				return detectErr
			}
			handle := ResourceHandle{draft: draft, contents: retrieved}
			documents[fkey] = retrieved
			resources[fkey] = handle

			if frag, ok := uri.Fragment(); ok && frag != "" {
				if target, ok := lookupPointer(retrieved, frag); ok {
					tdraft, err := DetectDraft(target, defaultDraft)
					if err != nil {
						return err
					}
					queue = append(queue, queueItem{base: fragmentless, handle: ResourceHandle{draft: tdraft, contents: target}})
				}
			}
			queue = append(queue, queueItem{base: fragmentless, handle: handle})
		}
	}

	if refersMetaSchemas {
		specResources, specAnchors, err := builtinSpecifications()
		if err != nil {
			return err
		}
		for k, v := range specResources {
			resources[k] = v
		}
		for k, v := range specAnchors {
			anchors[k] = v
		}
	}

	return nil
}

func trimTrailingHash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '#' {
		s = s[:len(s)-1]
	}
	return s
}

// collectExternalResources scans contents' own direct "$ref"/"$schema"
// members (not its children -- those arrive as separate queue items)
// for references to documents not yet in the registry, adding them to
// external. It mirrors registry.rs's collect_external_resources,
// including its local-ref recursion which only usefully fires when
// contents is itself a whole resource root (see registry.rs for the
// same caveat).
func collectExternalResources(
	base URI,
	contents any,
	external map[string]URI,
	seen map[string]bool,
	cache *resolutionCache,
	refersMetaSchemas *bool,
) error {
	if base.SchemeIs("urn") {
		return nil
	}
	obj, ok := contents.(map[string]any)
	if !ok {
		return nil
	}

	handle := func(key, reference string) error {
		if hasMetaSchemaPrefix(reference) || hasMetaSchemaPrefix(base.String()) {
			if key == "$ref" {
				*refersMetaSchemas = true
			}
			return nil
		}
		if reference == "#" {
			return nil
		}
		seenKey := base.String() + "\x00" + reference
		if seen[seenKey] {
			return nil
		}
		seen[seenKey] = true

		if frag, isLocal := trimLeadingHash(reference); isLocal {
			if referenced, ok := lookupPointer(contents, frag); ok {
				if err := collectExternalResources(base, referenced, external, seen, cache, refersMetaSchemas); err != nil {
					return err
				}
			}
			return nil
		}

		resolved, err := cache.resolveAgainst(base, reference)
		if err != nil {
			return err
		}
		external[resolved.String()] = resolved
		return nil
	}

	if ref, ok := obj["$ref"].(string); ok {
		if err := handle("$ref", ref); err != nil {
			return err
		}
	}
	if schema, ok := obj["$schema"].(string); ok {
		if err := handle("$schema", schema); err != nil {
			return err
		}
	}
	return nil
}

func trimLeadingHash(s string) (string, bool) {
	if len(s) > 0 && s[0] == '#' {
		return s[1:], true
	}
	return "", false
}

// builtinSpecifications lazily builds the resource/anchor maps for the
// built-in meta-schemas, injected into a Registry whenever resource
// processing observes a reference to a well-known json-schema.org draft
// URI (spec.md §4.4).
var (
	specOnce           sync.Once
	specResourcesCache map[string]ResourceHandle
	specAnchorsCache   map[AnchorKey]Anchor
	specErr            error
)

func builtinSpecifications() (map[string]ResourceHandle, map[AnchorKey]Anchor, error) {
	specOnce.Do(buildSpecifications)
	return specResourcesCache, specAnchorsCache, specErr
}

func buildSpecifications() {
	resources := make(map[string]ResourceHandle)
	anchors := make(map[AnchorKey]Anchor)

	for uri, draft := range metaSchemaURIs {
		doc, ok := lookupMetaSchema(uri)
		if !ok {
			continue
		}
		base, err := ParseURI(uri)
		if err != nil {
			specErr = err
			return
		}
		var walk func(base URI, handle ResourceHandle)
		walk = func(base URI, handle ResourceHandle) {
			if id, ok := handle.id(); ok {
				if resolved, err := Resolve(base, id); err == nil {
					base = resolved
					resources[base.String()] = handle
				}
			}
			for _, a := range handle.anchors() {
				anchors[AnchorKey{URI: base.String(), Name: a.Name}] = Anchor{Name: a.Name, Handle: handle}
			}
			for _, sub := range handle.subresources() {
				walk(base, sub)
			}
		}
		handle := ResourceHandle{draft: draft, contents: doc}
		resources[base.String()] = handle
		walk(base, handle)
	}

	specResourcesCache, specAnchorsCache = resources, anchors
}
