// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

// VocabularySet is the set of vocabulary URIs a resource's meta-schema
// declares active, keyed by URI with the declared "required" flag as
// value (spec.md §4.6).
type VocabularySet map[string]bool

// defaultVocabularies is used for drafts that predate "$vocabulary"
// (everything before 2019-09): such drafts have a single implicit,
// fully-required vocabulary.
var defaultVocabularies = map[Draft]VocabularySet{
	Draft4: {"https://json-schema.org/draft-04/vocab": true},
	Draft6: {"https://json-schema.org/draft-06/vocab": true},
	Draft7: {"https://json-schema.org/draft-07/vocab": true},
}

// FindVocabularies determines which vocabularies apply to a resource,
// given its draft, its own "$schema" meta-schema URI (schemaURI, empty
// if absent) and a lookup function resolving a meta-schema URI to its
// decoded contents (typically backed by a [Registry]'s meta-schema
// table plus any user-supplied meta-schemas).
//
// For 2019-09 and 2020-12, the meta-schema's own "$vocabulary" object
// is authoritative. For earlier drafts, lacking the keyword entirely,
// the draft's single built-in vocabulary always applies.
func FindVocabularies(draft Draft, schemaURI string, lookupMeta func(uri string) (any, bool)) VocabularySet {
	if draft < Draft2019 {
		return defaultVocabularies[draft]
	}
	if schemaURI == "" || lookupMeta == nil {
		return nil
	}
	meta, ok := lookupMeta(schemaURI)
	if !ok {
		return nil
	}
	obj, ok := meta.(map[string]any)
	if !ok {
		return nil
	}
	rawVocab, ok := obj["$vocabulary"].(map[string]any)
	if !ok {
		return nil
	}
	set := make(VocabularySet, len(rawVocab))
	for uri, required := range rawVocab {
		b, _ := required.(bool)
		set[uri] = b
	}
	return set
}

// Contains reports whether vs declares vocabulary uri active
// (required or optional).
func (vs VocabularySet) Contains(uri string) bool {
	_, ok := vs[uri]
	return ok
}

// Required reports whether vs declares vocabulary uri as required.
// A vocabulary absent from vs is neither required nor optional.
func (vs VocabularySet) Required(uri string) bool {
	return vs[uri]
}
