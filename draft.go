// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import "strings"

// Draft identifies a JSON Schema specification version.
type Draft int

// Supported drafts, oldest to newest.
const (
	Draft4 Draft = iota
	Draft6
	Draft7
	Draft2019
	Draft2020
)

// DefaultDraft is used when a draft cannot be determined and the
// caller supplied none.
const DefaultDraft = Draft2020

var draftNames = map[Draft]string{
	Draft4:    "draft4",
	Draft6:    "draft6",
	Draft7:    "draft7",
	Draft2019: "draft2019-09",
	Draft2020: "draft2020-12",
}

func (d Draft) String() string {
	if name, ok := draftNames[d]; ok {
		return name
	}
	return "unknown draft"
}

// metaSchemaURIs maps the canonical "$schema" URI of each draft to its
// [Draft] value. For draft6 and draft7 both the historical http:// and
// the https:// forms are recognized, matching real-world schema
// documents that predate json-schema.org's switch to https; draft4 is
// recognized only under http://, 2019-09 and 2020-12 only under https://.
var metaSchemaURIs = map[string]Draft{
	"http://json-schema.org/draft-04/schema#":      Draft4,
	"http://json-schema.org/draft-04/schema":       Draft4,
	"http://json-schema.org/draft-06/schema#":       Draft6,
	"https://json-schema.org/draft-06/schema#":      Draft6,
	"http://json-schema.org/draft-06/schema":        Draft6,
	"https://json-schema.org/draft-06/schema":       Draft6,
	"http://json-schema.org/draft-07/schema#":        Draft7,
	"https://json-schema.org/draft-07/schema#":       Draft7,
	"http://json-schema.org/draft-07/schema":         Draft7,
	"https://json-schema.org/draft-07/schema":        Draft7,
	"https://json-schema.org/draft/2019-09/schema":   Draft2019,
	"https://json-schema.org/draft/2020-12/schema":   Draft2020,
}

// metaSchemaPrefixes are the well-known prefixes spec.md §4.4 and
// §4.5.1 special-case: a "$ref"/"$schema" under one of these is a
// reference to a standard meta-schema (or one of its vocabularies),
// never an external document to retrieve over the network.
var metaSchemaPrefixes = []string{
	"https://json-schema.org/draft/",
	"http://json-schema.org/draft-",
}

func hasMetaSchemaPrefix(s string) bool {
	for _, prefix := range metaSchemaPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// DetectDraft inspects node's "$schema" member, if any, and returns
// the matching [Draft]. If node has no usable "$schema" member, it
// returns fallback with a nil error. If "$schema" names a URI that
// isn't a known draft, it returns an [*UnknownSpecificationError]
// alongside fallback.
func DetectDraft(node any, fallback Draft) (Draft, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return fallback, nil
	}
	raw, ok := obj["$schema"]
	if !ok {
		return fallback, nil
	}
	uri, ok := raw.(string)
	if !ok {
		return fallback, nil
	}
	trimmed := strings.TrimSuffix(uri, "#")
	if draft, ok := metaSchemaURIs[trimmed]; ok {
		return draft, nil
	}
	if draft, ok := metaSchemaURIs[trimmed+"#"]; ok {
		return draft, nil
	}
	return fallback, &UnknownSpecificationError{URI: uri}
}

// idKeyword returns the keyword this draft uses for self-identification:
// "id" pre-draft6, "$id" from draft6 onward.
func (d Draft) idKeyword() string {
	if d == Draft4 {
		return "id"
	}
	return "$id"
}

// IDOf returns node's own identifier keyword value, when node is an
// object whose id keyword holds a string.
func (d Draft) IDOf(node any) (string, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := obj[d.idKeyword()]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	// draft4 overloads "id" with fragment-only anchors, e.g. "#foo";
	// those are anchors (handled in AnchorsOf), not resource ids.
	if d == Draft4 && strings.HasPrefix(s, "#") {
		return "", false
	}
	return s, true
}

// DraftAnchor is a single anchor declaration yielded by [Draft.AnchorsOf].
type DraftAnchor struct {
	Name string
	// Dynamic is true for a draft2020 "$dynamicAnchor".
	Dynamic bool
}

// AnchorsOf yields the anchors node declares directly (not those of
// its subresources).
func (d Draft) AnchorsOf(node any) []DraftAnchor {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	var anchors []DraftAnchor
	if d < Draft2019 {
		// Legacy drafts fold the anchor into the "id"/"$id" fragment,
		// e.g. {"id": "#foo"} or {"$id": "http://x/y#foo"}.
		if _, hasRef := obj["$ref"]; hasRef {
			// "All other properties in a '$ref' object MUST be ignored."
			return nil
		}
		if v, ok := obj[d.idKeyword()].(string); ok {
			if i := strings.IndexByte(v, '#'); i != -1 {
				if name := v[i+1:]; name != "" && !strings.HasPrefix(name, "/") {
					anchors = append(anchors, DraftAnchor{Name: name})
				}
			}
		}
		return anchors
	}
	if v, ok := obj["$anchor"].(string); ok && v != "" {
		anchors = append(anchors, DraftAnchor{Name: v})
	}
	if d >= Draft2020 {
		if v, ok := obj["$dynamicAnchor"].(string); ok && v != "" {
			anchors = append(anchors, DraftAnchor{Name: v, Dynamic: true})
		}
	}
	return anchors
}

// subresourceKeyword describes how to dig subresources out of one
// keyword's value.
type subresourceKeyword struct {
	name string
	kind subresourceKind
}

type subresourceKind int

const (
	kindSchema      subresourceKind = iota // value is itself a schema
	kindSchemaArray                        // value is an array of schemas
	kindSchemaMap                          // value is an object whose values are schemas
	kindItemsField                         // "items": schema (2020) or schema|[]schema (pre-2020)
)

// subresourceKeywords returns the keyword catalog that tells this
// draft's SubresourcesOf which members of an object carry schemas as
// opposed to data (spec.md §4.3: "must not descend into keywords whose
// values are data, not schemas, e.g. enum, const, examples").
func (d Draft) subresourceKeywords() []subresourceKeyword {
	common := []subresourceKeyword{
		{"not", kindSchema},
		{"allOf", kindSchemaArray},
		{"anyOf", kindSchemaArray},
		{"oneOf", kindSchemaArray},
		{"properties", kindSchemaMap},
		{"patternProperties", kindSchemaMap},
		{"additionalProperties", kindSchema},
		{"items", kindItemsField},
		{"contains", kindSchema},
		{"propertyNames", kindSchema},
	}
	switch {
	case d <= Draft7:
		common = append(common,
			subresourceKeyword{"definitions", kindSchemaMap},
			subresourceKeyword{"additionalItems", kindSchema},
			subresourceKeyword{"dependencies", kindSchemaMap}, // schema-valued entries only; data entries are skipped at walk time
		)
		if d >= Draft6 {
			common = append(common,
				subresourceKeyword{"if", kindSchema},
				subresourceKeyword{"then", kindSchema},
				subresourceKeyword{"else", kindSchema},
			)
		}
	default: // 2019-09, 2020-12
		common = append(common,
			subresourceKeyword{"$defs", kindSchemaMap},
			subresourceKeyword{"if", kindSchema},
			subresourceKeyword{"then", kindSchema},
			subresourceKeyword{"else", kindSchema},
			subresourceKeyword{"dependentSchemas", kindSchemaMap},
			subresourceKeyword{"unevaluatedProperties", kindSchema},
			subresourceKeyword{"contentSchema", kindSchema},
		)
		if d == Draft2019 {
			common = append(common, subresourceKeyword{"unevaluatedItems", kindSchema})
		} else {
			common = append(common,
				subresourceKeyword{"prefixItems", kindSchemaArray},
				subresourceKeyword{"unevaluatedItems", kindSchema},
			)
		}
	}
	return common
}

// SubresourcesOf yields the child nodes of node that are themselves
// schemas per this draft's keyword catalog.
func (d Draft) SubresourcesOf(node any) []any {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	var out []any
	for _, kw := range d.subresourceKeywords() {
		v, ok := obj[kw.name]
		if !ok {
			continue
		}
		switch kw.kind {
		case kindSchema:
			out = append(out, v)
		case kindSchemaArray:
			if arr, ok := v.([]any); ok {
				out = append(out, arr...)
			}
		case kindSchemaMap:
			if m, ok := v.(map[string]any); ok {
				for _, sub := range m {
					// "dependencies" may hold either a schema or a
					// string array; only the former is a subresource.
					if kw.name == "dependencies" {
						switch sub.(type) {
						case map[string]any, bool:
							out = append(out, sub)
						}
						continue
					}
					out = append(out, sub)
				}
			}
		case kindItemsField:
			switch items := v.(type) {
			case []any:
				out = append(out, items...) // pre-2020 tuple validation
			default:
				out = append(out, items)
			}
		}
	}
	return out
}
