// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"reflect"
	"testing"
)

func TestDetectDraft(t *testing.T) {
	cases := []struct {
		name    string
		node    any
		want    Draft
		wantErr bool
	}{
		{"no schema", map[string]any{}, DefaultDraft, false},
		{"draft7 https", map[string]any{"$schema": "https://json-schema.org/draft-07/schema#"}, Draft7, false},
		{"draft4 http", map[string]any{"$schema": "http://json-schema.org/draft-04/schema#"}, Draft4, false},
		{"draft2020", map[string]any{"$schema": "https://json-schema.org/draft/2020-12/schema"}, Draft2020, false},
		{"unknown", map[string]any{"$schema": "https://example.com/my-schema"}, DefaultDraft, true},
		{"not an object", "scalar", DefaultDraft, false},
	}
	for _, c := range cases {
		got, err := DetectDraft(c.node, DefaultDraft)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", c.name, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("%s: draft = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDraftIDOf(t *testing.T) {
	if id, ok := Draft4.IDOf(map[string]any{"id": "http://example.com/a"}); !ok || id != "http://example.com/a" {
		t.Fatalf("draft4 id = %q, %v", id, ok)
	}
	if _, ok := Draft4.IDOf(map[string]any{"id": "#fragment-only"}); ok {
		t.Fatal("draft4 fragment-only id should not be treated as a resource id")
	}
	if id, ok := Draft2020.IDOf(map[string]any{"$id": "http://example.com/b"}); !ok || id != "http://example.com/b" {
		t.Fatalf("draft2020 id = %q, %v", id, ok)
	}
}

func TestDraftAnchorsOf(t *testing.T) {
	legacy := Draft7.AnchorsOf(map[string]any{"$id": "http://example.com/a#frag"})
	if len(legacy) != 1 || legacy[0].Name != "frag" {
		t.Fatalf("legacy anchors = %+v", legacy)
	}

	withRef := Draft7.AnchorsOf(map[string]any{"$id": "http://example.com/a#frag", "$ref": "other.json"})
	if len(withRef) != 0 {
		t.Fatalf("anchors with $ref sibling should be ignored, got %+v", withRef)
	}

	modern := Draft2020.AnchorsOf(map[string]any{"$anchor": "foo", "$dynamicAnchor": "bar"})
	if len(modern) != 2 {
		t.Fatalf("modern anchors = %+v", modern)
	}
	if !modern[1].Dynamic {
		t.Fatalf("expected second anchor to be dynamic: %+v", modern[1])
	}
}

func TestDraftSubresourcesOf(t *testing.T) {
	node := map[string]any{
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
		"items": []any{
			map[string]any{"type": "number"},
			map[string]any{"type": "boolean"},
		},
		"enum": []any{"not", "a", "subresource"},
	}
	subs := Draft7.SubresourcesOf(node)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subresources (1 property + 2 tuple items), got %d: %+v", len(subs), subs)
	}
	for _, s := range subs {
		if _, ok := s.(map[string]any); !ok {
			t.Fatalf("subresource not an object: %#v", s)
		}
	}

	node2020 := map[string]any{
		"items": map[string]any{"type": "string"},
	}
	subs2020 := Draft2020.SubresourcesOf(node2020)
	if len(subs2020) != 1 || !reflect.DeepEqual(subs2020[0], map[string]any{"type": "string"}) {
		t.Fatalf("2020 single-schema items subresource = %+v", subs2020)
	}
}
