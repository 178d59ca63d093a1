// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"fmt"
	"strings"
	"testing"
)

// S1 -- external ref at top.
func TestRegistryExternalRefAtTop(t *testing.T) {
	calls := 0
	retriever := RetrieverFunc(func(uri string) (any, error) {
		calls++
		if uri != "http://ex/s2" {
			return nil, fmt.Errorf("unexpected retrieve: %s", uri)
		}
		return map[string]any{"type": "object"}, nil
	})

	registry, err := NewRegistryOptions().WithRetriever(retriever).TryNew(
		"http://ex/s1", NewResource(map[string]any{"$ref": "http://ex/s2"}, Draft7))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 retrieve call, got %d", calls)
	}

	resolver := registry.Resolver(mustURI(t, "http://ex/s1"))
	resolved, err := resolver.Lookup("http://ex/s2")
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := resolved.Contents.(map[string]any)
	if !ok || obj["type"] != "object" {
		t.Fatalf("resolved contents = %#v", resolved.Contents)
	}
	if _, ok := registry.lookupResource(mustURI(t, "http://ex/s1")); !ok {
		t.Fatal("s1 missing from resources")
	}
	if _, ok := registry.lookupResource(mustURI(t, "http://ex/s2")); !ok {
		t.Fatal("s2 missing from resources")
	}
}

// S2 -- internal ref, no retriever calls.
func TestRegistryInternalRef(t *testing.T) {
	retriever := RetrieverFunc(func(uri string) (any, error) {
		t.Fatalf("unexpected retrieve: %s", uri)
		return nil, nil
	})
	registry, err := NewRegistryOptions().WithRetriever(retriever).TryNew(
		"http://ex/s1", NewResource(map[string]any{
			"$defs": map[string]any{"x": map[string]any{"type": "string"}},
			"$ref":  "#/$defs/x",
		}, Draft7))
	if err != nil {
		t.Fatal(err)
	}
	resolver := registry.Resolver(mustURI(t, "http://ex/s1"))
	resolved, err := resolver.Lookup("http://ex/s1#/$defs/x")
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := resolved.Contents.(map[string]any)
	if !ok || obj["type"] != "string" {
		t.Fatalf("resolved contents = %#v", resolved.Contents)
	}
}

// S3 -- cyclic chain of six, each pointing to the next, wrapping around.
func TestRegistryCyclicChain(t *testing.T) {
	chain := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	calls := 0
	retriever := RetrieverFunc(func(uri string) (any, error) {
		calls++
		for i, name := range chain {
			if uri == "http://ex/"+name {
				next := chain[(i+1)%len(chain)]
				return map[string]any{"$ref": "http://ex/" + next}, nil
			}
		}
		return nil, fmt.Errorf("unexpected retrieve: %s", uri)
	})

	registry, err := NewRegistryOptions().WithRetriever(retriever).TryNew(
		"http://ex/s1", NewResource(map[string]any{"$ref": "http://ex/s2"}, Draft7))
	if err != nil {
		t.Fatal(err)
	}
	if calls > 6 {
		t.Fatalf("expected at most 6 retriever calls, got %d", calls)
	}
	for _, name := range chain {
		resolver := registry.Resolver(mustURI(t, "http://ex/s1"))
		if _, err := resolver.Lookup("http://ex/" + name); err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
	}
}

// S4 -- duplicate input URIs, last write wins.
func TestRegistryDuplicateInputLastWins(t *testing.T) {
	pairs := []ResourcePair{
		{URI: "http://ex/s1", Resource: NewResource(map[string]any{"properties": map[string]any{"a": true}}, Draft7)},
		{URI: "http://ex/s1", Resource: NewResource(map[string]any{"properties": map[string]any{"b": true}}, Draft7)},
	}
	registry, err := TryRegistryFromResources(pairs)
	if err != nil {
		t.Fatal(err)
	}
	resource, ok := registry.lookupResource(mustURI(t, "http://ex/s1"))
	if !ok {
		t.Fatal("s1 missing from resources")
	}
	obj := resource.Contents().(map[string]any)
	props := obj["properties"].(map[string]any)
	if _, hasA := props["a"]; hasA {
		t.Fatal("expected the first body to have been discarded")
	}
	if _, hasB := props["b"]; !hasB {
		t.Fatal("expected the second body to win")
	}
}

// S5 -- default retriever refuses.
func TestRegistryDefaultRetrieverRefuses(t *testing.T) {
	_, err := TryNewRegistry("http://ex/s1", NewResource(map[string]any{"$ref": "http://ex/s2"}, Draft7))
	if err == nil {
		t.Fatal("expected an Unretrievable error")
	}
	var unretrievable *UnretrievableError
	if e, ok := err.(*UnretrievableError); ok {
		unretrievable = e
	}
	if unretrievable == nil {
		t.Fatalf("expected *UnretrievableError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "Default retriever does not fetch resources") {
		t.Fatalf("error message %q missing expected substring", err.Error())
	}
}

// S7 -- invalid vs. unknown anchor names.
func TestRegistryAnchorErrors(t *testing.T) {
	registry, err := TryNewRegistry("http://ex/s1", NewResource(map[string]any{"$anchor": "foo"}, Draft2020))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := registry.anchor(mustURI(t, "http://ex/s1"), "foo/bar"); err == nil {
		t.Fatal("expected InvalidAnchorError")
	} else if _, ok := err.(*InvalidAnchorError); !ok {
		t.Fatalf("expected *InvalidAnchorError, got %T", err)
	}
	if _, err := registry.anchor(mustURI(t, "http://ex/s1"), "unknown"); err == nil {
		t.Fatal("expected NoSuchAnchorError")
	} else if _, ok := err.(*NoSuchAnchorError); !ok {
		t.Fatalf("expected *NoSuchAnchorError, got %T", err)
	}
}

// S8 -- urn: base skips external collection entirely.
func TestRegistryURNBaseSkipsRetrieval(t *testing.T) {
	retriever := RetrieverFunc(func(uri string) (any, error) {
		t.Fatalf("unexpected retrieve under a urn: base: %s", uri)
		return nil, nil
	})
	_, err := NewRegistryOptions().WithRetriever(retriever).TryNew(
		"urn:example:s", NewResource(map[string]any{"$ref": "http://ex/s2"}, Draft7))
	if err != nil {
		t.Fatal(err)
	}
}

func mustURI(t *testing.T, s string) URI {
	t.Helper()
	u, err := ParseURI(s)
	if err != nil {
		t.Fatalf("ParseURI(%q): %v", s, err)
	}
	return u
}
