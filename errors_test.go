// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&InvalidURIError{Input: "::bad", Detail: "empty scheme"}, `invalid URI reference "::bad": empty scheme`},
		{&UnknownSpecificationError{URI: "https://example.com/x"}, `unknown specification: "https://example.com/x"`},
		{&InvalidAnchorError{Name: "a/b"}, `invalid anchor "a/b": anchors cannot contain '/'`},
		{&NoSuchAnchorError{Name: "missing"}, `no such anchor "missing"`},
		{&PointerMissError{URI: "https://example.com/x", Fragment: "/a/b"}, `invalid anchor or pointer "/a/b" in "https://example.com/x"`},
		{&InvalidSchemaError{Detail: "id must be a string"}, `invalid schema: id must be a string`},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}

func TestUnretrievableErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &UnretrievableError{URI: "https://example.com/x", Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("UnretrievableError should unwrap to its cause")
	}
}

func TestDefaultRetrieverRefuses(t *testing.T) {
	_, err := DefaultRetriever.Retrieve("https://example.com/x")
	if err == nil {
		t.Fatal("DefaultRetriever should refuse every request")
	}
}

func TestUnresolvableErrorMessage(t *testing.T) {
	err := &UnresolvableError{URI: "https://example.com/x"}
	const want = `resource "https://example.com/x" is not present in a registry and retrieving it failed: retrieving external resources is not supported once the registry is populated`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
