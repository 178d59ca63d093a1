// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"runtime"
	"testing"
)

func TestPathToURIUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path semantics only")
	}
	got, err := PathToURI("/home/user/schemas/a b#c.json")
	if err != nil {
		t.Fatal(err)
	}
	want := "file:///home/user/schemas/a%20b%23c.json"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPathToURIRejectsRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path semantics only")
	}
	if _, err := PathToURI("relative/path.json"); err == nil {
		t.Fatal("expected an error for a relative path")
	}
}
